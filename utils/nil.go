package utils

import "reflect"

// IsNil reports whether i is nil or an interface holding a nil pointer, map,
// slice, channel or function. A typed nil stored in an interface does not
// compare equal to nil.
func IsNil(i any) bool {
	if i == nil {
		return true
	}

	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
