package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func validateFelt(fl validator.FieldLevel) bool {
	raw, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := felt.NewFromString(raw)
	return err == nil
}

// The zero network is accepted and means the default one.
func validateNetwork(fl validator.FieldLevel) bool {
	n, ok := fl.Field().Interface().(int)
	return ok && n >= 0 && n <= int(utils.Custom)
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("felt", validateFelt); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		if err := v.RegisterValidation("network", validateNetwork); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch f := field.Interface().(type) {
			case felt.Felt:
				return f.String()
			case *felt.Felt:
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{}, &felt.Felt{})
		// Network.String panics on unknown values, so validate the raw value.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if n, ok := field.Interface().(utils.Network); ok {
				return int(n)
			}
			panic("not a network")
		}, utils.Network(0))
	})
	return v
}
