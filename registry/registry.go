// Package registry holds the class hashes of well known account
// implementations.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/NethermindEth/accountcheck/core/felt"
)

const (
	Argent       = "ARGENT"
	Braavos      = "BRAAVOS"
	OpenZeppelin = "OPENZEPPELIN"
)

var (
	ErrInvalidClassHash = errors.New("invalid class hash")
	ErrDuplicateEntry   = errors.New("class hash registered twice")
)

var builtin = map[string]string{
	Argent:       "0x01a736d6ed154502257f02b1ccdf4d9d1089f80811cd6acad48e6b6a9d1f2003",
	Braavos:      "0x03131fa018d520a037686ce3efddeab8f28895662f019ca3ca18a626650f7d1e",
	OpenZeppelin: "0x058d97f7d76e78f44905cc30cb65b91ea49a4b908a76703c54197bca90f81773",
}

type Entry struct {
	Vendor    string
	ClassHash *felt.ClassHash
}

// Registry maps class hashes to wallet vendors. It is never modified after
// construction and is safe for concurrent use.
type Registry struct {
	vendors map[string]string // canonical class hash -> vendor
	entries []Entry
}

// Default returns a registry of the built-in wallet implementations.
func Default() *Registry {
	r, err := New(nil)
	if err != nil {
		// Should not happen.
		panic(err)
	}
	return r
}

// New returns a registry of the built-in wallet implementations extended with
// extra, a vendor name to class hash mapping. Vendor names are upper-cased.
func New(extra map[string]string) (*Registry, error) {
	r := &Registry{vendors: make(map[string]string, len(builtin)+len(extra))}

	for vendor, hash := range builtin {
		if err := r.add(vendor, hash); err != nil {
			return nil, err
		}
	}
	for vendor, hash := range extra {
		vendor = strings.ToUpper(vendor)
		if builtin[vendor] == hash {
			continue
		}
		if err := r.add(vendor, hash); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(r.entries, func(a, b Entry) int {
		return strings.Compare(a.Vendor, b.Vendor)
	})
	return r, nil
}

func (r *Registry) add(vendor, hash string) error {
	f, err := felt.NewFromString(hash)
	if err != nil || f.IsZero() {
		return fmt.Errorf("%w for %s: %q", ErrInvalidClassHash, vendor, hash)
	}

	classHash := (*felt.ClassHash)(f)
	key := classHash.Canonical()
	if existing, ok := r.vendors[key]; ok {
		return fmt.Errorf("%w: %s is both %s and %s", ErrDuplicateEntry, classHash, existing, vendor)
	}

	r.vendors[key] = vendor
	r.entries = append(r.entries, Entry{Vendor: vendor, ClassHash: classHash})
	return nil
}

// Lookup returns the vendor of the wallet implementation with the given class hash.
func (r *Registry) Lookup(classHash *felt.ClassHash) (string, bool) {
	if classHash == nil {
		return "", false
	}
	vendor, ok := r.vendors[classHash.Canonical()]
	return vendor, ok
}

// Entries returns the registered implementations ordered by vendor.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Vendors returns the distinct registered vendor names in order.
func (r *Registry) Vendors() []string {
	vendors := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		vendors = append(vendors, e.Vendor)
	}
	return slices.Compact(vendors)
}
