// Package address validates and normalises the textual form of Starknet
// contract addresses.
package address

import (
	"errors"
	"math/big"
	"regexp"

	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

const (
	// CanonicalLength is the length of "0x" followed by 64 hex digits.
	CanonicalLength = 66
	paddableLength  = CanonicalLength - 1
)

var (
	ErrInvalidFormat = errors.New("address does not match Starknet format")
	ErrZeroAddress   = errors.New("zero address")

	canonicalPattern = regexp.MustCompile(`^0x0[0-9a-fA-F]{63}$`)
	paddablePattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{63}$`)
)

// Validate reports whether raw is a well formed, non-zero Starknet address.
// A 65 character address missing its leading zero nibble is padded to the
// canonical 66 character form. On failure raw is returned unchanged.
func Validate(raw string) (string, bool) {
	normalised, ok := normalise(raw)
	if !ok {
		return raw, false
	}

	f, ok := toFelt(normalised)
	if !ok || f.IsZero() {
		return raw, false
	}
	return normalised, true
}

// Parse validates raw and returns the address as a felt together with its
// normalised text form.
func Parse(raw string) (*felt.Address, string, error) {
	normalised, ok := normalise(raw)
	if !ok {
		return nil, raw, ErrInvalidFormat
	}

	f, ok := toFelt(normalised)
	if !ok {
		return nil, raw, ErrInvalidFormat
	}
	if f.IsZero() {
		return nil, raw, ErrZeroAddress
	}
	return (*felt.Address)(f), normalised, nil
}

func normalise(raw string) (string, bool) {
	switch len(raw) {
	case CanonicalLength:
		return raw, canonicalPattern.MatchString(raw)
	case paddableLength:
		if !paddablePattern.MatchString(raw) {
			return raw, false
		}
		padded := raw[:2] + "0" + raw[2:]
		return padded, canonicalPattern.MatchString(padded)
	default:
		return raw, false
	}
}

// toFelt rejects values outside the field instead of reducing them.
func toFelt(normalised string) (*felt.Felt, bool) {
	v, ok := new(big.Int).SetString(normalised[2:], 16)
	if !ok || v.Cmp(fp.Modulus()) >= 0 {
		return nil, false
	}
	f, err := felt.NewFromString(normalised)
	return f, err == nil
}
