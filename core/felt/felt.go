// Package felt wraps the Stark field element used for addresses and class hashes.
package felt

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

type Felt struct {
	val fp.Element
}

var Zero = Felt{}

var errTooLarge = errors.New("felt: value too large")

// UnmarshalJSON accepts quoted strings and bare numbers in any prefix
// understood by fp.Element.SetString (0x, 0b, 0o or decimal). Unprefixed
// strings that are not decimal are read as hex.
func (z *Felt) UnmarshalJSON(data []byte) error {
	if len(data) > fp.Bits*3 {
		return errTooLarge
	}

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	if _, err := z.val.SetString(s); err != nil {
		if _, hexErr := z.val.SetString("0x" + s); hexErr != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the felt as a quoted short hex string
func (z *Felt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(z.String())), nil
}

func (z *Felt) SetBytes(e []byte) *Felt {
	z.val.SetBytes(e)
	return z
}

func (z *Felt) SetString(number string) (*Felt, error) {
	_, err := z.val.SetString(number)
	return z, err
}

func (z *Felt) SetUint64(v uint64) *Felt {
	z.val.SetUint64(v)
	return z
}

// String returns the hex representation of the felt without leading zeros
func (z *Felt) String() string {
	return "0x" + z.val.Text(16)
}

// Canonical returns the 0x-prefixed, 64 hex digit representation of the felt
func (z *Felt) Canonical() string {
	b := z.val.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}

func (z *Felt) Equal(x *Felt) bool {
	return z.val.Equal(&x.val)
}

// Bytes returns the big-endian encoding of the felt
func (z *Felt) Bytes() [32]byte {
	return z.val.Bytes()
}

func (z *Felt) IsZero() bool {
	return z.val.IsZero()
}

func NewFromString(s string) (*Felt, error) {
	return new(Felt).SetString(s)
}

// NewUnsafeFromString is like NewFromString but panics on error. Intended for
// constants and tests.
func NewUnsafeFromString(s string) *Felt {
	f, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}
