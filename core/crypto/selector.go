// Package crypto derives Starknet entry point selectors.
package crypto

import (
	"github.com/NethermindEth/accountcheck/core/felt"
	"golang.org/x/crypto/sha3"
)

// StarknetKeccak is keccak256 truncated to the low 250 bits, see
// https://docs.starknet.io/architecture-and-concepts/cryptography/hash-functions/#starknet_keccak
func StarknetKeccak(b []byte) (*felt.Felt, error) {
	h := sha3.NewLegacyKeccak256()
	if _, err := h.Write(b); err != nil {
		return nil, err
	}
	digest := h.Sum(nil)
	digest[0] &= 0x03
	return new(felt.Felt).SetBytes(digest), nil
}

// SelectorFromName returns the entry point selector of the function with the given name.
func SelectorFromName(name string) (*felt.Felt, error) {
	return StarknetKeccak([]byte(name))
}

// MustSelectorFromName is like SelectorFromName but panics on error.
func MustSelectorFromName(name string) *felt.Felt {
	selector, err := SelectorFromName(name)
	if err != nil {
		panic(err)
	}
	return selector
}
