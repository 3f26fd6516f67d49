// Package db defines the key-value storage the checker caches lookups in.
package db

import (
	"bytes"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Keys of different groups share one keyspace, told apart by a one byte prefix.
const (
	ClassVerdict byte = 1 // class hash -> whether the class is an account
)

// Key flattens a prefix and series of byte arrays into a single []byte
func Key(prefix byte, key ...[]byte) []byte {
	return append([]byte{prefix}, bytes.Join(key, []byte{})...)
}

type KeyValueStore interface {
	// Get calls cb with the value stored under key. The value is only valid
	// for the duration of cb. Missing keys return ErrKeyNotFound.
	Get(key []byte, cb func([]byte) error) error
	Put(key, val []byte) error
	Close() error
}
