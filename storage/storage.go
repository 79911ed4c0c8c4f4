// Package storage is the keyed storage path of the running contract.
package storage

import (
	"bytes"
	"errors"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

// DefaultReservedPrefix marks keys only the runtime may write.
const DefaultReservedPrefix = "ELROND"

var ErrReservedKey = errors.New("cannot write to storage under reserved key")

// Layer reads and writes the storage of one account through a cache.
type Layer struct {
	cache    *state.Cache
	address  types.Address
	reserved []byte
}

// NewLayer binds the storage of address. An empty prefix selects the default.
func NewLayer(cache *state.Cache, address types.Address, reservedPrefix []byte) *Layer {
	if len(reservedPrefix) == 0 {
		reservedPrefix = []byte(DefaultReservedPrefix)
	}
	return &Layer{cache: cache, address: address, reserved: reservedPrefix}
}

func (l *Layer) Address() types.Address {
	return l.address
}

// IsReserved reports whether key falls under the reserved prefix.
func (l *Layer) IsReserved(key []byte) bool {
	return bytes.HasPrefix(key, l.reserved)
}

// Read returns the value under key; a missing key reads as empty.
func (l *Layer) Read(key []byte) ([]byte, error) {
	return l.cache.GetStorage(l.address, key)
}

// ReadFromAddress reads the storage of another account.
func (l *Layer) ReadFromAddress(addr types.Address, key []byte) ([]byte, error) {
	return l.cache.GetStorage(addr, key)
}

// Len returns the length of the value under key.
func (l *Layer) Len(key []byte) (int, error) {
	v, err := l.Read(key)
	return len(v), err
}

// Write stores value under key on behalf of the contract. Writing an empty
// value deletes the key.
func (l *Layer) Write(key, value []byte) (Status, error) {
	if l.IsReserved(key) {
		return Unchanged, ErrReservedKey
	}
	return l.write(key, value)
}

// WriteProtected stores value without the reserved-prefix check. Only the
// runtime and built-in functions use it.
func (l *Layer) WriteProtected(key, value []byte) (Status, error) {
	return l.write(key, value)
}

func (l *Layer) write(key, value []byte) (Status, error) {
	old, err := l.Read(key)
	if err != nil {
		return Unchanged, err
	}
	status := statusOf(old, value)
	if status == Unchanged {
		return status, nil
	}
	if err := l.cache.SetStorage(l.address, key, value); err != nil {
		return Unchanged, err
	}
	return status, nil
}

// Status describes the effect of a write.
type Status int

const (
	Unchanged Status = iota
	Added
	Modified
	Deleted
)

func statusOf(old, value []byte) Status {
	switch {
	case bytes.Equal(old, value):
		return Unchanged
	case len(old) == 0:
		return Added
	case len(value) == 0:
		return Deleted
	default:
		return Modified
	}
}
