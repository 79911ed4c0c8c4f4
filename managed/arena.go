// Package managed implements the handle-addressed heap that backs every
// large value a contract manipulates: big integers, big floats, byte
// buffers, managed maps and packed managed vectors.
//
// Handles come from a single counter shared by all kinds and are never
// reissued within one arena. A handle is valid only for the kind it was
// allocated as.
package managed

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	ErrInvalidHandle       = errors.New("invalid handle")
	ErrBitwiseNegative     = errors.New("bitwise operations only allowed on positive integers")
	ErrDivisionByZero      = errors.New("division by 0")
	ErrOutOfRange          = errors.New("value out of range")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrBadBoundsLower      = errors.New("bad bounds (lower)")
	ErrSliceOutOfRange     = errors.New("byte slice out of range")
	ErrMaxBufferLength     = errors.New("managed buffer too large")
	ErrMalformedBuffer     = errors.New("malformed managed buffer")
	ErrBigFloatInfinite    = errors.New("big float is infinite")
	ErrHandleSpaceExceeded = errors.New("managed handle space exhausted")
)

// Handle names a value stored in the arena.
type Handle int32

// Config bounds the arena.
type Config struct {
	// MaxBufferLength caps every byte buffer.
	MaxBufferLength int
	// BigFloatPrecision is the mantissa precision in bits of every big float.
	BigFloatPrecision uint
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxBufferLength:   1 << 20,
		BigFloatPrecision: 53,
	}
}

// Arena is the per-invocation managed heap. It is owned by a single
// invocation and is not safe for concurrent use.
type Arena struct {
	config     Config
	lastHandle Handle

	bigInts   map[Handle]*big.Int
	bigFloats map[Handle]*big.Float
	buffers   map[Handle][]byte
	maps      map[Handle]map[string][]byte
}

// NewArena creates an empty arena.
func NewArena(config Config) *Arena {
	if config.MaxBufferLength <= 0 {
		config.MaxBufferLength = DefaultConfig().MaxBufferLength
	}
	if config.BigFloatPrecision == 0 {
		config.BigFloatPrecision = DefaultConfig().BigFloatPrecision
	}
	return &Arena{
		config:    config,
		bigInts:   make(map[Handle]*big.Int),
		bigFloats: make(map[Handle]*big.Float),
		buffers:   make(map[Handle][]byte),
		maps:      make(map[Handle]map[string][]byte),
	}
}

// Config returns the arena limits.
func (a *Arena) Config() Config {
	return a.config
}

// LastHandle returns the most recently allocated handle, 0 if none.
func (a *Arena) LastHandle() Handle {
	return a.lastHandle
}

func (a *Arena) nextHandle() (Handle, error) {
	if a.lastHandle == math.MaxInt32 {
		return 0, ErrHandleSpaceExceeded
	}
	a.lastHandle++
	return a.lastHandle, nil
}

func invalidHandle(kind string, h Handle) error {
	return fmt.Errorf("%w: no %s under handle %d", ErrInvalidHandle, kind, h)
}
