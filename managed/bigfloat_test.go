package managed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigFloatConstruction(t *testing.T) {
	a := newTestArena()

	h, err := a.NewBigFloatFromParts(3, 25, -2)
	require.NoError(t, err)
	v, _ := a.GetBigFloat(h)
	f, _ := v.Float64()
	assert.InDelta(t, 3.25, f, 1e-12)

	h, err = a.NewBigFloatFromParts(-3, 5, -1)
	require.NoError(t, err)
	v, _ = a.GetBigFloat(h)
	f, _ = v.Float64()
	assert.InDelta(t, -3.5, f, 1e-12)

	_, err = a.NewBigFloatFromParts(1, 1, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	h, err = a.NewBigFloatFromSci(15, -1)
	require.NoError(t, err)
	v, _ = a.GetBigFloat(h)
	f, _ = v.Float64()
	assert.InDelta(t, 1.5, f, 1e-12)

	_, err = a.NewBigFloatFromSci(1, 400)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = a.NewBigFloatFromFrac(1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestBigFloatArithmetic(t *testing.T) {
	a := newTestArena()
	x, _ := a.NewBigFloatFromFrac(7, 2)
	y, _ := a.NewBigFloatFromFrac(1, 2)
	dst, _ := a.NewBigFloatFromFrac(0, 1)

	require.NoError(t, a.BigFloatAdd(dst, x, y))
	c, err := a.BigFloatCmp(dst, mustFloat(t, a, 4))
	require.NoError(t, err)
	assert.Zero(t, c)

	require.NoError(t, a.BigFloatDiv(dst, x, y))
	c, _ = a.BigFloatCmp(dst, mustFloat(t, a, 7))
	assert.Zero(t, c)

	zero := mustFloat(t, a, 0)
	assert.ErrorIs(t, a.BigFloatDiv(dst, x, zero), ErrDivisionByZero)

	require.NoError(t, a.BigFloatNeg(dst, x))
	sign, _ := a.BigFloatSign(dst)
	assert.Equal(t, -1, sign)
	assert.ErrorIs(t, a.BigFloatSqrt(dst, dst), ErrBadBoundsLower)

	require.NoError(t, a.BigFloatPow(dst, mustFloat(t, a, 3), 3))
	c, _ = a.BigFloatCmp(dst, mustFloat(t, a, 27))
	assert.Zero(t, c)
	isInt, _ := a.BigFloatIsInt(dst)
	assert.True(t, isInt)
}

func TestBigFloatRounding(t *testing.T) {
	a := newTestArena()
	neg, _ := a.NewBigFloatFromFrac(-7, 2)
	pos, _ := a.NewBigFloatFromFrac(7, 2)
	out := mustBigInt(t, a, 0)

	cases := []struct {
		name string
		op   func(Handle, Handle) error
		h    Handle
		want int64
	}{
		{"floor neg", a.BigFloatFloor, neg, -4},
		{"ceil neg", a.BigFloatCeil, neg, -3},
		{"trunc neg", a.BigFloatTruncate, neg, -3},
		{"floor pos", a.BigFloatFloor, pos, 3},
		{"ceil pos", a.BigFloatCeil, pos, 4},
		{"trunc pos", a.BigFloatTruncate, pos, 3},
	}
	for _, c := range cases {
		require.NoError(t, c.op(out, c.h), c.name)
		assert.Equal(t, c.want, bigIntValue(t, a, out), c.name)
	}
}

func TestBigFloatBufferRoundTrip(t *testing.T) {
	a := newTestArena()
	x, _ := a.NewBigFloatFromFrac(1, 3)
	buf, _ := a.NewBuffer(nil)
	require.NoError(t, a.BufferFromBigFloat(buf, x))

	y := mustFloat(t, a, 0)
	require.NoError(t, a.BufferToBigFloat(buf, y))
	c, err := a.BigFloatCmp(x, y)
	require.NoError(t, err)
	assert.Zero(t, c)

	require.NoError(t, a.SetBuffer(buf, []byte{0xff}))
	assert.ErrorIs(t, a.BufferToBigFloat(buf, y), ErrMalformedBuffer)
}

func mustFloat(t *testing.T, a *Arena, v int64) Handle {
	t.Helper()
	h, err := a.NewBigFloatFromFrac(v, 1)
	require.NoError(t, err)
	return h
}
