package managed

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArena() *Arena {
	return NewArena(DefaultConfig())
}

func mustBigInt(t *testing.T, a *Arena, v int64) Handle {
	t.Helper()
	h, err := a.NewBigIntFromInt64(v)
	require.NoError(t, err)
	return h
}

func bigIntValue(t *testing.T, a *Arena, h Handle) int64 {
	t.Helper()
	v, ok, err := a.BigIntToInt64(h)
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func TestHandlesStrictlyIncrease(t *testing.T) {
	a := newTestArena()
	h1 := mustBigInt(t, a, 1)
	h2, err := a.NewBuffer([]byte("x"))
	require.NoError(t, err)
	h3, err := a.NewMap()
	require.NoError(t, err)
	f, err := a.NewBigFloatFromFrac(1, 2)
	require.NoError(t, err)

	assert.Equal(t, Handle(1), h1)
	assert.Less(t, h1, h2)
	assert.Less(t, h2, h3)
	assert.Less(t, h3, f)
	assert.Equal(t, f, a.LastHandle())
}

func TestInvalidHandle(t *testing.T) {
	a := newTestArena()
	buf, err := a.NewBuffer(nil)
	require.NoError(t, err)

	_, _, err = a.BigIntToInt64(buf)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = a.BufferLen(99)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	x := mustBigInt(t, a, 3)
	assert.ErrorIs(t, a.BigIntAdd(buf, x, x), ErrInvalidHandle)
	assert.ErrorIs(t, a.BigIntAdd(x, x, 1000), ErrInvalidHandle)
}

func TestBitwiseNegativeRejected(t *testing.T) {
	a := newTestArena()
	neg := mustBigInt(t, a, -1)
	one := mustBigInt(t, a, 1)
	dst := mustBigInt(t, a, 0)

	err := a.BigIntAnd(dst, neg, one)
	require.ErrorIs(t, err, ErrBitwiseNegative)
	assert.Equal(t, "bitwise operations only allowed on positive integers", err.Error())

	assert.ErrorIs(t, a.BigIntOr(dst, one, neg), ErrBitwiseNegative)
	assert.ErrorIs(t, a.BigIntXor(dst, neg, neg), ErrBitwiseNegative)
	assert.ErrorIs(t, a.BigIntShl(dst, neg, 0), ErrBitwiseNegative)
	assert.ErrorIs(t, a.BigIntShr(dst, neg, 3), ErrBitwiseNegative)
	assert.ErrorIs(t, a.BigIntSqrt(dst, neg), ErrBitwiseNegative)
	assert.Equal(t, int64(0), bigIntValue(t, a, dst))
}

func TestBitwise(t *testing.T) {
	a := newTestArena()
	x := mustBigInt(t, a, 0b1100)
	y := mustBigInt(t, a, 0b1010)
	dst := mustBigInt(t, a, 0)

	require.NoError(t, a.BigIntAnd(dst, x, y))
	assert.Equal(t, int64(0b1000), bigIntValue(t, a, dst))
	require.NoError(t, a.BigIntOr(dst, x, y))
	assert.Equal(t, int64(0b1110), bigIntValue(t, a, dst))
	require.NoError(t, a.BigIntXor(dst, x, y))
	assert.Equal(t, int64(0b0110), bigIntValue(t, a, dst))
	require.NoError(t, a.BigIntShl(dst, x, 4))
	assert.Equal(t, int64(0b11000000), bigIntValue(t, a, dst))
	require.NoError(t, a.BigIntShr(dst, x, 2))
	assert.Equal(t, int64(0b11), bigIntValue(t, a, dst))
	require.NoError(t, a.BigIntShl(dst, x, 0))
	assert.Equal(t, int64(0b1100), bigIntValue(t, a, dst))
}

func TestCmpAntisymmetricAndNegation(t *testing.T) {
	a := newTestArena()
	values := []int64{math.MinInt64, -7, -1, 0, 1, 42, math.MaxInt64}
	for _, x := range values {
		for _, y := range values {
			hx, hy := mustBigInt(t, a, x), mustBigInt(t, a, y)
			c1, err := a.BigIntCmp(hx, hy)
			require.NoError(t, err)
			c2, err := a.BigIntCmp(hy, hx)
			require.NoError(t, err)
			assert.Equal(t, -c1, c2)
		}

		h := mustBigInt(t, a, x)
		neg := mustBigInt(t, a, 0)
		require.NoError(t, a.BigIntNeg(neg, h))
		sum := mustBigInt(t, a, 5)
		require.NoError(t, a.BigIntAdd(sum, h, neg))
		sign, err := a.BigIntSign(sum)
		require.NoError(t, err)
		assert.Zero(t, sign)
	}
}

func TestInt64RoundTrip(t *testing.T) {
	a := newTestArena()
	for _, v := range []int64{math.MinInt64, -1, 0, 1, math.MaxInt64} {
		assert.Equal(t, v, bigIntValue(t, a, mustBigInt(t, a, v)))
	}

	h := mustBigInt(t, a, math.MaxInt64)
	one := mustBigInt(t, a, 1)
	require.NoError(t, a.BigIntAdd(h, h, one))
	_, ok, err := a.BigIntToInt64(h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestByteRoundTrips(t *testing.T) {
	a := newTestArena()
	for _, v := range []int64{math.MinInt64, -129, -128, -1, 0, 127, 128, 255, 256, math.MaxInt64} {
		h := mustBigInt(t, a, v)
		signed, err := a.BigIntSignedBytes(h)
		require.NoError(t, err)
		out := mustBigInt(t, a, 0)
		require.NoError(t, a.BigIntSetSignedBytes(out, signed))
		assert.Equal(t, v, bigIntValue(t, a, out))

		abs := mustBigInt(t, a, 0)
		require.NoError(t, a.BigIntAbs(abs, h))
		unsigned, err := a.BigIntUnsignedBytes(abs)
		require.NoError(t, err)
		require.NoError(t, a.BigIntSetUnsignedBytes(out, unsigned))
		c, err := a.BigIntCmp(out, abs)
		require.NoError(t, err)
		assert.Zero(t, c)
	}
}

func TestSignedEncoding(t *testing.T) {
	cases := []struct {
		value int64
		bytes []byte
	}{
		{0, []byte{}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x00, 0x80}},
		{-1, []byte{0xff}},
		{-128, []byte{0x80}},
		{-129, []byte{0xff, 0x7f}},
		{-256, []byte{0xff, 0x00}},
	}
	for _, c := range cases {
		assert.Equal(t, c.bytes, ToSignedBytes(big.NewInt(c.value)), "encode %d", c.value)
		assert.Equal(t, c.value, FromSignedBytes(c.bytes).Int64(), "decode %d", c.value)
	}
}

func TestTruncatedDivision(t *testing.T) {
	a := newTestArena()
	cases := []struct{ x, y, q, r int64 }{
		{7, 2, 3, 1},
		{-7, 2, -3, -1},
		{7, -2, -3, 1},
		{-7, -2, 3, -1},
	}
	for _, c := range cases {
		hx, hy := mustBigInt(t, a, c.x), mustBigInt(t, a, c.y)
		q, r := mustBigInt(t, a, 0), mustBigInt(t, a, 0)
		require.NoError(t, a.BigIntTDiv(q, hx, hy))
		require.NoError(t, a.BigIntTMod(r, hx, hy))
		assert.Equal(t, c.q, bigIntValue(t, a, q))
		assert.Equal(t, c.r, bigIntValue(t, a, r))
	}

	zero := mustBigInt(t, a, 0)
	dst := mustBigInt(t, a, 11)
	assert.ErrorIs(t, a.BigIntTDiv(dst, dst, zero), ErrDivisionByZero)
	assert.ErrorIs(t, a.BigIntTMod(dst, dst, zero), ErrDivisionByZero)
	assert.Equal(t, int64(11), bigIntValue(t, a, dst))
}

func TestPowLog2Sqrt(t *testing.T) {
	a := newTestArena()
	dst := mustBigInt(t, a, 0)

	require.NoError(t, a.BigIntPow(dst, mustBigInt(t, a, 3), mustBigInt(t, a, 4)))
	assert.Equal(t, int64(81), bigIntValue(t, a, dst))
	assert.ErrorIs(t, a.BigIntPow(dst, mustBigInt(t, a, 2), mustBigInt(t, a, -1)), ErrArithmeticOverflow)
	assert.ErrorIs(t, a.BigIntPow(dst, mustBigInt(t, a, 2), mustBigInt(t, a, math.MaxUint32+1)), ErrArithmeticOverflow)

	l, err := a.BigIntLog2(mustBigInt(t, a, 1024))
	require.NoError(t, err)
	assert.Equal(t, int32(10), l)
	l, err = a.BigIntLog2(mustBigInt(t, a, 1025))
	require.NoError(t, err)
	assert.Equal(t, int32(10), l)
	_, err = a.BigIntLog2(mustBigInt(t, a, 0))
	assert.ErrorIs(t, err, ErrBadBoundsLower)

	require.NoError(t, a.BigIntSqrt(dst, mustBigInt(t, a, 99)))
	assert.Equal(t, int64(9), bigIntValue(t, a, dst))
}

func TestOperandsAreNotAliased(t *testing.T) {
	a := newTestArena()
	x := mustBigInt(t, a, 6)
	require.NoError(t, a.BigIntMul(x, x, x))
	assert.Equal(t, int64(36), bigIntValue(t, a, x))

	clone, err := a.BigIntClone(x)
	require.NoError(t, err)
	require.NoError(t, a.BigIntSetInt64(x, 1))
	assert.Equal(t, int64(36), bigIntValue(t, a, clone))

	s, err := a.BigIntString(clone)
	require.NoError(t, err)
	assert.Equal(t, "36", s)
}

func TestPowAndShlResultLimits(t *testing.T) {
	a := NewArena(Config{MaxBufferLength: 32, BigFloatPrecision: 53})
	dst := mustBigInt(t, a, 0)
	two := mustBigInt(t, a, 2)
	one := mustBigInt(t, a, 1)

	n, err := a.BigIntPowLength(two, mustBigInt(t, a, 100))
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	require.NoError(t, a.BigIntPow(dst, two, mustBigInt(t, a, 100)))

	_, err = a.BigIntPowLength(two, mustBigInt(t, a, 1<<28))
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
	assert.ErrorIs(t, a.BigIntPow(dst, two, mustBigInt(t, a, 1<<28)), ErrArithmeticOverflow)

	require.NoError(t, a.BigIntPow(dst, one, mustBigInt(t, a, math.MaxUint32)))
	assert.Equal(t, int64(1), bigIntValue(t, a, dst))

	n, err = a.BigIntShlLength(one, 64)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.NoError(t, a.BigIntShl(dst, one, 64))

	_, err = a.BigIntShlLength(one, 1<<31)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
	assert.ErrorIs(t, a.BigIntShl(dst, one, 1<<31), ErrArithmeticOverflow)
	assert.ErrorIs(t, a.BigIntShl(dst, one, 256), ErrArithmeticOverflow)

	zero := mustBigInt(t, a, 0)
	require.NoError(t, a.BigIntShl(dst, zero, 1<<31))
	assert.Zero(t, bigIntValue(t, a, dst))
}
