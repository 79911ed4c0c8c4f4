package managed

import (
	"fmt"
	"math"
	"math/big"
)

// NewBigInt stores a copy of v and returns its handle.
func (a *Arena) NewBigInt(v *big.Int) (Handle, error) {
	h, err := a.nextHandle()
	if err != nil {
		return 0, err
	}
	a.bigInts[h] = new(big.Int).Set(v)
	return h, nil
}

// NewBigIntFromInt64 allocates a big integer holding v.
func (a *Arena) NewBigIntFromInt64(v int64) (Handle, error) {
	return a.NewBigInt(big.NewInt(v))
}

// GetBigInt returns the stored value. Callers must not mutate it.
func (a *Arena) GetBigInt(h Handle) (*big.Int, error) {
	v, ok := a.bigInts[h]
	if !ok {
		return nil, invalidHandle("big int", h)
	}
	return v, nil
}

// SetBigInt stores a copy of v under an existing handle.
func (a *Arena) SetBigInt(h Handle, v *big.Int) error {
	if _, ok := a.bigInts[h]; !ok {
		return invalidHandle("big int", h)
	}
	a.bigInts[h] = new(big.Int).Set(v)
	return nil
}

// IsBigInt reports whether h names a big integer.
func (a *Arena) IsBigInt(h Handle) bool {
	_, ok := a.bigInts[h]
	return ok
}

// BigIntSetInt64 stores v under an existing handle.
func (a *Arena) BigIntSetInt64(h Handle, v int64) error {
	return a.SetBigInt(h, big.NewInt(v))
}

// BigIntToInt64 returns the value and whether it fits a signed 64-bit integer.
func (a *Arena) BigIntToInt64(h Handle) (int64, bool, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return 0, false, err
	}
	if !v.IsInt64() {
		return 0, false, nil
	}
	return v.Int64(), true, nil
}

// BigIntUnsignedBytes returns the big-endian magnitude.
func (a *Arena) BigIntUnsignedBytes(h Handle) ([]byte, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

// BigIntSetUnsignedBytes stores the big-endian magnitude b.
func (a *Arena) BigIntSetUnsignedBytes(h Handle, b []byte) error {
	return a.SetBigInt(h, new(big.Int).SetBytes(b))
}

// BigIntSignedBytes returns the minimal two's complement encoding.
func (a *Arena) BigIntSignedBytes(h Handle) ([]byte, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return nil, err
	}
	return ToSignedBytes(v), nil
}

// BigIntSetSignedBytes stores the two's complement value b.
func (a *Arena) BigIntSetSignedBytes(h Handle, b []byte) error {
	return a.SetBigInt(h, FromSignedBytes(b))
}

// BigIntSign returns -1, 0 or 1.
func (a *Arena) BigIntSign(h Handle) (int, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return 0, err
	}
	return v.Sign(), nil
}

// BigIntCmp compares the values under h1 and h2.
func (a *Arena) BigIntCmp(h1, h2 Handle) (int, error) {
	x, y, err := a.bigIntPair(h1, h2)
	if err != nil {
		return 0, err
	}
	return x.Cmp(y), nil
}

// BigIntClone allocates a copy of the value under h.
func (a *Arena) BigIntClone(h Handle) (Handle, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return 0, err
	}
	return a.NewBigInt(v)
}

func (a *Arena) bigIntPair(h1, h2 Handle) (*big.Int, *big.Int, error) {
	x, err := a.GetBigInt(h1)
	if err != nil {
		return nil, nil, err
	}
	y, err := a.GetBigInt(h2)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// binary validates dst and both operands, then stores op(x, y) into dst.
func (a *Arena) binary(dst, h1, h2 Handle, op func(x, y *big.Int) (*big.Int, error)) error {
	if !a.IsBigInt(dst) {
		return invalidHandle("big int", dst)
	}
	x, y, err := a.bigIntPair(h1, h2)
	if err != nil {
		return err
	}
	z, err := op(x, y)
	if err != nil {
		return err
	}
	a.bigInts[dst] = z
	return nil
}

func (a *Arena) unary(dst, h Handle, op func(x *big.Int) (*big.Int, error)) error {
	if !a.IsBigInt(dst) {
		return invalidHandle("big int", dst)
	}
	x, err := a.GetBigInt(h)
	if err != nil {
		return err
	}
	z, err := op(x)
	if err != nil {
		return err
	}
	a.bigInts[dst] = z
	return nil
}

// BigIntAdd stores h1 + h2 into dst.
func (a *Arena) BigIntAdd(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		return new(big.Int).Add(x, y), nil
	})
}

// BigIntSub stores h1 - h2 into dst.
func (a *Arena) BigIntSub(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		return new(big.Int).Sub(x, y), nil
	})
}

// BigIntMul stores h1 * h2 into dst.
func (a *Arena) BigIntMul(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		return new(big.Int).Mul(x, y), nil
	})
}

// BigIntTDiv divides with the quotient truncated toward zero.
func (a *Arena) BigIntTDiv(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		if y.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Quo(x, y), nil
	})
}

// BigIntTMod computes the remainder of truncated division; it takes the sign of the dividend.
func (a *Arena) BigIntTMod(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		if y.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Rem(x, y), nil
	})
}

// BigIntAbs stores the absolute value of h into dst.
func (a *Arena) BigIntAbs(dst, h Handle) error {
	return a.unary(dst, h, func(x *big.Int) (*big.Int, error) {
		return new(big.Int).Abs(x), nil
	})
}

// BigIntNeg stores -h into dst.
func (a *Arena) BigIntNeg(dst, h Handle) error {
	return a.unary(dst, h, func(x *big.Int) (*big.Int, error) {
		return new(big.Int).Neg(x), nil
	})
}

// BigIntSqrt stores the floor of the square root.
func (a *Arena) BigIntSqrt(dst, h Handle) error {
	return a.unary(dst, h, func(x *big.Int) (*big.Int, error) {
		if x.Sign() < 0 {
			return nil, ErrBitwiseNegative
		}
		return new(big.Int).Sqrt(x), nil
	})
}

// powLength estimates the byte length of x**y. The exponent must fit an
// unsigned 32-bit integer and the estimate must fit a buffer.
func (a *Arena) powLength(x, y *big.Int) (int, error) {
	if y.Sign() < 0 || !y.IsUint64() || y.Uint64() > math.MaxUint32 {
		return 0, fmt.Errorf("%w: exponent does not fit 32 bits", ErrArithmeticOverflow)
	}
	if x.BitLen() <= 1 || y.Sign() == 0 {
		return 1, nil
	}
	n := (y.Uint64()*uint64(x.BitLen()) + 7) / 8
	if n > uint64(a.config.MaxBufferLength) {
		return 0, fmt.Errorf("%w: result of %d bytes exceeds %d", ErrArithmeticOverflow, n, a.config.MaxBufferLength)
	}
	return int(n), nil
}

// BigIntPowLength estimates the byte length of h1 raised to h2 without
// computing it.
func (a *Arena) BigIntPowLength(h1, h2 Handle) (int, error) {
	x, y, err := a.bigIntPair(h1, h2)
	if err != nil {
		return 0, err
	}
	return a.powLength(x, y)
}

// BigIntPow raises h1 to the power h2. Results estimated above the buffer
// limit are rejected before they are computed.
func (a *Arena) BigIntPow(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		if _, err := a.powLength(x, y); err != nil {
			return nil, err
		}
		return new(big.Int).Exp(x, y, nil), nil
	})
}

// BigIntLog2 returns bit_length - 1 for a positive value.
func (a *Arena) BigIntLog2(h Handle) (int32, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return 0, err
	}
	if v.Sign() <= 0 {
		return 0, ErrBadBoundsLower
	}
	return int32(v.BitLen() - 1), nil
}

func nonNegative(values ...*big.Int) error {
	for _, v := range values {
		if v.Sign() < 0 {
			return ErrBitwiseNegative
		}
	}
	return nil
}

// BigIntAnd stores the bitwise and. Both operands must be non-negative.
func (a *Arena) BigIntAnd(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		if err := nonNegative(x, y); err != nil {
			return nil, err
		}
		return new(big.Int).And(x, y), nil
	})
}

// BigIntOr stores the bitwise or. Both operands must be non-negative.
func (a *Arena) BigIntOr(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		if err := nonNegative(x, y); err != nil {
			return nil, err
		}
		return new(big.Int).Or(x, y), nil
	})
}

// BigIntXor stores the bitwise xor. Both operands must be non-negative.
func (a *Arena) BigIntXor(dst, h1, h2 Handle) error {
	return a.binary(dst, h1, h2, func(x, y *big.Int) (*big.Int, error) {
		if err := nonNegative(x, y); err != nil {
			return nil, err
		}
		return new(big.Int).Xor(x, y), nil
	})
}

func (a *Arena) shlLength(x *big.Int, bits uint) (int, error) {
	limit := uint64(a.config.MaxBufferLength)
	if x.Sign() == 0 {
		return 0, nil
	}
	if uint64(bits) > limit*8 {
		return 0, fmt.Errorf("%w: shift of %d bits exceeds %d bytes", ErrArithmeticOverflow, bits, limit)
	}
	n := (uint64(x.BitLen()) + uint64(bits) + 7) / 8
	if n > limit {
		return 0, fmt.Errorf("%w: result of %d bytes exceeds %d", ErrArithmeticOverflow, n, limit)
	}
	return int(n), nil
}

// BigIntShlLength estimates the byte length of h shifted left by bits.
func (a *Arena) BigIntShlLength(h Handle, bits uint) (int, error) {
	x, err := a.GetBigInt(h)
	if err != nil {
		return 0, err
	}
	if err := nonNegative(x); err != nil {
		return 0, err
	}
	return a.shlLength(x, bits)
}

// BigIntShl shifts left. A zero shift still rejects negative input, and
// results above the buffer limit are rejected.
func (a *Arena) BigIntShl(dst, h Handle, bits uint) error {
	return a.unary(dst, h, func(x *big.Int) (*big.Int, error) {
		if err := nonNegative(x); err != nil {
			return nil, err
		}
		if _, err := a.shlLength(x, bits); err != nil {
			return nil, err
		}
		return new(big.Int).Lsh(x, bits), nil
	})
}

// BigIntShr shifts right. Negative input is rejected.
func (a *Arena) BigIntShr(dst, h Handle, bits uint) error {
	return a.unary(dst, h, func(x *big.Int) (*big.Int, error) {
		if err := nonNegative(x); err != nil {
			return nil, err
		}
		return new(big.Int).Rsh(x, bits), nil
	})
}

// BigIntString returns the base 10 representation.
func (a *Arena) BigIntString(h Handle) (string, error) {
	v, err := a.GetBigInt(h)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
