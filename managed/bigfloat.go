package managed

import (
	"fmt"
	"math"
	"math/big"
)

const (
	minSciExponent = -322
	maxSciExponent = 308
)

func (a *Arena) newFloat() *big.Float {
	return new(big.Float).SetPrec(a.config.BigFloatPrecision).SetMode(big.ToNearestEven)
}

func checkFinite(v *big.Float) error {
	if v.IsInf() {
		return ErrBigFloatInfinite
	}
	return nil
}

// NewBigFloat stores v rounded to the arena precision.
func (a *Arena) NewBigFloat(v *big.Float) (Handle, error) {
	if err := checkFinite(v); err != nil {
		return 0, err
	}
	h, err := a.nextHandle()
	if err != nil {
		return 0, err
	}
	a.bigFloats[h] = a.newFloat().Set(v)
	return h, nil
}

// GetBigFloat returns the stored value. Callers must not mutate it.
func (a *Arena) GetBigFloat(h Handle) (*big.Float, error) {
	v, ok := a.bigFloats[h]
	if !ok {
		return nil, invalidHandle("big float", h)
	}
	return v, nil
}

func (a *Arena) IsBigFloat(h Handle) bool {
	_, ok := a.bigFloats[h]
	return ok
}

func (a *Arena) setBigFloat(h Handle, v *big.Float) error {
	if !a.IsBigFloat(h) {
		return invalidHandle("big float", h)
	}
	if err := checkFinite(v); err != nil {
		return err
	}
	a.bigFloats[h] = a.newFloat().Set(v)
	return nil
}

// pow10 returns 10^exp at the arena precision; exp may be negative.
func (a *Arena) pow10(exp int64) *big.Float {
	abs := exp
	if abs < 0 {
		abs = -abs
	}
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(abs), nil)
	f := new(big.Float).SetPrec(a.config.BigFloatPrecision + 64).SetInt(p)
	if exp < 0 {
		return new(big.Float).SetPrec(f.Prec()).Quo(big.NewFloat(1), f)
	}
	return f
}

// NewBigFloatFromParts builds integral ± fractional·10^exponent, the sign
// following the integral part. The exponent must not be positive.
func (a *Arena) NewBigFloatFromParts(integral, fractional, exponent int32) (Handle, error) {
	if exponent > 0 {
		return 0, fmt.Errorf("%w: exponent must be negative or zero", ErrOutOfRange)
	}
	if fractional < 0 {
		return 0, fmt.Errorf("%w: fractional part must be positive", ErrOutOfRange)
	}
	frac := a.newFloat().SetInt64(int64(fractional))
	frac.Mul(frac, a.pow10(int64(exponent)))
	value := a.newFloat().SetInt64(int64(integral))
	if integral >= 0 {
		value.Add(value, frac)
	} else {
		value.Sub(value, frac)
	}
	return a.NewBigFloat(value)
}

// NewBigFloatFromFrac builds numerator/denominator.
func (a *Arena) NewBigFloatFromFrac(numerator, denominator int64) (Handle, error) {
	if denominator == 0 {
		return 0, ErrDivisionByZero
	}
	value := a.newFloat().SetInt64(numerator)
	value.Quo(value, a.newFloat().SetInt64(denominator))
	return a.NewBigFloat(value)
}

// NewBigFloatFromSci builds significand·10^exponent.
func (a *Arena) NewBigFloatFromSci(significand, exponent int64) (Handle, error) {
	if exponent < minSciExponent || exponent > maxSciExponent {
		return 0, fmt.Errorf("%w: exponent %d", ErrOutOfRange, exponent)
	}
	value := a.newFloat().SetInt64(significand)
	value.Mul(value, a.pow10(exponent))
	return a.NewBigFloat(value)
}

func (a *Arena) floatPair(h1, h2 Handle) (*big.Float, *big.Float, error) {
	x, err := a.GetBigFloat(h1)
	if err != nil {
		return nil, nil, err
	}
	y, err := a.GetBigFloat(h2)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (a *Arena) floatBinary(dst, h1, h2 Handle, op func(z, x, y *big.Float) error) error {
	if !a.IsBigFloat(dst) {
		return invalidHandle("big float", dst)
	}
	x, y, err := a.floatPair(h1, h2)
	if err != nil {
		return err
	}
	z := a.newFloat()
	if err := op(z, x, y); err != nil {
		return err
	}
	return a.setBigFloat(dst, z)
}

func (a *Arena) floatUnary(dst, h Handle, op func(z, x *big.Float) error) error {
	if !a.IsBigFloat(dst) {
		return invalidHandle("big float", dst)
	}
	x, err := a.GetBigFloat(h)
	if err != nil {
		return err
	}
	z := a.newFloat()
	if err := op(z, x); err != nil {
		return err
	}
	return a.setBigFloat(dst, z)
}

func (a *Arena) BigFloatAdd(dst, h1, h2 Handle) error {
	return a.floatBinary(dst, h1, h2, func(z, x, y *big.Float) error {
		z.Add(x, y)
		return nil
	})
}

func (a *Arena) BigFloatSub(dst, h1, h2 Handle) error {
	return a.floatBinary(dst, h1, h2, func(z, x, y *big.Float) error {
		z.Sub(x, y)
		return nil
	})
}

func (a *Arena) BigFloatMul(dst, h1, h2 Handle) error {
	return a.floatBinary(dst, h1, h2, func(z, x, y *big.Float) error {
		z.Mul(x, y)
		return nil
	})
}

func (a *Arena) BigFloatDiv(dst, h1, h2 Handle) error {
	return a.floatBinary(dst, h1, h2, func(z, x, y *big.Float) error {
		if y.Sign() == 0 {
			return ErrDivisionByZero
		}
		z.Quo(x, y)
		return nil
	})
}

func (a *Arena) BigFloatNeg(dst, h Handle) error {
	return a.floatUnary(dst, h, func(z, x *big.Float) error {
		z.Neg(x)
		return nil
	})
}

func (a *Arena) BigFloatAbs(dst, h Handle) error {
	return a.floatUnary(dst, h, func(z, x *big.Float) error {
		z.Abs(x)
		return nil
	})
}

// BigFloatClone copies the value of h into dst.
func (a *Arena) BigFloatClone(dst, h Handle) error {
	return a.floatUnary(dst, h, func(z, x *big.Float) error {
		z.Set(x)
		return nil
	})
}

func (a *Arena) BigFloatSqrt(dst, h Handle) error {
	return a.floatUnary(dst, h, func(z, x *big.Float) error {
		if x.Sign() < 0 {
			return ErrBadBoundsLower
		}
		z.Sqrt(x)
		return nil
	})
}

// BigFloatPow raises h to a non-negative integer power.
func (a *Arena) BigFloatPow(dst, h Handle, exponent int32) error {
	if exponent < 0 {
		return fmt.Errorf("%w: negative exponent", ErrOutOfRange)
	}
	return a.floatUnary(dst, h, func(z, x *big.Float) error {
		result := a.newFloat().SetInt64(1)
		base := a.newFloat().Set(x)
		for e := exponent; e > 0; e >>= 1 {
			if e&1 == 1 {
				result.Mul(result, base)
			}
			base.Mul(base, base)
			if result.IsInf() || base.IsInf() {
				return ErrBigFloatInfinite
			}
		}
		z.Set(result)
		return nil
	})
}

func (a *Arena) BigFloatCmp(h1, h2 Handle) (int, error) {
	x, y, err := a.floatPair(h1, h2)
	if err != nil {
		return 0, err
	}
	return x.Cmp(y), nil
}

func (a *Arena) BigFloatSign(h Handle) (int, error) {
	x, err := a.GetBigFloat(h)
	if err != nil {
		return 0, err
	}
	return x.Sign(), nil
}

func (a *Arena) BigFloatIsInt(h Handle) (bool, error) {
	x, err := a.GetBigFloat(h)
	if err != nil {
		return false, err
	}
	return x.IsInt(), nil
}

func (a *Arena) BigFloatSetInt64(h Handle, v int64) error {
	return a.setBigFloat(h, a.newFloat().SetInt64(v))
}

// BigFloatSetBigInt converts the big integer under bi into the float under h.
func (a *Arena) BigFloatSetBigInt(h, bi Handle) error {
	v, err := a.GetBigInt(bi)
	if err != nil {
		return err
	}
	return a.setBigFloat(h, a.newFloat().SetInt(v))
}

type rounding int

const (
	roundFloor rounding = iota
	roundCeil
	roundTrunc
)

func (a *Arena) toBigInt(dstBigInt, h Handle, mode rounding) error {
	if !a.IsBigInt(dstBigInt) {
		return invalidHandle("big int", dstBigInt)
	}
	x, err := a.GetBigFloat(h)
	if err != nil {
		return err
	}
	z, _ := x.Int(nil)
	if !x.IsInt() {
		switch {
		case mode == roundFloor && x.Sign() < 0:
			z.Sub(z, big.NewInt(1))
		case mode == roundCeil && x.Sign() > 0:
			z.Add(z, big.NewInt(1))
		}
	}
	a.bigInts[dstBigInt] = z
	return nil
}

func (a *Arena) BigFloatFloor(dstBigInt, h Handle) error {
	return a.toBigInt(dstBigInt, h, roundFloor)
}

func (a *Arena) BigFloatCeil(dstBigInt, h Handle) error {
	return a.toBigInt(dstBigInt, h, roundCeil)
}

func (a *Arena) BigFloatTruncate(dstBigInt, h Handle) error {
	return a.toBigInt(dstBigInt, h, roundTrunc)
}

func (a *Arena) BigFloatSetPi(h Handle) error {
	return a.setBigFloat(h, a.newFloat().SetFloat64(math.Pi))
}

func (a *Arena) BigFloatSetE(h Handle) error {
	return a.setBigFloat(h, a.newFloat().SetFloat64(math.E))
}

// BigFloatBytes serializes the float in its gob form.
func (a *Arena) BigFloatBytes(h Handle) ([]byte, error) {
	x, err := a.GetBigFloat(h)
	if err != nil {
		return nil, err
	}
	return x.GobEncode()
}

// BigFloatSetBytes decodes a gob encoded float into h.
func (a *Arena) BigFloatSetBytes(h Handle, b []byte) error {
	if !a.IsBigFloat(h) {
		return invalidHandle("big float", h)
	}
	v := new(big.Float)
	if err := v.GobDecode(b); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBuffer, err)
	}
	return a.setBigFloat(h, v)
}

// BufferToBigFloat decodes the buffer under buf into the float under h.
func (a *Arena) BufferToBigFloat(buf, h Handle) error {
	b, err := a.getBuffer(buf)
	if err != nil {
		return err
	}
	return a.BigFloatSetBytes(h, b)
}

// BufferFromBigFloat encodes the float under h into buf.
func (a *Arena) BufferFromBigFloat(buf, h Handle) error {
	b, err := a.BigFloatBytes(h)
	if err != nil {
		return err
	}
	return a.SetBuffer(buf, b)
}
