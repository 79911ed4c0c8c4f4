package hooks

import (
	"math/big"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) BigIntNew(v int64) (managed.Handle, *types.BreakpointError) {
	var out managed.Handle
	bp := h.run(gas.BigIntNew, func() (err error) {
		out, err = h.arena().NewBigIntFromInt64(v)
		return err
	})
	return out, bp
}

func (h *VMHooks) BigIntSetInt64(dst managed.Handle, v int64) *types.BreakpointError {
	return h.run(gas.BigIntSetInt64, func() error {
		return h.arena().BigIntSetInt64(dst, v)
	})
}

// BigIntIsInt64 reports whether the value fits a signed 64-bit integer.
func (h *VMHooks) BigIntIsInt64(src managed.Handle) (bool, *types.BreakpointError) {
	var fits bool
	bp := h.run(gas.BigIntIsInt64, func() (err error) {
		_, fits, err = h.arena().BigIntToInt64(src)
		return err
	})
	return fits, bp
}

// BigIntGetInt64 fails when the value does not fit a signed 64-bit integer.
func (h *VMHooks) BigIntGetInt64(src managed.Handle) (int64, *types.BreakpointError) {
	var v int64
	bp := h.run(gas.BigIntGetInt64, func() error {
		value, fits, err := h.arena().BigIntToInt64(src)
		if err != nil {
			return err
		}
		if !fits {
			return managed.ErrOutOfRange
		}
		v = value
		return nil
	})
	return v, bp
}

// MBufferFromBigIntUnsigned writes the big-endian magnitude of bi into buf.
func (h *VMHooks) MBufferFromBigIntUnsigned(buf, bi managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntGetUnsignedBytes, func() error {
		return h.arena().BufferFromBigIntUnsigned(buf, bi)
	})
}

func (h *VMHooks) MBufferToBigIntUnsigned(buf, bi managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntSetUnsignedBytes, func() error {
		return h.arena().BufferToBigIntUnsigned(buf, bi)
	})
}

func (h *VMHooks) MBufferFromBigIntSigned(buf, bi managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntGetSignedBytes, func() error {
		return h.arena().BufferFromBigIntSigned(buf, bi)
	})
}

func (h *VMHooks) MBufferToBigIntSigned(buf, bi managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntSetSignedBytes, func() error {
		return h.arena().BufferToBigIntSigned(buf, bi)
	})
}

func (h *VMHooks) BigIntSign(src managed.Handle) (int32, *types.BreakpointError) {
	var sign int
	bp := h.run(gas.BigIntSign, func() (err error) {
		sign, err = h.arena().BigIntSign(src)
		return err
	})
	return int32(sign), bp
}

func (h *VMHooks) BigIntCmp(a, b managed.Handle) (int32, *types.BreakpointError) {
	var cmp int
	bp := h.run(gas.BigIntCmp, func() (err error) {
		cmp, err = h.arena().BigIntCmp(a, b)
		return err
	})
	return int32(cmp), bp
}

func (h *VMHooks) BigIntAdd(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntAdd, func() error { return h.arena().BigIntAdd(dst, a, b) })
}

func (h *VMHooks) BigIntSub(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntSub, func() error { return h.arena().BigIntSub(dst, a, b) })
}

func (h *VMHooks) BigIntMul(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntMul, func() error { return h.arena().BigIntMul(dst, a, b) })
}

func (h *VMHooks) BigIntTDiv(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntTDiv, func() error { return h.arena().BigIntTDiv(dst, a, b) })
}

func (h *VMHooks) BigIntTMod(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntTMod, func() error { return h.arena().BigIntTMod(dst, a, b) })
}

func (h *VMHooks) BigIntAbs(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntAbs, func() error { return h.arena().BigIntAbs(dst, src) })
}

func (h *VMHooks) BigIntNeg(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntNeg, func() error { return h.arena().BigIntNeg(dst, src) })
}

func (h *VMHooks) BigIntSqrt(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntSqrt, func() error { return h.arena().BigIntSqrt(dst, src) })
}

// BigIntPow bills the estimated result length per byte before computing it.
func (h *VMHooks) BigIntPow(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntPow, func() error {
		n, err := h.arena().BigIntPowLength(a, b)
		if err != nil {
			return err
		}
		if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, n); bp != nil {
			return bp
		}
		return h.arena().BigIntPow(dst, a, b)
	})
}

func (h *VMHooks) BigIntLog2(src managed.Handle) (int32, *types.BreakpointError) {
	var v int32
	bp := h.run(gas.BigIntLog2, func() (err error) {
		v, err = h.arena().BigIntLog2(src)
		return err
	})
	return v, bp
}

func (h *VMHooks) BigIntAnd(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntAnd, func() error { return h.arena().BigIntAnd(dst, a, b) })
}

func (h *VMHooks) BigIntOr(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntOr, func() error { return h.arena().BigIntOr(dst, a, b) })
}

func (h *VMHooks) BigIntXor(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntXor, func() error { return h.arena().BigIntXor(dst, a, b) })
}

// BigIntShl bills the result length per byte before shifting.
func (h *VMHooks) BigIntShl(dst, src managed.Handle, bits uint) *types.BreakpointError {
	return h.run(gas.BigIntShl, func() error {
		n, err := h.arena().BigIntShlLength(src, bits)
		if err != nil {
			return err
		}
		if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, n); bp != nil {
			return bp
		}
		return h.arena().BigIntShl(dst, src, bits)
	})
}

func (h *VMHooks) BigIntShr(dst, src managed.Handle, bits uint) *types.BreakpointError {
	return h.run(gas.BigIntShr, func() error { return h.arena().BigIntShr(dst, src, bits) })
}

// BigIntClone allocates a new big integer holding the value of src.
func (h *VMHooks) BigIntClone(src managed.Handle) (managed.Handle, *types.BreakpointError) {
	var out managed.Handle
	bp := h.run(gas.BigIntClone, func() (err error) {
		out, err = h.arena().BigIntClone(src)
		return err
	})
	return out, bp
}

// BigIntToString writes the decimal form of bi into buf.
func (h *VMHooks) BigIntToString(bi, buf managed.Handle) *types.BreakpointError {
	return h.run(gas.BigIntToString, func() error {
		s, err := h.arena().BigIntString(bi)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(buf, []byte(s))
	})
}

// BigIntNewFromBytes allocates a big integer from a big-endian magnitude.
func (h *VMHooks) BigIntNewFromBytes(b []byte) (managed.Handle, *types.BreakpointError) {
	var out managed.Handle
	bp := h.run(gas.BigIntNewFromBytes, func() (err error) {
		out, err = h.arena().NewBigInt(new(big.Int).SetBytes(b))
		return err
	})
	return out, bp
}
