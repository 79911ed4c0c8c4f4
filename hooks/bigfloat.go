package hooks

import (
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) newFloat(hook string, build func() (managed.Handle, error)) (managed.Handle, *types.BreakpointError) {
	var out managed.Handle
	bp := h.run(hook, func() (err error) {
		out, err = build()
		return err
	})
	return out, bp
}

// BigFloatNewFromParts builds integral.fractional·10^exponent.
func (h *VMHooks) BigFloatNewFromParts(integral, fractional, exponent int32) (managed.Handle, *types.BreakpointError) {
	return h.newFloat(gas.BigFloatNewFromParts, func() (managed.Handle, error) {
		return h.arena().NewBigFloatFromParts(integral, fractional, exponent)
	})
}

func (h *VMHooks) BigFloatNewFromFrac(numerator, denominator int64) (managed.Handle, *types.BreakpointError) {
	return h.newFloat(gas.BigFloatNewFromFrac, func() (managed.Handle, error) {
		return h.arena().NewBigFloatFromFrac(numerator, denominator)
	})
}

func (h *VMHooks) BigFloatNewFromSci(significand, exponent int64) (managed.Handle, *types.BreakpointError) {
	return h.newFloat(gas.BigFloatNewFromSci, func() (managed.Handle, error) {
		return h.arena().NewBigFloatFromSci(significand, exponent)
	})
}

func (h *VMHooks) BigFloatAdd(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatAdd, func() error { return h.arena().BigFloatAdd(dst, a, b) })
}

func (h *VMHooks) BigFloatSub(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatSub, func() error { return h.arena().BigFloatSub(dst, a, b) })
}

func (h *VMHooks) BigFloatMul(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatMul, func() error { return h.arena().BigFloatMul(dst, a, b) })
}

func (h *VMHooks) BigFloatDiv(dst, a, b managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatDiv, func() error { return h.arena().BigFloatDiv(dst, a, b) })
}

func (h *VMHooks) BigFloatNeg(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatNeg, func() error { return h.arena().BigFloatNeg(dst, src) })
}

func (h *VMHooks) BigFloatClone(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatClone, func() error { return h.arena().BigFloatClone(dst, src) })
}

func (h *VMHooks) BigFloatAbs(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatAbs, func() error { return h.arena().BigFloatAbs(dst, src) })
}

func (h *VMHooks) BigFloatSqrt(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatSqrt, func() error { return h.arena().BigFloatSqrt(dst, src) })
}

func (h *VMHooks) BigFloatPow(dst, src managed.Handle, exponent int32) *types.BreakpointError {
	return h.run(gas.BigFloatPow, func() error { return h.arena().BigFloatPow(dst, src, exponent) })
}

func (h *VMHooks) BigFloatCmp(a, b managed.Handle) (int32, *types.BreakpointError) {
	var cmp int
	bp := h.run(gas.BigFloatCmp, func() (err error) {
		cmp, err = h.arena().BigFloatCmp(a, b)
		return err
	})
	return int32(cmp), bp
}

func (h *VMHooks) BigFloatSign(src managed.Handle) (int32, *types.BreakpointError) {
	var sign int
	bp := h.run(gas.BigFloatSign, func() (err error) {
		sign, err = h.arena().BigFloatSign(src)
		return err
	})
	return int32(sign), bp
}

func (h *VMHooks) BigFloatIsInt(src managed.Handle) (bool, *types.BreakpointError) {
	var isInt bool
	bp := h.run(gas.BigFloatIsInt, func() (err error) {
		isInt, err = h.arena().BigFloatIsInt(src)
		return err
	})
	return isInt, bp
}

// BigFloatFloor rounds src down into the big integer dstBigInt.
func (h *VMHooks) BigFloatFloor(dstBigInt, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatFloor, func() error { return h.arena().BigFloatFloor(dstBigInt, src) })
}

func (h *VMHooks) BigFloatCeil(dstBigInt, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatCeil, func() error { return h.arena().BigFloatCeil(dstBigInt, src) })
}

func (h *VMHooks) BigFloatTruncate(dstBigInt, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatTruncate, func() error { return h.arena().BigFloatTruncate(dstBigInt, src) })
}

func (h *VMHooks) BigFloatSetInt64(dst managed.Handle, v int64) *types.BreakpointError {
	return h.run(gas.BigFloatSetInt64, func() error { return h.arena().BigFloatSetInt64(dst, v) })
}

func (h *VMHooks) BigFloatSetBigInt(dst, bigInt managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatSetBigInt, func() error { return h.arena().BigFloatSetBigInt(dst, bigInt) })
}

func (h *VMHooks) BigFloatGetConstPi(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatGetConstPi, func() error { return h.arena().BigFloatSetPi(dst) })
}

func (h *VMHooks) BigFloatGetConstE(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.BigFloatGetConstE, func() error { return h.arena().BigFloatSetE(dst) })
}

func (h *VMHooks) MBufferToBigFloat(buf, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.BufferToBigFloat, func() error { return h.arena().BufferToBigFloat(buf, dst) })
}

func (h *VMHooks) MBufferFromBigFloat(buf, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BufferFromBigFloat, func() error { return h.arena().BufferFromBigFloat(buf, src) })
}

// BigFloatNew allocates a big float holding zero.
func (h *VMHooks) BigFloatNew() (managed.Handle, *types.BreakpointError) {
	return h.newFloat(gas.BigFloatNew, func() (managed.Handle, error) {
		return h.arena().NewBigFloatFromFrac(0, 1)
	})
}
