package hooks

import (
	"math/big"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) finish(data []byte) *types.BreakpointError {
	if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, len(data)); bp != nil {
		return bp
	}
	h.tc.Finish(data)
	return nil
}

// MBufferFinish returns the contents of buf to the caller.
func (h *VMHooks) MBufferFinish(buf managed.Handle) *types.BreakpointError {
	if bp := h.charge(gas.Finish); bp != nil {
		return bp
	}
	data, err := h.arena().BufferBytes(buf)
	if err != nil {
		return h.fail(err)
	}
	return h.finish(data)
}

// MBufferFinishMany returns every buffer referenced by the vec.
func (h *VMHooks) MBufferFinishMany(vec managed.Handle) *types.BreakpointError {
	if bp := h.charge(gas.FinishMany); bp != nil {
		return bp
	}
	values, err := h.arena().ReadBufferVec(vec)
	if err != nil {
		return h.fail(err)
	}
	for _, v := range values {
		if bp := h.finish(v); bp != nil {
			return bp
		}
	}
	return nil
}

// SmallIntFinishUnsigned returns v as a minimal big-endian unsigned value.
func (h *VMHooks) SmallIntFinishUnsigned(v int64) *types.BreakpointError {
	if bp := h.charge(gas.SmallIntFinishUnsigned); bp != nil {
		return bp
	}
	return h.finish(new(big.Int).SetUint64(uint64(v)).Bytes())
}

func (h *VMHooks) SmallIntFinishSigned(v int64) *types.BreakpointError {
	if bp := h.charge(gas.SmallIntFinishSigned); bp != nil {
		return bp
	}
	return h.finish(managed.ToSignedBytes(big.NewInt(v)))
}

func (h *VMHooks) BigIntFinishUnsigned(bi managed.Handle) *types.BreakpointError {
	if bp := h.charge(gas.BigIntFinishUnsigned); bp != nil {
		return bp
	}
	data, err := h.arena().BigIntUnsignedBytes(bi)
	if err != nil {
		return h.fail(err)
	}
	return h.finish(data)
}

func (h *VMHooks) BigIntFinishSigned(bi managed.Handle) *types.BreakpointError {
	if bp := h.charge(gas.BigIntFinishSigned); bp != nil {
		return bp
	}
	data, err := h.arena().BigIntSignedBytes(bi)
	if err != nil {
		return h.fail(err)
	}
	return h.finish(data)
}

// ManagedSignalError ends the invocation with a user error carrying the
// message held in buf.
func (h *VMHooks) ManagedSignalError(buf managed.Handle) *types.BreakpointError {
	if bp := h.charge(gas.SignalError); bp != nil {
		return bp
	}
	msg, err := h.arena().BufferBytes(buf)
	if err != nil {
		return h.fail(err)
	}
	return h.tc.Fail(types.UserError, string(msg))
}

// SignalError is ManagedSignalError for a message held by the caller.
func (h *VMHooks) SignalError(message string) *types.BreakpointError {
	if bp := h.charge(gas.SignalError); bp != nil {
		return bp
	}
	return h.tc.Fail(types.UserError, message)
}

// SignalExit ends the invocation successfully, keeping what was finished.
func (h *VMHooks) SignalExit() *types.BreakpointError {
	if bp := h.charge(gas.SignalExit); bp != nil {
		return bp
	}
	return h.tc.Terminate(types.BreakpointSignalExit, types.Ok, "")
}
