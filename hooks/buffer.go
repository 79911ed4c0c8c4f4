package hooks

import (
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

// MBufferNew allocates an empty buffer.
func (h *VMHooks) MBufferNew() (managed.Handle, *types.BreakpointError) {
	var out managed.Handle
	bp := h.run(gas.BufferNew, func() (err error) {
		out, err = h.arena().NewBuffer(nil)
		return err
	})
	return out, bp
}

func (h *VMHooks) MBufferNewFromBytes(b []byte) (managed.Handle, *types.BreakpointError) {
	if bp := h.charge(gas.BufferNewFromBytes); bp != nil {
		return 0, bp
	}
	if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, len(b)); bp != nil {
		return 0, bp
	}
	out, err := h.arena().NewBuffer(b)
	if err != nil {
		return 0, h.fail(err)
	}
	return out, nil
}

func (h *VMHooks) MBufferGetLength(buf managed.Handle) (int32, *types.BreakpointError) {
	var n int
	bp := h.run(gas.BufferGetLength, func() (err error) {
		n, err = h.arena().BufferLen(buf)
		return err
	})
	return int32(n), bp
}

// MBufferGetBytes returns a copy of the buffer contents.
func (h *VMHooks) MBufferGetBytes(buf managed.Handle) ([]byte, *types.BreakpointError) {
	var out []byte
	bp := h.run(gas.BufferGetBytes, func() (err error) {
		out, err = h.arena().BufferBytes(buf)
		return err
	})
	return out, bp
}

// MBufferCopyByteSlice copies length bytes at start of src into dst.
func (h *VMHooks) MBufferCopyByteSlice(src managed.Handle, start, length int32, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.BufferCopySlice, func() error {
		return h.arena().CopySlice(src, int(start), int(length), dst)
	})
}

func (h *VMHooks) MBufferEq(a, b managed.Handle) (bool, *types.BreakpointError) {
	var eq bool
	bp := h.run(gas.BufferEq, func() (err error) {
		eq, err = h.arena().BufferEq(a, b)
		return err
	})
	return eq, bp
}

func (h *VMHooks) MBufferSetBytes(buf managed.Handle, b []byte) *types.BreakpointError {
	if bp := h.charge(gas.BufferSetBytes); bp != nil {
		return bp
	}
	if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, len(b)); bp != nil {
		return bp
	}
	if err := h.arena().SetBuffer(buf, b); err != nil {
		return h.fail(err)
	}
	return nil
}

// MBufferSetByteSlice overwrites bytes from start. It never grows the buffer.
func (h *VMHooks) MBufferSetByteSlice(buf managed.Handle, start int32, b []byte) *types.BreakpointError {
	return h.run(gas.BufferSetSlice, func() error {
		return h.arena().SetSlice(buf, int(start), b)
	})
}

func (h *VMHooks) MBufferAppend(dst, src managed.Handle) *types.BreakpointError {
	return h.run(gas.BufferAppend, func() error {
		return h.arena().AppendBuffer(dst, src)
	})
}

func (h *VMHooks) MBufferAppendBytes(dst managed.Handle, b []byte) *types.BreakpointError {
	if bp := h.charge(gas.BufferAppendBytes); bp != nil {
		return bp
	}
	if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, len(b)); bp != nil {
		return bp
	}
	if err := h.arena().AppendBytes(dst, b); err != nil {
		return h.fail(err)
	}
	return nil
}

// MBufferSetRandom fills buf with length bytes from the invocation RNG.
func (h *VMHooks) MBufferSetRandom(buf managed.Handle, length int32) *types.BreakpointError {
	return h.run(gas.BufferSetRandom, func() error {
		if length < 0 {
			return managed.ErrOutOfRange
		}
		if _, err := h.arena().BufferLen(buf); err != nil {
			return err
		}
		if err := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, int(length)); err != nil {
			return err
		}
		return h.arena().SetBuffer(buf, h.tc.RandomBytes(int(length)))
	})
}

// ManagedVecLen returns the number of stride-sized items in vec.
func (h *VMHooks) ManagedVecLen(vec managed.Handle, stride int32) (int32, *types.BreakpointError) {
	var n int
	bp := h.run(gas.VecLen, func() (err error) {
		n, err = h.arena().VecLen(vec, int(stride))
		return err
	})
	return int32(n), bp
}

func (h *VMHooks) ManagedVecGet(vec managed.Handle, index, stride int32) ([]byte, *types.BreakpointError) {
	var item []byte
	bp := h.run(gas.VecGet, func() (err error) {
		item, err = h.arena().VecGet(vec, int(index), int(stride))
		return err
	})
	return item, bp
}

func (h *VMHooks) ManagedVecPush(vec managed.Handle, item []byte) *types.BreakpointError {
	return h.run(gas.VecPush, func() error {
		return h.arena().VecPush(vec, item)
	})
}
