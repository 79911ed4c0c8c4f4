package hooks

import (
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) ManagedMapNew() (managed.Handle, *types.BreakpointError) {
	var out managed.Handle
	bp := h.run(gas.MapNew, func() (err error) {
		out, err = h.arena().NewMap()
		return err
	})
	return out, bp
}

// ManagedMapPut stores the value buffer under the key buffer.
func (h *VMHooks) ManagedMapPut(m, key, value managed.Handle) *types.BreakpointError {
	return h.run(gas.MapPut, func() error {
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		v, err := h.arena().BufferBytes(value)
		if err != nil {
			return err
		}
		return h.arena().MapPut(m, k, v)
	})
}

// ManagedMapGet writes the value under key into dst. A missing key leaves
// dst empty.
func (h *VMHooks) ManagedMapGet(m, key, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.MapGet, func() error {
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		v, _, err := h.arena().MapGet(m, k)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, v)
	})
}

// ManagedMapRemove deletes key and writes the removed value into dst.
func (h *VMHooks) ManagedMapRemove(m, key, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.MapRemove, func() error {
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		if _, err := h.arena().BufferLen(dst); err != nil {
			return err
		}
		v, err := h.arena().MapRemove(m, k)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, v)
	})
}

func (h *VMHooks) ManagedMapContains(m, key managed.Handle) (bool, *types.BreakpointError) {
	var found bool
	bp := h.run(gas.MapContains, func() error {
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		found, err = h.arena().MapContains(m, k)
		return err
	})
	return found, bp
}

func (h *VMHooks) ManagedMapLen(m managed.Handle) (int32, *types.BreakpointError) {
	var n int
	bp := h.run(gas.MapLen, func() (err error) {
		n, err = h.arena().MapLen(m)
		return err
	})
	return int32(n), bp
}
