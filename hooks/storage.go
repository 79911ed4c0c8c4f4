package hooks

import (
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/storage"
	"github.com/govm-net/hookvm/types"
)

// MBufferStorageStore writes the value buffer under the key buffer in the
// storage of the running contract. The per-byte cost is charged before the
// write. Reserved keys fail the invocation and leave storage unchanged.
func (h *VMHooks) MBufferStorageStore(key, value managed.Handle) (storage.Status, *types.BreakpointError) {
	if bp := h.charge(gas.StorageStore); bp != nil {
		return storage.Unchanged, bp
	}
	kv, err := h.buffers(key, value)
	if err != nil {
		return storage.Unchanged, h.fail(err)
	}
	if bp := h.chargeBytes(h.tc.Meter().Schedule().StorePerByte, len(kv[1])); bp != nil {
		return storage.Unchanged, bp
	}
	status, err := h.tc.Storage().Write(kv[0], kv[1])
	if err != nil {
		return storage.Unchanged, h.fail(err)
	}
	return status, nil
}

// MBufferStorageLoad reads the value under the key buffer into dst. A
// missing key reads as empty.
func (h *VMHooks) MBufferStorageLoad(key, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.StorageLoad, func() error {
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		v, err := h.tc.Storage().Read(k)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, v)
	})
}

func (h *VMHooks) StorageLoadLength(key managed.Handle) (int32, *types.BreakpointError) {
	var n int
	bp := h.run(gas.StorageLoadLength, func() error {
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		n, err = h.tc.Storage().Len(k)
		return err
	})
	return int32(n), bp
}

// MBufferStorageLoadFromAddress reads the storage of another account.
func (h *VMHooks) MBufferStorageLoadFromAddress(addr, key, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.StorageLoadFromAddress, func() error {
		a, err := h.address(addr)
		if err != nil {
			return err
		}
		k, err := h.arena().BufferBytes(key)
		if err != nil {
			return err
		}
		v, err := h.tc.Storage().ReadFromAddress(a, k)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, v)
	})
}
