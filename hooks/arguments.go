package hooks

import (
	"encoding/binary"
	"math/big"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) argument(id int32) ([]byte, error) {
	args := h.tc.Input().Args
	if id < 0 || int(id) >= len(args) {
		return nil, ErrArgOutOfRange
	}
	return args[id], nil
}

func (h *VMHooks) GetNumArguments() (int32, *types.BreakpointError) {
	if bp := h.charge(gas.GetNumArguments); bp != nil {
		return 0, bp
	}
	return int32(len(h.tc.Input().Args)), nil
}

func (h *VMHooks) GetArgumentLength(id int32) (int32, *types.BreakpointError) {
	var n int
	bp := h.run(gas.GetArgumentLength, func() error {
		arg, err := h.argument(id)
		n = len(arg)
		return err
	})
	return int32(n), bp
}

// MBufferGetArgument copies argument id into dst.
func (h *VMHooks) MBufferGetArgument(id int32, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetArgument, func() error {
		arg, err := h.argument(id)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, arg)
	})
}

// ManagedGetArgumentsBuffer writes every argument into dst as a managed
// argument buffer.
func (h *VMHooks) ManagedGetArgumentsBuffer(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetArgumentsBuffer, func() error {
		return h.arena().SetBufferVec(dst, h.tc.Input().Args)
	})
}

func (h *VMHooks) BigIntGetUnsignedArgument(id int32, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetUnsignedArgument, func() error {
		arg, err := h.argument(id)
		if err != nil {
			return err
		}
		return h.arena().BigIntSetUnsignedBytes(dst, arg)
	})
}

func (h *VMHooks) BigIntGetSignedArgument(id int32, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetSignedArgument, func() error {
		arg, err := h.argument(id)
		if err != nil {
			return err
		}
		return h.arena().BigIntSetSignedBytes(dst, arg)
	})
}

// SmallIntGetUnsignedArgument returns the argument as an unsigned 64-bit
// value carried in an int64.
func (h *VMHooks) SmallIntGetUnsignedArgument(id int32) (int64, *types.BreakpointError) {
	var v int64
	bp := h.run(gas.SmallIntGetUnsignedArgument, func() error {
		arg, err := h.argument(id)
		if err != nil {
			return err
		}
		n := new(big.Int).SetBytes(arg)
		if !n.IsUint64() {
			return ErrArgTooLarge
		}
		v = int64(n.Uint64())
		return nil
	})
	return v, bp
}

func (h *VMHooks) SmallIntGetSignedArgument(id int32) (int64, *types.BreakpointError) {
	var v int64
	bp := h.run(gas.SmallIntGetSignedArgument, func() error {
		arg, err := h.argument(id)
		if err != nil {
			return err
		}
		n := managed.FromSignedBytes(arg)
		if !n.IsInt64() {
			return ErrArgTooLarge
		}
		v = n.Int64()
		return nil
	})
	return v, bp
}

// ManagedGetFunction writes the name of the called function into dst.
func (h *VMHooks) ManagedGetFunction(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetFunction, func() error {
		return h.arena().SetBuffer(dst, []byte(h.tc.Input().Function))
	})
}

// esdtTransferItem is the packed form of one transfer inside a managed vec:
// token buffer handle, nonce and amount big integer handle.
const esdtTransferItemSize = managed.HandleSize + 8 + managed.HandleSize

func encodeTransferItem(token managed.Handle, nonce uint64, amount managed.Handle) []byte {
	item := make([]byte, esdtTransferItemSize)
	binary.BigEndian.PutUint32(item[0:], uint32(token))
	binary.BigEndian.PutUint64(item[managed.HandleSize:], nonce)
	binary.BigEndian.PutUint32(item[managed.HandleSize+8:], uint32(amount))
	return item
}

func decodeTransferItem(item []byte) (token managed.Handle, nonce uint64, amount managed.Handle) {
	token = managed.Handle(int32(binary.BigEndian.Uint32(item[0:])))
	nonce = binary.BigEndian.Uint64(item[managed.HandleSize:])
	amount = managed.Handle(int32(binary.BigEndian.Uint32(item[managed.HandleSize+8:])))
	return token, nonce, amount
}

// readTransfers resolves a managed vec of packed ESDT transfers.
func (h *VMHooks) readTransfers(vec managed.Handle) ([]types.ESDTTransfer, error) {
	n, err := h.arena().VecLen(vec, esdtTransferItemSize)
	if err != nil {
		return nil, err
	}
	out := make([]types.ESDTTransfer, n)
	for i := range out {
		item, err := h.arena().VecGet(vec, i, esdtTransferItemSize)
		if err != nil {
			return nil, err
		}
		tokenHandle, nonce, amountHandle := decodeTransferItem(item)
		token, err := h.arena().BufferBytes(tokenHandle)
		if err != nil {
			return nil, err
		}
		amount, err := h.arena().GetBigInt(amountHandle)
		if err != nil {
			return nil, err
		}
		out[i] = types.ESDTTransfer{TokenID: token, Nonce: nonce, Value: new(big.Int).Set(amount)}
	}
	return out, nil
}

// NewESDTTransfersVec packs transfers into a fresh managed vec, allocating a
// token buffer and an amount big integer per transfer.
func (h *VMHooks) NewESDTTransfersVec(transfers []types.ESDTTransfer) (managed.Handle, error) {
	vec, err := h.arena().NewBuffer(nil)
	if err != nil {
		return 0, err
	}
	if err := h.writeTransfers(vec, transfers); err != nil {
		return 0, err
	}
	return vec, nil
}

func (h *VMHooks) writeTransfers(vec managed.Handle, transfers []types.ESDTTransfer) error {
	if err := h.arena().SetBuffer(vec, nil); err != nil {
		return err
	}
	for _, t := range transfers {
		token, err := h.arena().NewBuffer(t.TokenID)
		if err != nil {
			return err
		}
		value := t.Value
		if value == nil {
			value = new(big.Int)
		}
		amount, err := h.arena().NewBigInt(value)
		if err != nil {
			return err
		}
		if err := h.arena().VecPush(vec, encodeTransferItem(token, t.Nonce, amount)); err != nil {
			return err
		}
	}
	return nil
}
