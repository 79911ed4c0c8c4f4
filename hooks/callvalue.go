package hooks

import (
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

// BigIntGetCallValue writes the EGLD value of the call into dst.
func (h *VMHooks) BigIntGetCallValue(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetCallValue, func() error {
		return h.arena().SetBigInt(dst, h.tc.Input().Value())
	})
}

// CheckNoPayment fails when the call carries EGLD or tokens.
func (h *VMHooks) CheckNoPayment() *types.BreakpointError {
	return h.run(gas.CheckNoPayment, func() error {
		in := h.tc.Input()
		if in.Value().Sign() > 0 {
			return ErrNonPayable
		}
		if len(in.ESDTTransfers) > 0 {
			return ErrNonPayableESDT
		}
		return nil
	})
}

func (h *VMHooks) GetNumESDTTransfers() (int32, *types.BreakpointError) {
	if bp := h.charge(gas.GetNumESDTTransfers); bp != nil {
		return 0, bp
	}
	return int32(len(h.tc.Input().ESDTTransfers)), nil
}

func (h *VMHooks) transfer(index int32) (types.ESDTTransfer, error) {
	transfers := h.tc.Input().ESDTTransfers
	if index < 0 || int(index) >= len(transfers) {
		return types.ESDTTransfer{}, ErrArgOutOfRange
	}
	return transfers[index], nil
}

func (h *VMHooks) BigIntGetESDTCallValueByIndex(dst managed.Handle, index int32) *types.BreakpointError {
	return h.run(gas.GetESDTValueByIndex, func() error {
		t, err := h.transfer(index)
		if err != nil {
			return err
		}
		if t.Value == nil {
			return h.arena().BigIntSetInt64(dst, 0)
		}
		return h.arena().SetBigInt(dst, t.Value)
	})
}

func (h *VMHooks) ManagedGetESDTTokenNameByIndex(dst managed.Handle, index int32) *types.BreakpointError {
	return h.run(gas.GetESDTTokenNameByIndex, func() error {
		t, err := h.transfer(index)
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, t.TokenID)
	})
}

func (h *VMHooks) GetESDTTokenNonceByIndex(index int32) (int64, *types.BreakpointError) {
	var nonce uint64
	bp := h.run(gas.GetESDTTokenNonceByIndex, func() error {
		t, err := h.transfer(index)
		nonce = t.Nonce
		return err
	})
	return int64(nonce), bp
}

// ManagedGetMultiESDTCallValue writes every incoming transfer into dst as
// a vec of (token handle, nonce, amount handle) items.
func (h *VMHooks) ManagedGetMultiESDTCallValue(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetMultiESDTCallValue, func() error {
		return h.writeTransfers(dst, h.tc.Input().ESDTTransfers)
	})
}
