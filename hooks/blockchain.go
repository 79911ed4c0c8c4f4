package hooks

import (
	"math/big"

	"github.com/govm-net/hookvm/crypto"
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) setAddress(dst managed.Handle, addr types.Address) error {
	return h.arena().SetBuffer(dst, addr[:])
}

// ManagedSCAddress writes the address of the running contract into dst.
func (h *VMHooks) ManagedSCAddress(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetSCAddress, func() error {
		return h.setAddress(dst, h.tc.SCAddress())
	})
}

func (h *VMHooks) ManagedCaller(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetCaller, func() error {
		return h.setAddress(dst, h.tc.Input().From)
	})
}

// ManagedOwnerAddress writes the owner of the running contract into dst.
func (h *VMHooks) ManagedOwnerAddress(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetOwnerAddress, func() error {
		var owner types.Address
		err := h.tc.Cache().WithAccount(h.tc.SCAddress(), func(acc *state.AccountData) {
			owner = acc.Owner
		})
		if err != nil {
			return err
		}
		return h.setAddress(dst, owner)
	})
}

func (h *VMHooks) GetShardOfAddress(addr managed.Handle) (int32, *types.BreakpointError) {
	var shard uint32
	bp := h.run(gas.GetShardOfAddress, func() error {
		a, err := h.address(addr)
		if err != nil {
			return err
		}
		shard = types.ShardOf(a, h.tc.Config().NumShards)
		return nil
	})
	return int32(shard), bp
}

// IsSmartContract reports whether the address holds code, or has the
// contract address form when the account is unknown.
func (h *VMHooks) IsSmartContract(addr managed.Handle) (bool, *types.BreakpointError) {
	var isSC bool
	bp := h.run(gas.IsSmartContract, func() error {
		a, err := h.address(addr)
		if err != nil {
			return err
		}
		exists, err := h.tc.Cache().Exists(a)
		if err != nil {
			return err
		}
		if !exists {
			isSC = types.IsSmartContractAddress(a)
			return nil
		}
		return h.tc.Cache().WithAccount(a, func(acc *state.AccountData) {
			isSC = acc.IsContract()
		})
	})
	return isSC, bp
}

func (h *VMHooks) blockValue(hook string, v func() uint64) (int64, *types.BreakpointError) {
	if bp := h.charge(hook); bp != nil {
		return 0, bp
	}
	return int64(v()), nil
}

func (h *VMHooks) GetBlockNonce() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetBlockNonce, func() uint64 { return h.tc.CurrentBlock().Nonce })
}

func (h *VMHooks) GetBlockRound() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetBlockRound, func() uint64 { return h.tc.CurrentBlock().Round })
}

func (h *VMHooks) GetBlockEpoch() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetBlockEpoch, func() uint64 { return uint64(h.tc.CurrentBlock().Epoch) })
}

func (h *VMHooks) GetBlockTimestamp() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetBlockTimestamp, func() uint64 { return h.tc.CurrentBlock().Timestamp })
}

func (h *VMHooks) GetPrevBlockNonce() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetPrevBlockNonce, func() uint64 { return h.tc.PreviousBlock().Nonce })
}

func (h *VMHooks) GetPrevBlockRound() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetPrevBlockRound, func() uint64 { return h.tc.PreviousBlock().Round })
}

func (h *VMHooks) GetPrevBlockEpoch() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetPrevBlockEpoch, func() uint64 { return uint64(h.tc.PreviousBlock().Epoch) })
}

func (h *VMHooks) GetPrevBlockTimestamp() (int64, *types.BreakpointError) {
	return h.blockValue(gas.GetPrevBlockTimestamp, func() uint64 { return h.tc.PreviousBlock().Timestamp })
}

func (h *VMHooks) ManagedGetBlockRandomSeed(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetBlockRandomSeed, func() error {
		return h.arena().SetBuffer(dst, h.tc.CurrentBlock().RandomSeed)
	})
}

func (h *VMHooks) ManagedGetPrevBlockRandomSeed(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetPrevBlockRandomSeed, func() error {
		return h.arena().SetBuffer(dst, h.tc.PreviousBlock().RandomSeed)
	})
}

func (h *VMHooks) ManagedGetOriginalTxHash(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetOriginalTxHash, func() error {
		hash := h.tc.Input().TxHash
		return h.arena().SetBuffer(dst, hash[:])
	})
}

func (h *VMHooks) ManagedGetPrevTxHash(dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetPrevTxHash, func() error {
		hash := h.tc.Input().PrevTxHash
		return h.arena().SetBuffer(dst, hash[:])
	})
}

// GetGasLeft returns the gas left after charging this hook.
func (h *VMHooks) GetGasLeft() (int64, *types.BreakpointError) {
	if bp := h.charge(gas.GetGasLeft); bp != nil {
		return 0, bp
	}
	return int64(h.tc.Meter().Left()), nil
}

// BigIntGetExternalBalance writes the EGLD balance of addr into dst.
func (h *VMHooks) BigIntGetExternalBalance(addr, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetExternalBalance, func() error {
		a, err := h.address(addr)
		if err != nil {
			return err
		}
		balance := new(big.Int)
		err = h.tc.Cache().WithAccount(a, func(acc *state.AccountData) {
			balance.Set(acc.Balance)
		})
		if err != nil {
			return err
		}
		return h.arena().SetBigInt(dst, balance)
	})
}

func (h *VMHooks) ManagedGetCodeMetadata(addr, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetCodeMetadata, func() error {
		a, err := h.address(addr)
		if err != nil {
			return err
		}
		var metadata types.CodeMetadata
		err = h.tc.Cache().WithAccount(a, func(acc *state.AccountData) {
			metadata = acc.CodeMetadata
		})
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, metadata.Bytes())
	})
}

// ManagedGetCodeHash writes keccak256 of the code at addr into dst. An
// account without code yields an empty buffer.
func (h *VMHooks) ManagedGetCodeHash(addr, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetCodeHash, func() error {
		a, err := h.address(addr)
		if err != nil {
			return err
		}
		var hash []byte
		err = h.tc.Cache().WithAccount(a, func(acc *state.AccountData) {
			if len(acc.Code) > 0 {
				hash = crypto.Keccak256(acc.Code)
			}
		})
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, hash)
	})
}

func (h *VMHooks) ManagedIsBuiltinFunction(name managed.Handle) (bool, *types.BreakpointError) {
	var builtin bool
	bp := h.run(gas.IsBuiltinFunction, func() error {
		fn, err := h.arena().BufferBytes(name)
		if err != nil {
			return err
		}
		builtin = h.orchestrator != nil && h.orchestrator.IsBuiltinFunction(string(fn))
		return nil
	})
	return builtin, bp
}

func (h *VMHooks) GetNumReturnData() (int32, *types.BreakpointError) {
	if bp := h.charge(gas.GetNumReturnData); bp != nil {
		return 0, bp
	}
	return int32(len(h.tc.ReturnData())), nil
}

// ManagedGetReturnData copies return data entry index into dst.
func (h *VMHooks) ManagedGetReturnData(index int32, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetReturnData, func() error {
		data := h.tc.ReturnData()
		if index < 0 || int(index) >= len(data) {
			return ErrReturnDataIndex
		}
		return h.arena().SetBuffer(dst, data[index])
	})
}

func (h *VMHooks) CleanReturnData() *types.BreakpointError {
	if bp := h.charge(gas.CleanReturnData); bp != nil {
		return bp
	}
	h.tc.CleanReturnData()
	return nil
}

// DeleteFromReturnData removes entry index; an unknown index is ignored.
func (h *VMHooks) DeleteFromReturnData(index int32) *types.BreakpointError {
	if bp := h.charge(gas.DeleteFromReturnData); bp != nil {
		return bp
	}
	h.tc.DeleteReturnData(int(index))
	return nil
}
