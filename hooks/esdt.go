package hooks

import (
	"math/big"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

// TokenDataHandles are the output handles of ManagedGetESDTTokenData.
// Value and Royalties are big integers, URIs receives a managed vec of
// buffer handles, every other field is a buffer.
type TokenDataHandles struct {
	Value      managed.Handle
	Properties managed.Handle
	Hash       managed.Handle
	Name       managed.Handle
	Attributes managed.Handle
	Creator    managed.Handle
	Royalties  managed.Handle
	URIs       managed.Handle
}

func (h *VMHooks) tokenArgs(addr, token managed.Handle) (types.Address, []byte, error) {
	a, err := h.address(addr)
	if err != nil {
		return types.Address{}, nil, err
	}
	id, err := h.arena().BufferBytes(token)
	if err != nil {
		return types.Address{}, nil, err
	}
	return a, id, nil
}

func (h *VMHooks) esdtInstance(addr types.Address, token []byte, nonce uint64) (*state.ESDTInstance, error) {
	var inst *state.ESDTInstance
	err := h.tc.Cache().WithAccount(addr, func(acc *state.AccountData) {
		if found := acc.ESDTInstanceOf(token, nonce); found != nil {
			inst = &state.ESDTInstance{
				Balance:  new(big.Int).Set(found.Balance),
				Frozen:   found.Frozen,
				Metadata: found.Metadata,
			}
		}
	})
	return inst, err
}

// ManagedGetESDTTokenData writes the balance and metadata of a token held
// by addr into out. When the account does not hold the token the handles
// are left untouched, or reset to empty values if the context is
// configured to clear them.
func (h *VMHooks) ManagedGetESDTTokenData(addr, token managed.Handle, nonce int64, out TokenDataHandles) *types.BreakpointError {
	return h.run(gas.GetESDTTokenData, func() error {
		a, id, err := h.tokenArgs(addr, token)
		if err != nil {
			return err
		}
		inst, err := h.esdtInstance(a, id, uint64(nonce))
		if err != nil {
			return err
		}
		if inst == nil {
			if !h.tc.Config().ClearTokenDataOnMissing {
				return nil
			}
			inst = &state.ESDTInstance{Balance: new(big.Int)}
		}
		return h.writeTokenData(inst, out)
	})
}

func (h *VMHooks) writeTokenData(inst *state.ESDTInstance, out TokenDataHandles) error {
	ar := h.arena()
	meta := inst.Metadata
	if meta == nil {
		meta = &state.ESDTMetadata{}
	}
	properties := make([]byte, 2)
	if inst.Frozen {
		properties[0] = 1
	}
	var creator []byte
	if !meta.Creator.IsZero() {
		creator = meta.Creator[:]
	}
	steps := []func() error{
		func() error { return ar.SetBigInt(out.Value, inst.Balance) },
		func() error { return ar.SetBuffer(out.Properties, properties) },
		func() error { return ar.SetBuffer(out.Hash, meta.Hash) },
		func() error { return ar.SetBuffer(out.Name, meta.Name) },
		func() error { return ar.SetBuffer(out.Attributes, meta.Attributes) },
		func() error { return ar.SetBuffer(out.Creator, creator) },
		func() error { return ar.SetBigInt(out.Royalties, new(big.Int).SetUint64(uint64(meta.Royalties))) },
		func() error { return ar.SetBufferVec(out.URIs, meta.URIs) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// BigIntGetESDTExternalBalance writes the token balance held by addr into dst.
func (h *VMHooks) BigIntGetESDTExternalBalance(addr, token managed.Handle, nonce int64, dst managed.Handle) *types.BreakpointError {
	return h.run(gas.GetESDTBalance, func() error {
		a, id, err := h.tokenArgs(addr, token)
		if err != nil {
			return err
		}
		balance := new(big.Int)
		err = h.tc.Cache().WithAccount(a, func(acc *state.AccountData) {
			balance.Set(acc.ESDTBalance(id, uint64(nonce)))
		})
		if err != nil {
			return err
		}
		return h.arena().SetBigInt(dst, balance)
	})
}

func (h *VMHooks) ManagedIsESDTFrozen(addr, token managed.Handle, nonce int64) (bool, *types.BreakpointError) {
	var frozen bool
	bp := h.run(gas.IsESDTFrozen, func() error {
		a, id, err := h.tokenArgs(addr, token)
		if err != nil {
			return err
		}
		inst, err := h.esdtInstance(a, id, uint64(nonce))
		frozen = inst != nil && inst.Frozen
		return err
	})
	return frozen, bp
}

func (h *VMHooks) tokenSettings(hook string, token managed.Handle, f func(s *state.TokenSettings) bool) (bool, *types.BreakpointError) {
	var result bool
	bp := h.run(hook, func() error {
		id, err := h.arena().BufferBytes(token)
		if err != nil {
			return err
		}
		return h.tc.Cache().WithAccount(types.SystemAccountAddress, func(acc *state.AccountData) {
			if s, ok := acc.Tokens[string(id)]; ok {
				result = f(s)
			}
		})
	})
	return result, bp
}

// ManagedIsESDTPaused reports the global paused flag of token.
func (h *VMHooks) ManagedIsESDTPaused(token managed.Handle) (bool, *types.BreakpointError) {
	return h.tokenSettings(gas.IsESDTPaused, token, func(s *state.TokenSettings) bool { return s.Paused })
}

func (h *VMHooks) ManagedIsESDTLimitedTransfer(token managed.Handle) (bool, *types.BreakpointError) {
	return h.tokenSettings(gas.IsESDTLimitedTransfer, token, func(s *state.TokenSettings) bool { return s.LimitedTransfer })
}

// GetESDTLocalRoles returns the roles the running contract holds for token.
func (h *VMHooks) GetESDTLocalRoles(token managed.Handle) (int64, *types.BreakpointError) {
	var roles state.Role
	bp := h.run(gas.GetESDTLocalRoles, func() error {
		id, err := h.arena().BufferBytes(token)
		if err != nil {
			return err
		}
		return h.tc.Cache().WithAccount(h.tc.SCAddress(), func(acc *state.AccountData) {
			roles = acc.ESDTRoles[string(id)]
		})
	})
	return int64(roles), bp
}
