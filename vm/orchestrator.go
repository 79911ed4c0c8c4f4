package vm

import (
	"fmt"
	"math/big"

	"github.com/govm-net/hookvm/builtin"
	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/txcontext"
	"github.com/govm-net/hookvm/types"
)

const (
	// InitFunction runs once when a contract is deployed.
	InitFunction = "init"
	// UpgradeFunction runs after the code of a contract was replaced.
	UpgradeFunction = "upgrade"
)

// subGas is the gas handed to a sub-call: the request, capped by what the
// caller has left. Zero asks for everything left. Gas locked for a
// callback is never part of what is left.
func subGas(parent *txcontext.TxContext, requested uint64) uint64 {
	left := parent.Meter().Left()
	if requested == 0 || requested > left {
		return left
	}
	return requested
}

func childInput(parent *txcontext.TxContext, to types.Address, value *big.Int, function string, args [][]byte, gasLimit uint64) *types.TxInput {
	in := parent.Input()
	return &types.TxInput{
		From:       parent.SCAddress(),
		To:         to,
		EGLDValue:  value,
		Function:   function,
		Args:       args,
		GasLimit:   subGas(parent, gasLimit),
		GasPrice:   in.GasPrice,
		TxHash:     in.TxHash,
		PrevTxHash: in.PrevTxHash,
		CallType:   types.DirectCall,
	}
}

// Call runs a synchronous sub-call for the running contract. Token
// transfers are routed through MultiESDTNFTTransfer, which then runs the
// function on the destination.
func (e *Engine) Call(parent *txcontext.TxContext, req *hooks.CallRequest) (*types.TxResult, error) {
	input := childInput(parent, req.To, req.Value, req.Function, req.Args, req.GasLimit)
	record := &types.CallRecord{To: req.To, ESDT: req.ESDT}
	if len(req.ESDT) > 0 {
		input.To = input.From
		input.Function = builtin.MultiESDTNFTTransfer
		input.Args = multiTransferArgs(req)
	}
	return e.subCall(parent, req.Flavor, input, record, nil), nil
}

func multiTransferArgs(req *hooks.CallRequest) [][]byte {
	args := make([][]byte, 0, 2+3*len(req.ESDT)+1+len(req.Args))
	args = append(args, req.To.Bytes(), big.NewInt(int64(len(req.ESDT))).Bytes())
	for _, t := range req.ESDT {
		value := t.Value
		if value == nil {
			value = new(big.Int)
		}
		args = append(args, t.TokenID, new(big.Int).SetUint64(t.Nonce).Bytes(), value.Bytes())
	}
	if req.Function != "" {
		args = append(args, []byte(req.Function))
		args = append(args, req.Args...)
	}
	return args
}

// sourceCode returns the code a deploy or upgrade installs. A failed
// lookup is reported as a result.
func (e *Engine) sourceCode(cache *state.Cache, req *hooks.DeployRequest) ([]byte, *types.TxResult) {
	if !req.FromSource {
		return req.Code, nil
	}
	var code []byte
	if err := cache.WithAccount(req.Source, func(acc *state.AccountData) { code = acc.Code }); err != nil {
		return nil, types.ErrorResult(types.ExecutionFailed, err.Error())
	}
	if len(code) == 0 {
		return nil, types.ErrorResult(types.ContractNotFound, fmt.Sprintf("%s: %s", ErrContractNotFound, req.Source))
	}
	return code, nil
}

// nextAddress is the address creator's next deploy lands on.
func nextAddress(cache *state.Cache, creator types.Address) (types.Address, error) {
	var nonce uint64
	if err := cache.WithAccount(creator, func(acc *state.AccountData) { nonce = acc.Nonce }); err != nil {
		return types.Address{}, fmt.Errorf("failed to read creator nonce: %w", err)
	}
	return NewAddress(creator, nonce), nil
}

// install puts code at the address tc runs on and bumps the creator's
// nonce, both inside tc's cache.
func (e *Engine) install(tc *txcontext.TxContext, creator types.Address, code []byte, metadata types.CodeMetadata) bool {
	addr := tc.SCAddress()
	if err := e.executor.Validate(code); err != nil {
		tc.Fail(types.DeployFailed, fmt.Sprintf("invalid contract code: %v", err))
		return false
	}
	var exists bool
	if err := tc.Cache().WithAccount(addr, func(acc *state.AccountData) { exists = acc.IsContract() }); err != nil {
		tc.Fail(types.ExecutionFailed, err.Error())
		return false
	}
	if exists {
		tc.Fail(types.DeployFailed, fmt.Sprintf("%s: %s", ErrContractExists, addr))
		return false
	}
	if _, err := tc.Cache().IncrementNonce(creator); err != nil {
		tc.Fail(types.ExecutionFailed, err.Error())
		return false
	}
	err := tc.Cache().WithAccountMut(addr, func(acc *state.AccountData) error {
		acc.Code = append([]byte{}, code...)
		acc.CodeMetadata = metadata
		acc.Owner = creator
		return nil
	})
	if err != nil {
		tc.Fail(types.ExecutionFailed, err.Error())
		return false
	}
	return true
}

// replace swaps the code at the address tc runs on. Only the owner may do
// it, and only while the contract is upgradeable.
func (e *Engine) replace(tc *txcontext.TxContext, caller types.Address, code []byte, metadata types.CodeMetadata) bool {
	addr := tc.SCAddress()
	var exists, upgradeable bool
	var owner types.Address
	err := tc.Cache().WithAccount(addr, func(acc *state.AccountData) {
		exists = acc.IsContract()
		upgradeable = acc.CodeMetadata.Upgradeable
		owner = acc.Owner
	})
	switch {
	case err != nil:
		tc.Fail(types.ExecutionFailed, err.Error())
		return false
	case !exists:
		tc.Fail(types.ContractNotFound, fmt.Sprintf("%s: %s", ErrContractNotFound, addr))
		return false
	case owner != caller:
		tc.Fail(types.UpgradeFailed, ErrUpgradeNotAllowed.Error())
		return false
	case !upgradeable:
		tc.Fail(types.UpgradeFailed, ErrNotUpgradeable.Error())
		return false
	}
	if err := e.executor.Validate(code); err != nil {
		tc.Fail(types.UpgradeFailed, fmt.Sprintf("invalid contract code: %v", err))
		return false
	}
	err = tc.Cache().WithAccountMut(addr, func(acc *state.AccountData) error {
		acc.Code = append([]byte{}, code...)
		acc.CodeMetadata = metadata
		return nil
	})
	if err != nil {
		tc.Fail(types.ExecutionFailed, err.Error())
		return false
	}
	return true
}

// Deploy creates a contract owned by the running contract and runs its
// init function.
func (e *Engine) Deploy(parent *txcontext.TxContext, req *hooks.DeployRequest) (types.Address, *types.TxResult, error) {
	creator := parent.SCAddress()
	code, failed := e.sourceCode(parent.Cache(), req)
	if failed != nil {
		return types.Address{}, failed, nil
	}
	addr, err := nextAddress(parent.Cache(), creator)
	if err != nil {
		return types.Address{}, nil, err
	}
	input := childInput(parent, addr, req.Value, InitFunction, req.Args, req.GasLimit)
	res := e.subCall(parent, types.FlavorDeploy, input, nil, func(child *txcontext.TxContext) bool {
		return e.install(child, creator, code, req.Metadata)
	})
	return addr, res, nil
}

// Upgrade replaces the code of target and runs its upgrade function.
func (e *Engine) Upgrade(parent *txcontext.TxContext, target types.Address, req *hooks.DeployRequest) (*types.TxResult, error) {
	code, failed := e.sourceCode(parent.Cache(), req)
	if failed != nil {
		return failed, nil
	}
	caller := parent.SCAddress()
	input := childInput(parent, target, req.Value, UpgradeFunction, req.Args, req.GasLimit)
	res := e.subCall(parent, types.FlavorUpgrade, input, nil, func(child *txcontext.TxContext) bool {
		return e.replace(child, caller, code, req.Metadata)
	})
	return res, nil
}
