// Package hooks implements the catalogue of VM hooks a running contract
// calls into. Every hook charges its schedule cost before doing any work
// and reports failure as a *types.BreakpointError after recording the
// status and message in the invocation result. Once a hook has returned a
// breakpoint the executor must stop running contract code.
package hooks

import (
	"errors"
	"math/big"

	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/txcontext"
	"github.com/govm-net/hookvm/types"
)

var (
	ErrArgOutOfRange     = errors.New("argument index out of range")
	ErrArgTooLarge       = errors.New("argument does not fit a 64-bit integer")
	ErrNonPayable        = errors.New("function does not accept EGLD payment")
	ErrNonPayableESDT    = errors.New("function does not accept ESDT payment")
	ErrTooManyAsyncCalls = errors.New("too many async calls")
	ErrTooManyTopics     = errors.New("too many log topics")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrNoOrchestrator    = errors.New("sub-calls are not available")
	ErrReturnDataIndex   = errors.New("return data index out of range")
)

// CallRequest is a synchronous or fire-and-forget sub-call requested by
// the running contract.
type CallRequest struct {
	Flavor   types.CallFlavor
	To       types.Address
	Value    *big.Int
	ESDT     []types.ESDTTransfer
	Function string
	Args     [][]byte
	// GasLimit is the requested gas; zero asks for everything left.
	GasLimit uint64
}

// DeployRequest creates or upgrades a contract. Exactly one of Code and
// Source is used: with FromSource set the code is copied from Source.
type DeployRequest struct {
	Code       []byte
	Source     types.Address
	FromSource bool
	Metadata   types.CodeMetadata
	Value      *big.Int
	Args       [][]byte
	GasLimit   uint64
}

// CallOrchestrator runs sub-invocations on behalf of a running contract.
// By the time a method returns, the effects of the sub-call have been
// committed into tc's cache or discarded, and its gas has been charged to
// tc's meter. A failed sub-call is reported through the returned result;
// the error is reserved for failures of the caller itself.
type CallOrchestrator interface {
	Call(tc *txcontext.TxContext, req *CallRequest) (*types.TxResult, error)
	Deploy(tc *txcontext.TxContext, req *DeployRequest) (types.Address, *types.TxResult, error)
	Upgrade(tc *txcontext.TxContext, target types.Address, req *DeployRequest) (*types.TxResult, error)
	IsBuiltinFunction(name string) bool
}

// VMHooks is the hook catalogue bound to one invocation.
type VMHooks struct {
	tc           *txcontext.TxContext
	orchestrator CallOrchestrator
}

// New binds the hooks to tc. orchestrator may be nil, in which case every
// call hook fails.
func New(tc *txcontext.TxContext, orchestrator CallOrchestrator) *VMHooks {
	return &VMHooks{tc: tc, orchestrator: orchestrator}
}

// Context returns the invocation the hooks operate on.
func (h *VMHooks) Context() *txcontext.TxContext {
	return h.tc
}

func (h *VMHooks) arena() *managed.Arena {
	return h.tc.Arena()
}

// charge bills the schedule cost of hook. A terminated invocation keeps
// returning its breakpoint.
func (h *VMHooks) charge(hook string) *types.BreakpointError {
	if bp := h.tc.Halted(); bp != nil {
		return bp
	}
	if err := h.tc.Meter().UseHook(hook); err != nil {
		return h.tc.Fail(types.ExecutionFailed, err.Error())
	}
	return nil
}

// chargeBytes bills a per-byte cost on top of the hook cost.
func (h *VMHooks) chargeBytes(perByte uint64, n int) *types.BreakpointError {
	if err := h.tc.Meter().UsePerByte(perByte, n); err != nil {
		return h.tc.Fail(types.ExecutionFailed, err.Error())
	}
	return nil
}

// fail terminates the invocation with err. A breakpoint raised further
// down is passed through unchanged.
func (h *VMHooks) fail(err error) *types.BreakpointError {
	var bp *types.BreakpointError
	if errors.As(err, &bp) {
		return bp
	}
	return h.tc.Fail(types.ExecutionFailed, err.Error())
}

// run charges hook and then runs op, failing the invocation on error.
func (h *VMHooks) run(hook string, op func() error) *types.BreakpointError {
	if bp := h.charge(hook); bp != nil {
		return bp
	}
	if err := op(); err != nil {
		return h.fail(err)
	}
	return nil
}

func (h *VMHooks) address(handle managed.Handle) (types.Address, error) {
	b, err := h.arena().BufferBytes(handle)
	if err != nil {
		return types.Address{}, err
	}
	addr, ok := types.AddressFromBytes(b)
	if !ok {
		return types.Address{}, ErrInvalidAddress
	}
	return addr, nil
}
