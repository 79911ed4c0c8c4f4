package hooks

import (
	"math/big"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

// DefaultCallback is run on the caller when an async call was scheduled
// without naming a callback.
const DefaultCallback = "callBack"

func (h *VMHooks) readCall(flavor types.CallFlavor, gasLimit int64, dest, function, args managed.Handle) (*CallRequest, error) {
	to, err := h.address(dest)
	if err != nil {
		return nil, err
	}
	fn, err := h.arena().BufferBytes(function)
	if err != nil {
		return nil, err
	}
	arguments, err := h.arena().ReadBufferVec(args)
	if err != nil {
		return nil, err
	}
	if gasLimit < 0 {
		gasLimit = 0
	}
	return &CallRequest{
		Flavor:   flavor,
		To:       to,
		Value:    new(big.Int),
		Function: string(fn),
		Args:     arguments,
		GasLimit: uint64(gasLimit),
	}, nil
}

func (h *VMHooks) readValue(value managed.Handle) (*big.Int, error) {
	v, err := h.arena().GetBigInt(value)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(v), nil
}

// subCall hands req to the orchestrator. The returned result is nil only
// together with a breakpoint.
func (h *VMHooks) subCall(req *CallRequest) (*types.TxResult, *types.BreakpointError) {
	if h.orchestrator == nil {
		return nil, h.fail(ErrNoOrchestrator)
	}
	res, err := h.orchestrator.Call(h.tc, req)
	if err != nil {
		return nil, h.fail(err)
	}
	if bp := h.tc.Halted(); bp != nil {
		return nil, bp
	}
	return res, nil
}

// propagate fails the caller with the status and message of a failed sub-call.
func (h *VMHooks) propagate(res *types.TxResult) *types.BreakpointError {
	return h.tc.Fail(res.Status, res.Message)
}

// deliver makes the values returned by a sub-call readable by the caller.
func (h *VMHooks) deliver(res *types.TxResult, result managed.Handle) error {
	h.tc.AppendReturnData(res.Out...)
	return h.arena().SetBufferVec(result, res.Out)
}

// ManagedAsyncCall hands the rest of the invocation to dest. It always
// returns a breakpoint: code after it must not run.
func (h *VMHooks) ManagedAsyncCall(dest, value, function, args managed.Handle) *types.BreakpointError {
	return h.asyncCall(dest, value, function, args, func() (string, [][]byte, error) {
		return DefaultCallback, nil, nil
	})
}

// ManagedAsyncCallWithCallback is ManagedAsyncCall with a named callback
// and a closure buffer vec that is passed back to it. An empty callback
// name schedules no callback.
func (h *VMHooks) ManagedAsyncCallWithCallback(dest, value, function, args, callback, closure managed.Handle) *types.BreakpointError {
	return h.asyncCall(dest, value, function, args, func() (string, [][]byte, error) {
		name, err := h.arena().BufferBytes(callback)
		if err != nil {
			return "", nil, err
		}
		c, err := h.arena().ReadBufferVec(closure)
		return string(name), c, err
	})
}

func (h *VMHooks) asyncCall(dest, value, function, args managed.Handle, callback func() (string, [][]byte, error)) *types.BreakpointError {
	if bp := h.charge(gas.AsyncCall); bp != nil {
		return bp
	}
	if h.tc.Result().PendingCalls.AsyncCall != nil {
		return h.fail(ErrTooManyAsyncCalls)
	}
	req, err := h.readCall(types.FlavorAsync, 0, dest, function, args)
	if err != nil {
		return h.fail(err)
	}
	if req.Value, err = h.readValue(value); err != nil {
		return h.fail(err)
	}
	name, closure, err := callback()
	if err != nil {
		return h.fail(err)
	}

	call := &types.AsyncCall{
		From:      h.tc.SCAddress(),
		To:        req.To,
		EGLDValue: req.Value,
		Function:  req.Function,
		Args:      req.Args,
		GasLimit:  h.tc.Meter().Left(),
	}
	if name != "" {
		locked := min(h.tc.Meter().Schedule().CallbackReserve, call.GasLimit)
		call.GasLimit -= locked
		call.Callback = &types.Callback{Function: name, Closure: closure, GasLocked: locked}
	}
	h.tc.Result().PendingCalls.AsyncCall = call
	return h.tc.Terminate(types.BreakpointAsyncCall, types.Ok, "")
}

// ManagedTransferValueExecute sends value to dest and, when function is
// not empty, runs it there. A failing destination fails the caller.
func (h *VMHooks) ManagedTransferValueExecute(dest, value managed.Handle, gasLimit int64, function, args managed.Handle) (int32, *types.BreakpointError) {
	if bp := h.charge(gas.TransferValueExecute); bp != nil {
		return 0, bp
	}
	req, err := h.readCall(types.FlavorTransferExecute, gasLimit, dest, function, args)
	if err != nil {
		return 0, h.fail(err)
	}
	if req.Value, err = h.readValue(value); err != nil {
		return 0, h.fail(err)
	}
	res, bp := h.subCall(req)
	if bp != nil {
		return 0, bp
	}
	if res.Failed() {
		return int32(res.Status), h.propagate(res)
	}
	return 0, nil
}

// ManagedMultiTransferESDTNFTExecute sends the token transfers of the vec
// to dest and optionally runs function there.
func (h *VMHooks) ManagedMultiTransferESDTNFTExecute(dest, transfers managed.Handle, gasLimit int64, function, args managed.Handle) (int32, *types.BreakpointError) {
	if bp := h.charge(gas.MultiTransferESDTNFTExecute); bp != nil {
		return 0, bp
	}
	req, err := h.readCall(types.FlavorTransferExecute, gasLimit, dest, function, args)
	if err != nil {
		return 0, h.fail(err)
	}
	if req.ESDT, err = h.readTransfers(transfers); err != nil {
		return 0, h.fail(err)
	}
	res, bp := h.subCall(req)
	if bp != nil {
		return 0, bp
	}
	if res.Failed() {
		return int32(res.Status), h.propagate(res)
	}
	return 0, nil
}

func (h *VMHooks) executeSync(hook string, flavor types.CallFlavor, gasLimit int64, dest managed.Handle, value *managed.Handle, function, args, result managed.Handle) (*types.TxResult, *types.BreakpointError) {
	if bp := h.charge(hook); bp != nil {
		return nil, bp
	}
	req, err := h.readCall(flavor, gasLimit, dest, function, args)
	if err != nil {
		return nil, h.fail(err)
	}
	if value != nil {
		if req.Value, err = h.readValue(*value); err != nil {
			return nil, h.fail(err)
		}
	}
	if _, err := h.arena().BufferLen(result); err != nil {
		return nil, h.fail(err)
	}
	res, bp := h.subCall(req)
	if bp != nil {
		return nil, bp
	}
	if !res.Failed() {
		if err := h.deliver(res, result); err != nil {
			return nil, h.fail(err)
		}
	}
	return res, nil
}

// ManagedExecuteOnDestContext runs function on dest synchronously. Its
// returned values land in the result vec and in the return data. A failing
// destination fails the caller with the same status.
func (h *VMHooks) ManagedExecuteOnDestContext(gasLimit int64, dest, value, function, args, result managed.Handle) (int32, *types.BreakpointError) {
	res, bp := h.executeSync(gas.ExecuteOnDestContext, types.FlavorExecuteOnDest, gasLimit, dest, &value, function, args, result)
	if bp != nil {
		return 0, bp
	}
	if res.Failed() {
		return int32(res.Status), h.propagate(res)
	}
	return 0, nil
}

// ManagedExecuteOnDestContextWithErrorReturn is ManagedExecuteOnDestContext
// except that a failing destination only reports its status; nothing it
// did is kept and the caller continues.
func (h *VMHooks) ManagedExecuteOnDestContextWithErrorReturn(gasLimit int64, dest, value, function, args, result managed.Handle) (int32, *types.BreakpointError) {
	res, bp := h.executeSync(gas.ExecuteOnDestContextErrReturn, types.FlavorExecuteOnDest, gasLimit, dest, &value, function, args, result)
	if bp != nil {
		return 0, bp
	}
	return int32(res.Status), nil
}

// ManagedExecuteReadOnly runs function on dest and discards its state
// changes even when it succeeds.
func (h *VMHooks) ManagedExecuteReadOnly(gasLimit int64, dest, function, args, result managed.Handle) (int32, *types.BreakpointError) {
	res, bp := h.executeSync(gas.ExecuteReadOnly, types.FlavorExecuteReadOnly, gasLimit, dest, nil, function, args, result)
	if bp != nil {
		return 0, bp
	}
	if res.Failed() {
		return int32(res.Status), h.propagate(res)
	}
	return 0, nil
}

func (h *VMHooks) readDeploy(gasLimit int64, value, metadata, args managed.Handle) (*DeployRequest, error) {
	v, err := h.readValue(value)
	if err != nil {
		return nil, err
	}
	meta, err := h.arena().BufferBytes(metadata)
	if err != nil {
		return nil, err
	}
	arguments, err := h.arena().ReadBufferVec(args)
	if err != nil {
		return nil, err
	}
	if gasLimit < 0 {
		gasLimit = 0
	}
	return &DeployRequest{
		Metadata: types.CodeMetadataFromBytes(meta),
		Value:    v,
		Args:     arguments,
		GasLimit: uint64(gasLimit),
	}, nil
}

// withCode fills the code of req from a code buffer, or from an existing
// contract when fromSource is set.
func (h *VMHooks) withCode(req *DeployRequest, code managed.Handle, fromSource bool) error {
	if fromSource {
		src, err := h.address(code)
		if err != nil {
			return err
		}
		req.Source, req.FromSource = src, true
		return nil
	}
	b, err := h.arena().BufferBytes(code)
	if err != nil {
		return err
	}
	if err := h.tc.Meter().UsePerByte(h.tc.Meter().Schedule().DataCopyPerByte, len(b)); err != nil {
		return err
	}
	req.Code = b
	return nil
}

func (h *VMHooks) deploy(hook string, gasLimit int64, value, code, metadata, args, resultAddress, result managed.Handle, fromSource bool) (int32, *types.BreakpointError) {
	if bp := h.charge(hook); bp != nil {
		return 0, bp
	}
	if h.orchestrator == nil {
		return 0, h.fail(ErrNoOrchestrator)
	}
	req, err := h.readDeploy(gasLimit, value, metadata, args)
	if err == nil {
		err = h.withCode(req, code, fromSource)
	}
	if err == nil {
		_, err = h.arena().BufferLen(resultAddress)
	}
	if err != nil {
		return 0, h.fail(err)
	}
	addr, res, err := h.orchestrator.Deploy(h.tc, req)
	if err != nil {
		return 0, h.fail(err)
	}
	if res.Failed() {
		return int32(res.Status), h.propagate(res)
	}
	if err := h.setAddress(resultAddress, addr); err != nil {
		return 0, h.fail(err)
	}
	if err := h.deliver(res, result); err != nil {
		return 0, h.fail(err)
	}
	return 0, nil
}

// ManagedCreateContract deploys the code buffer as a new contract and runs
// its init function. The new address is written into resultAddress.
func (h *VMHooks) ManagedCreateContract(gasLimit int64, value, code, metadata, args, resultAddress, result managed.Handle) (int32, *types.BreakpointError) {
	return h.deploy(gas.CreateContract, gasLimit, value, code, metadata, args, resultAddress, result, false)
}

// ManagedDeployFromSourceContract deploys a copy of the code at source.
func (h *VMHooks) ManagedDeployFromSourceContract(gasLimit int64, value, source, metadata, args, resultAddress, result managed.Handle) (int32, *types.BreakpointError) {
	return h.deploy(gas.DeployFromSourceContract, gasLimit, value, source, metadata, args, resultAddress, result, true)
}

func (h *VMHooks) upgrade(hook string, dest managed.Handle, gasLimit int64, value, code, metadata, args, result managed.Handle, fromSource bool) *types.BreakpointError {
	if bp := h.charge(hook); bp != nil {
		return bp
	}
	if h.orchestrator == nil {
		return h.fail(ErrNoOrchestrator)
	}
	target, err := h.address(dest)
	if err != nil {
		return h.fail(err)
	}
	req, err := h.readDeploy(gasLimit, value, metadata, args)
	if err == nil {
		err = h.withCode(req, code, fromSource)
	}
	if err != nil {
		return h.fail(err)
	}
	res, err := h.orchestrator.Upgrade(h.tc, target, req)
	if err != nil {
		return h.fail(err)
	}
	if res.Failed() {
		return h.propagate(res)
	}
	if err := h.deliver(res, result); err != nil {
		return h.fail(err)
	}
	return nil
}

// ManagedUpgradeContract replaces the code of dest, which must be
// upgradeable and owned by the running contract, and runs its upgrade
// function.
func (h *VMHooks) ManagedUpgradeContract(dest managed.Handle, gasLimit int64, value, code, metadata, args, result managed.Handle) *types.BreakpointError {
	return h.upgrade(gas.UpgradeContract, dest, gasLimit, value, code, metadata, args, result, false)
}

func (h *VMHooks) ManagedUpgradeFromSourceContract(dest managed.Handle, gasLimit int64, value, source, metadata, args, result managed.Handle) *types.BreakpointError {
	return h.upgrade(gas.UpgradeFromSourceContract, dest, gasLimit, value, source, metadata, args, result, true)
}
