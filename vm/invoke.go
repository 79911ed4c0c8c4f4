package vm

import (
	"errors"
	"fmt"

	"github.com/govm-net/hookvm/builtin"
	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/txcontext"
	"github.com/govm-net/hookvm/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// run executes the input of tc. Whatever happens is recorded in tc.
func (e *Engine) run(tc *txcontext.TxContext) {
	defer tc.Complete()

	in := tc.Input()
	if fn, ok := e.builtins.Lookup(in.To, in.Function); ok {
		e.runBuiltin(tc, fn)
		return
	}

	var code []byte
	var metadata types.CodeMetadata
	err := tc.Cache().WithAccount(in.To, func(acc *state.AccountData) {
		code = acc.Code
		metadata = acc.CodeMetadata
	})
	if err != nil {
		tc.Fail(types.ExecutionFailed, err.Error())
		return
	}

	if !e.transferValue(tc, len(code) > 0, metadata) {
		return
	}
	if len(code) == 0 {
		if in.Function != "" && types.IsSmartContractAddress(in.To) {
			tc.Fail(types.ContractNotFound, ErrContractNotFound.Error())
		}
		return
	}
	if in.Function == "" {
		return
	}

	if err := e.executor.Execute(hooks.New(tc, e), code, in.Function); err != nil {
		e.logger.Warn("executor failed", "contract", in.To, "function", in.Function, "error", err)
		tc.Fail(types.ExecutionFailed, err.Error())
	}
}

// transferValue moves the call value to the destination. Plain payments
// to a contract need its payable flags.
func (e *Engine) transferValue(tc *txcontext.TxContext, contract bool, metadata types.CodeMetadata) bool {
	in := tc.Input()
	value := in.Value()
	if value.Sign() == 0 {
		return true
	}
	if contract && in.Function == "" && in.CallType == types.DirectCall {
		payable := metadata.Payable
		if types.IsSmartContractAddress(in.From) {
			payable = payable || metadata.PayableBySC
		}
		if !payable {
			tc.Fail(types.UserError, ErrNotPayable.Error())
			return false
		}
	}
	if err := tc.Cache().TransferEGLD(in.From, in.To, value); err != nil {
		if errors.Is(err, state.ErrNegativeBalance) {
			tc.Fail(types.InsufficientFunds, err.Error())
		} else {
			tc.Fail(types.ExecutionFailed, err.Error())
		}
		return false
	}
	return true
}

// runBuiltin runs a built-in function and the contract call it may ask
// for. The follow-up call sees the transferred tokens as its call value.
func (e *Engine) runBuiltin(tc *txcontext.TxContext, fn builtin.Function) {
	in := tc.Input()
	if err := tc.Meter().Use(e.schedule.BuiltinCost(in.Function)); err != nil {
		tc.Fail(types.ExecutionFailed, err.Error())
		return
	}
	if in.Value().Sign() != 0 && in.To != types.ESDTSystemSCAddress {
		tc.Fail(types.BuiltinFailed, ErrBuiltinWithValue.Error())
		return
	}

	out, err := fn.Execute(&builtin.Input{
		Caller:    in.From,
		Recipient: in.To,
		Function:  in.Function,
		Args:      in.Args,
		EGLDValue: in.EGLDValue,
	}, tc.Cache())
	if err != nil {
		tc.Fail(builtin.ReturnCode(err), err.Error())
		return
	}
	for _, entry := range out.Logs {
		tc.AddLog(entry)
	}
	for _, data := range out.Out {
		tc.Finish(data)
	}
	if out.Execute == nil {
		return
	}

	exec := out.Execute
	res := e.subCall(tc, types.FlavorExecuteOnDest, &types.TxInput{
		From:          exec.From,
		To:            exec.To,
		ESDTTransfers: exec.ESDT,
		Function:      exec.Function,
		Args:          exec.Args,
		GasLimit:      tc.Meter().Left(),
		GasPrice:      in.GasPrice,
		TxHash:        in.TxHash,
		PrevTxHash:    in.PrevTxHash,
		CallType:      in.CallType,
	}, nil, nil)
	if res.Failed() {
		tc.Fail(res.Status, res.Message)
		return
	}
	for _, data := range res.Out {
		tc.Finish(data)
	}
	if call := res.PendingCalls.AsyncCall; call != nil {
		tc.Result().PendingCalls.AsyncCall = call
		tc.Terminate(types.BreakpointAsyncCall, types.Ok, "")
	}
}

// adoptsAsync reports whether parent takes over an async call scheduled
// by its child. Only the follow-up of a built-in function run by the
// transaction itself may schedule one.
func (e *Engine) adoptsAsync(parent *txcontext.TxContext, flavor types.CallFlavor) bool {
	if flavor != types.FlavorExecuteOnDest || parent.Depth() != 0 {
		return false
	}
	in := parent.Input()
	_, ok := e.builtins.Lookup(in.To, in.Function)
	return ok
}

// failedResult replaces res by an ExecutionFailed result that keeps the
// gas it used.
func failedResult(res *types.TxResult, message string) *types.TxResult {
	failed := types.ErrorResult(types.ExecutionFailed, message)
	failed.GasUsed = res.GasUsed
	return failed
}

// prepareFunc runs on the child before its code does. Returning false
// means the child has already been failed.
type prepareFunc func(child *txcontext.TxContext) bool

// subCall runs input as a child of parent. The child's gas is charged to
// the parent; its state changes reach the parent only when it succeeds
// and the flavor is not read-only. record overrides the destination and
// tokens reported for the call.
func (e *Engine) subCall(parent *txcontext.TxContext, flavor types.CallFlavor, input *types.TxInput, record *types.CallRecord, prepare prepareFunc) *types.TxResult {
	ctx, span := e.tracer.Start(parent.Context(), "vm.SubCall", trace.WithAttributes(
		attribute.String("flavor", string(flavor)),
		attribute.String("to", input.To.String()),
		attribute.String("function", input.Function),
		attribute.Int("depth", parent.Depth()+1),
	))
	defer span.End()

	if record == nil {
		record = &types.CallRecord{To: input.To, ESDT: input.ESDTTransfers}
	}
	record.Flavor = flavor
	record.From = input.From
	record.EGLDValue = input.EGLDValue
	record.Function = input.Function
	record.Args = input.Args
	record.GasLimit = input.GasLimit

	if parent.Depth()+1 > e.config.MaxCallDepth {
		res := types.ErrorResult(types.ExecutionFailed, ErrMaxCallDepth.Error())
		record.Status = res.Status
		parent.AddCall(*record)
		span.SetStatus(codes.Error, res.Message)
		return res
	}

	child := parent.ChildWithContext(ctx, input)
	if prepare == nil || prepare(child) {
		e.run(child)
	}
	res := child.Finalize()
	if res.PendingCalls.AsyncCall != nil && !e.adoptsAsync(parent, flavor) {
		res = failedResult(res, ErrAsyncInSubCall.Error())
	}
	if err := parent.Meter().Use(res.GasUsed); err != nil {
		res = failedResult(res, err.Error())
		parent.Fail(types.ExecutionFailed, res.Message)
	}

	if !res.Failed() && flavor != types.FlavorExecuteReadOnly {
		if err := parent.Cache().CommitUpdates(child.Cache()); err != nil {
			res = types.ErrorResult(types.ExecutionFailed, fmt.Sprintf("failed to commit sub-call: %v", err))
		} else {
			for _, entry := range res.Logs {
				parent.AddLog(entry)
			}
		}
	}

	record.GasUsed = res.GasUsed
	record.Status = res.Status
	parent.AddCall(*record)
	for _, nested := range res.AllCalls {
		parent.AddCall(nested)
	}

	if res.Failed() {
		span.SetStatus(codes.Error, res.Message)
	}
	e.logger.Debug("sub-call finished",
		"flavor", flavor,
		"to", record.To,
		"function", input.Function,
		"depth", child.Depth(),
		"status", res.Status,
		"gas_used", res.GasUsed,
	)
	return res
}
