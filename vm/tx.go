package vm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/txcontext"
	"github.com/govm-net/hookvm/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AsyncResult holds the outcome of a resolved async call.
type AsyncResult struct {
	Call        *types.AsyncCall
	Destination *types.TxResult
	// Callback is nil when the call was scheduled without one.
	Callback *types.TxResult
	// Nested are the async calls scheduled by the destination and then by
	// the callback, already resolved.
	Nested []*AsyncResult
}

// execute runs input over a fresh cache and commits its changes to the
// world when it succeeds. prepare may install code before the run.
func (e *Engine) execute(ctx context.Context, name string, input *types.TxInput, prepare prepareFunc) (*types.TxResult, error) {
	ctx, span := e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("from", input.From.String()),
		attribute.String("to", input.To.String()),
		attribute.String("function", input.Function),
		attribute.Int64("gas_limit", int64(input.GasLimit)),
	))
	defer span.End()

	cache := state.NewCache(e.world)
	tc := txcontext.New(ctx, input, cache, e.schedule, e.config.txConfig())
	if prepare == nil || prepare(tc) {
		e.run(tc)
	}
	res := tc.Finalize()
	span.SetAttributes(attribute.Int64("gas_used", int64(res.GasUsed)))

	e.logger.Debug("transaction finished",
		"name", name,
		"from", input.From,
		"to", input.To,
		"function", input.Function,
		"status", res.Status,
		"gas_used", res.GasUsed,
	)
	if res.Failed() {
		span.SetStatus(codes.Error, res.Message)
		return res, nil
	}

	if err := e.accrueDeveloperFees(cache, input, res); err != nil {
		return nil, err
	}
	if err := e.world.Commit(cache.Updates()); err != nil {
		e.logger.Error("failed to commit transaction", "to", input.To, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return res, nil
}

// accrueDeveloperFees credits the configured share of the paid gas to
// the called contract.
func (e *Engine) accrueDeveloperFees(cache *state.Cache, input *types.TxInput, res *types.TxResult) error {
	if e.config.DeveloperFeePercentage == 0 || input.GasPrice == 0 || res.GasUsed == 0 {
		return nil
	}
	if _, ok := e.builtins.Lookup(input.To, input.Function); ok {
		return nil
	}
	var contract bool
	if err := cache.WithAccount(input.To, func(acc *state.AccountData) { contract = acc.IsContract() }); err != nil {
		return fmt.Errorf("failed to read contract: %w", err)
	}
	if !contract {
		return nil
	}
	fee := new(big.Int).SetUint64(res.GasUsed)
	fee.Mul(fee, new(big.Int).SetUint64(input.GasPrice))
	fee.Mul(fee, new(big.Int).SetUint64(e.config.DeveloperFeePercentage))
	fee.Quo(fee, big.NewInt(100))
	if fee.Sign() == 0 {
		return nil
	}
	err := cache.WithAccountMut(input.To, func(acc *state.AccountData) error {
		acc.DeveloperRewards.Add(acc.DeveloperRewards, fee)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to credit developer rewards: %w", err)
	}
	return nil
}

// ExecuteTx runs a transaction and commits its changes when it succeeds.
// With AutoResolveAsync set, a pending async call is resolved right away
// and its calls and logs are appended to the result.
func (e *Engine) ExecuteTx(ctx context.Context, input *types.TxInput) (*types.TxResult, error) {
	res, err := e.execute(ctx, "vm.ExecuteTx", input, nil)
	if err != nil || res.Failed() || !e.config.AutoResolveAsync {
		return res, err
	}
	call := res.PendingCalls.AsyncCall
	if call == nil {
		return res, nil
	}
	async, err := e.ResolveAsyncCall(ctx, input, call)
	if err != nil {
		return nil, err
	}
	e.appendAsync(res, async)
	return res, nil
}

func (e *Engine) appendAsync(res *types.TxResult, async *AsyncResult) {
	call := async.Call
	e.appendResolved(res, types.FlavorAsync, call.From, call.To, call.Function, call.Args, call.EGLDValue, call.GasLimit, async.Destination)
	if async.Callback != nil {
		e.appendResolved(res, types.FlavorCallback, call.To, call.From, call.Callback.Function, nil, nil, 0, async.Callback)
	}
	for _, nested := range async.Nested {
		e.appendAsync(res, nested)
	}
}

func (e *Engine) appendResolved(res *types.TxResult, flavor types.CallFlavor, from, to types.Address, function string, args [][]byte, value *big.Int, gasLimit uint64, sub *types.TxResult) {
	res.AllCalls = append(res.AllCalls, types.CallRecord{
		Flavor:    flavor,
		From:      from,
		To:        to,
		EGLDValue: value,
		Function:  function,
		Args:      args,
		GasLimit:  gasLimit,
		GasUsed:   sub.GasUsed,
		Status:    sub.Status,
	})
	res.AllCalls = append(res.AllCalls, sub.AllCalls...)
	if !sub.Failed() {
		res.Logs = append(res.Logs, sub.Logs...)
	}
}

// DeployContract deploys a contract for in.From and runs its init
// function. The address is derived from the creator and its nonce.
func (e *Engine) DeployContract(ctx context.Context, in *types.CreateInput) (types.Address, *types.TxResult, error) {
	cache := state.NewCache(e.world)
	addr, err := nextAddress(cache, in.From)
	if err != nil {
		return types.Address{}, nil, err
	}
	input := in.TxInput
	input.To = addr
	input.Function = InitFunction
	res, err := e.execute(ctx, "vm.DeployContract", &input, func(tc *txcontext.TxContext) bool {
		if err := tc.Meter().UsePerByte(e.schedule.DataCopyPerByte, len(in.Code)); err != nil {
			tc.Fail(types.ExecutionFailed, err.Error())
			return false
		}
		return e.install(tc, in.From, in.Code, in.CodeMetadata)
	})
	if err != nil {
		return types.Address{}, nil, err
	}
	return addr, res, nil
}

// UpgradeContract replaces the code at in.To and runs its upgrade function.
func (e *Engine) UpgradeContract(ctx context.Context, in *types.CreateInput) (*types.TxResult, error) {
	input := in.TxInput
	input.Function = UpgradeFunction
	return e.execute(ctx, "vm.UpgradeContract", &input, func(tc *txcontext.TxContext) bool {
		if err := tc.Meter().UsePerByte(e.schedule.DataCopyPerByte, len(in.Code)); err != nil {
			tc.Fail(types.ExecutionFailed, err.Error())
			return false
		}
		return e.replace(tc, in.From, in.Code, in.CodeMetadata)
	})
}

// ResolveAsyncCall runs an async call scheduled by origin, then its
// callback on the caller. Each half is committed on its own.
//
// The callback receives the return code of the destination followed by
// its returned values, or by its error message when it failed, followed
// by the closure. It runs with the locked gas plus whatever the
// destination left unused. Async calls scheduled by the destination or
// the callback are resolved in turn, up to MaxCallDepth levels.
func (e *Engine) ResolveAsyncCall(ctx context.Context, origin *types.TxInput, call *types.AsyncCall) (*AsyncResult, error) {
	return e.resolveAsync(ctx, origin, call, 1)
}

func (e *Engine) resolveAsync(ctx context.Context, origin *types.TxInput, call *types.AsyncCall, depth int) (*AsyncResult, error) {
	out := &AsyncResult{Call: call}
	if depth > e.config.MaxCallDepth {
		out.Destination = types.ErrorResult(types.ExecutionFailed, ErrMaxCallDepth.Error())
		e.logger.Warn("async call dropped", "from", call.From, "to", call.To, "depth", depth)
		return out, nil
	}

	dest := &types.TxInput{
		From:       call.From,
		To:         call.To,
		EGLDValue:  call.EGLDValue,
		Function:   call.Function,
		Args:       call.Args,
		GasLimit:   call.GasLimit,
		GasPrice:   origin.GasPrice,
		TxHash:     origin.TxHash,
		PrevTxHash: origin.PrevTxHash,
		CallType:   types.AsynchronousCall,
	}
	destRes, err := e.execute(ctx, "vm.AsyncCall", dest, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to run async call: %w", err)
	}
	out.Destination = destRes

	if call.Callback != nil {
		cb := &types.TxInput{
			From:       call.To,
			To:         call.From,
			Function:   call.Callback.Function,
			Args:       callbackArgs(destRes, call.Callback.Closure),
			GasLimit:   call.Callback.GasLocked + unusedGas(call.GasLimit, destRes),
			GasPrice:   origin.GasPrice,
			TxHash:     origin.TxHash,
			PrevTxHash: origin.PrevTxHash,
			CallType:   types.AsynchronousCallBack,
		}
		if out.Callback, err = e.execute(ctx, "vm.Callback", cb, nil); err != nil {
			return nil, fmt.Errorf("failed to run callback: %w", err)
		}
	}

	for _, res := range []*types.TxResult{out.Destination, out.Callback} {
		if res == nil || res.Failed() || res.PendingCalls.AsyncCall == nil {
			continue
		}
		nested, err := e.resolveAsync(ctx, origin, res.PendingCalls.AsyncCall, depth+1)
		if err != nil {
			return nil, err
		}
		out.Nested = append(out.Nested, nested)
	}
	return out, nil
}

// unusedGas is what the destination of an async call left of limit. Gas
// handed on to an async call of its own is not unused.
func unusedGas(limit uint64, res *types.TxResult) uint64 {
	spent := res.GasUsed
	if next := res.PendingCalls.AsyncCall; next != nil && !res.Failed() {
		spent += next.GasLimit
		if next.Callback != nil {
			spent += next.Callback.GasLocked
		}
	}
	if spent >= limit {
		return 0
	}
	return limit - spent
}

func callbackArgs(res *types.TxResult, closure [][]byte) [][]byte {
	args := [][]byte{new(big.Int).SetUint64(uint64(res.Status)).Bytes()}
	if res.Failed() {
		args = append(args, []byte(res.Message))
	} else {
		args = append(args, res.Out...)
	}
	return append(args, closure...)
}
