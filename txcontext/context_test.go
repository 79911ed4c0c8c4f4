package txcontext

import (
	"context"
	"testing"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(gasLimit uint64) *TxContext {
	input := &types.TxInput{
		From:     types.AddressFromString("0xaa"),
		To:       types.AddressFromString("0x0000000000000000050001"),
		Function: "run",
		GasLimit: gasLimit,
		TxHash:   types.HashFromString("0x01"),
	}
	return New(context.Background(), input, state.NewCache(nil), gas.DefaultSchedule(), DefaultConfig())
}

func TestTerminateFirstWins(t *testing.T) {
	tc := newTestContext(1000)
	assert.Equal(t, Running, tc.State())

	bp := tc.Fail(types.UserError, "boom")
	assert.Equal(t, types.BreakpointSignalError, bp.Breakpoint)
	assert.Equal(t, Failed, tc.State())

	again := tc.Fail(types.ExecutionFailed, "later")
	assert.Equal(t, types.UserError, again.Code)
	assert.Equal(t, "boom", tc.Result().Message)
}

func TestAsyncYieldKeepsStatusOk(t *testing.T) {
	tc := newTestContext(1000)
	bp := tc.Terminate(types.BreakpointAsyncCall, types.Ok, "")
	assert.Equal(t, types.BreakpointAsyncCall, bp.Breakpoint)
	assert.Equal(t, AsyncYielded, tc.State())
	assert.Equal(t, types.Ok, tc.Result().Status)
}

func TestFinalizeDropsOutputOnFailure(t *testing.T) {
	tc := newTestContext(1000)
	tc.Finish([]byte("a"))
	tc.AddLog(types.LogEntry{Address: tc.SCAddress()})
	require.NoError(t, tc.Meter().Use(40))
	tc.Fail(types.ExecutionFailed, "x")

	res := tc.Finalize()
	assert.Nil(t, res.Out)
	assert.Len(t, res.Logs, 1)
	assert.Equal(t, uint64(40), res.GasUsed)
}

func TestChildHasOwnArenaAndNestedCache(t *testing.T) {
	tc := newTestContext(1000)
	h, err := tc.Arena().NewBuffer([]byte("parent"))
	require.NoError(t, err)

	child := tc.Child(&types.TxInput{To: tc.SCAddress(), GasLimit: 100})
	assert.Equal(t, 1, child.Depth())
	assert.Equal(t, tc.Cache(), child.Cache().Parent())
	assert.Equal(t, uint64(100), child.Meter().Limit())
	_, err = child.Arena().BufferLen(h)
	assert.Error(t, err)
}

func TestReturnData(t *testing.T) {
	tc := newTestContext(1000)
	tc.AppendReturnData([]byte("a"), []byte("b"), []byte("c"))
	tc.DeleteReturnData(1)
	tc.DeleteReturnData(7)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, tc.ReturnData())
	tc.CleanReturnData()
	assert.Empty(t, tc.ReturnData())
}

func TestRandomIsDeterministic(t *testing.T) {
	a := newTestContext(1000).RandomBytes(20)
	b := newTestContext(1000).RandomBytes(20)
	assert.Len(t, a, 20)
	assert.Equal(t, a, b)
}

func TestGasLockedIsReserved(t *testing.T) {
	input := &types.TxInput{GasLimit: 1000, GasLocked: 300}
	tc := New(context.Background(), input, state.NewCache(nil), nil, DefaultConfig())
	assert.Equal(t, uint64(700), tc.Meter().Limit())
}
