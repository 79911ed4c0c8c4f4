package hooks

import (
	"context"
	"math/big"
	"testing"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/state/memory"
	"github.com/govm-net/hookvm/storage"
	"github.com/govm-net/hookvm/txcontext"
	"github.com/govm-net/hookvm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	caller   = types.AddressFromString("0xaa")
	contract = types.AddressFromString("0x0000000000000000050001")
	other    = types.AddressFromString("0x0000000000000000050002")
)

type fixture struct {
	world *memory.World
	cache *state.Cache
	tc    *txcontext.TxContext
	hooks *VMHooks
}

func newFixture(t *testing.T, input *types.TxInput, schedule *gas.Schedule, orchestrator CallOrchestrator) *fixture {
	t.Helper()
	world := memory.NewWorld()
	world.SetBlocks(
		types.BlockInfo{Nonce: 10, Round: 11, Epoch: 2, Timestamp: 6000, RandomSeed: []byte{1, 2, 3}},
		types.BlockInfo{Nonce: 9, Round: 10, Epoch: 2, Timestamp: 5994, RandomSeed: []byte{4, 5, 6}},
	)
	sc := state.NewAccount(contract)
	sc.Code = []byte("code")
	sc.Owner = caller
	sc.Balance = big.NewInt(100)
	world.SetAccount(sc)
	return newFixtureOver(t, world, input, schedule, orchestrator)
}

func newFixtureOver(t *testing.T, world *memory.World, input *types.TxInput, schedule *gas.Schedule, orchestrator CallOrchestrator) *fixture {
	t.Helper()
	if input == nil {
		input = &types.TxInput{}
	}
	if input.To.IsZero() {
		input.To = contract
	}
	if input.From.IsZero() {
		input.From = caller
	}
	if input.GasLimit == 0 {
		input.GasLimit = 1_000_000
	}
	if schedule == nil {
		schedule = gas.DefaultSchedule()
	}
	cache := state.NewCache(world)
	tc := txcontext.New(context.Background(), input, cache, schedule, txcontext.DefaultConfig())
	return &fixture{world: world, cache: cache, tc: tc, hooks: New(tc, orchestrator)}
}

func (f *fixture) buffer(t *testing.T, b []byte) managed.Handle {
	t.Helper()
	h, err := f.tc.Arena().NewBuffer(b)
	require.NoError(t, err)
	return h
}

func (f *fixture) bigInt(t *testing.T, v int64) managed.Handle {
	t.Helper()
	h, err := f.tc.Arena().NewBigIntFromInt64(v)
	require.NoError(t, err)
	return h
}

func (f *fixture) bytesOf(t *testing.T, h managed.Handle) []byte {
	t.Helper()
	b, err := f.tc.Arena().BufferBytes(h)
	require.NoError(t, err)
	return b
}

func (f *fixture) bigIntOf(t *testing.T, h managed.Handle) *big.Int {
	t.Helper()
	v, err := f.tc.Arena().GetBigInt(h)
	require.NoError(t, err)
	return v
}

func TestBitwiseNegativeFailsExecution(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	a, bp := f.hooks.BigIntNew(-1)
	require.Nil(t, bp)
	b, bp := f.hooks.BigIntNew(1)
	require.Nil(t, bp)
	dst, bp := f.hooks.BigIntNew(0)
	require.Nil(t, bp)

	before := f.tc.Meter().Used()
	bp = f.hooks.BigIntAnd(dst, a, b)
	require.NotNil(t, bp)
	assert.Equal(t, types.BreakpointExecutionFailed, bp.Breakpoint)
	assert.Equal(t, types.ExecutionFailed, f.tc.Result().Status)
	assert.Equal(t, "bitwise operations only allowed on positive integers", f.tc.Result().Message)

	cost, err := gas.DefaultSchedule().Cost(gas.BigIntAnd)
	require.NoError(t, err)
	assert.Equal(t, cost, f.tc.Meter().Used()-before)
}

func TestGasExhaustionMidHook(t *testing.T) {
	schedule := gas.FromCategories(map[gas.Category]uint64{})
	schedule.Hooks[gas.BigIntMul] = 10
	schedule.Hooks[gas.WriteLog] = 5
	schedule.DataCopyPerByte = 0
	f := newFixture(t, &types.TxInput{GasLimit: 100}, schedule, nil)

	a := f.bigInt(t, 6)
	b := f.bigInt(t, 7)
	dst := f.bigInt(t, 0)
	topics, err := f.tc.Arena().NewBufferVec([][]byte{[]byte("before")})
	require.NoError(t, err)
	require.Nil(t, f.hooks.ManagedWriteLog(topics, f.buffer(t, []byte("data"))))
	require.Nil(t, f.hooks.MBufferFinish(f.buffer(t, []byte("partial"))))
	require.NoError(t, f.tc.Meter().Use(90))
	require.Equal(t, uint64(95), f.tc.Meter().Used())

	bp := f.hooks.BigIntMul(dst, a, b)
	require.NotNil(t, bp)
	assert.Equal(t, types.BreakpointExecutionFailed, bp.Breakpoint)
	assert.Zero(t, f.bigIntOf(t, dst).Sign())

	res := f.tc.Finalize()
	assert.Equal(t, types.ExecutionFailed, res.Status)
	assert.Contains(t, res.Message, "not enough gas")
	assert.Empty(t, res.Out)
	require.Len(t, res.Logs, 1)
	assert.Equal(t, [][]byte{[]byte("before")}, res.Logs[0].Topics)
	assert.LessOrEqual(t, res.GasUsed, uint64(100))
}

func TestHooksAfterTerminationReturnSameBreakpoint(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	bp := f.hooks.SignalError("nope")
	require.NotNil(t, bp)
	assert.Equal(t, types.BreakpointSignalError, bp.Breakpoint)
	assert.Equal(t, types.UserError, f.tc.Result().Status)

	used := f.tc.Meter().Used()
	_, again := f.hooks.BigIntNew(5)
	require.NotNil(t, again)
	assert.Equal(t, types.UserError, again.Code)
	assert.Equal(t, "nope", again.Message)
	assert.Equal(t, used, f.tc.Meter().Used())
}

func TestManagedSignalError(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	bp := f.hooks.ManagedSignalError(f.buffer(t, []byte("wrong caller")))
	require.NotNil(t, bp)
	assert.Equal(t, types.UserError, bp.Code)
	assert.Equal(t, txcontext.Failed, f.tc.State())
	assert.Equal(t, "wrong caller", f.tc.Result().Message)
}

func TestSignalExitKeepsOutput(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	require.Nil(t, f.hooks.SmallIntFinishUnsigned(7))
	bp := f.hooks.SignalExit()
	require.NotNil(t, bp)
	assert.Equal(t, types.BreakpointSignalExit, bp.Breakpoint)
	res := f.tc.Finalize()
	assert.Equal(t, types.Ok, res.Status)
	assert.Equal(t, [][]byte{{7}}, res.Out)
}

func TestStorageRoundTripAcrossInvocations(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	key := f.buffer(t, []byte{0x01, 0x02})
	value := f.buffer(t, []byte{0xaa, 0xbb})

	status, bp := f.hooks.MBufferStorageStore(key, value)
	require.Nil(t, bp)
	assert.Equal(t, storage.Added, status)

	dst := f.buffer(t, nil)
	require.Nil(t, f.hooks.MBufferStorageLoad(key, dst))
	assert.Equal(t, []byte{0xaa, 0xbb}, f.bytesOf(t, dst))

	n, bp := f.hooks.StorageLoadLength(key)
	require.Nil(t, bp)
	assert.Equal(t, int32(2), n)

	require.NoError(t, f.world.Commit(f.cache.Updates()))

	next := newFixtureOver(t, f.world, nil, nil, nil)
	key2 := next.buffer(t, []byte{0x01, 0x02})
	dst2 := next.buffer(t, nil)
	require.Nil(t, next.hooks.MBufferStorageLoad(key2, dst2))
	assert.Equal(t, []byte{0xaa, 0xbb}, next.bytesOf(t, dst2))

	addr := next.buffer(t, contract[:])
	dst3 := next.buffer(t, nil)
	require.Nil(t, next.hooks.MBufferStorageLoadFromAddress(addr, key2, dst3))
	assert.Equal(t, []byte{0xaa, 0xbb}, next.bytesOf(t, dst3))
}

func TestStorageStoreChargesPerByte(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	schedule := f.tc.Meter().Schedule()
	key := f.buffer(t, []byte("k"))
	value := f.buffer(t, []byte("12345"))

	before := f.tc.Meter().Used()
	_, bp := f.hooks.MBufferStorageStore(key, value)
	require.Nil(t, bp)
	assert.Equal(t, schedule.Hooks[gas.StorageStore]+5*schedule.StorePerByte, f.tc.Meter().Used()-before)
}

func TestReservedKeyWriteFails(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	key := f.buffer(t, []byte("ELRONDesdt"))
	value := f.buffer(t, []byte{1})

	_, bp := f.hooks.MBufferStorageStore(key, value)
	require.NotNil(t, bp)
	assert.Equal(t, types.ExecutionFailed, bp.Code)
	assert.Equal(t, storage.ErrReservedKey.Error(), bp.Message)

	v, err := f.cache.GetStorage(contract, []byte("ELRONDesdt"))
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestArguments(t *testing.T) {
	input := &types.TxInput{
		Function: "swap",
		Args:     [][]byte{{0x01, 0x00}, {0xff}, []byte("token")},
	}
	f := newFixture(t, input, nil, nil)

	n, bp := f.hooks.GetNumArguments()
	require.Nil(t, bp)
	assert.Equal(t, int32(3), n)

	u, bp := f.hooks.SmallIntGetUnsignedArgument(0)
	require.Nil(t, bp)
	assert.Equal(t, int64(256), u)

	s, bp := f.hooks.SmallIntGetSignedArgument(1)
	require.Nil(t, bp)
	assert.Equal(t, int64(-1), s)

	bi := f.bigInt(t, 0)
	require.Nil(t, f.hooks.BigIntGetSignedArgument(1, bi))
	assert.Equal(t, int64(-1), f.bigIntOf(t, bi).Int64())
	require.Nil(t, f.hooks.BigIntGetUnsignedArgument(1, bi))
	assert.Equal(t, int64(255), f.bigIntOf(t, bi).Int64())

	buf := f.buffer(t, nil)
	require.Nil(t, f.hooks.MBufferGetArgument(2, buf))
	assert.Equal(t, []byte("token"), f.bytesOf(t, buf))

	require.Nil(t, f.hooks.ManagedGetFunction(buf))
	assert.Equal(t, []byte("swap"), f.bytesOf(t, buf))

	vec := f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedGetArgumentsBuffer(vec))
	args, err := f.tc.Arena().ReadBufferVec(vec)
	require.NoError(t, err)
	assert.Equal(t, input.Args, args)

	bp = f.hooks.MBufferGetArgument(3, buf)
	require.NotNil(t, bp)
	assert.Equal(t, ErrArgOutOfRange.Error(), bp.Message)
}

func TestFinish(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	require.Nil(t, f.hooks.SmallIntFinishUnsigned(0))
	require.Nil(t, f.hooks.SmallIntFinishSigned(-2))
	require.Nil(t, f.hooks.BigIntFinishUnsigned(f.bigInt(t, 300)))
	require.Nil(t, f.hooks.BigIntFinishSigned(f.bigInt(t, 128)))
	vec, err := f.tc.Arena().NewBufferVec([][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)
	require.Nil(t, f.hooks.MBufferFinishMany(vec))

	assert.Equal(t, [][]byte{{}, {0xfe}, {0x01, 0x2c}, {0x00, 0x80}, []byte("a"), []byte("b")}, f.tc.Result().Out)
}

func TestCallValue(t *testing.T) {
	input := &types.TxInput{
		EGLDValue: big.NewInt(42),
		ESDTTransfers: []types.ESDTTransfer{
			{TokenID: []byte("USDC-aaaaaa"), Value: big.NewInt(5)},
			{TokenID: []byte("NFT-bbbbbb"), Nonce: 3, Value: big.NewInt(1)},
		},
	}
	f := newFixture(t, input, nil, nil)

	v := f.bigInt(t, 0)
	require.Nil(t, f.hooks.BigIntGetCallValue(v))
	assert.Equal(t, int64(42), f.bigIntOf(t, v).Int64())

	n, bp := f.hooks.GetNumESDTTransfers()
	require.Nil(t, bp)
	assert.Equal(t, int32(2), n)

	name := f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedGetESDTTokenNameByIndex(name, 1))
	assert.Equal(t, []byte("NFT-bbbbbb"), f.bytesOf(t, name))
	nonce, bp := f.hooks.GetESDTTokenNonceByIndex(1)
	require.Nil(t, bp)
	assert.Equal(t, int64(3), nonce)
	require.Nil(t, f.hooks.BigIntGetESDTCallValueByIndex(v, 0))
	assert.Equal(t, int64(5), f.bigIntOf(t, v).Int64())

	vec := f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedGetMultiESDTCallValue(vec))
	transfers, err := f.hooks.readTransfers(vec)
	require.NoError(t, err)
	assert.Equal(t, input.ESDTTransfers, transfers)

	bp = f.hooks.CheckNoPayment()
	require.NotNil(t, bp)
	assert.Equal(t, ErrNonPayable.Error(), bp.Message)
}

func TestCheckNoPaymentRejectsTokens(t *testing.T) {
	input := &types.TxInput{ESDTTransfers: []types.ESDTTransfer{{TokenID: []byte("T-1"), Value: big.NewInt(1)}}}
	f := newFixture(t, input, nil, nil)
	bp := f.hooks.CheckNoPayment()
	require.NotNil(t, bp)
	assert.Equal(t, ErrNonPayableESDT.Error(), bp.Message)

	free := newFixture(t, nil, nil, nil)
	assert.Nil(t, free.hooks.CheckNoPayment())
}

func TestBlockchainInspection(t *testing.T) {
	input := &types.TxInput{TxHash: types.HashFromString("0x0102"), PrevTxHash: types.HashFromString("0x0304")}
	f := newFixture(t, input, nil, nil)

	buf := f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedSCAddress(buf))
	assert.Equal(t, contract[:], f.bytesOf(t, buf))
	require.Nil(t, f.hooks.ManagedCaller(buf))
	assert.Equal(t, caller[:], f.bytesOf(t, buf))
	require.Nil(t, f.hooks.ManagedOwnerAddress(buf))
	assert.Equal(t, caller[:], f.bytesOf(t, buf))

	nonce, bp := f.hooks.GetBlockNonce()
	require.Nil(t, bp)
	assert.Equal(t, int64(10), nonce)
	prevTs, bp := f.hooks.GetPrevBlockTimestamp()
	require.Nil(t, bp)
	assert.Equal(t, int64(5994), prevTs)
	epoch, bp := f.hooks.GetBlockEpoch()
	require.Nil(t, bp)
	assert.Equal(t, int64(2), epoch)

	require.Nil(t, f.hooks.ManagedGetBlockRandomSeed(buf))
	assert.Equal(t, []byte{1, 2, 3}, f.bytesOf(t, buf))
	require.Nil(t, f.hooks.ManagedGetPrevTxHash(buf))
	assert.Equal(t, input.PrevTxHash[:], f.bytesOf(t, buf))

	scAddr := f.buffer(t, contract[:])
	isSC, bp := f.hooks.IsSmartContract(scAddr)
	require.Nil(t, bp)
	assert.True(t, isSC)
	isSC, bp = f.hooks.IsSmartContract(f.buffer(t, caller[:]))
	require.Nil(t, bp)
	assert.False(t, isSC)

	balance := f.bigInt(t, 0)
	require.Nil(t, f.hooks.BigIntGetExternalBalance(scAddr, balance))
	assert.Equal(t, int64(100), f.bigIntOf(t, balance).Int64())

	require.Nil(t, f.hooks.ManagedGetCodeHash(scAddr, buf))
	assert.Len(t, f.bytesOf(t, buf), 32)

	left, bp := f.hooks.GetGasLeft()
	require.Nil(t, bp)
	assert.Equal(t, int64(f.tc.Meter().Left()), left)

	shard, bp := f.hooks.GetShardOfAddress(scAddr)
	require.Nil(t, bp)
	assert.Equal(t, int32(types.ShardOf(contract, 3)), shard)

	_, bp = f.hooks.GetShardOfAddress(f.buffer(t, []byte{1, 2}))
	require.NotNil(t, bp)
	assert.Equal(t, ErrInvalidAddress.Error(), bp.Message)
}

func TestReturnDataHooks(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	f.tc.AppendReturnData([]byte("a"), []byte("b"), []byte("c"))

	n, bp := f.hooks.GetNumReturnData()
	require.Nil(t, bp)
	assert.Equal(t, int32(3), n)

	require.Nil(t, f.hooks.DeleteFromReturnData(1))
	buf := f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedGetReturnData(1, buf))
	assert.Equal(t, []byte("c"), f.bytesOf(t, buf))

	require.Nil(t, f.hooks.CleanReturnData())
	n, bp = f.hooks.GetNumReturnData()
	require.Nil(t, bp)
	assert.Zero(t, n)

	bp = f.hooks.ManagedGetReturnData(0, buf)
	require.NotNil(t, bp)
	assert.Equal(t, ErrReturnDataIndex.Error(), bp.Message)
}

func TestLogs(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	topics, err := f.tc.Arena().NewBufferVec([][]byte{[]byte("transfer"), []byte("from"), []byte("to")})
	require.NoError(t, err)
	data := f.buffer(t, []byte("payload"))
	extra, err := f.tc.Arena().NewBufferVec([][]byte{[]byte("x")})
	require.NoError(t, err)

	require.Nil(t, f.hooks.ManagedWriteLog(topics, data))
	require.Nil(t, f.hooks.ManagedWriteEventLog(topics, data))
	require.Nil(t, f.hooks.ManagedWriteLogWithAdditionalData(topics, data, extra))

	logs := f.tc.Result().Logs
	require.Len(t, logs, 3)
	assert.Equal(t, contract, logs[0].Address)
	assert.Len(t, logs[0].Topics, 3)
	assert.Equal(t, []byte("transfer"), logs[1].Identifier)
	assert.Equal(t, [][]byte{[]byte("from"), []byte("to")}, logs[1].Topics)
	assert.Equal(t, [][]byte{[]byte("payload"), []byte("x")}, logs[2].Data)

	many, err := f.tc.Arena().NewBufferVec([][]byte{{1}, {2}, {3}, {4}, {5}})
	require.NoError(t, err)
	bp := f.hooks.ManagedWriteLog(many, data)
	require.NotNil(t, bp)
	assert.Contains(t, bp.Message, ErrTooManyTopics.Error())
}

func TestManagedMapHooks(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	m, bp := f.hooks.ManagedMapNew()
	require.Nil(t, bp)
	key := f.buffer(t, []byte("k"))
	value := f.buffer(t, []byte("v"))
	out := f.buffer(t, nil)

	require.Nil(t, f.hooks.ManagedMapPut(m, key, value))
	found, bp := f.hooks.ManagedMapContains(m, key)
	require.Nil(t, bp)
	assert.True(t, found)
	require.Nil(t, f.hooks.ManagedMapGet(m, key, out))
	assert.Equal(t, []byte("v"), f.bytesOf(t, out))

	require.Nil(t, f.hooks.ManagedMapRemove(m, key, out))
	assert.Equal(t, []byte("v"), f.bytesOf(t, out))
	n, bp := f.hooks.ManagedMapLen(m)
	require.Nil(t, bp)
	assert.Zero(t, n)

	require.Nil(t, f.hooks.ManagedMapGet(m, key, out))
	assert.Empty(t, f.bytesOf(t, out))
}

func TestBufferHooks(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	h, bp := f.hooks.MBufferNewFromBytes([]byte("hello"))
	require.Nil(t, bp)
	require.Nil(t, f.hooks.MBufferAppendBytes(h, []byte(" world")))
	n, bp := f.hooks.MBufferGetLength(h)
	require.Nil(t, bp)
	assert.Equal(t, int32(11), n)

	part, bp := f.hooks.MBufferNew()
	require.Nil(t, bp)
	require.Nil(t, f.hooks.MBufferCopyByteSlice(h, 6, 5, part))
	assert.Equal(t, []byte("world"), f.bytesOf(t, part))

	bp = f.hooks.MBufferCopyByteSlice(h, 8, 5, part)
	require.NotNil(t, bp)
	assert.Equal(t, managed.ErrSliceOutOfRange.Error(), bp.Message)
}

func TestSetRandomIsDeterministic(t *testing.T) {
	input := func() *types.TxInput { return &types.TxInput{TxHash: types.HashFromString("0x77")} }
	a := newFixture(t, input(), nil, nil)
	b := newFixture(t, input(), nil, nil)
	ha, hb := a.buffer(t, nil), b.buffer(t, nil)
	require.Nil(t, a.hooks.MBufferSetRandom(ha, 20))
	require.Nil(t, b.hooks.MBufferSetRandom(hb, 20))
	assert.Len(t, a.bytesOf(t, ha), 20)
	assert.Equal(t, a.bytesOf(t, ha), b.bytesOf(t, hb))
}

func TestBigIntGrowthIsBilledPerByte(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	one := f.bigInt(t, 1)
	two := f.bigInt(t, 2)
	dst := f.bigInt(t, 0)
	schedule := gas.DefaultSchedule()

	shlCost, err := schedule.Cost(gas.BigIntShl)
	require.NoError(t, err)
	before := f.tc.Meter().Used()
	require.Nil(t, f.hooks.BigIntShl(dst, one, 8*1000))
	assert.Equal(t, shlCost+1001*schedule.DataCopyPerByte, f.tc.Meter().Used()-before)

	powCost, err := schedule.Cost(gas.BigIntPow)
	require.NoError(t, err)
	before = f.tc.Meter().Used()
	require.Nil(t, f.hooks.BigIntPow(dst, two, f.bigInt(t, 4000)))
	assert.Equal(t, powCost+1000*schedule.DataCopyPerByte, f.tc.Meter().Used()-before)
}

func TestOversizedBigIntResultsFail(t *testing.T) {
	f := newFixture(t, &types.TxInput{GasLimit: 1000}, nil, nil)
	one := f.bigInt(t, 1)
	dst := f.bigInt(t, 0)

	bp := f.hooks.BigIntShl(dst, one, 1<<31)
	require.NotNil(t, bp)
	assert.Equal(t, types.ExecutionFailed, f.tc.Result().Status)
	assert.Contains(t, f.tc.Result().Message, "arithmetic overflow")
	assert.Zero(t, f.bigIntOf(t, dst).Sign())

	g := newFixture(t, &types.TxInput{GasLimit: 1000}, nil, nil)
	bp = g.hooks.BigIntPow(g.bigInt(t, 0), g.bigInt(t, 2), g.bigInt(t, 1<<28))
	require.NotNil(t, bp)
	assert.Equal(t, types.ExecutionFailed, g.tc.Result().Status)
	assert.Contains(t, g.tc.Result().Message, "arithmetic overflow")

	// Within the buffer limit but beyond the gas left.
	h := newFixture(t, &types.TxInput{GasLimit: 1000}, nil, nil)
	bp = h.hooks.BigIntShl(h.bigInt(t, 0), h.bigInt(t, 1), 8*4000)
	require.NotNil(t, bp)
	assert.Equal(t, types.ExecutionFailed, h.tc.Result().Status)
	assert.Equal(t, h.tc.Meter().Limit(), h.tc.Meter().Used())
}
