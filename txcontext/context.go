// Package txcontext holds everything a single contract invocation owns.
package txcontext

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/storage"
	"github.com/govm-net/hookvm/types"
)

// State is the lifecycle position of an invocation.
type State int

const (
	Running State = iota
	Finished
	AsyncYielded
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	case AsyncYielded:
		return "async yielded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state %d", int(s))
	}
}

// Config carries the limits shared by every invocation of one engine.
type Config struct {
	Arena             managed.Config
	ReservedKeyPrefix []byte
	// NumShards is the shard count used by the shard-of-address hook.
	NumShards uint32
	// ClearTokenDataOnMissing makes the token data hook reset the output
	// handles when the token is missing. Off, they are left untouched.
	ClearTokenDataOnMissing bool
	MaxLogTopics            int
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Arena:             managed.DefaultConfig(),
		ReservedKeyPrefix: []byte(storage.DefaultReservedPrefix),
		NumShards:         3,
		MaxLogTopics:      4,
	}
}

// TxContext is owned by exactly one invocation and is not safe for
// concurrent use.
type TxContext struct {
	ctx        context.Context
	config     Config
	input      *types.TxInput
	result     *types.TxResult
	arena      *managed.Arena
	meter      *gas.Meter
	cache      *state.Cache
	storage    *storage.Layer
	rng        *rand.Rand
	returnData [][]byte
	depth      int
	state      State
	breakpoint types.Breakpoint
}

// New creates the context of a top-level invocation over cache.
func New(ctx context.Context, input *types.TxInput, cache *state.Cache, schedule *gas.Schedule, config Config) *TxContext {
	if ctx == nil {
		ctx = context.Background()
	}
	limit := input.GasLimit
	if input.GasLocked < limit {
		limit -= input.GasLocked
	}
	tc := &TxContext{
		ctx:     ctx,
		config:  config,
		input:   input,
		result:  types.NewTxResult(),
		arena:   managed.NewArena(config.Arena),
		meter:   gas.NewMeter(limit, schedule),
		cache:   cache,
		storage: storage.NewLayer(cache, input.To, config.ReservedKeyPrefix),
	}
	tc.rng = rand.New(rand.NewChaCha8(tc.seed()))
	return tc
}

// seed mixes the block random seed with the transaction hash.
func (tc *TxContext) seed() [32]byte {
	var seed [32]byte
	copy(seed[:], tc.input.TxHash[:])
	random := tc.CurrentBlock().RandomSeed
	for i := range seed {
		if len(random) > 0 {
			seed[i] ^= random[i%len(random)]
		}
	}
	return seed
}

// Child creates the context of a sub-call. The child has its own arena and
// a cache layered over the parent's.
func (tc *TxContext) Child(input *types.TxInput) *TxContext {
	return tc.ChildWithContext(tc.ctx, input)
}

// ChildWithContext is Child with the sub-call running under ctx.
func (tc *TxContext) ChildWithContext(ctx context.Context, input *types.TxInput) *TxContext {
	child := New(ctx, input, tc.cache.Child(), tc.meter.Schedule(), tc.config)
	child.depth = tc.depth + 1
	return child
}

func (tc *TxContext) Context() context.Context     { return tc.ctx }
func (tc *TxContext) Config() Config               { return tc.config }
func (tc *TxContext) Input() *types.TxInput        { return tc.input }
func (tc *TxContext) Result() *types.TxResult      { return tc.result }
func (tc *TxContext) Arena() *managed.Arena        { return tc.arena }
func (tc *TxContext) Meter() *gas.Meter            { return tc.meter }
func (tc *TxContext) Cache() *state.Cache          { return tc.cache }
func (tc *TxContext) Storage() *storage.Layer      { return tc.storage }
func (tc *TxContext) Depth() int                   { return tc.depth }
func (tc *TxContext) State() State                 { return tc.state }
func (tc *TxContext) Breakpoint() types.Breakpoint { return tc.breakpoint }

// SCAddress is the address of the running contract.
func (tc *TxContext) SCAddress() types.Address {
	return tc.input.To
}

// RandomBytes fills n bytes from the invocation RNG.
func (tc *TxContext) RandomBytes(n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i += 8 {
		var word [8]byte
		binary.LittleEndian.PutUint64(word[:], tc.rng.Uint64())
		copy(out[i:], word[:])
	}
	return out
}

func (tc *TxContext) CurrentBlock() types.BlockInfo {
	if w := tc.cache.World(); w != nil {
		return w.CurrentBlock()
	}
	return types.BlockInfo{}
}

func (tc *TxContext) PreviousBlock() types.BlockInfo {
	if w := tc.cache.World(); w != nil {
		return w.PreviousBlock()
	}
	return types.BlockInfo{}
}

// Finish appends a returned value.
func (tc *TxContext) Finish(data []byte) {
	tc.result.Out = append(tc.result.Out, append([]byte{}, data...))
}

// AddLog appends a log entry.
func (tc *TxContext) AddLog(entry types.LogEntry) {
	tc.result.Logs = append(tc.result.Logs, entry)
}

// AddCall records a performed sub-call.
func (tc *TxContext) AddCall(record types.CallRecord) {
	tc.result.AllCalls = append(tc.result.AllCalls, record)
}

func (tc *TxContext) ReturnData() [][]byte {
	return tc.returnData
}

// AppendReturnData makes the values of a finished sub-call readable.
func (tc *TxContext) AppendReturnData(data ...[]byte) {
	tc.returnData = append(tc.returnData, data...)
}

func (tc *TxContext) CleanReturnData() {
	tc.returnData = nil
}

// DeleteReturnData removes entry i. Out of range indexes are ignored.
func (tc *TxContext) DeleteReturnData(i int) {
	if i < 0 || i >= len(tc.returnData) {
		return
	}
	tc.returnData = append(tc.returnData[:i], tc.returnData[i+1:]...)
}

// Terminate moves the invocation into its terminal state and returns the
// breakpoint the executor must unwind with. Only the first call counts.
func (tc *TxContext) Terminate(bp types.Breakpoint, code types.ReturnCode, message string) *types.BreakpointError {
	if tc.state != Running {
		return &types.BreakpointError{Breakpoint: tc.breakpoint, Code: tc.result.Status, Message: tc.result.Message}
	}
	tc.breakpoint = bp
	tc.result.Status = code
	tc.result.Message = message
	switch {
	case bp == types.BreakpointAsyncCall:
		tc.state = AsyncYielded
	case code == types.Ok:
		tc.state = Finished
	default:
		tc.state = Failed
	}
	return &types.BreakpointError{Breakpoint: bp, Code: code, Message: message}
}

// Fail terminates with an execution error.
func (tc *TxContext) Fail(code types.ReturnCode, message string) *types.BreakpointError {
	bp := types.BreakpointExecutionFailed
	if code == types.UserError {
		bp = types.BreakpointSignalError
	}
	return tc.Terminate(bp, code, message)
}

// Complete marks a normal return from the entry point.
func (tc *TxContext) Complete() {
	if tc.state == Running {
		tc.state = Finished
	}
}

// Finalize fills the gas fields and drops returned values of a failed
// invocation. Logs stay.
func (tc *TxContext) Finalize() *types.TxResult {
	tc.result.GasUsed = tc.meter.Used()
	tc.result.GasRefund = tc.meter.Refunded()
	if tc.result.Failed() {
		tc.result.Out = nil
	}
	return tc.result
}

// Read fills p from the invocation RNG. It never fails.
func (tc *TxContext) Read(p []byte) (int, error) {
	copy(p, tc.RandomBytes(len(p)))
	return len(p), nil
}

// Halted returns the breakpoint of a terminated invocation, nil while running.
func (tc *TxContext) Halted() *types.BreakpointError {
	if tc.state == Running {
		return nil
	}
	return &types.BreakpointError{Breakpoint: tc.breakpoint, Code: tc.result.Status, Message: tc.result.Message}
}
