package vm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/govm-net/hookvm/builtin"
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/state"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/govm-net/hookvm/state/db"
	_ "github.com/govm-net/hookvm/state/memory"
)

const tracerName = "github.com/govm-net/hookvm/vm"

var (
	ErrMaxCallDepth      = errors.New("max call depth reached")
	ErrContractNotFound  = errors.New("contract not found")
	ErrContractExists    = errors.New("contract already exists")
	ErrNotUpgradeable    = errors.New("contract is not upgradeable")
	ErrUpgradeNotAllowed = errors.New("upgrade not allowed")
	ErrNotPayable        = errors.New("sending value to non payable contract")
	ErrBuiltinWithValue  = errors.New("built-in function called with value")
	ErrAsyncInSubCall    = errors.New("async call not allowed in a sub-call")
)

// Engine runs transactions against a World. It is the call orchestrator
// that the hooks hand their sub-calls to.
//
// The engine is not safe for concurrent use of the same World: commits
// are applied in the order the transactions finish.
type Engine struct {
	config   *Config
	world    state.Committer
	executor Executor
	builtins *builtin.Container
	schedule *gas.Schedule
	logger   *slog.Logger
	tracer   trace.Tracer
}

var _ hooks.CallOrchestrator = (*Engine)(nil)

// NewEngine creates an engine that runs contract code with executor.
func NewEngine(config *Config, executor Executor) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if executor == nil {
		return nil, fmt.Errorf("executor is nil")
	}

	schedule := gas.DefaultSchedule()
	if config.SchedulePath != "" {
		s, err := gas.LoadSchedule(config.SchedulePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load gas schedule: %w", err)
		}
		schedule = s
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gas schedule: %w", err)
	}

	world, err := state.Open(state.WorldType(config.WorldType), config.WorldParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open world: %w", err)
	}

	return &Engine{
		config:   config,
		world:    world,
		executor: executor,
		builtins: builtin.NewContainer(),
		schedule: schedule,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}, nil
}

// WithWorld replaces the world the engine reads and commits to.
func (e *Engine) WithWorld(world state.Committer) *Engine {
	e.world = world
	return e
}

func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

func (e *Engine) World() state.Committer {
	return e.world
}

// Builtins exposes the built-in function container so embedders can
// register their own functions.
func (e *Engine) Builtins() *builtin.Container {
	return e.builtins
}

func (e *Engine) Schedule() *gas.Schedule {
	return e.schedule
}

// IsBuiltinFunction reports whether name is routed to a built-in function.
func (e *Engine) IsBuiltinFunction(name string) bool {
	return e.builtins.IsBuiltin(name)
}

// Close closes the engine
func (e *Engine) Close() error {
	if c, ok := e.world.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close world: %w", err)
		}
	}
	return nil
}
