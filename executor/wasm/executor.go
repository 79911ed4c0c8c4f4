// Package wasm runs WebAssembly contracts on wazero. Contracts import the
// VM hooks from the "env" module under their catalogue names; a hook
// that stops the contract unwinds the wasm stack and its outcome is read
// back from the invocation context.
package wasm

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/types"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	envModule  = "env"
	wasiModule = wasi_snapshot_preview1.ModuleName
)

var (
	ErrEmptyCode      = errors.New("contract code is empty")
	ErrUnknownImport  = errors.New("unknown import")
	ErrMissingMemory  = errors.New("contract does not export its memory")
	ErrExecutorClosed = errors.New("executor is closed")
)

// Config tunes the executor.
type Config struct {
	// MemoryLimitPages caps the linear memory of every instance, in 64KiB pages.
	MemoryLimitPages uint32
	// CompilationCacheSize bounds the number of compiled modules kept.
	CompilationCacheSize int
}

func DefaultConfig() Config {
	return Config{
		MemoryLimitPages:     256,
		CompilationCacheSize: 128,
	}
}

// Executor compiles contract code once and instantiates it for every call.
type Executor struct {
	config  Config
	runtime wazero.Runtime
	imports map[string]struct{}
	logger  *slog.Logger

	mu       sync.Mutex
	compiled map[[32]byte]*cachedModule
	order    [][32]byte
	closed   bool
}

// cachedModule is a compiled module and the number of calls holding it.
// An evicted module is closed once the last of them releases it.
type cachedModule struct {
	wazero.CompiledModule
	refs    int
	evicted bool
}

// New creates the runtime and instantiates the host modules in it.
func New(ctx context.Context, config Config) (*Executor, error) {
	if config.MemoryLimitPages == 0 || config.MemoryLimitPages > 65536 {
		return nil, fmt.Errorf("invalid memory limit: %d pages", config.MemoryLimitPages)
	}
	if config.CompilationCacheSize <= 0 {
		return nil, fmt.Errorf("invalid compilation cache size: %d", config.CompilationCacheSize)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithMemoryLimitPages(config.MemoryLimitPages).
		WithCloseOnContextDone(true))

	builder := runtime.NewHostModuleBuilder(envModule)
	names := exportHooks(builder)
	if _, err := builder.Instantiate(ctx); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate %s module: %w", envModule, err)
	}
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate %s module: %w", wasiModule, err)
	}

	imports := make(map[string]struct{}, len(names))
	for _, n := range names {
		imports[n] = struct{}{}
	}
	return &Executor{
		config:   config,
		runtime:  runtime,
		imports:  imports,
		logger:   slog.Default(),
		compiled: make(map[[32]byte]*cachedModule),
	}, nil
}

// WithLogger sets the logger used for contract traps.
func (e *Executor) WithLogger(logger *slog.Logger) *Executor {
	e.logger = logger
	return e
}

// Close releases the runtime and every compiled module.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.compiled = nil
	e.order = nil
	return e.runtime.Close(ctx)
}

// compile returns the cached module for code, compiling it on first use.
// The oldest module is evicted once the cache is full. The caller holds
// the returned module until it calls release.
func (e *Executor) compile(ctx context.Context, code []byte) (*cachedModule, error) {
	if len(code) == 0 {
		return nil, ErrEmptyCode
	}
	key := sha256.Sum256(code)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrExecutorClosed
	}
	if m, ok := e.compiled[key]; ok {
		m.refs++
		return m, nil
	}

	compiled, err := e.runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile contract: %w", err)
	}
	if err := e.checkImports(compiled); err != nil {
		compiled.Close(ctx)
		return nil, err
	}
	if _, ok := compiled.ExportedMemories()["memory"]; !ok {
		compiled.Close(ctx)
		return nil, ErrMissingMemory
	}

	if len(e.order) >= e.config.CompilationCacheSize {
		oldest := e.order[0]
		e.order = e.order[1:]
		if old, ok := e.compiled[oldest]; ok {
			delete(e.compiled, oldest)
			old.evicted = true
			if old.refs == 0 {
				old.Close(ctx)
			}
		}
	}
	m := &cachedModule{CompiledModule: compiled, refs: 1}
	e.compiled[key] = m
	e.order = append(e.order, key)
	return m, nil
}

// release drops a hold taken by compile.
func (e *Executor) release(ctx context.Context, m *cachedModule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m.refs--
	if m.refs == 0 && m.evicted && !e.closed {
		m.Close(ctx)
	}
}

func (e *Executor) checkImports(m wazero.CompiledModule) error {
	for _, f := range m.ImportedFunctions() {
		module, name, _ := f.Import()
		switch module {
		case envModule:
			if _, ok := e.imports[name]; !ok {
				return fmt.Errorf("%w: %s.%s", ErrUnknownImport, module, name)
			}
		case wasiModule:
		default:
			return fmt.Errorf("%w: %s.%s", ErrUnknownImport, module, name)
		}
	}
	return nil
}

// Validate compiles code and checks its imports.
func (e *Executor) Validate(code []byte) error {
	ctx := context.Background()
	m, err := e.compile(ctx, code)
	if err != nil {
		return err
	}
	e.release(ctx, m)
	return nil
}

// Execute instantiates code and calls function. The outcome is recorded
// in the invocation context of h; the returned error reports code that
// cannot be run at all.
func (e *Executor) Execute(h *hooks.VMHooks, code []byte, function string) error {
	tc := h.Context()
	ctx := tc.Context()
	compiled, err := e.compile(ctx, code)
	if err != nil {
		return err
	}
	defer e.release(ctx, compiled)

	ctx = withHooks(ctx, h)
	mod, err := e.runtime.InstantiateModule(ctx, compiled.CompiledModule, wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions())
	if err != nil {
		tc.Fail(types.ExecutionFailed, fmt.Sprintf("failed to instantiate contract: %v", err))
		return nil
	}
	defer mod.Close(ctx)

	fn := mod.ExportedFunction(function)
	if fn == nil || !isEndpoint(fn.Definition()) {
		tc.Fail(types.FunctionNotFound, fmt.Sprintf("invalid function (not found): %s", function))
		return nil
	}
	if _, err := fn.Call(ctx); err != nil && tc.Halted() == nil {
		e.logger.Debug("contract trapped", "contract", tc.SCAddress(), "function", function, "error", err)
		tc.Fail(types.ExecutionFailed, fmt.Sprintf("execution failed: %v", err))
	}
	return nil
}

// isEndpoint accepts functions without parameters or results.
func isEndpoint(def api.FunctionDefinition) bool {
	return len(def.ParamTypes()) == 0 && len(def.ResultTypes()) == 0
}
