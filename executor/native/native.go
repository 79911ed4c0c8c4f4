// Package native runs contracts written in Go. A contract is registered
// under the code bytes that stand for it on chain; deploying those bytes
// makes the contract callable at the new address.
package native

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/types"
)

var ErrUnknownCode = errors.New("no contract registered for code")

// Function is one endpoint of a Go contract. It returns the breakpoint of
// the hook that stopped it, or nil when it ran to the end.
type Function func(h *hooks.VMHooks) error

// Contract maps endpoint names to their implementation.
type Contract map[string]Function

// Executor runs registered Go contracts.
type Executor struct {
	mu        sync.RWMutex
	contracts map[string]Contract
}

func New() *Executor {
	return &Executor{contracts: make(map[string]Contract)}
}

// Register binds contract to code. Each code can be registered once.
func (e *Executor) Register(code []byte, contract Contract) error {
	if len(code) == 0 {
		return fmt.Errorf("contract code is empty")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.contracts[string(code)]; exists {
		return fmt.Errorf("contract %q already registered", code)
	}
	e.contracts[string(code)] = contract
	return nil
}

// MustRegister is Register for package level setup.
func (e *Executor) MustRegister(code []byte, contract Contract) []byte {
	if err := e.Register(code, contract); err != nil {
		panic(err)
	}
	return code
}

func (e *Executor) lookup(code []byte) (Contract, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.contracts[string(code)]
	return c, ok
}

// Validate accepts registered code only.
func (e *Executor) Validate(code []byte) error {
	if _, ok := e.lookup(code); !ok {
		return ErrUnknownCode
	}
	return nil
}

// Functions lists the endpoints of the contract registered for code.
func (e *Executor) Functions(code []byte) []string {
	c, _ := e.lookup(code)
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs function of the contract registered for code. A panic in
// the contract fails the invocation instead of the caller.
func (e *Executor) Execute(h *hooks.VMHooks, code []byte, function string) (err error) {
	c, ok := e.lookup(code)
	if !ok {
		return ErrUnknownCode
	}
	tc := h.Context()
	fn, ok := c[function]
	if !ok {
		tc.Fail(types.FunctionNotFound, fmt.Sprintf("invalid function (not found): %s", function))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			tc.Fail(types.ExecutionFailed, fmt.Sprintf("contract panicked: %v", r))
		}
	}()
	if ret := fn(h); ret != nil {
		var bp *types.BreakpointError
		if !errors.As(ret, &bp) {
			tc.Fail(types.UserError, ret.Error())
		}
	}
	return nil
}
