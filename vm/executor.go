package vm

import (
	"github.com/govm-net/hookvm/hooks"
)

// Executor runs contract code against a hook catalogue.
//
// The outcome of the contract itself (a breakpoint, a missing function,
// running out of gas) is recorded in the invocation bound to the hooks.
// Execute returns an error only when the executor could not do its job,
// for example because the code no longer compiles.
type Executor interface {
	// Validate checks code before it is installed by a deploy or upgrade.
	Validate(code []byte) error
	// Execute runs function. A missing function must be reported with
	// types.FunctionNotFound through the hooks' invocation.
	Execute(h *hooks.VMHooks, code []byte, function string) error
}
