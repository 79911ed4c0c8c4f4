// Package builtin implements the protocol functions that run without
// contract code: the ESDT transfer family, local token operations, account
// administration and the ESDT system contract.
//
// A built-in function only touches the state cache it is given. The caller
// decides whether that cache is committed.
package builtin

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

var (
	ErrNotEnoughArguments = errors.New("not enough arguments")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidReceiver    = errors.New("invalid receiver address")
	ErrUnknownFunction    = errors.New("unknown built-in function")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrFrozen             = errors.New("frozen balance")
	ErrPaused             = errors.New("token is paused")
	ErrUnauthorizedRole   = errors.New("action is not allowed")
	ErrNotOwner           = errors.New("operation in account not permitted")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenExists        = errors.New("token already exists")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrContractNotFound   = errors.New("contract not found")
	ErrNotPayable         = errors.New("sending value to non payable contract")
)

// Input is a call routed to a built-in function.
type Input struct {
	Caller    types.Address
	Recipient types.Address
	Function  string
	Args      [][]byte
	EGLDValue *big.Int
}

// Value returns the EGLD value, never nil.
func (in *Input) Value() *big.Int {
	if in.EGLDValue == nil {
		return new(big.Int)
	}
	return in.EGLDValue
}

// Execution is a contract call that follows a transfer, carrying the
// transferred tokens as its call value.
type Execution struct {
	From     types.Address
	To       types.Address
	Function string
	Args     [][]byte
	ESDT     []types.ESDTTransfer
}

// Output is what a successful built-in function produced.
type Output struct {
	Out  [][]byte
	Logs []types.LogEntry
	// Execute is set when the transfer asks for a function to be run on
	// the receiving contract.
	Execute *Execution
}

// Function is one built-in function.
type Function interface {
	Execute(in *Input, cache *state.Cache) (*Output, error)
}

// FunctionFunc adapts a plain function to Function.
type FunctionFunc func(in *Input, cache *state.Cache) (*Output, error)

func (f FunctionFunc) Execute(in *Input, cache *state.Cache) (*Output, error) {
	return f(in, cache)
}

// ReturnCode maps an error returned by a built-in function to the status
// reported for the call.
func ReturnCode(err error) types.ReturnCode {
	switch {
	case err == nil:
		return types.Ok
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, state.ErrNegativeBalance):
		return types.InsufficientFunds
	case errors.Is(err, ErrFrozen), errors.Is(err, ErrPaused):
		return types.FrozenToken
	case errors.Is(err, ErrUnauthorizedRole), errors.Is(err, ErrNotOwner):
		return types.UnauthorizedRole
	case errors.Is(err, ErrContractNotFound):
		return types.ContractInvalid
	default:
		return types.BuiltinFailed
	}
}

// Container holds the built-in functions by name. Functions of the ESDT
// system contract are kept apart because they are reached through its
// address rather than through their name.
type Container struct {
	mu        sync.RWMutex
	functions map[string]Function
	system    map[string]Function
}

// NewContainer returns a container with every built-in function registered.
func NewContainer() *Container {
	c := &Container{
		functions: make(map[string]Function),
		system:    make(map[string]Function),
	}
	for name, fn := range defaultFunctions() {
		c.functions[name] = fn
	}
	for name, fn := range systemFunctions() {
		c.system[name] = fn
	}
	return c
}

// Register adds a built-in function reachable by name from any address.
func (c *Container) Register(name string, fn Function) error {
	return c.register(c.functions, name, fn)
}

// RegisterSystem adds a function of the ESDT system contract.
func (c *Container) RegisterSystem(name string, fn Function) error {
	return c.register(c.system, name, fn)
}

func (c *Container) register(m map[string]Function, name string, fn Function) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := m[name]; exists {
		return fmt.Errorf("built-in function %s already registered", name)
	}
	m[name] = fn
	return nil
}

// Lookup finds the function a call to (to, function) is routed to.
func (c *Container) Lookup(to types.Address, function string) (Function, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if to == types.ESDTSystemSCAddress {
		fn, ok := c.system[function]
		if !ok {
			return FunctionFunc(unknownSystemFunction), true
		}
		return fn, true
	}
	fn, ok := c.functions[function]
	return fn, ok
}

// IsBuiltin reports whether function names a built-in function.
func (c *Container) IsBuiltin(function string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.functions[function]
	return ok
}

// Names returns the registered function names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.functions))
	for name := range c.functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func unknownSystemFunction(in *Input, _ *state.Cache) (*Output, error) {
	return nil, fmt.Errorf("%w: %q on the system contract", ErrUnknownFunction, in.Function)
}

func defaultFunctions() map[string]Function {
	return map[string]Function{
		ESDTTransfer:          FunctionFunc(esdtTransfer),
		ESDTNFTTransfer:       FunctionFunc(esdtNFTTransfer),
		MultiESDTNFTTransfer:  FunctionFunc(multiESDTNFTTransfer),
		ESDTLocalMint:         FunctionFunc(localMint),
		ESDTLocalBurn:         FunctionFunc(localBurn),
		ESDTNFTCreate:         FunctionFunc(nftCreate),
		ESDTNFTAddQuantity:    FunctionFunc(nftAddQuantity),
		ESDTNFTBurn:           FunctionFunc(nftBurn),
		ClaimDeveloperRewards: FunctionFunc(claimDeveloperRewards),
		ChangeOwnerAddress:    FunctionFunc(changeOwnerAddress),
	}
}

// Built-in function names.
const (
	ESDTTransfer          = "ESDTTransfer"
	ESDTNFTTransfer       = "ESDTNFTTransfer"
	MultiESDTNFTTransfer  = "MultiESDTNFTTransfer"
	ESDTLocalMint         = "ESDTLocalMint"
	ESDTLocalBurn         = "ESDTLocalBurn"
	ESDTNFTCreate         = "ESDTNFTCreate"
	ESDTNFTAddQuantity    = "ESDTNFTAddQuantity"
	ESDTNFTBurn           = "ESDTNFTBurn"
	ClaimDeveloperRewards = "ClaimDeveloperRewards"
	ChangeOwnerAddress    = "ChangeOwnerAddress"
)

func requireArgs(in *Input, n int) error {
	if len(in.Args) < n {
		return fmt.Errorf("%w: %s needs %d, got %d", ErrNotEnoughArguments, in.Function, n, len(in.Args))
	}
	return nil
}

// positive reads a big-endian unsigned amount that must be above zero.
func positive(b []byte) (*big.Int, error) {
	v := new(big.Int).SetBytes(b)
	if v.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero amount", ErrInvalidArgument)
	}
	return v, nil
}

func uint64Arg(b []byte) (uint64, error) {
	v := new(big.Int).SetBytes(b)
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: value does not fit 64 bits", ErrInvalidArgument)
	}
	return v.Uint64(), nil
}

func addressArg(b []byte) (types.Address, error) {
	addr, ok := types.AddressFromBytes(b)
	if !ok {
		return addr, fmt.Errorf("%w: address must have %d bytes", ErrInvalidArgument, types.AddressLength)
	}
	return addr, nil
}

func uint64Bytes(v uint64) []byte {
	return new(big.Int).SetUint64(v).Bytes()
}

// toSelf rejects functions that must be sent by an account to itself.
func toSelf(in *Input) error {
	if in.Caller != in.Recipient {
		return ErrInvalidReceiver
	}
	return nil
}
