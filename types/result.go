package types

import (
	"fmt"
	"math/big"
)

// ReturnCode is the status of a finished invocation.
type ReturnCode uint64

const (
	Ok                     ReturnCode = 0
	FunctionNotFound       ReturnCode = 1
	FunctionWrongSignature ReturnCode = 2
	ContractNotFound       ReturnCode = 3
	UserError              ReturnCode = 4
	ExecutionFailed        ReturnCode = 10

	// Protocol errors.
	DeployFailed      ReturnCode = 100
	UpgradeFailed     ReturnCode = 101
	BuiltinFailed     ReturnCode = 102
	InsufficientFunds ReturnCode = 103
	FrozenToken       ReturnCode = 104
	UnauthorizedRole  ReturnCode = 105
	ContractInvalid   ReturnCode = 106
)

func (rc ReturnCode) String() string {
	switch rc {
	case Ok:
		return "ok"
	case FunctionNotFound:
		return "function not found"
	case FunctionWrongSignature:
		return "wrong signature for function"
	case ContractNotFound:
		return "contract not found"
	case UserError:
		return "user error"
	case ExecutionFailed:
		return "execution failed"
	case DeployFailed:
		return "deploy failed"
	case UpgradeFailed:
		return "upgrade failed"
	case BuiltinFailed:
		return "built-in function failed"
	case InsufficientFunds:
		return "insufficient funds"
	case FrozenToken:
		return "frozen token"
	case UnauthorizedRole:
		return "unauthorized role"
	case ContractInvalid:
		return "invalid contract code"
	default:
		return fmt.Sprintf("return code %d", uint64(rc))
	}
}

// Breakpoint is the signal a hook raises to leave contract execution.
type Breakpoint uint64

const (
	BreakpointNone            Breakpoint = 0
	BreakpointExecutionFailed Breakpoint = 1
	BreakpointAsyncCall       Breakpoint = 2
	BreakpointSignalError     Breakpoint = 4
	BreakpointSignalExit      Breakpoint = 5
)

func (b Breakpoint) String() string {
	switch b {
	case BreakpointNone:
		return "none"
	case BreakpointExecutionFailed:
		return "execution failed"
	case BreakpointAsyncCall:
		return "async call"
	case BreakpointSignalError:
		return "signal error"
	case BreakpointSignalExit:
		return "signal exit"
	default:
		return fmt.Sprintf("breakpoint %d", uint64(b))
	}
}

// BreakpointError terminates the running invocation. Hooks return it and
// executors hand it back to the orchestrator unchanged.
type BreakpointError struct {
	Breakpoint Breakpoint
	Code       ReturnCode
	Message    string
}

func (e *BreakpointError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Breakpoint, e.Message, e.Code)
}

// LogEntry is an event emitted by a contract.
type LogEntry struct {
	Address    Address  `json:"address"`
	Identifier []byte   `json:"identifier,omitempty"`
	Topics     [][]byte `json:"topics,omitempty"`
	Data       [][]byte `json:"data,omitempty"`
}

// Callback is the closure run on the caller once an async call completes.
type Callback struct {
	Function string `json:"function,omitempty"`
	// Closure is passed back to the callback after the call results.
	Closure [][]byte `json:"closure,omitempty"`
	// GasLocked is reserved from the caller's gas for the callback.
	GasLocked uint64 `json:"gas_locked,omitempty"`
}

// AsyncCall is a call the invocation yielded to.
type AsyncCall struct {
	From      Address   `json:"from"`
	To        Address   `json:"to"`
	EGLDValue *big.Int  `json:"egld_value,omitempty"`
	Function  string    `json:"function,omitempty"`
	Args      [][]byte  `json:"args,omitempty"`
	GasLimit  uint64    `json:"gas_limit,omitempty"`
	Callback  *Callback `json:"callback,omitempty"`
}

// PendingCalls collects calls scheduled to run after the invocation.
type PendingCalls struct {
	AsyncCall *AsyncCall `json:"async_call,omitempty"`
}

// CallFlavor names the kind of sub-call performed.
type CallFlavor string

const (
	FlavorExecuteOnDest   CallFlavor = "execute_on_dest"
	FlavorExecuteReadOnly CallFlavor = "execute_read_only"
	FlavorTransferExecute CallFlavor = "transfer_execute"
	FlavorAsync           CallFlavor = "async"
	FlavorCallback        CallFlavor = "callback"
	FlavorDeploy          CallFlavor = "deploy"
	FlavorUpgrade         CallFlavor = "upgrade"
	FlavorBuiltin         CallFlavor = "builtin"
)

// CallRecord describes one performed sub-call.
type CallRecord struct {
	Flavor    CallFlavor     `json:"flavor"`
	From      Address        `json:"from"`
	To        Address        `json:"to"`
	EGLDValue *big.Int       `json:"egld_value,omitempty"`
	ESDT      []ESDTTransfer `json:"esdt,omitempty"`
	Function  string         `json:"function,omitempty"`
	Args      [][]byte       `json:"args,omitempty"`
	GasLimit  uint64         `json:"gas_limit,omitempty"`
	GasUsed   uint64         `json:"gas_used,omitempty"`
	Status    ReturnCode     `json:"status"`
}

// TxResult accumulates the outcome of an invocation.
type TxResult struct {
	Status       ReturnCode   `json:"status"`
	Message      string       `json:"message,omitempty"`
	Out          [][]byte     `json:"out,omitempty"`
	Logs         []LogEntry   `json:"logs,omitempty"`
	PendingCalls PendingCalls `json:"pending_calls"`
	AllCalls     []CallRecord `json:"all_calls,omitempty"`
	GasUsed      uint64       `json:"gas_used"`
	GasRefund    uint64       `json:"gas_refund,omitempty"`
}

// NewTxResult returns an empty successful result.
func NewTxResult() *TxResult {
	return &TxResult{Status: Ok}
}

// Failed reports whether the status is non-zero.
func (r *TxResult) Failed() bool {
	return r.Status != Ok
}

// ErrorResult builds a failed result with the given status and message.
func ErrorResult(code ReturnCode, message string) *TxResult {
	return &TxResult{Status: code, Message: message}
}
