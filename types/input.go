package types

import (
	"math/big"
)

// CallType tells a contract how it was reached.
type CallType int

const (
	// DirectCall is an invocation that originates from a user transaction
	// or a synchronous sub-call.
	DirectCall CallType = iota
	// AsynchronousCall is the destination side of an async call.
	AsynchronousCall
	// AsynchronousCallBack returns control to the caller's callback.
	AsynchronousCallBack
)

func (c CallType) String() string {
	switch c {
	case DirectCall:
		return "direct"
	case AsynchronousCall:
		return "async"
	case AsynchronousCallBack:
		return "callback"
	default:
		return "unknown"
	}
}

// ESDTTransfer is one token transfer attached to a call.
type ESDTTransfer struct {
	TokenID []byte   `json:"token_id,omitempty"`
	Nonce   uint64   `json:"nonce,omitempty"`
	Value   *big.Int `json:"value,omitempty"`
}

// Clone returns a deep copy of the transfer.
func (t ESDTTransfer) Clone() ESDTTransfer {
	return ESDTTransfer{
		TokenID: cloneBytes(t.TokenID),
		Nonce:   t.Nonce,
		Value:   cloneBig(t.Value),
	}
}

// TxInput is the immutable input of one contract invocation.
type TxInput struct {
	From          Address        `json:"from,omitempty"`
	To            Address        `json:"to,omitempty"`
	EGLDValue     *big.Int       `json:"egld_value,omitempty"`
	ESDTTransfers []ESDTTransfer `json:"esdt_transfers,omitempty"`
	Function      string         `json:"function,omitempty"`
	Args          [][]byte       `json:"args,omitempty"`
	GasLimit      uint64         `json:"gas_limit,omitempty"`
	GasPrice      uint64         `json:"gas_price,omitempty"`
	TxHash        Hash           `json:"tx_hash,omitempty"`
	PrevTxHash    Hash           `json:"prev_tx_hash,omitempty"`
	CallType      CallType       `json:"call_type,omitempty"`
	// GasLocked is kept back from the invocation for a pending callback.
	GasLocked uint64 `json:"gas_locked,omitempty"`
}

// Value returns the EGLD value, never nil.
func (in *TxInput) Value() *big.Int {
	if in.EGLDValue == nil {
		return new(big.Int)
	}
	return in.EGLDValue
}

// Clone returns a deep copy of the input.
func (in *TxInput) Clone() *TxInput {
	out := *in
	out.EGLDValue = cloneBig(in.EGLDValue)
	out.Args = cloneBytesSlice(in.Args)
	if in.ESDTTransfers != nil {
		out.ESDTTransfers = make([]ESDTTransfer, len(in.ESDTTransfers))
		for i, t := range in.ESDTTransfers {
			out.ESDTTransfers[i] = t.Clone()
		}
	}
	return &out
}

// CreateInput describes a contract deployment.
type CreateInput struct {
	TxInput
	Code         []byte       `json:"code,omitempty"`
	CodeMetadata CodeMetadata `json:"code_metadata,omitempty"`
}

// BlockInfo is the header data a contract can inspect.
type BlockInfo struct {
	Nonce      uint64 `json:"nonce"`
	Round      uint64 `json:"round"`
	Epoch      uint32 `json:"epoch"`
	Timestamp  uint64 `json:"timestamp"`
	RandomSeed []byte `json:"random_seed,omitempty"`
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneBytesSlice(in [][]byte) [][]byte {
	if in == nil {
		return nil
	}
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = cloneBytes(b)
	}
	return out
}

func cloneBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
