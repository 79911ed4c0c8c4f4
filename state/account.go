// Package state holds account records and the layered cache that stages
// changes to them during execution.
package state

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/govm-net/hookvm/types"
)

// ESDTKey identifies a token balance. Fungible tokens use nonce 0.
type ESDTKey struct {
	TokenID string
	Nonce   uint64
}

// ESDTMetadata is the per-nonce data of a non-fungible or semi-fungible token.
type ESDTMetadata struct {
	Creator    types.Address
	Royalties  uint32
	Hash       []byte
	Name       []byte
	Attributes []byte
	URIs       [][]byte
}

func (m *ESDTMetadata) clone() *ESDTMetadata {
	if m == nil {
		return nil
	}
	out := *m
	out.Hash = bytes.Clone(m.Hash)
	out.Name = bytes.Clone(m.Name)
	out.Attributes = bytes.Clone(m.Attributes)
	if m.URIs != nil {
		out.URIs = make([][]byte, len(m.URIs))
		for i, u := range m.URIs {
			out.URIs[i] = bytes.Clone(u)
		}
	}
	return &out
}

// ESDTInstance is one token balance held by an account.
type ESDTInstance struct {
	Balance  *big.Int
	Frozen   bool
	Metadata *ESDTMetadata
}

func (e *ESDTInstance) clone() *ESDTInstance {
	return &ESDTInstance{
		Balance:  new(big.Int).Set(e.Balance),
		Frozen:   e.Frozen,
		Metadata: e.Metadata.clone(),
	}
}

// Role is a bit set of local token roles.
type Role uint64

const (
	RoleLocalMint Role = 1 << iota
	RoleLocalBurn
	RoleNFTCreate
	RoleNFTAddQuantity
	RoleNFTBurn
	RoleNFTAddURI
	RoleNFTUpdateAttributes
	RoleTransfer
)

var roleNames = map[string]Role{
	"ESDTRoleLocalMint":           RoleLocalMint,
	"ESDTRoleLocalBurn":           RoleLocalBurn,
	"ESDTRoleNFTCreate":           RoleNFTCreate,
	"ESDTRoleNFTAddQuantity":      RoleNFTAddQuantity,
	"ESDTRoleNFTBurn":             RoleNFTBurn,
	"ESDTRoleNFTAddURI":           RoleNFTAddURI,
	"ESDTRoleNFTUpdateAttributes": RoleNFTUpdateAttributes,
	"ESDTTransferRole":            RoleTransfer,
}

// RoleFromName parses a role as named on chain.
func RoleFromName(name string) (Role, bool) {
	r, ok := roleNames[name]
	return r, ok
}

// TokenType is the kind of an issued token.
type TokenType uint8

const (
	FungibleToken TokenType = iota
	NonFungibleToken
	SemiFungibleToken
)

// TokenSettings are the global properties of a token. They live on the
// system account.
type TokenSettings struct {
	Type            TokenType
	Issuer          types.Address
	Name            []byte
	Ticker          []byte
	NumDecimals     uint32
	Paused          bool
	LimitedTransfer bool
	// LastNonce is the nonce of the most recently created instance.
	LastNonce uint64
}

func (s *TokenSettings) clone() *TokenSettings {
	out := *s
	out.Name = bytes.Clone(s.Name)
	out.Ticker = bytes.Clone(s.Ticker)
	return &out
}

// AccountData is the full record of one account.
type AccountData struct {
	Address          types.Address
	Nonce            uint64
	Balance          *big.Int
	DeveloperRewards *big.Int
	ESDT             map[ESDTKey]*ESDTInstance
	Storage          map[string][]byte
	Username         []byte
	Code             []byte
	CodeMetadata     types.CodeMetadata
	// Owner is the zero address when the account has no owner.
	Owner     types.Address
	ESDTRoles map[string]Role
	Tokens    map[string]*TokenSettings
}

// NewAccount returns an empty account.
func NewAccount(addr types.Address) *AccountData {
	return &AccountData{
		Address:          addr,
		Balance:          new(big.Int),
		DeveloperRewards: new(big.Int),
		ESDT:             make(map[ESDTKey]*ESDTInstance),
		Storage:          make(map[string][]byte),
		ESDTRoles:        make(map[string]Role),
		Tokens:           make(map[string]*TokenSettings),
	}
}

// Clone returns a deep copy of the account.
func (a *AccountData) Clone() *AccountData {
	out := NewAccount(a.Address)
	out.Nonce = a.Nonce
	if a.Balance != nil {
		out.Balance.Set(a.Balance)
	}
	if a.DeveloperRewards != nil {
		out.DeveloperRewards.Set(a.DeveloperRewards)
	}
	for k, v := range a.ESDT {
		out.ESDT[k] = v.clone()
	}
	for k, v := range a.Storage {
		out.Storage[k] = bytes.Clone(v)
	}
	out.Username = bytes.Clone(a.Username)
	out.Code = bytes.Clone(a.Code)
	out.CodeMetadata = a.CodeMetadata
	out.Owner = a.Owner
	for k, v := range a.ESDTRoles {
		out.ESDTRoles[k] = v
	}
	for k, v := range a.Tokens {
		out.Tokens[k] = v.clone()
	}
	return out
}

// IsContract reports whether the account holds code.
func (a *AccountData) IsContract() bool {
	return len(a.Code) > 0
}

// ESDTBalance returns the balance of (token, nonce), zero if absent.
func (a *AccountData) ESDTBalance(token []byte, nonce uint64) *big.Int {
	if inst, ok := a.ESDT[ESDTKey{TokenID: string(token), Nonce: nonce}]; ok {
		return new(big.Int).Set(inst.Balance)
	}
	return new(big.Int)
}

// ESDTInstanceOf returns the token record or nil.
func (a *AccountData) ESDTInstanceOf(token []byte, nonce uint64) *ESDTInstance {
	return a.ESDT[ESDTKey{TokenID: string(token), Nonce: nonce}]
}

// StorageKeys returns the storage keys in ascending order.
func (a *AccountData) StorageKeys() []string {
	keys := make([]string, 0, len(a.Storage))
	for k := range a.Storage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *AccountData) valid() error {
	if a.Balance.Sign() < 0 {
		return ErrNegativeBalance
	}
	if a.DeveloperRewards.Sign() < 0 {
		return ErrNegativeBalance
	}
	for _, inst := range a.ESDT {
		if inst.Balance.Sign() < 0 {
			return ErrNegativeBalance
		}
	}
	return nil
}
