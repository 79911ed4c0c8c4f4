package builtin

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/govm-net/hookvm/crypto"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

// Functions of the ESDT system contract.
const (
	Issue             = "issue"
	IssueNonFungible  = "issueNonFungible"
	IssueSemiFungible = "issueSemiFungible"
	SetSpecialRole    = "setSpecialRole"
	UnSetSpecialRole  = "unSetSpecialRole"
	Pause             = "pause"
	UnPause           = "unPause"
	Freeze            = "freeze"
	UnFreeze          = "unFreeze"
)

const (
	minTickerLength = 3
	maxTickerLength = 10
	minNameLength   = 3
	maxNameLength   = 20
	maxDecimals     = 18
	randomSuffixLen = 3
)

func systemFunctions() map[string]Function {
	return map[string]Function{
		Issue:             FunctionFunc(issueFungible),
		IssueNonFungible:  issuer(state.NonFungibleToken),
		IssueSemiFungible: issuer(state.SemiFungibleToken),
		SetSpecialRole:    roleSetter(true),
		UnSetSpecialRole:  roleSetter(false),
		Pause:             pauser(true),
		UnPause:           pauser(false),
		Freeze:            freezer(true),
		UnFreeze:          freezer(false),
	}
}

func isAlphanumeric(b []byte, upperOnly bool) bool {
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z' && !upperOnly:
		default:
			return false
		}
	}
	return true
}

func validateIssue(name, ticker []byte) error {
	if len(name) < minNameLength || len(name) > maxNameLength || !isAlphanumeric(name, false) {
		return fmt.Errorf("%w: token name %q", ErrInvalidArgument, name)
	}
	if len(ticker) < minTickerLength || len(ticker) > maxTickerLength || !isAlphanumeric(ticker, true) {
		return fmt.Errorf("%w: ticker %q", ErrInvalidArgument, ticker)
	}
	return nil
}

// issueToken registers a new token for the caller and returns its
// identifier: the ticker, a dash and six hex digits derived from the
// issuer, its nonce and the number of tokens issued so far.
func issueToken(in *Input, cache *state.Cache, tokenType state.TokenType, decimals uint32) ([]byte, error) {
	name, ticker := in.Args[0], in.Args[1]
	if err := validateIssue(name, ticker); err != nil {
		return nil, err
	}
	var nonce uint64
	if err := cache.WithAccount(in.Caller, func(acc *state.AccountData) { nonce = acc.Nonce }); err != nil {
		return nil, err
	}
	if err := cache.TransferEGLD(in.Caller, types.ESDTSystemSCAddress, in.Value()); err != nil {
		return nil, fmt.Errorf("failed to pay issue cost: %w", err)
	}

	var id []byte
	err := cache.WithAccountMut(types.SystemAccountAddress, func(acc *state.AccountData) error {
		seed := make([]byte, 0, types.AddressLength+len(ticker)+16)
		seed = append(seed, in.Caller[:]...)
		seed = append(seed, ticker...)
		seed = binary.LittleEndian.AppendUint64(seed, nonce)
		seed = binary.LittleEndian.AppendUint64(seed, uint64(len(acc.Tokens)))
		suffix := hex.EncodeToString(crypto.Keccak256(seed)[:randomSuffixLen])
		id = append(append(append([]byte{}, ticker...), '-'), suffix...)

		if _, exists := acc.Tokens[string(id)]; exists {
			return fmt.Errorf("%w: %s", ErrTokenExists, id)
		}
		acc.Tokens[string(id)] = &state.TokenSettings{
			Type:        tokenType,
			Issuer:      in.Caller,
			Name:        name,
			Ticker:      ticker,
			NumDecimals: decimals,
		}
		return nil
	})
	return id, err
}

func issueLog(in *Input, id []byte, tokenType state.TokenType) types.LogEntry {
	return types.LogEntry{
		Address:    in.Caller,
		Identifier: []byte(in.Function),
		Topics:     [][]byte{id, in.Args[0], in.Args[1], {byte(tokenType)}},
	}
}

// issueFungible issues a fungible token and credits its initial supply to
// the issuer. Arguments: name, ticker, initial supply, number of decimals.
func issueFungible(in *Input, cache *state.Cache) (*Output, error) {
	if err := requireArgs(in, 4); err != nil {
		return nil, err
	}
	supply := new(big.Int).SetBytes(in.Args[2])
	decimals, err := uint64Arg(in.Args[3])
	if err != nil {
		return nil, err
	}
	if decimals > maxDecimals {
		return nil, fmt.Errorf("%w: %d decimals", ErrInvalidArgument, decimals)
	}
	id, err := issueToken(in, cache, state.FungibleToken, uint32(decimals))
	if err != nil {
		return nil, err
	}
	if supply.Sign() > 0 {
		if err := cache.AddESDT(in.Caller, id, 0, supply); err != nil {
			return nil, err
		}
	}
	return &Output{Out: [][]byte{id}, Logs: []types.LogEntry{issueLog(in, id, state.FungibleToken)}}, nil
}

// issuer issues a token whose instances are created later with
// ESDTNFTCreate. Arguments: name, ticker.
func issuer(tokenType state.TokenType) Function {
	return FunctionFunc(func(in *Input, cache *state.Cache) (*Output, error) {
		if err := requireArgs(in, 2); err != nil {
			return nil, err
		}
		id, err := issueToken(in, cache, tokenType, 0)
		if err != nil {
			return nil, err
		}
		return &Output{Out: [][]byte{id}, Logs: []types.LogEntry{issueLog(in, id, tokenType)}}, nil
	})
}

// asIssuer runs f on the settings of token after checking that the caller
// issued it.
func asIssuer(in *Input, cache *state.Cache, token []byte, f func(s *state.TokenSettings) error) error {
	return cache.WithAccountMut(types.SystemAccountAddress, func(acc *state.AccountData) error {
		settings, ok := acc.Tokens[string(token)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrTokenNotFound, token)
		}
		if settings.Issuer != in.Caller {
			return ErrNotOwner
		}
		return f(settings)
	})
}

// roleSetter grants or revokes local roles. Arguments: token, address,
// then one or more role names. Granting the transfer role limits the
// token's transfers to holders of that role.
func roleSetter(grant bool) Function {
	return FunctionFunc(func(in *Input, cache *state.Cache) (*Output, error) {
		if err := requireArgs(in, 3); err != nil {
			return nil, err
		}
		token := in.Args[0]
		holder, err := addressArg(in.Args[1])
		if err != nil {
			return nil, err
		}
		var roles state.Role
		for _, name := range in.Args[2:] {
			r, ok := state.RoleFromName(string(name))
			if !ok {
				return nil, fmt.Errorf("%w: role %q", ErrInvalidArgument, name)
			}
			roles |= r
		}
		err = asIssuer(in, cache, token, func(s *state.TokenSettings) error {
			if grant && roles&state.RoleTransfer != 0 {
				s.LimitedTransfer = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		err = cache.WithAccountMut(holder, func(acc *state.AccountData) error {
			current := acc.ESDTRoles[string(token)]
			if grant {
				current |= roles
			} else {
				current &^= roles
			}
			if current == 0 {
				delete(acc.ESDTRoles, string(token))
			} else {
				acc.ESDTRoles[string(token)] = current
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		topics := append([][]byte{token, holder.Bytes()}, in.Args[2:]...)
		return &Output{Logs: []types.LogEntry{{Address: in.Caller, Identifier: []byte(in.Function), Topics: topics}}}, nil
	})
}

// pauser sets the global paused flag. Arguments: token.
func pauser(paused bool) Function {
	return FunctionFunc(func(in *Input, cache *state.Cache) (*Output, error) {
		if err := requireArgs(in, 1); err != nil {
			return nil, err
		}
		token := in.Args[0]
		err := asIssuer(in, cache, token, func(s *state.TokenSettings) error {
			if s.Paused == paused {
				return fmt.Errorf("%w: %s already in requested state", ErrInvalidArgument, token)
			}
			s.Paused = paused
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &Output{Logs: []types.LogEntry{{Address: in.Caller, Identifier: []byte(in.Function), Topics: [][]byte{token}}}}, nil
	})
}

// freezer freezes or unfreezes every balance of a token held by one
// account. Arguments: token, address.
func freezer(frozen bool) Function {
	return FunctionFunc(func(in *Input, cache *state.Cache) (*Output, error) {
		if err := requireArgs(in, 2); err != nil {
			return nil, err
		}
		token := in.Args[0]
		holder, err := addressArg(in.Args[1])
		if err != nil {
			return nil, err
		}
		if err := asIssuer(in, cache, token, func(*state.TokenSettings) error { return nil }); err != nil {
			return nil, err
		}
		err = cache.WithAccountMut(holder, func(acc *state.AccountData) error {
			found := false
			for key, inst := range acc.ESDT {
				if key.TokenID != string(token) {
					continue
				}
				found = true
				inst.Frozen = frozen
				if !frozen && inst.Balance.Sign() == 0 {
					delete(acc.ESDT, key)
				}
			}
			if !found && frozen {
				acc.ESDT[state.ESDTKey{TokenID: string(token)}] = &state.ESDTInstance{Balance: new(big.Int), Frozen: true}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &Output{Logs: []types.LogEntry{{Address: in.Caller, Identifier: []byte(in.Function), Topics: [][]byte{token, holder.Bytes()}}}}, nil
	})
}
