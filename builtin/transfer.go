package builtin

import (
	"fmt"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

// settingsOf returns a copy of the global settings of token, nil when the
// token was never issued through the system contract.
func settingsOf(cache *state.Cache, token []byte) (*state.TokenSettings, error) {
	var out *state.TokenSettings
	err := cache.WithAccount(types.SystemAccountAddress, func(acc *state.AccountData) {
		if s, ok := acc.Tokens[string(token)]; ok {
			cp := *s
			out = &cp
		}
	})
	return out, err
}

func hasRole(cache *state.Cache, addr types.Address, token []byte, role state.Role) (bool, error) {
	var ok bool
	err := cache.WithAccount(addr, func(acc *state.AccountData) {
		ok = acc.ESDTRoles[string(token)]&role != 0
	})
	return ok, err
}

func requireRole(cache *state.Cache, addr types.Address, token []byte, role state.Role) error {
	ok, err := hasRole(cache, addr, token, role)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing role for %s", ErrUnauthorizedRole, token)
	}
	return nil
}

func isFrozen(cache *state.Cache, addr types.Address, token []byte) (bool, error) {
	var frozen bool
	err := cache.WithAccount(addr, func(acc *state.AccountData) {
		for key, inst := range acc.ESDT {
			if key.TokenID == string(token) && inst.Frozen {
				frozen = true
				return
			}
		}
	})
	return frozen, err
}

// checkTransfer enforces the paused, limited-transfer and frozen flags of
// a token moving from one account to another.
func checkTransfer(cache *state.Cache, token []byte, from, to types.Address) error {
	settings, err := settingsOf(cache, token)
	if err != nil {
		return err
	}
	if settings != nil {
		if settings.Paused {
			return fmt.Errorf("%w: %s", ErrPaused, token)
		}
		if settings.LimitedTransfer {
			fromOK, err := hasRole(cache, from, token, state.RoleTransfer)
			if err != nil {
				return err
			}
			toOK, err := hasRole(cache, to, token, state.RoleTransfer)
			if err != nil {
				return err
			}
			if !fromOK && !toOK {
				return fmt.Errorf("%w: transfer of %s is limited", ErrUnauthorizedRole, token)
			}
		}
	}
	for _, addr := range []types.Address{from, to} {
		frozen, err := isFrozen(cache, addr, token)
		if err != nil {
			return err
		}
		if frozen {
			return fmt.Errorf("%w: %s at %s", ErrFrozen, token, addr)
		}
	}
	return nil
}

// checkPayable rejects a plain transfer to a contract that does not accept
// payments. Transfers that call a function leave the check to the function.
func checkPayable(cache *state.Cache, from, to types.Address, hasFunction bool) error {
	if hasFunction {
		return nil
	}
	var contract, payable bool
	err := cache.WithAccount(to, func(acc *state.AccountData) {
		contract = acc.IsContract()
		payable = acc.CodeMetadata.Payable ||
			(acc.CodeMetadata.PayableBySC && types.IsSmartContractAddress(from))
	})
	if err != nil {
		return err
	}
	if contract && !payable {
		return ErrNotPayable
	}
	return nil
}

// followUp builds the contract call requested after a transfer. Calls to
// accounts without code carry no execution; the function is plain data.
func followUp(cache *state.Cache, from, to types.Address, call [][]byte, transfers []types.ESDTTransfer) (*Execution, error) {
	if len(call) == 0 {
		return nil, nil
	}
	var contract bool
	if err := cache.WithAccount(to, func(acc *state.AccountData) { contract = acc.IsContract() }); err != nil {
		return nil, err
	}
	if !contract {
		return nil, nil
	}
	return &Execution{
		From:     from,
		To:       to,
		Function: string(call[0]),
		Args:     call[1:],
		ESDT:     transfers,
	}, nil
}

func transferLog(function string, from, to types.Address, t types.ESDTTransfer) types.LogEntry {
	return types.LogEntry{
		Address:    from,
		Identifier: []byte(function),
		Topics:     [][]byte{t.TokenID, uint64Bytes(t.Nonce), t.Value.Bytes(), to.Bytes()},
	}
}

func moveTokens(cache *state.Cache, from, to types.Address, transfers []types.ESDTTransfer) error {
	for _, t := range transfers {
		if err := checkTransfer(cache, t.TokenID, from, to); err != nil {
			return err
		}
		if err := cache.TransferESDT(from, to, t.TokenID, t.Nonce, t.Value); err != nil {
			return fmt.Errorf("failed to transfer %s: %w", t.TokenID, err)
		}
	}
	return nil
}

func transferOutput(cache *state.Cache, function string, from, to types.Address, transfers []types.ESDTTransfer, call [][]byte) (*Output, error) {
	if err := checkPayable(cache, from, to, len(call) > 0); err != nil {
		return nil, err
	}
	if err := moveTokens(cache, from, to, transfers); err != nil {
		return nil, err
	}
	out := &Output{}
	for _, t := range transfers {
		out.Logs = append(out.Logs, transferLog(function, from, to, t))
	}
	exec, err := followUp(cache, from, to, call, transfers)
	if err != nil {
		return nil, err
	}
	out.Execute = exec
	return out, nil
}

// esdtTransfer moves a fungible token to the recipient of the call.
// Arguments: token, amount, then optionally a function and its arguments.
func esdtTransfer(in *Input, cache *state.Cache) (*Output, error) {
	if err := requireArgs(in, 2); err != nil {
		return nil, err
	}
	amount, err := positive(in.Args[1])
	if err != nil {
		return nil, err
	}
	transfers := []types.ESDTTransfer{{TokenID: in.Args[0], Value: amount}}
	return transferOutput(cache, in.Function, in.Caller, in.Recipient, transfers, in.Args[2:])
}

// esdtNFTTransfer is sent by the owner to itself. Arguments: token, nonce,
// amount, destination, then optionally a function and its arguments.
func esdtNFTTransfer(in *Input, cache *state.Cache) (*Output, error) {
	if err := toSelf(in); err != nil {
		return nil, err
	}
	if err := requireArgs(in, 4); err != nil {
		return nil, err
	}
	nonce, err := uint64Arg(in.Args[1])
	if err != nil {
		return nil, err
	}
	if nonce == 0 {
		return nil, fmt.Errorf("%w: nonce must be set", ErrInvalidArgument)
	}
	amount, err := positive(in.Args[2])
	if err != nil {
		return nil, err
	}
	dest, err := addressArg(in.Args[3])
	if err != nil {
		return nil, err
	}
	transfers := []types.ESDTTransfer{{TokenID: in.Args[0], Nonce: nonce, Value: amount}}
	return transferOutput(cache, in.Function, in.Caller, dest, transfers, in.Args[4:])
}

// multiESDTNFTTransfer is sent by the owner to itself. Arguments:
// destination, count, count triples of (token, nonce, amount), then
// optionally a function and its arguments.
func multiESDTNFTTransfer(in *Input, cache *state.Cache) (*Output, error) {
	if err := toSelf(in); err != nil {
		return nil, err
	}
	if err := requireArgs(in, 2); err != nil {
		return nil, err
	}
	dest, err := addressArg(in.Args[0])
	if err != nil {
		return nil, err
	}
	count, err := uint64Arg(in.Args[1])
	if err != nil {
		return nil, err
	}
	if count == 0 || count > uint64(len(in.Args)) {
		return nil, fmt.Errorf("%w: transfer count %d", ErrInvalidArgument, count)
	}
	end := 2 + 3*int(count)
	if err := requireArgs(in, end); err != nil {
		return nil, err
	}
	transfers := make([]types.ESDTTransfer, 0, count)
	for i := 2; i < end; i += 3 {
		nonce, err := uint64Arg(in.Args[i+1])
		if err != nil {
			return nil, err
		}
		amount, err := positive(in.Args[i+2])
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, types.ESDTTransfer{TokenID: in.Args[i], Nonce: nonce, Value: amount})
	}
	return transferOutput(cache, in.Function, in.Caller, dest, transfers, in.Args[end:])
}
