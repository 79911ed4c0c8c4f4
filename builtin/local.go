package builtin

import (
	"fmt"
	"math/big"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

// MaxRoyalties is the royalties cap, in basis points.
const MaxRoyalties = 10000

func notPaused(cache *state.Cache, token []byte) error {
	settings, err := settingsOf(cache, token)
	if err != nil {
		return err
	}
	if settings != nil && settings.Paused {
		return fmt.Errorf("%w: %s", ErrPaused, token)
	}
	return nil
}

// localSupply changes the caller's own fungible balance of a token it holds
// role for. Arguments: token, amount.
func localSupply(in *Input, cache *state.Cache, role state.Role, sign int) (*Output, error) {
	if err := toSelf(in); err != nil {
		return nil, err
	}
	if err := requireArgs(in, 2); err != nil {
		return nil, err
	}
	token := in.Args[0]
	amount, err := positive(in.Args[1])
	if err != nil {
		return nil, err
	}
	if err := requireRole(cache, in.Caller, token, role); err != nil {
		return nil, err
	}
	if err := notPaused(cache, token); err != nil {
		return nil, err
	}
	delta := new(big.Int).Set(amount)
	if sign < 0 {
		delta.Neg(delta)
	}
	if err := cache.AddESDT(in.Caller, token, 0, delta); err != nil {
		return nil, fmt.Errorf("failed to change supply of %s: %w", token, err)
	}
	return &Output{Logs: []types.LogEntry{{
		Address:    in.Caller,
		Identifier: []byte(in.Function),
		Topics:     [][]byte{token, {}, amount.Bytes()},
	}}}, nil
}

func localMint(in *Input, cache *state.Cache) (*Output, error) {
	return localSupply(in, cache, state.RoleLocalMint, 1)
}

func localBurn(in *Input, cache *state.Cache) (*Output, error) {
	return localSupply(in, cache, state.RoleLocalBurn, -1)
}

// nftCreate creates the next instance of a non-fungible or semi-fungible
// token on the caller. Arguments: token, quantity, name, royalties, hash,
// attributes, then any number of URIs. It returns the new nonce.
func nftCreate(in *Input, cache *state.Cache) (*Output, error) {
	if err := toSelf(in); err != nil {
		return nil, err
	}
	if err := requireArgs(in, 6); err != nil {
		return nil, err
	}
	token := in.Args[0]
	quantity, err := positive(in.Args[1])
	if err != nil {
		return nil, err
	}
	royalties, err := uint64Arg(in.Args[3])
	if err != nil {
		return nil, err
	}
	if royalties > MaxRoyalties {
		return nil, fmt.Errorf("%w: royalties %d above %d", ErrInvalidArgument, royalties, MaxRoyalties)
	}
	if err := requireRole(cache, in.Caller, token, state.RoleNFTCreate); err != nil {
		return nil, err
	}

	var nonce uint64
	err = cache.WithAccountMut(types.SystemAccountAddress, func(acc *state.AccountData) error {
		settings, ok := acc.Tokens[string(token)]
		switch {
		case !ok:
			return fmt.Errorf("%w: %s", ErrTokenNotFound, token)
		case settings.Type == state.FungibleToken:
			return fmt.Errorf("%w: %s is fungible", ErrWrongTokenType, token)
		case settings.Type == state.NonFungibleToken && quantity.Cmp(big.NewInt(1)) != 0:
			return fmt.Errorf("%w: non-fungible quantity must be 1", ErrInvalidArgument)
		case settings.Paused:
			return fmt.Errorf("%w: %s", ErrPaused, token)
		}
		settings.LastNonce++
		nonce = settings.LastNonce
		return nil
	})
	if err != nil {
		return nil, err
	}

	metadata := &state.ESDTMetadata{
		Creator:    in.Caller,
		Royalties:  uint32(royalties),
		Name:       in.Args[2],
		Hash:       in.Args[4],
		Attributes: in.Args[5],
		URIs:       in.Args[6:],
	}
	err = cache.WithAccountMut(in.Caller, func(acc *state.AccountData) error {
		acc.ESDT[state.ESDTKey{TokenID: string(token), Nonce: nonce}] = &state.ESDTInstance{
			Balance:  new(big.Int).Set(quantity),
			Metadata: metadata,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", token, err)
	}
	return &Output{
		Out: [][]byte{uint64Bytes(nonce)},
		Logs: []types.LogEntry{{
			Address:    in.Caller,
			Identifier: []byte(in.Function),
			Topics:     [][]byte{token, uint64Bytes(nonce), quantity.Bytes()},
		}},
	}, nil
}

// nftQuantity changes the balance of an existing instance held by the
// caller. Arguments: token, nonce, quantity.
func nftQuantity(in *Input, cache *state.Cache, role state.Role, sign int) (*Output, error) {
	if err := toSelf(in); err != nil {
		return nil, err
	}
	if err := requireArgs(in, 3); err != nil {
		return nil, err
	}
	token := in.Args[0]
	nonce, err := uint64Arg(in.Args[1])
	if err != nil {
		return nil, err
	}
	quantity, err := positive(in.Args[2])
	if err != nil {
		return nil, err
	}
	if err := requireRole(cache, in.Caller, token, role); err != nil {
		return nil, err
	}
	if err := notPaused(cache, token); err != nil {
		return nil, err
	}

	delta := new(big.Int).Set(quantity)
	if sign < 0 {
		delta.Neg(delta)
	}
	err = cache.WithAccountMut(in.Caller, func(acc *state.AccountData) error {
		key := state.ESDTKey{TokenID: string(token), Nonce: nonce}
		inst, ok := acc.ESDT[key]
		if !ok {
			return fmt.Errorf("%w: %s nonce %d", ErrTokenNotFound, token, nonce)
		}
		if sign < 0 && inst.Balance.Cmp(quantity) < 0 {
			return ErrInsufficientFunds
		}
		inst.Balance.Add(inst.Balance, delta)
		if inst.Balance.Sign() == 0 && !inst.Frozen {
			delete(acc.ESDT, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Output{Logs: []types.LogEntry{{
		Address:    in.Caller,
		Identifier: []byte(in.Function),
		Topics:     [][]byte{token, uint64Bytes(nonce), quantity.Bytes()},
	}}}, nil
}

func nftAddQuantity(in *Input, cache *state.Cache) (*Output, error) {
	return nftQuantity(in, cache, state.RoleNFTAddQuantity, 1)
}

func nftBurn(in *Input, cache *state.Cache) (*Output, error) {
	return nftQuantity(in, cache, state.RoleNFTBurn, -1)
}
