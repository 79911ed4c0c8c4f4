package builtin

import (
	"fmt"
	"math/big"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

func requireOwner(cache *state.Cache, contract, caller types.Address) error {
	var (
		exists bool
		owner  types.Address
	)
	err := cache.WithAccount(contract, func(acc *state.AccountData) {
		exists = acc.IsContract()
		owner = acc.Owner
	})
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrContractNotFound, contract)
	}
	if owner != caller {
		return ErrNotOwner
	}
	return nil
}

// claimDeveloperRewards moves the rewards accrued by the recipient contract
// to its owner, who must be the caller. It returns the amount claimed.
func claimDeveloperRewards(in *Input, cache *state.Cache) (*Output, error) {
	if err := requireOwner(cache, in.Recipient, in.Caller); err != nil {
		return nil, err
	}
	rewards := new(big.Int)
	err := cache.WithAccountMut(in.Recipient, func(acc *state.AccountData) error {
		rewards.Set(acc.DeveloperRewards)
		acc.DeveloperRewards.SetInt64(0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := cache.AddBalance(in.Caller, rewards); err != nil {
		return nil, err
	}
	return &Output{
		Out: [][]byte{rewards.Bytes()},
		Logs: []types.LogEntry{{
			Address:    in.Recipient,
			Identifier: []byte(in.Function),
			Topics:     [][]byte{rewards.Bytes(), in.Caller.Bytes()},
		}},
	}, nil
}

// changeOwnerAddress hands the recipient contract to a new owner.
// Arguments: new owner address.
func changeOwnerAddress(in *Input, cache *state.Cache) (*Output, error) {
	if err := requireArgs(in, 1); err != nil {
		return nil, err
	}
	owner, err := addressArg(in.Args[0])
	if err != nil {
		return nil, err
	}
	if err := requireOwner(cache, in.Recipient, in.Caller); err != nil {
		return nil, err
	}
	err = cache.WithAccountMut(in.Recipient, func(acc *state.AccountData) error {
		acc.Owner = owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Output{Logs: []types.LogEntry{{
		Address:    in.Recipient,
		Identifier: []byte(in.Function),
		Topics:     [][]byte{owner.Bytes()},
	}}}, nil
}
