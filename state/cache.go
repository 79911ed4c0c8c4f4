package state

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/govm-net/hookvm/types"
)

var (
	ErrNegativeBalance = errors.New("insufficient funds")
	ErrNonceDecrease   = errors.New("account nonce cannot decrease")
	ErrNotChild        = errors.New("cache is not a child of this cache")
)

// Cache stages account changes above a World or above another Cache. The
// first access to an account copies its record into the layer; writes stay
// in the layer until a parent commits them.
type Cache struct {
	mu       sync.Mutex
	world    World
	parent   *Cache
	accounts map[types.Address]*AccountData
	dirty    map[types.Address]struct{}
}

// NewCache creates a root cache over world.
func NewCache(world World) *Cache {
	return &Cache{
		world:    world,
		accounts: make(map[types.Address]*AccountData),
		dirty:    make(map[types.Address]struct{}),
	}
}

// Child creates a layer whose reads fall through to c.
func (c *Cache) Child() *Cache {
	child := NewCache(c.world)
	child.parent = c
	return child
}

// World returns the baseline under the whole stack of layers.
func (c *Cache) World() World {
	return c.world
}

// Parent returns the layer below c, nil for a root cache.
func (c *Cache) Parent() *Cache {
	return c.parent
}

func (c *Cache) lookup(addr types.Address) (*AccountData, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(addr)
}

func (c *Cache) lookupLocked(addr types.Address) (*AccountData, bool, error) {
	if acc, ok := c.accounts[addr]; ok {
		return acc, true, nil
	}
	if c.parent != nil {
		return c.parent.lookup(addr)
	}
	if c.world == nil {
		return nil, false, nil
	}
	return c.world.GetAccount(addr)
}

func (c *Cache) loadLocked(addr types.Address) (*AccountData, error) {
	if acc, ok := c.accounts[addr]; ok {
		return acc, nil
	}
	var (
		base  *AccountData
		found bool
		err   error
	)
	switch {
	case c.parent != nil:
		base, found, err = c.parent.lookup(addr)
	case c.world != nil:
		base, found, err = c.world.GetAccount(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", addr, err)
	}

	var acc *AccountData
	if found && base != nil {
		acc = base.Clone()
	} else {
		acc = NewAccount(addr)
	}
	c.accounts[addr] = acc
	return acc, nil
}

// Exists reports whether the account is known to any layer or the world.
func (c *Cache) Exists(addr types.Address) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found, err := c.lookupLocked(addr)
	return found, err
}

// WithAccount runs f against the staged record of addr. f must not mutate it.
func (c *Cache) WithAccount(addr types.Address, f func(acc *AccountData)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	acc, err := c.loadLocked(addr)
	if err != nil {
		return err
	}
	f(acc)
	return nil
}

// Account returns a copy of the staged record of addr.
func (c *Cache) Account(addr types.Address) (*AccountData, error) {
	var out *AccountData
	err := c.WithAccount(addr, func(acc *AccountData) {
		out = acc.Clone()
	})
	return out, err
}

// WithAccountMut runs f against a working copy of addr. The copy replaces
// the staged record only when f succeeds and the result keeps every balance
// non-negative and the nonce not lower than before.
func (c *Cache) WithAccountMut(addr types.Address, f func(acc *AccountData) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	acc, err := c.loadLocked(addr)
	if err != nil {
		return err
	}
	working := acc.Clone()
	if err := f(working); err != nil {
		return err
	}
	if working.Nonce < acc.Nonce {
		return ErrNonceDecrease
	}
	if err := working.valid(); err != nil {
		return err
	}
	working.Address = addr
	c.accounts[addr] = working
	c.dirty[addr] = struct{}{}
	return nil
}

// GetStorage returns the value under key, empty when missing.
func (c *Cache) GetStorage(addr types.Address, key []byte) ([]byte, error) {
	var out []byte
	err := c.WithAccount(addr, func(acc *AccountData) {
		out = bytes.Clone(acc.Storage[string(key)])
	})
	if out == nil {
		out = []byte{}
	}
	return out, err
}

// SetStorage writes value under key. An empty value deletes the key.
func (c *Cache) SetStorage(addr types.Address, key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	acc, err := c.loadLocked(addr)
	if err != nil {
		return err
	}
	if len(value) == 0 {
		delete(acc.Storage, string(key))
	} else {
		acc.Storage[string(key)] = bytes.Clone(value)
	}
	c.dirty[addr] = struct{}{}
	return nil
}

// AddBalance adds delta, which may be negative, to the EGLD balance.
func (c *Cache) AddBalance(addr types.Address, delta *big.Int) error {
	return c.WithAccountMut(addr, func(acc *AccountData) error {
		acc.Balance.Add(acc.Balance, delta)
		return nil
	})
}

// TransferEGLD moves amount from one account to another.
func (c *Cache) TransferEGLD(from, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("negative transfer value: %s", amount)
	}
	if err := c.AddBalance(from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	return c.AddBalance(to, amount)
}

// AddESDT adds delta to a token balance. A balance that reaches zero is removed.
func (c *Cache) AddESDT(addr types.Address, token []byte, nonce uint64, delta *big.Int) error {
	return c.WithAccountMut(addr, func(acc *AccountData) error {
		key := ESDTKey{TokenID: string(token), Nonce: nonce}
		inst, ok := acc.ESDT[key]
		if !ok {
			inst = &ESDTInstance{Balance: new(big.Int)}
			acc.ESDT[key] = inst
		}
		inst.Balance.Add(inst.Balance, delta)
		if inst.Balance.Sign() == 0 && !inst.Frozen {
			delete(acc.ESDT, key)
		}
		return nil
	})
}

// TransferESDT moves a token balance. The destination inherits the instance
// metadata when it has none.
func (c *Cache) TransferESDT(from, to types.Address, token []byte, nonce uint64, amount *big.Int) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("negative transfer value: %s", amount)
	}
	var metadata *ESDTMetadata
	err := c.WithAccountMut(from, func(acc *AccountData) error {
		key := ESDTKey{TokenID: string(token), Nonce: nonce}
		inst, ok := acc.ESDT[key]
		if !ok || inst.Balance.Cmp(amount) < 0 {
			return ErrNegativeBalance
		}
		metadata = inst.Metadata.clone()
		inst.Balance.Sub(inst.Balance, amount)
		if inst.Balance.Sign() == 0 && !inst.Frozen {
			delete(acc.ESDT, key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.WithAccountMut(to, func(acc *AccountData) error {
		key := ESDTKey{TokenID: string(token), Nonce: nonce}
		inst, ok := acc.ESDT[key]
		if !ok {
			inst = &ESDTInstance{Balance: new(big.Int)}
			acc.ESDT[key] = inst
		}
		if inst.Metadata == nil {
			inst.Metadata = metadata
		}
		inst.Balance.Add(inst.Balance, amount)
		return nil
	})
}

// IncrementNonce bumps the nonce and returns the value it had before.
func (c *Cache) IncrementNonce(addr types.Address) (uint64, error) {
	var previous uint64
	err := c.WithAccountMut(addr, func(acc *AccountData) error {
		previous = acc.Nonce
		acc.Nonce++
		return nil
	})
	return previous, err
}

// CommitUpdates merges the changes of a direct child into c. The child is
// emptied and must not be used afterwards.
func (c *Cache) CommitUpdates(child *Cache) error {
	if child.parent != c {
		return ErrNotChild
	}
	child.mu.Lock()
	defer child.mu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for addr := range child.dirty {
		c.accounts[addr] = child.accounts[addr]
		c.dirty[addr] = struct{}{}
	}
	child.accounts = make(map[types.Address]*AccountData)
	child.dirty = make(map[types.Address]struct{})
	return nil
}

// Updates returns copies of every changed account, ordered by address.
func (c *Cache) Updates() []*AccountData {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*AccountData, 0, len(c.dirty))
	for addr := range c.dirty {
		out = append(out, c.accounts[addr].Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.Compare(out[j].Address) < 0
	})
	return out
}
