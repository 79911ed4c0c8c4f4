// Package memory is the in-memory World backend.
package memory

import (
	"sync"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
)

// World keeps every account in a map. It is safe for concurrent use.
type World struct {
	mu       sync.RWMutex
	accounts map[types.Address]*state.AccountData
	current  types.BlockInfo
	previous types.BlockInfo
}

func init() {
	state.Register(state.MemoryWorldType, func(params map[string]any) (state.Committer, error) {
		w := NewWorld()
		if accounts, ok := params["accounts"].([]*state.AccountData); ok {
			for _, acc := range accounts {
				w.SetAccount(acc)
			}
		}
		return w, nil
	})
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{accounts: make(map[types.Address]*state.AccountData)}
}

// GetAccount returns a copy of the stored account.
func (w *World) GetAccount(addr types.Address) (*state.AccountData, bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	acc, ok := w.accounts[addr]
	if !ok {
		return nil, false, nil
	}
	return acc.Clone(), true, nil
}

// SetAccount stores a copy of acc, replacing any previous record.
func (w *World) SetAccount(acc *state.AccountData) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accounts[acc.Address] = acc.Clone()
}

// SetBlocks sets the current and previous block headers.
func (w *World) SetBlocks(current, previous types.BlockInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = current
	w.previous = previous
}

func (w *World) CurrentBlock() types.BlockInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *World) PreviousBlock() types.BlockInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.previous
}

// Commit replaces the stored records with the updated ones.
func (w *World) Commit(updates []*state.AccountData) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, acc := range updates {
		w.accounts[acc.Address] = acc.Clone()
	}
	return nil
}

// Len returns the number of stored accounts.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.accounts)
}
