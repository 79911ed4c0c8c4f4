package state

import (
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/hookvm/types"
)

//go:generate mockgen -source world.go -destination world_mock.go -package state

// World is the baseline the cache reads through to. Implementations return
// a record the caller may keep; the cache never mutates it.
type World interface {
	// GetAccount returns the account and whether it exists.
	GetAccount(addr types.Address) (*AccountData, bool, error)
	// CurrentBlock returns the header of the block being executed.
	CurrentBlock() types.BlockInfo
	// PreviousBlock returns the header of the block before it.
	PreviousBlock() types.BlockInfo
}

// Committer is a World that accepts the updates of a finished transaction.
type Committer interface {
	World
	Commit(updates []*AccountData) error
}

// WorldType names a registered World backend.
type WorldType string

const (
	// MemoryWorldType keeps accounts in memory.
	MemoryWorldType WorldType = "memory"
	// DBWorldType persists accounts with gorm.
	DBWorldType WorldType = "db"
)

// WorldConstructor creates a backend from free-form parameters.
type WorldConstructor func(params map[string]any) (Committer, error)

type registry struct {
	mu     sync.RWMutex
	worlds map[WorldType]WorldConstructor
}

var defaultRegistry = &registry{worlds: make(map[WorldType]WorldConstructor)}

// Register adds a backend. Backends register themselves from init.
func Register(wt WorldType, constructor WorldConstructor) error {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	if _, exists := defaultRegistry.worlds[wt]; exists {
		return fmt.Errorf("world type %s already registered", wt)
	}
	defaultRegistry.worlds[wt] = constructor
	return nil
}

// Open creates a backend of the given type. The empty type selects memory.
func Open(wt WorldType, params map[string]any) (Committer, error) {
	if wt == "" {
		wt = MemoryWorldType
	}
	defaultRegistry.mu.RLock()
	constructor, exists := defaultRegistry.worlds[wt]
	defaultRegistry.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("world type %s not found", wt)
	}
	return constructor(params)
}

// ListRegistered returns the registered backend types, sorted.
func ListRegistered() []WorldType {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	out := make([]WorldType, 0, len(defaultRegistry.worlds))
	for wt := range defaultRegistry.worlds {
		out = append(out, wt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
