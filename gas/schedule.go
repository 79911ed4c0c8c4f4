package gas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrMissingCost = errors.New("gas schedule is missing a hook")

// Schedule maps every hook to its fixed cost. It is built once and shared
// read-only between invocations.
type Schedule struct {
	Hooks    map[string]uint64
	Builtins map[string]uint64

	// DefaultBuiltinCost applies to built-in functions without an entry.
	DefaultBuiltinCost uint64
	// StorePerByte is charged per byte written to storage.
	StorePerByte uint64
	// DataCopyPerByte is charged per byte moved across the hook boundary.
	DataCopyPerByte uint64
	// CallbackReserve is held back from an async call for its callback.
	CallbackReserve uint64
}

// DefaultCategoryCosts are the costs assigned to each category when no
// schedule file overrides them.
func DefaultCategoryCosts() map[Category]uint64 {
	return map[Category]uint64{
		CategoryBase:     100,
		CategoryBigInt:   20,
		CategoryBigFloat: 40,
		CategoryBuffer:   15,
		CategoryMap:      20,
		CategoryCrypto:   1000,
		CategoryStorage:  500,
		CategoryCall:     1000,
		CategoryLog:      300,
	}
}

// DefaultSchedule returns a complete schedule with the built-in defaults.
func DefaultSchedule() *Schedule {
	s := FromCategories(DefaultCategoryCosts())
	s.Hooks[StorageStore] = 5000
	s.Hooks[VerifyBLSAggregated] = 5000
	s.Hooks[BigIntPow] = 100
	s.Hooks[BigFloatPow] = 200
	s.Hooks[BigFloatSqrt] = 200
	return s
}

// FromCategories builds a schedule in which every hook costs its category price.
func FromCategories(costs map[Category]uint64) *Schedule {
	s := &Schedule{
		Hooks:              make(map[string]uint64, len(catalogue)),
		Builtins:           make(map[string]uint64),
		DefaultBuiltinCost: 10000,
		StorePerByte:       10,
		DataCopyPerByte:    1,
		CallbackReserve:    10000,
	}
	for name, c := range catalogue {
		s.Hooks[name] = costs[c]
	}
	return s
}

// Cost returns the cost of a hook.
func (s *Schedule) Cost(hook string) (uint64, error) {
	c, ok := s.Hooks[hook]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingCost, hook)
	}
	return c, nil
}

// BuiltinCost returns the cost of a built-in function.
func (s *Schedule) BuiltinCost(function string) uint64 {
	if c, ok := s.Builtins[strings.ToLower(function)]; ok {
		return c
	}
	return s.DefaultBuiltinCost
}

// Validate checks that every catalogue hook has a cost.
func (s *Schedule) Validate() error {
	for _, name := range Hooks() {
		if _, ok := s.Hooks[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingCost, name)
		}
	}
	return nil
}

// LoadSchedule reads a schedule file. The file may set per-category costs
// under "categories", per-hook overrides under "hooks", built-in costs under
// "builtins" and the per-byte costs under "dynamic". Anything it leaves out
// keeps the default.
func LoadSchedule(path string) (*Schedule, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read gas schedule: %w", err)
	}

	costs := DefaultCategoryCosts()
	for c := range costs {
		key := "categories." + string(c)
		if v.IsSet(key) {
			costs[c] = v.GetUint64(key)
		}
	}
	s := FromCategories(costs)

	// viper lower-cases keys, so hook names are matched case-insensitively.
	byLower := make(map[string]string, len(catalogue))
	for name := range catalogue {
		byLower[strings.ToLower(name)] = name
	}
	for key := range v.GetStringMap("hooks") {
		name, ok := byLower[key]
		if !ok {
			return nil, fmt.Errorf("unknown hook in gas schedule: %s", key)
		}
		s.Hooks[name] = v.GetUint64("hooks." + key)
	}
	for key := range v.GetStringMap("builtins") {
		s.Builtins[key] = v.GetUint64("builtins." + key)
	}

	if v.IsSet("dynamic.default_builtin") {
		s.DefaultBuiltinCost = v.GetUint64("dynamic.default_builtin")
	}
	if v.IsSet("dynamic.store_per_byte") {
		s.StorePerByte = v.GetUint64("dynamic.store_per_byte")
	}
	if v.IsSet("dynamic.data_copy_per_byte") {
		s.DataCopyPerByte = v.GetUint64("dynamic.data_copy_per_byte")
	}
	if v.IsSet("dynamic.callback_reserve") {
		s.CallbackReserve = v.GetUint64("dynamic.callback_reserve")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
