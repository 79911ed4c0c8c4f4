package gas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeter(t *testing.T) {
	m := NewMeter(100, nil)
	require.NoError(t, m.Use(60))
	assert.Equal(t, uint64(60), m.Used())
	assert.Equal(t, uint64(40), m.Left())

	require.NoError(t, m.Use(40))
	assert.Equal(t, uint64(0), m.Left())
	assert.ErrorIs(t, m.Use(1), ErrOutOfGas)
	assert.Equal(t, uint64(100), m.Used())

	m.AddRefund(7)
	assert.Equal(t, uint64(7), m.Refunded())
	assert.Equal(t, uint64(100), m.Used())
}

func TestMeterExhaustsOnFailedCharge(t *testing.T) {
	s := DefaultSchedule()
	s.Hooks[BigIntMul] = 10
	m := NewMeter(100, s)
	require.NoError(t, m.Use(95))

	err := m.UseHook(BigIntMul)
	assert.ErrorIs(t, err, ErrOutOfGas)
	assert.Equal(t, m.Limit(), m.Used())
}

func TestUsePerByte(t *testing.T) {
	m := NewMeter(1000, nil)
	require.NoError(t, m.UsePerByte(10, 50))
	assert.Equal(t, uint64(500), m.Used())
	require.NoError(t, m.UsePerByte(10, 0))
	assert.ErrorIs(t, m.UsePerByte(10, 1<<40), ErrOutOfGas)
	assert.Equal(t, uint64(1000), m.Used())
}

func TestDefaultScheduleIsComplete(t *testing.T) {
	s := DefaultSchedule()
	require.NoError(t, s.Validate())
	for _, name := range Hooks() {
		cost, err := s.Cost(name)
		require.NoError(t, err)
		assert.NotZero(t, cost, name)
	}

	delete(s.Hooks, BigIntAdd)
	assert.ErrorIs(t, s.Validate(), ErrMissingCost)
	_, err := s.Cost("noSuchHook")
	assert.ErrorIs(t, err, ErrMissingCost)
}

func TestCategoryOf(t *testing.T) {
	c, ok := CategoryOf(BigIntAnd)
	require.True(t, ok)
	assert.Equal(t, CategoryBigInt, c)

	c, ok = CategoryOf(StorageStore)
	require.True(t, ok)
	assert.Equal(t, CategoryStorage, c)

	_, ok = CategoryOf("unknown")
	assert.False(t, ok)
}

func TestLoadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gas.toml")
	content := `
[categories]
big_int = 7
crypto = 300

[hooks]
bigIntMul = 11
managedSha256 = 50

[builtins]
ESDTTransfer = 2500

[dynamic]
store_per_byte = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), s.Hooks[BigIntAdd])
	assert.Equal(t, uint64(11), s.Hooks[BigIntMul])
	assert.Equal(t, uint64(300), s.Hooks[Keccak256])
	assert.Equal(t, uint64(50), s.Hooks[Sha256])
	assert.Equal(t, DefaultCategoryCosts()[CategoryStorage], s.Hooks[StorageLoad])
	assert.Equal(t, uint64(2500), s.BuiltinCost("ESDTTransfer"))
	assert.Equal(t, s.DefaultBuiltinCost, s.BuiltinCost("ESDTLocalMint"))
	assert.Equal(t, uint64(3), s.StorePerByte)
}

func TestLoadScheduleRejectsUnknownHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hooks:\n  notAHook: 5\n"), 0o644))

	_, err := LoadSchedule(path)
	assert.Error(t, err)

	_, err = LoadSchedule(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
