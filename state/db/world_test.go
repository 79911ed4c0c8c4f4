package db

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *World {
	// temp file database, removed with the test directory
	w, err := NewWorld(map[string]any{
		"db_path": filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		w.Close()
	})
	return w
}

func TestBlocks(t *testing.T) {
	w := setupTestDB(t)
	assert.Equal(t, types.BlockInfo{}, w.CurrentBlock())

	require.NoError(t, w.AddBlock(types.BlockInfo{Nonce: 99, Round: 100, Epoch: 2, Timestamp: 1234567880}))
	require.NoError(t, w.AddBlock(types.BlockInfo{Nonce: 100, Round: 101, Epoch: 2, Timestamp: 1234567890, RandomSeed: []byte{1, 2, 3}}))

	current := w.CurrentBlock()
	assert.Equal(t, uint64(100), current.Nonce)
	assert.Equal(t, uint64(1234567890), current.Timestamp)
	assert.Equal(t, []byte{1, 2, 3}, current.RandomSeed)
	assert.Equal(t, uint64(99), w.PreviousBlock().Nonce)
}

func TestAccountRoundTrip(t *testing.T) {
	w := setupTestDB(t)
	addr := types.AddressFromString("0x1234")
	owner := types.AddressFromString("0x5678")

	_, found, err := w.GetAccount(addr)
	require.NoError(t, err)
	assert.False(t, found)

	acc := state.NewAccount(addr)
	acc.Nonce = 7
	acc.Balance.SetInt64(1000)
	acc.DeveloperRewards.SetInt64(3)
	acc.Code = []byte("code")
	acc.CodeMetadata = types.CodeMetadata{Upgradeable: true, Payable: true}
	acc.Owner = owner
	acc.Storage["key"] = []byte("value")
	acc.ESDT[state.ESDTKey{TokenID: "NFT-123456", Nonce: 1}] = &state.ESDTInstance{
		Balance: big.NewInt(1),
		Metadata: &state.ESDTMetadata{
			Creator:   owner,
			Royalties: 500,
			Name:      []byte("first"),
			URIs:      [][]byte{[]byte("https://example.org/1")},
		},
	}
	acc.ESDTRoles["NFT-123456"] = state.RoleNFTCreate | state.RoleNFTBurn
	acc.Tokens["NFT-123456"] = &state.TokenSettings{Type: state.NonFungibleToken, Paused: true}
	require.NoError(t, w.Commit([]*state.AccountData{acc}))

	got, found, err := w.GetAccount(addr)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(7), got.Nonce)
	assert.Equal(t, "1000", got.Balance.String())
	assert.Equal(t, "3", got.DeveloperRewards.String())
	assert.Equal(t, []byte("code"), got.Code)
	assert.Equal(t, acc.CodeMetadata, got.CodeMetadata)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, []byte("value"), got.Storage["key"])

	inst := got.ESDTInstanceOf([]byte("NFT-123456"), 1)
	require.NotNil(t, inst)
	assert.Equal(t, int64(1), inst.Balance.Int64())
	require.NotNil(t, inst.Metadata)
	assert.Equal(t, uint32(500), inst.Metadata.Royalties)
	assert.Equal(t, []byte("first"), inst.Metadata.Name)
	assert.Equal(t, state.RoleNFTCreate|state.RoleNFTBurn, got.ESDTRoles["NFT-123456"])
	assert.True(t, got.Tokens["NFT-123456"].Paused)
}

func TestCommitReplacesRows(t *testing.T) {
	w := setupTestDB(t)
	addr := types.AddressFromString("0xabcd")

	cache := state.NewCache(w)
	require.NoError(t, cache.SetStorage(addr, []byte("a"), []byte("1")))
	require.NoError(t, cache.SetStorage(addr, []byte("b"), []byte("2")))
	require.NoError(t, w.Commit(cache.Updates()))

	cache = state.NewCache(w)
	require.NoError(t, cache.SetStorage(addr, []byte("a"), nil))
	require.NoError(t, w.Commit(cache.Updates()))

	got, found, err := w.GetAccount(addr)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, got.Storage, "a")
	assert.Equal(t, []byte("2"), got.Storage["b"])
}

func TestRegisteredBackend(t *testing.T) {
	w, err := state.Open(state.DBWorldType, map[string]any{
		"db_path": filepath.Join(t.TempDir(), "registry.db"),
	})
	require.NoError(t, err)
	defer w.(*World).Close()

	_, found, err := w.GetAccount(types.AddressFromString("0x01"))
	require.NoError(t, err)
	assert.False(t, found)
}
