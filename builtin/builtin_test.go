package builtin

import (
	"math/big"
	"testing"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/state/memory"
	"github.com/govm-net/hookvm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice    = types.AddressFromString("0xa1")
	bob      = types.AddressFromString("0xb0")
	contract = types.AddressFromString("0x0000000000000000050001")
	token    = []byte("TKN-123456")
)

func newCache(accounts ...*state.AccountData) *state.Cache {
	world := memory.NewWorld()
	for _, acc := range accounts {
		world.SetAccount(acc)
	}
	return state.NewCache(world)
}

func holding(addr types.Address, token []byte, nonce uint64, amount int64) *state.AccountData {
	acc := state.NewAccount(addr)
	acc.ESDT[state.ESDTKey{TokenID: string(token), Nonce: nonce}] = &state.ESDTInstance{Balance: big.NewInt(amount)}
	return acc
}

func run(t *testing.T, c *state.Cache, caller, recipient types.Address, function string, args ...[]byte) (*Output, error) {
	t.Helper()
	fn, ok := NewContainer().Lookup(recipient, function)
	require.True(t, ok, function)
	return fn.Execute(&Input{Caller: caller, Recipient: recipient, Function: function, Args: args}, c)
}

func esdtBalance(t *testing.T, c *state.Cache, addr types.Address, token []byte, nonce uint64) int64 {
	t.Helper()
	acc, err := c.Account(addr)
	require.NoError(t, err)
	return acc.ESDTBalance(token, nonce).Int64()
}

func TestContainerRouting(t *testing.T) {
	c := NewContainer()
	assert.True(t, c.IsBuiltin(ESDTTransfer))
	assert.False(t, c.IsBuiltin(Issue))
	assert.Contains(t, c.Names(), MultiESDTNFTTransfer)

	_, ok := c.Lookup(alice, "transfer")
	assert.False(t, ok)
	_, ok = c.Lookup(types.ESDTSystemSCAddress, Issue)
	assert.True(t, ok)

	fn, ok := c.Lookup(types.ESDTSystemSCAddress, "nope")
	require.True(t, ok)
	_, err := fn.Execute(&Input{Function: "nope"}, newCache())
	assert.ErrorIs(t, err, ErrUnknownFunction)

	assert.Error(t, c.Register(ESDTTransfer, FunctionFunc(esdtTransfer)))
	require.NoError(t, c.Register("custom", FunctionFunc(esdtTransfer)))
	assert.True(t, c.IsBuiltin("custom"))
}

func TestReturnCode(t *testing.T) {
	assert.Equal(t, types.Ok, ReturnCode(nil))
	assert.Equal(t, types.InsufficientFunds, ReturnCode(state.ErrNegativeBalance))
	assert.Equal(t, types.FrozenToken, ReturnCode(ErrPaused))
	assert.Equal(t, types.UnauthorizedRole, ReturnCode(ErrNotOwner))
	assert.Equal(t, types.ContractInvalid, ReturnCode(ErrContractNotFound))
	assert.Equal(t, types.BuiltinFailed, ReturnCode(ErrInvalidArgument))
}

func TestESDTTransfer(t *testing.T) {
	c := newCache(holding(alice, token, 0, 50))
	out, err := run(t, c, alice, bob, ESDTTransfer, token, big.NewInt(20).Bytes())
	require.NoError(t, err)
	assert.Nil(t, out.Execute)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, []byte(ESDTTransfer), out.Logs[0].Identifier)
	assert.Equal(t, int64(30), esdtBalance(t, c, alice, token, 0))
	assert.Equal(t, int64(20), esdtBalance(t, c, bob, token, 0))

	_, err = run(t, c, alice, bob, ESDTTransfer, token, big.NewInt(31).Bytes())
	assert.Equal(t, types.InsufficientFunds, ReturnCode(err))
	assert.Equal(t, int64(30), esdtBalance(t, c, alice, token, 0))

	_, err = run(t, c, alice, bob, ESDTTransfer, token, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = run(t, c, alice, bob, ESDTTransfer, token)
	assert.ErrorIs(t, err, ErrNotEnoughArguments)
}

func TestESDTTransferToContract(t *testing.T) {
	sc := state.NewAccount(contract)
	sc.Code = []byte("code")
	c := newCache(holding(alice, token, 0, 50), sc)

	_, err := run(t, c, alice, contract, ESDTTransfer, token, big.NewInt(5).Bytes())
	assert.ErrorIs(t, err, ErrNotPayable)

	out, err := run(t, c, alice, contract, ESDTTransfer, token, big.NewInt(5).Bytes(), []byte("deposit"), []byte{1})
	require.NoError(t, err)
	require.NotNil(t, out.Execute)
	assert.Equal(t, contract, out.Execute.To)
	assert.Equal(t, "deposit", out.Execute.Function)
	assert.Equal(t, [][]byte{{1}}, out.Execute.Args)
	require.Len(t, out.Execute.ESDT, 1)
	assert.Equal(t, int64(5), out.Execute.ESDT[0].Value.Int64())
	assert.Equal(t, int64(5), esdtBalance(t, c, contract, token, 0))
}

func TestTransferChecksFlags(t *testing.T) {
	system := state.NewAccount(types.SystemAccountAddress)
	system.Tokens[string(token)] = &state.TokenSettings{Issuer: alice, Paused: true}
	c := newCache(holding(alice, token, 0, 50), system)
	_, err := run(t, c, alice, bob, ESDTTransfer, token, []byte{1})
	assert.ErrorIs(t, err, ErrPaused)

	system.Tokens[string(token)] = &state.TokenSettings{Issuer: alice, LimitedTransfer: true}
	c = newCache(holding(alice, token, 0, 50), system)
	_, err = run(t, c, alice, bob, ESDTTransfer, token, []byte{1})
	assert.ErrorIs(t, err, ErrUnauthorizedRole)

	frozen := holding(bob, token, 0, 0)
	frozen.ESDT[state.ESDTKey{TokenID: string(token)}].Frozen = true
	c = newCache(holding(alice, token, 0, 50), frozen)
	_, err = run(t, c, alice, bob, ESDTTransfer, token, []byte{1})
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestNFTAndMultiTransfer(t *testing.T) {
	nft := []byte("NFT-abcdef")
	from := holding(alice, token, 0, 50)
	from.ESDT[state.ESDTKey{TokenID: string(nft), Nonce: 2}] = &state.ESDTInstance{
		Balance:  big.NewInt(1),
		Metadata: &state.ESDTMetadata{Name: []byte("art")},
	}
	c := newCache(from)

	_, err := run(t, c, alice, bob, ESDTNFTTransfer, nft, []byte{2}, []byte{1}, bob[:])
	assert.ErrorIs(t, err, ErrInvalidReceiver)

	_, err = run(t, c, alice, alice, ESDTNFTTransfer, nft, []byte{2}, []byte{1}, bob[:])
	require.NoError(t, err)
	acc, err := c.Account(bob)
	require.NoError(t, err)
	inst := acc.ESDTInstanceOf(nft, 2)
	require.NotNil(t, inst)
	assert.Equal(t, []byte("art"), inst.Metadata.Name)

	out, err := run(t, c, alice, alice, MultiESDTNFTTransfer, bob[:], []byte{1}, token, nil, []byte{7})
	require.NoError(t, err)
	assert.Len(t, out.Logs, 1)
	assert.Equal(t, int64(7), esdtBalance(t, c, bob, token, 0))

	_, err = run(t, c, alice, alice, MultiESDTNFTTransfer, bob[:], []byte{2}, token, nil, []byte{7})
	assert.ErrorIs(t, err, ErrNotEnoughArguments)
}

func TestLocalMintAndBurn(t *testing.T) {
	sc := holding(contract, token, 0, 10)
	c := newCache(sc)
	_, err := run(t, c, contract, contract, ESDTLocalMint, token, []byte{5})
	assert.Equal(t, types.UnauthorizedRole, ReturnCode(err))

	sc.ESDTRoles[string(token)] = state.RoleLocalMint | state.RoleLocalBurn
	c = newCache(sc)
	_, err = run(t, c, contract, contract, ESDTLocalMint, token, []byte{5})
	require.NoError(t, err)
	assert.Equal(t, int64(15), esdtBalance(t, c, contract, token, 0))

	_, err = run(t, c, contract, contract, ESDTLocalBurn, token, []byte{15})
	require.NoError(t, err)
	assert.Zero(t, esdtBalance(t, c, contract, token, 0))

	_, err = run(t, c, contract, contract, ESDTLocalBurn, token, []byte{1})
	assert.Equal(t, types.InsufficientFunds, ReturnCode(err))
}

func TestIssueAndNFTLifecycle(t *testing.T) {
	owner := state.NewAccount(alice)
	owner.Balance = big.NewInt(1000)
	c := newCache(owner)

	out, err := run(t, c, alice, types.ESDTSystemSCAddress, IssueSemiFungible, []byte("Tickets"), []byte("TIX"))
	require.NoError(t, err)
	id := out.Out[0]
	assert.Regexp(t, `^TIX-[0-9a-f]{6}$`, string(id))

	_, err = run(t, c, bob, types.ESDTSystemSCAddress, SetSpecialRole, id, alice[:], []byte("ESDTRoleNFTCreate"))
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = run(t, c, alice, types.ESDTSystemSCAddress, SetSpecialRole, id, alice[:],
		[]byte("ESDTRoleNFTCreate"), []byte("ESDTRoleNFTAddQuantity"), []byte("ESDTRoleNFTBurn"))
	require.NoError(t, err)

	out, err = run(t, c, alice, alice, ESDTNFTCreate, id, []byte{10}, []byte("seat"), big.NewInt(500).Bytes(), []byte("h"), []byte("a"), []byte("uri"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1}}, out.Out)
	out, err = run(t, c, alice, alice, ESDTNFTCreate, id, []byte{1}, []byte("seat2"), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{2}}, out.Out)

	acc, err := c.Account(alice)
	require.NoError(t, err)
	inst := acc.ESDTInstanceOf(id, 1)
	require.NotNil(t, inst)
	assert.Equal(t, alice, inst.Metadata.Creator)
	assert.Equal(t, uint32(500), inst.Metadata.Royalties)
	assert.Equal(t, [][]byte{[]byte("uri")}, inst.Metadata.URIs)

	_, err = run(t, c, alice, alice, ESDTNFTAddQuantity, id, []byte{1}, []byte{5})
	require.NoError(t, err)
	assert.Equal(t, int64(15), esdtBalance(t, c, alice, id, 1))
	_, err = run(t, c, alice, alice, ESDTNFTBurn, id, []byte{1}, []byte{15})
	require.NoError(t, err)
	assert.Zero(t, esdtBalance(t, c, alice, id, 1))
	_, err = run(t, c, alice, alice, ESDTNFTBurn, id, []byte{1}, []byte{1})
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = run(t, c, alice, alice, ESDTNFTCreate, id, []byte{1}, []byte("x"), big.NewInt(MaxRoyalties+1).Bytes(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIssueFungible(t *testing.T) {
	owner := state.NewAccount(alice)
	owner.Balance = big.NewInt(1000)
	c := newCache(owner)
	in := &Input{
		Caller:    alice,
		Recipient: types.ESDTSystemSCAddress,
		Function:  Issue,
		Args:      [][]byte{[]byte("Gold"), []byte("GLD"), big.NewInt(1_000_000).Bytes(), {6}},
		EGLDValue: big.NewInt(50),
	}
	fn, _ := NewContainer().Lookup(types.ESDTSystemSCAddress, Issue)
	out, err := fn.Execute(in, c)
	require.NoError(t, err)
	id := out.Out[0]
	assert.Equal(t, int64(1_000_000), esdtBalance(t, c, alice, id, 0))

	acc, err := c.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(950), acc.Balance.Int64())
	sys, err := c.Account(types.SystemAccountAddress)
	require.NoError(t, err)
	require.Contains(t, sys.Tokens, string(id))
	assert.Equal(t, uint32(6), sys.Tokens[string(id)].NumDecimals)

	// the same ticker issued again gets a different identifier
	out, err = fn.Execute(in, c)
	require.NoError(t, err)
	assert.NotEqual(t, id, out.Out[0])

	in.Args[1] = []byte("gl")
	_, err = fn.Execute(in, c)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPauseFreezeAndTransferRole(t *testing.T) {
	owner := state.NewAccount(alice)
	c := newCache(owner)
	out, err := run(t, c, alice, types.ESDTSystemSCAddress, Issue, []byte("Gold"), []byte("GLD"), []byte{100}, []byte{0})
	require.NoError(t, err)
	id := out.Out[0]

	_, err = run(t, c, alice, types.ESDTSystemSCAddress, Pause, id)
	require.NoError(t, err)
	_, err = run(t, c, alice, bob, ESDTTransfer, id, []byte{1})
	assert.ErrorIs(t, err, ErrPaused)
	_, err = run(t, c, alice, types.ESDTSystemSCAddress, Pause, id)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = run(t, c, alice, types.ESDTSystemSCAddress, UnPause, id)
	require.NoError(t, err)

	_, err = run(t, c, alice, types.ESDTSystemSCAddress, Freeze, id, bob[:])
	require.NoError(t, err)
	_, err = run(t, c, alice, bob, ESDTTransfer, id, []byte{1})
	assert.ErrorIs(t, err, ErrFrozen)
	_, err = run(t, c, alice, types.ESDTSystemSCAddress, UnFreeze, id, bob[:])
	require.NoError(t, err)
	_, err = run(t, c, alice, bob, ESDTTransfer, id, []byte{1})
	require.NoError(t, err)

	_, err = run(t, c, alice, types.ESDTSystemSCAddress, SetSpecialRole, id, alice[:], []byte("ESDTTransferRole"))
	require.NoError(t, err)
	_, err = run(t, c, bob, alice, ESDTTransfer, id, []byte{1})
	require.NoError(t, err, "receiver holds the transfer role")
	_, err = run(t, c, bob, contract, ESDTTransfer, id, []byte{0})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = run(t, c, alice, types.ESDTSystemSCAddress, UnSetSpecialRole, id, alice[:], []byte("ESDTTransferRole"))
	require.NoError(t, err)
	acc, err := c.Account(alice)
	require.NoError(t, err)
	assert.NotContains(t, acc.ESDTRoles, string(id))
}

func TestDeveloperRewardsAndOwner(t *testing.T) {
	sc := state.NewAccount(contract)
	sc.Code = []byte("code")
	sc.Owner = alice
	sc.DeveloperRewards = big.NewInt(40)
	c := newCache(sc, state.NewAccount(alice))

	_, err := run(t, c, bob, contract, ClaimDeveloperRewards)
	assert.ErrorIs(t, err, ErrNotOwner)

	out, err := run(t, c, alice, contract, ClaimDeveloperRewards)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{40}}, out.Out)
	acc, err := c.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(40), acc.Balance.Int64())

	_, err = run(t, c, alice, contract, ChangeOwnerAddress, bob[:])
	require.NoError(t, err)
	acc, err = c.Account(contract)
	require.NoError(t, err)
	assert.Equal(t, bob, acc.Owner)
	assert.Zero(t, acc.DeveloperRewards.Sign())

	_, err = run(t, c, alice, bob, ChangeOwnerAddress, alice[:])
	assert.ErrorIs(t, err, ErrContractNotFound)
}
