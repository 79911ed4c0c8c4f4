package hooks

import (
	"crypto/ed25519"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/govm-net/hookvm/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashHooks(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	in := f.buffer(t, []byte("abc"))
	out := f.buffer(t, nil)

	require.Nil(t, f.hooks.ManagedSha256(in, out))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(f.bytesOf(t, out)))

	require.Nil(t, f.hooks.ManagedKeccak256(in, out))
	assert.Equal(t, crypto.Keccak256([]byte("abc")), f.bytesOf(t, out))

	require.Nil(t, f.hooks.ManagedRipemd160(in, out))
	assert.Len(t, f.bytesOf(t, out), 20)
}

func TestVerifyEd25519Hook(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	pub, priv, err := ed25519.GenerateKey(f.tc)
	require.NoError(t, err)
	msg := []byte("message")
	sig := ed25519.Sign(priv, msg)

	ok, bp := f.hooks.ManagedVerifyEd25519(f.buffer(t, pub), f.buffer(t, msg), f.buffer(t, sig))
	require.Nil(t, bp)
	assert.True(t, ok)

	sig[0] ^= 0xff
	ok, bp = f.hooks.ManagedVerifyEd25519(f.buffer(t, pub), f.buffer(t, msg), f.buffer(t, sig))
	require.Nil(t, bp)
	assert.False(t, ok)

	ok, bp = f.hooks.ManagedVerifyEd25519(f.buffer(t, []byte{1}), f.buffer(t, msg), f.buffer(t, sig))
	require.Nil(t, bp)
	assert.False(t, ok)
}

func TestEllipticCurveHooks(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	curve, bp := f.hooks.ManagedCreateEC(f.buffer(t, []byte("p256")))
	require.Nil(t, bp)
	assert.Equal(t, int32(crypto.P256), curve)

	gx, gy := f.bigInt(t, 0), f.bigInt(t, 0)
	require.Nil(t, f.hooks.ManagedScalarBaseMultEC(gx, gy, curve, f.buffer(t, []byte{1})))
	c, err := crypto.P256.Curve()
	require.NoError(t, err)
	params := c.Params()
	assert.Equal(t, 0, params.Gx.Cmp(f.bigIntOf(t, gx)))
	assert.Equal(t, 0, params.Gy.Cmp(f.bigIntOf(t, gy)))

	onCurve, bp := f.hooks.ManagedIsOnCurveEC(curve, gx, gy)
	require.Nil(t, bp)
	assert.True(t, onCurve)

	// G + G equals 2·G
	sx, sy := f.bigInt(t, 0), f.bigInt(t, 0)
	require.Nil(t, f.hooks.ManagedAddEC(sx, sy, curve, gx, gy, gx, gy))
	dx, dy := f.bigInt(t, 0), f.bigInt(t, 0)
	require.Nil(t, f.hooks.ManagedDoubleEC(dx, dy, curve, gx, gy))
	mx, my := f.bigInt(t, 0), f.bigInt(t, 0)
	require.Nil(t, f.hooks.ManagedScalarMultEC(mx, my, curve, gx, gy, f.buffer(t, []byte{2})))
	assert.Equal(t, f.bigIntOf(t, sx), f.bigIntOf(t, dx))
	assert.Equal(t, f.bigIntOf(t, sy), f.bigIntOf(t, dy))
	assert.Equal(t, f.bigIntOf(t, dx), f.bigIntOf(t, mx))

	packed := f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedMarshalCompressedEC(dx, dy, curve, packed))
	assert.Len(t, f.bytesOf(t, packed), 33)
	ux, uy := f.bigInt(t, 0), f.bigInt(t, 0)
	require.Nil(t, f.hooks.ManagedUnmarshalCompressedEC(ux, uy, curve, packed))
	assert.Equal(t, f.bigIntOf(t, dx), f.bigIntOf(t, ux))
	assert.Equal(t, f.bigIntOf(t, dy), f.bigIntOf(t, uy))

	off, bp := f.hooks.ManagedIsOnCurveEC(curve, f.bigInt(t, 1), f.bigInt(t, 1))
	require.Nil(t, bp)
	assert.False(t, off)
}

func TestGenerateKeyEC(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	curve, bp := f.hooks.ManagedCreateEC(f.buffer(t, []byte("p256")))
	require.Nil(t, bp)
	px, py, priv := f.bigInt(t, 0), f.bigInt(t, 0), f.buffer(t, nil)
	require.Nil(t, f.hooks.ManagedGenerateKeyEC(px, py, curve, priv))

	k := new(big.Int).SetBytes(f.bytesOf(t, priv))
	require.Positive(t, k.Sign())
	x, y, err := crypto.P256.ScalarBaseMult(k.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, x.Cmp(f.bigIntOf(t, px)))
	assert.Equal(t, 0, y.Cmp(f.bigIntOf(t, py)))
}

func TestUnknownCurveFails(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	_, bp := f.hooks.ManagedCreateEC(f.buffer(t, []byte("p999")))
	require.NotNil(t, bp)
	assert.Contains(t, bp.Message, crypto.ErrUnknownCurve.Error())
}
