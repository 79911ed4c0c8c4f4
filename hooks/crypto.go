package hooks

import (
	"errors"
	"math/big"

	"github.com/govm-net/hookvm/crypto"
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

var ErrUnknownHashType = errors.New("unknown hash type")

func (h *VMHooks) hash(hook string, in, out managed.Handle, digest func([]byte) []byte) *types.BreakpointError {
	if bp := h.charge(hook); bp != nil {
		return bp
	}
	data, err := h.arena().BufferBytes(in)
	if err != nil {
		return h.fail(err)
	}
	if bp := h.chargeBytes(h.tc.Meter().Schedule().DataCopyPerByte, len(data)); bp != nil {
		return bp
	}
	if err := h.arena().SetBuffer(out, digest(data)); err != nil {
		return h.fail(err)
	}
	return nil
}

func (h *VMHooks) ManagedSha256(in, out managed.Handle) *types.BreakpointError {
	return h.hash(gas.Sha256, in, out, crypto.Sha256)
}

func (h *VMHooks) ManagedKeccak256(in, out managed.Handle) *types.BreakpointError {
	return h.hash(gas.Keccak256, in, out, crypto.Keccak256)
}

func (h *VMHooks) ManagedRipemd160(in, out managed.Handle) *types.BreakpointError {
	return h.hash(gas.Ripemd160, in, out, crypto.Ripemd160)
}

func (h *VMHooks) ManagedBlake2b256(in, out managed.Handle) *types.BreakpointError {
	return h.hash(gas.Blake2b, in, out, crypto.Blake2b256)
}

// buffers resolves the contents of several buffer handles at once.
func (h *VMHooks) buffers(handles ...managed.Handle) ([][]byte, error) {
	out := make([][]byte, len(handles))
	for i, handle := range handles {
		b, err := h.arena().BufferBytes(handle)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// verify runs a signature check. An invalid signature is reported as false;
// only bad handles fail the invocation.
func (h *VMHooks) verify(hook string, check func(key, msg, sig []byte) bool, key, msg, sig managed.Handle) (bool, *types.BreakpointError) {
	var ok bool
	bp := h.run(hook, func() error {
		b, err := h.buffers(key, msg, sig)
		if err != nil {
			return err
		}
		ok = check(b[0], b[1], b[2])
		return nil
	})
	return ok, bp
}

func (h *VMHooks) ManagedVerifyEd25519(key, msg, sig managed.Handle) (bool, *types.BreakpointError) {
	return h.verify(gas.VerifyEd25519, crypto.VerifyEd25519, key, msg, sig)
}

func (h *VMHooks) ManagedVerifyBLS(key, msg, sig managed.Handle) (bool, *types.BreakpointError) {
	return h.verify(gas.VerifyBLS, crypto.VerifyBLS, key, msg, sig)
}

// ManagedVerifyBLSAggregatedSignature checks sig against every key held by
// the keys argument buffer.
func (h *VMHooks) ManagedVerifyBLSAggregatedSignature(keys, msg, sig managed.Handle) (bool, *types.BreakpointError) {
	var ok bool
	bp := h.run(gas.VerifyBLSAggregated, func() error {
		pks, err := h.arena().ReadBufferVec(keys)
		if err != nil {
			return err
		}
		b, err := h.buffers(msg, sig)
		if err != nil {
			return err
		}
		ok = crypto.VerifyBLSAggregated(pks, b[0], b[1])
		return nil
	})
	return ok, bp
}

// ManagedVerifySecp256k1 verifies a DER signature over sha256(msg).
func (h *VMHooks) ManagedVerifySecp256k1(key, msg, sig managed.Handle) (bool, *types.BreakpointError) {
	return h.verify(gas.VerifySecp256k1, func(k, m, s []byte) bool {
		return crypto.VerifySecp256k1(k, m, s, crypto.Sha256Hash)
	}, key, msg, sig)
}

// ManagedVerifyCustomSecp256k1 lets the contract choose how msg is hashed.
func (h *VMHooks) ManagedVerifyCustomSecp256k1(key, msg, sig managed.Handle, hashType int32) (bool, *types.BreakpointError) {
	if hashType < int32(crypto.PlainMsg) || hashType > int32(crypto.Ripemd160Hash) {
		if bp := h.charge(gas.VerifyCustomSecp256k1); bp != nil {
			return false, bp
		}
		return false, h.fail(ErrUnknownHashType)
	}
	return h.verify(gas.VerifyCustomSecp256k1, func(k, m, s []byte) bool {
		return crypto.VerifySecp256k1(k, m, s, crypto.HashType(hashType))
	}, key, msg, sig)
}

func (h *VMHooks) ManagedVerifySecp256r1(key, msg, sig managed.Handle) (bool, *types.BreakpointError) {
	return h.verify(gas.VerifySecp256r1, crypto.VerifySecp256r1, key, msg, sig)
}

// ManagedCreateEC returns the id of the curve named in the buffer, e.g. "p256".
func (h *VMHooks) ManagedCreateEC(name managed.Handle) (int32, *types.BreakpointError) {
	var id crypto.CurveID
	bp := h.run(gas.CreateEC, func() error {
		b, err := h.arena().BufferBytes(name)
		if err != nil {
			return err
		}
		var ok bool
		if id, ok = crypto.CurveByName(string(b)); !ok {
			return crypto.ErrUnknownCurve
		}
		return nil
	})
	return int32(id), bp
}

func (h *VMHooks) bigInts(handles ...managed.Handle) ([]*big.Int, error) {
	out := make([]*big.Int, len(handles))
	for i, handle := range handles {
		v, err := h.arena().GetBigInt(handle)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (h *VMHooks) setPoint(xDst, yDst managed.Handle, x, y *big.Int) error {
	if err := h.arena().SetBigInt(xDst, x); err != nil {
		return err
	}
	return h.arena().SetBigInt(yDst, y)
}

// ManagedAddEC stores (x1,y1)+(x2,y2) into (xDst,yDst).
func (h *VMHooks) ManagedAddEC(xDst, yDst managed.Handle, curve int32, x1, y1, x2, y2 managed.Handle) *types.BreakpointError {
	return h.run(gas.AddEC, func() error {
		p, err := h.bigInts(x1, y1, x2, y2)
		if err != nil {
			return err
		}
		x, y, err := crypto.CurveID(curve).Add(p[0], p[1], p[2], p[3])
		if err != nil {
			return err
		}
		return h.setPoint(xDst, yDst, x, y)
	})
}

func (h *VMHooks) ManagedDoubleEC(xDst, yDst managed.Handle, curve int32, px, py managed.Handle) *types.BreakpointError {
	return h.run(gas.DoubleEC, func() error {
		p, err := h.bigInts(px, py)
		if err != nil {
			return err
		}
		x, y, err := crypto.CurveID(curve).Double(p[0], p[1])
		if err != nil {
			return err
		}
		return h.setPoint(xDst, yDst, x, y)
	})
}

func (h *VMHooks) ManagedIsOnCurveEC(curve int32, px, py managed.Handle) (bool, *types.BreakpointError) {
	var on bool
	bp := h.run(gas.IsOnCurveEC, func() error {
		id := crypto.CurveID(curve)
		if _, err := id.Curve(); err != nil {
			return err
		}
		p, err := h.bigInts(px, py)
		if err != nil {
			return err
		}
		on = id.IsOnCurve(p[0], p[1])
		return nil
	})
	return on, bp
}

// ManagedScalarBaseMultEC stores k·G, with k read from the scalar buffer.
func (h *VMHooks) ManagedScalarBaseMultEC(xDst, yDst managed.Handle, curve int32, scalar managed.Handle) *types.BreakpointError {
	return h.run(gas.ScalarBaseMultEC, func() error {
		k, err := h.arena().BufferBytes(scalar)
		if err != nil {
			return err
		}
		x, y, err := crypto.CurveID(curve).ScalarBaseMult(k)
		if err != nil {
			return err
		}
		return h.setPoint(xDst, yDst, x, y)
	})
}

func (h *VMHooks) ManagedScalarMultEC(xDst, yDst managed.Handle, curve int32, px, py, scalar managed.Handle) *types.BreakpointError {
	return h.run(gas.ScalarMultEC, func() error {
		p, err := h.bigInts(px, py)
		if err != nil {
			return err
		}
		k, err := h.arena().BufferBytes(scalar)
		if err != nil {
			return err
		}
		x, y, err := crypto.CurveID(curve).ScalarMult(p[0], p[1], k)
		if err != nil {
			return err
		}
		return h.setPoint(xDst, yDst, x, y)
	})
}

func (h *VMHooks) marshalEC(hook string, px, py managed.Handle, dst managed.Handle, encode func(x, y *big.Int) ([]byte, error)) *types.BreakpointError {
	return h.run(hook, func() error {
		p, err := h.bigInts(px, py)
		if err != nil {
			return err
		}
		b, err := encode(p[0], p[1])
		if err != nil {
			return err
		}
		return h.arena().SetBuffer(dst, b)
	})
}

func (h *VMHooks) ManagedMarshalEC(px, py managed.Handle, curve int32, dst managed.Handle) *types.BreakpointError {
	return h.marshalEC(gas.MarshalEC, px, py, dst, crypto.CurveID(curve).Marshal)
}

func (h *VMHooks) ManagedMarshalCompressedEC(px, py managed.Handle, curve int32, dst managed.Handle) *types.BreakpointError {
	return h.marshalEC(gas.MarshalCompressedEC, px, py, dst, crypto.CurveID(curve).MarshalCompressed)
}

func (h *VMHooks) unmarshalEC(hook string, xDst, yDst, data managed.Handle, decode func([]byte) (*big.Int, *big.Int, error)) *types.BreakpointError {
	return h.run(hook, func() error {
		b, err := h.arena().BufferBytes(data)
		if err != nil {
			return err
		}
		x, y, err := decode(b)
		if err != nil {
			return err
		}
		return h.setPoint(xDst, yDst, x, y)
	})
}

func (h *VMHooks) ManagedUnmarshalEC(xDst, yDst managed.Handle, curve int32, data managed.Handle) *types.BreakpointError {
	return h.unmarshalEC(gas.UnmarshalEC, xDst, yDst, data, crypto.CurveID(curve).Unmarshal)
}

func (h *VMHooks) ManagedUnmarshalCompressedEC(xDst, yDst managed.Handle, curve int32, data managed.Handle) *types.BreakpointError {
	return h.unmarshalEC(gas.UnmarshalCompressedEC, xDst, yDst, data, crypto.CurveID(curve).UnmarshalCompressed)
}

// ManagedGenerateKeyEC draws a key pair from the invocation RNG, so the
// same transaction in the same block always yields the same key.
func (h *VMHooks) ManagedGenerateKeyEC(xPub, yPub managed.Handle, curve int32, priv managed.Handle) *types.BreakpointError {
	return h.run(gas.GenerateKeyEC, func() error {
		if _, err := h.arena().BufferLen(priv); err != nil {
			return err
		}
		k, x, y, err := crypto.CurveID(curve).GenerateKey(h.tc)
		if err != nil {
			return err
		}
		if err := h.setPoint(xPub, yPub, x, y); err != nil {
			return err
		}
		return h.arena().SetBuffer(priv, k)
	})
}
