package crypto

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// BLSDomain is the hash-to-curve domain separation tag of BLS signatures.
var BLSDomain = []byte("BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_NUL_")

const (
	BLSPublicKeyLen = bls12381.SizeOfG2AffineCompressed
	BLSSignatureLen = bls12381.SizeOfG1AffineCompressed
)

func VerifyEd25519(key, msg, sig []byte) bool {
	if len(key) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key), msg, sig)
}

func parseBLSPublicKey(key []byte) (*bls12381.G2Affine, bool) {
	if len(key) != BLSPublicKeyLen {
		return nil, false
	}
	var pk bls12381.G2Affine
	if _, err := pk.SetBytes(key); err != nil || pk.IsInfinity() {
		return nil, false
	}
	return &pk, true
}

func parseBLSSignature(sig []byte) (*bls12381.G1Affine, bool) {
	if len(sig) != BLSSignatureLen {
		return nil, false
	}
	var s bls12381.G1Affine
	if _, err := s.SetBytes(sig); err != nil {
		return nil, false
	}
	return &s, true
}

// verifyBLSPairing checks e(sig, g2) == e(H(msg), pk).
func verifyBLSPairing(pk *bls12381.G2Affine, msg []byte, sig *bls12381.G1Affine) bool {
	hm, err := bls12381.HashToG1(msg, BLSDomain)
	if err != nil {
		return false
	}
	_, _, _, g2 := bls12381.Generators()
	var negHm bls12381.G1Affine
	negHm.Neg(&hm)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{*sig, negHm},
		[]bls12381.G2Affine{g2, *pk},
	)
	return err == nil && ok
}

// VerifyBLS verifies a signature in G1 under a public key in G2.
func VerifyBLS(key, msg, sig []byte) bool {
	pk, ok := parseBLSPublicKey(key)
	if !ok {
		return false
	}
	s, ok := parseBLSSignature(sig)
	if !ok {
		return false
	}
	return verifyBLSPairing(pk, msg, s)
}

// VerifyBLSAggregated verifies an aggregated signature of msg by every key.
func VerifyBLSAggregated(keys [][]byte, msg, sig []byte) bool {
	if len(keys) == 0 {
		return false
	}
	var sum bls12381.G2Jac
	for i, key := range keys {
		pk, ok := parseBLSPublicKey(key)
		if !ok {
			return false
		}
		var p bls12381.G2Jac
		p.FromAffine(pk)
		if i == 0 {
			sum.Set(&p)
		} else {
			sum.AddAssign(&p)
		}
	}
	var aggregated bls12381.G2Affine
	aggregated.FromJacobian(&sum)

	s, ok := parseBLSSignature(sig)
	if !ok {
		return false
	}
	return verifyBLSPairing(&aggregated, msg, s)
}

// VerifySecp256k1 verifies a DER encoded signature over the digest of msg.
func VerifySecp256k1(key, msg, sig []byte, hashType HashType) bool {
	digest, ok := hashType.digest(msg)
	if !ok {
		return false
	}
	pk, err := secp256k1.ParsePubKey(key)
	if err != nil {
		return false
	}
	s, err := secpecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return s.Verify(digest, pk)
}

// VerifySecp256r1 verifies an ASN.1 signature over sha256(msg) with a P-256
// key in uncompressed or compressed form.
func VerifySecp256r1(key, msg, sig []byte) bool {
	curve := elliptic.P256()
	x, y := elliptic.Unmarshal(curve, key)
	if x == nil {
		x, y = elliptic.UnmarshalCompressed(curve, key)
	}
	if x == nil {
		return false
	}
	pk := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	return ecdsa.VerifyASN1(pk, Sha256(msg), sig)
}
