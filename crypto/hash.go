// Package crypto implements the hashing, signature verification and
// elliptic curve primitives the hooks expose to contracts. Verification
// functions report failure as false and never return an error.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

func Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Keccak256 is the legacy Keccak used by the chain, not SHA3-256.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

func Ripemd160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}

func Blake2b256(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// HashType selects how a message is hashed before secp256k1 verification.
type HashType uint8

const (
	PlainMsg HashType = iota
	Sha256Hash
	DoubleSha256Hash
	Keccak256Hash
	Ripemd160Hash
)

func (t HashType) digest(msg []byte) ([]byte, bool) {
	switch t {
	case PlainMsg:
		return msg, true
	case Sha256Hash:
		return Sha256(msg), true
	case DoubleSha256Hash:
		return Sha256(Sha256(msg)), true
	case Keccak256Hash:
		return Keccak256(msg), true
	case Ripemd160Hash:
		return Ripemd160(msg), true
	default:
		return nil, false
	}
}
