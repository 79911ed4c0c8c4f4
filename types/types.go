// Package types contains shared type definitions and constants
// used by the hook layer, the call orchestrator and the executors.
package types

import (
	"bytes"
	"encoding/hex"
	"strings"
)

// AddressLength is the byte length of every account address.
const AddressLength = 32

// Address identifies an account on the chain.
type Address [AddressLength]byte

// Hash is a 32-byte digest (transaction hash, code hash).
type Hash [32]byte

var ZeroAddress = Address{}
var ZeroHash = Hash{}

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

// Bytes returns a copy of the address bytes.
func (addr Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, addr[:])
	return out
}

func (addr Address) IsZero() bool {
	return addr == ZeroAddress
}

// AddressFromBytes converts a byte slice to an Address. ok is false when
// the slice does not have exactly AddressLength bytes.
func AddressFromBytes(b []byte) (Address, bool) {
	var addr Address
	if len(b) != AddressLength {
		return addr, false
	}
	copy(addr[:], b)
	return addr, true
}

// AddressFromString parses a hex encoded address, with or without 0x prefix.
// Short inputs are left-aligned; invalid hex yields the zero address.
func AddressFromString(str string) Address {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return ZeroAddress
	}
	var addr Address
	copy(addr[:], b)
	return addr
}

// Compare orders addresses bytewise.
func (addr Address) Compare(other Address) int {
	return bytes.Compare(addr[:], other[:])
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func HashFromString(str string) Hash {
	str = strings.TrimPrefix(str, "0x")
	h, err := hex.DecodeString(str)
	if err != nil {
		return ZeroHash
	}
	var out Hash
	copy(out[:], h)
	return out
}

// NumInitZeroBytesForSC is the number of leading zero bytes that mark a
// smart contract address.
const NumInitZeroBytesForSC = 8

// VMTypeLen is the length of the VM type marker that follows the zero prefix.
const VMTypeLen = 2

// ShardSuffixLen is the number of trailing creator bytes copied into a
// contract address so that the contract lands in its creator's shard.
const ShardSuffixLen = 2

// WasmVMType marks contracts executed by this VM.
var WasmVMType = [VMTypeLen]byte{0x05, 0x00}

// IsSmartContractAddress reports whether addr has the contract address prefix.
func IsSmartContractAddress(addr Address) bool {
	for i := 0; i < NumInitZeroBytesForSC; i++ {
		if addr[i] != 0 {
			return false
		}
	}
	return true
}

// MetachainShardID is reported for system addresses.
const MetachainShardID = uint32(0xFFFFFFFF)

// ShardOf maps an address onto one of numShards shards using its last byte.
func ShardOf(addr Address, numShards uint32) uint32 {
	if addr == SystemAccountAddress || addr == ESDTSystemSCAddress {
		return MetachainShardID
	}
	if numShards <= 1 {
		return 0
	}
	bits := 0
	for n := numShards - 1; n > 0; n >>= 1 {
		bits++
	}
	maskHigh := uint32(1)<<bits - 1
	maskLow := uint32(1)<<(bits-1) - 1
	id := uint32(addr[AddressLength-1]) & maskHigh
	if id > numShards-1 {
		id &= maskLow
	}
	return id
}

// ESDTSystemSCAddress is the system contract that issues and configures tokens.
var ESDTSystemSCAddress = Address{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0xff, 0xff,
}

// SystemAccountAddress holds global token settings (paused, limited transfer).
var SystemAccountAddress = Address{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// CodeMetadataLen is the serialized size of CodeMetadata.
const CodeMetadataLen = 2

const (
	metadataUpgradeable = 1
	metadataReadable    = 4
	metadataPayable     = 2
	metadataPayableBySC = 4
)

// CodeMetadata holds the flags attached to deployed code.
type CodeMetadata struct {
	Upgradeable bool
	Readable    bool
	Payable     bool
	PayableBySC bool
}

// CodeMetadataFromBytes decodes the two flag bytes. Missing bytes are read as zero.
func CodeMetadataFromBytes(b []byte) CodeMetadata {
	var raw [CodeMetadataLen]byte
	copy(raw[:], b)
	return CodeMetadata{
		Upgradeable: raw[0]&metadataUpgradeable != 0,
		Readable:    raw[0]&metadataReadable != 0,
		Payable:     raw[1]&metadataPayable != 0,
		PayableBySC: raw[1]&metadataPayableBySC != 0,
	}
}

// Bytes encodes the flags in their two-byte form.
func (m CodeMetadata) Bytes() []byte {
	out := make([]byte, CodeMetadataLen)
	if m.Upgradeable {
		out[0] |= metadataUpgradeable
	}
	if m.Readable {
		out[0] |= metadataReadable
	}
	if m.Payable {
		out[1] |= metadataPayable
	}
	if m.PayableBySC {
		out[1] |= metadataPayableBySC
	}
	return out
}
