package vm

import (
	"encoding/binary"

	"github.com/govm-net/hookvm/crypto"
	"github.com/govm-net/hookvm/types"
)

// NewAddress derives the address of the contract that creator deploys
// while its nonce is nonce. The address keeps the contract prefix and
// lands in the creator's shard.
func NewAddress(creator types.Address, nonce uint64) types.Address {
	buf := make([]byte, 0, types.AddressLength+8)
	buf = append(buf, creator[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, nonce)
	hash := crypto.Keccak256(buf)

	var addr types.Address
	copy(addr[:], hash)
	for i := 0; i < types.NumInitZeroBytesForSC; i++ {
		addr[i] = 0
	}
	copy(addr[types.NumInitZeroBytesForSC:], types.WasmVMType[:])
	suffix := types.AddressLength - types.ShardSuffixLen
	copy(addr[suffix:], creator[suffix:])
	return addr
}
