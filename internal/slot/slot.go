// Package slot builds the balance-mapping storage key for an address, the
// same H(pad32(address) || pad32(slot)) construction every EVM uses to
// derive a Solidity mapping(address => uint256) slot.
package slot

import (
	"github.com/CPerezz/worst-case-miner/internal/keccak"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

// StorageKey builds the 64-byte preimage (12 zero bytes, the 20-byte
// address, the 32-byte big-endian slot index) and hashes it with the
// single-block Keccak engine.
func StorageKey(addr types.Address, baseSlot *uint256.Int) types.StorageKey {
	var preimage [64]byte
	copy(preimage[12:32], addr[:])
	slotBytes := baseSlot.Bytes32()
	copy(preimage[32:64], slotBytes[:])

	return types.StorageKey(keccak.Hash256Single(&preimage))
}
