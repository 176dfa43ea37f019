// Package types holds the shared data model for the storage-key miner:
// addresses, storage keys, per-level results and the search target/worker
// configuration the scheduler and workers pass between each other.
package types

import "github.com/holiman/uint256"

// Address is a 20-byte account identifier, big-endian.
type Address [20]byte

// StorageKey is the 32-byte output of the slot hash.
type StorageKey [32]byte

// NibbleAt returns the nibble at index i (0 = high nibble of byte 0).
func (k StorageKey) NibbleAt(i int) byte {
	b := k[i/2]
	if i%2 == 0 {
		return b >> 4
	}
	return b & 0x0f
}

// LevelResult is the address/key pair found for one level of the chain,
// together with the bookkeeping that makes the chain auditable.
type LevelResult struct {
	Address             Address
	Key                 StorageKey
	Level               uint
	SharedPrefixNibbles uint
}

// MiningRun is the ordered output of Mine: one LevelResult per level,
// index 0 is level 1.
type MiningRun []LevelResult

// SearchTarget is the prefix a candidate's storage key must match.
type SearchTarget struct {
	PrefixBytes     StorageKey
	RequiredNibbles uint
}

// WorkerConfig bounds a single worker's share of the 64-bit nonce space.
type WorkerConfig struct {
	StartNonce       uint64
	RangeSize        uint64
	AttemptsPerBatch uint64
}

// DefaultAttemptsPerBatch is the cancellation-poll interval used unless a
// caller overrides it.
const DefaultAttemptsPerBatch = 4096

// DefaultBaseSlot returns the balance-mapping slot index used when callers
// do not specify one (slot 0).
func DefaultBaseSlot() *uint256.Int { return uint256.NewInt(0) }

// DefaultMarker returns the default storage marker value (1).
func DefaultMarker() *uint256.Int { return uint256.NewInt(1) }
