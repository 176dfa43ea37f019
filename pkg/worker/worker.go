// Package worker implements the per-nonce search loop: derive a candidate
// address from a 64-bit nonce, hash it into a storage key, and test the
// shared prefix predicate. Workers never allocate in the hot path and the
// only shared mutable state they touch is the caller-supplied cancel flag
// and result cell.
package worker

import (
	"sync/atomic"

	"github.com/CPerezz/worst-case-miner/internal/prefix"
	"github.com/CPerezz/worst-case-miner/internal/slot"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

// Found is the one-shot result cell a level's workers race to claim.
// Exactly one worker's CompareAndSwap from nil succeeds; the rest observe
// cancel on their next batch boundary.
type Found struct {
	Address types.Address
	Key     types.StorageKey
}

// candidateAddress derives 20 address bytes from a nonce using a cheap
// full-period LCG step per byte. The generator is not cryptographically
// strong; only disjointness of the caller's nonce ranges matters.
func candidateAddress(nonce uint64) types.Address {
	var addr types.Address
	s := nonce
	for i := 0; i < 20; i++ {
		s = s*1103515245 + 12345
		addr[i] = byte((s >> 16) & 0xff)
	}
	return addr
}

// Run searches the half-open nonce range [cfg.StartNonce, cfg.StartNonce+cfg.RangeSize)
// for a candidate whose storage key matches target. It returns as soon as it
// finds a match (whether or not its compare-and-set on the result cell
// wins), observes cancel.Load() true at a batch boundary, or exhausts its
// range.
//
// On a win the worker also sets cancel so siblings stop promptly; it does
// not close or otherwise signal completion beyond that, mirroring the
// one-shot-cell-plus-flag design: there is exactly one writer per level.
func Run(cfg types.WorkerConfig, target types.SearchTarget, baseSlot *uint256.Int, cancel *atomic.Bool, result *atomic.Pointer[Found]) {
	batch := cfg.AttemptsPerBatch
	if batch == 0 {
		batch = types.DefaultAttemptsPerBatch
	}

	end := cfg.StartNonce + cfg.RangeSize
	var sinceCheck uint64
	for nonce := cfg.StartNonce; nonce < end; nonce++ {
		if sinceCheck >= batch {
			if cancel.Load() {
				return
			}
			sinceCheck = 0
		}
		sinceCheck++

		addr := candidateAddress(nonce)
		key := slot.StorageKey(addr, baseSlot)
		if !prefix.SharesPrefix(key, target.PrefixBytes, target.RequiredNibbles) {
			continue
		}

		found := &Found{Address: addr, Key: key}
		if result.CompareAndSwap(nil, found) {
			cancel.Store(true)
		}
		return
	}
}
