// Package miner is the entry façade: it validates a requested depth, drives
// the level sequencer through the scheduler, and returns the ordered
// MiningRun spec.md §4.6 describes. The backend arrives as a ready
// scheduler.Config (the CLI builds it with internal/config's
// SchedulerConfig) and is passed unchanged to scheduler.FindOne for every
// level.
package miner

import (
	"context"
	"fmt"

	"github.com/CPerezz/worst-case-miner/pkg/scheduler"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

// MaxDepth is the implementation ceiling spec.md §7 suggests for
// InvalidDepth.
const MaxDepth = 32

// Options bundles the caller-facing knobs for Mine.
type Options struct {
	Depth    uint32
	BaseSlot *uint256.Int // defaults to 0 when nil
	Backend  scheduler.Config
}

// Mine drives levels 1..Depth, chaining each level's target prefix off the
// previous level's key (spec.md §4.6). It returns types.ErrInvalidDepth
// before any hashing if Depth is out of range, and types.ErrCancelled (with
// no partial MiningRun) if ctx is cancelled mid-run.
func Mine(ctx context.Context, opts Options) (types.MiningRun, error) {
	if opts.Depth == 0 || opts.Depth > MaxDepth {
		return nil, fmt.Errorf("%w: depth must be in [1,%d], got %d", types.ErrInvalidDepth, MaxDepth, opts.Depth)
	}

	baseSlot := opts.BaseSlot
	if baseSlot == nil {
		baseSlot = types.DefaultBaseSlot()
	}

	run := make(types.MiningRun, 0, opts.Depth)

	for level := uint(1); level <= uint(opts.Depth); level++ {
		target := types.SearchTarget{RequiredNibbles: level - 1}
		if level >= 2 {
			target.PrefixBytes = run[level-2].Key
		}

		addr, key, err := findUniqueOne(ctx, target, baseSlot, opts.Backend, run)
		if err != nil {
			return nil, err
		}

		run = append(run, types.LevelResult{
			Address:             addr,
			Key:                 key,
			Level:               level,
			SharedPrefixNibbles: level - 1,
		})
	}

	return run, nil
}

// findUniqueOne calls scheduler.FindOne, re-invoking it if the returned
// address collides with one already in run. Collisions are statistically
// negligible (spec.md §4.5) but must still be rejected rather than silently
// violating the address-uniqueness invariant.
func findUniqueOne(ctx context.Context, target types.SearchTarget, baseSlot *uint256.Int, backend scheduler.Config, run types.MiningRun) (types.Address, types.StorageKey, error) {
	for {
		addr, key, err := scheduler.FindOne(ctx, target, baseSlot, backend)
		if err != nil {
			return types.Address{}, types.StorageKey{}, err
		}
		if !addressSeen(run, addr) {
			return addr, key, nil
		}
		// Discard and retry: FindOne already reseeds its nonce range from
		// crypto/rand on every call, so the retry searches a disjoint part
		// of the keyspace.
	}
}

func addressSeen(run types.MiningRun, addr types.Address) bool {
	for _, r := range run {
		if r.Address == addr {
			return true
		}
	}
	return false
}
