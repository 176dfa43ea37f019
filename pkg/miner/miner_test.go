package miner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CPerezz/worst-case-miner/internal/prefix"
	"github.com/CPerezz/worst-case-miner/internal/slot"
	"github.com/CPerezz/worst-case-miner/pkg/scheduler"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

func TestMineInvalidDepth(t *testing.T) {
	for _, d := range []uint32{0, MaxDepth + 1} {
		_, err := Mine(context.Background(), Options{Depth: d})
		if !errors.Is(err, types.ErrInvalidDepth) {
			t.Errorf("Mine(depth=%d) error = %v, want ErrInvalidDepth", d, err)
		}
	}
}

// S1 from spec.md §8.
func TestMineDepthOne(t *testing.T) {
	run, err := Mine(context.Background(), Options{Depth: 1, Backend: scheduler.Config{Kind: scheduler.CPU, Threads: 1, RangeSize: 256}})
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if len(run) != 1 {
		t.Fatalf("expected 1 result, got %d", len(run))
	}
	if run[0].SharedPrefixNibbles != 0 {
		t.Errorf("level 1 shared prefix must be 0, got %d", run[0].SharedPrefixNibbles)
	}
	wantKey := slot.StorageKey(run[0].Address, types.DefaultBaseSlot())
	if run[0].Key != wantKey {
		t.Error("level 1 key must be the slot hash of the returned address")
	}
}

// S2 from spec.md §8.
func TestMineDepthThreeChains(t *testing.T) {
	run, err := Mine(context.Background(), Options{Depth: 3, Backend: scheduler.Config{Kind: scheduler.CPU, Threads: 4, RangeSize: 1 << 14}})
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if len(run) != 3 {
		t.Fatalf("expected 3 results, got %d", len(run))
	}

	if !prefix.SharesPrefix(run[1].Key, run[0].Key, 1) {
		t.Error("level 2 key must share the first nibble with level 1's key")
	}
	if !prefix.SharesPrefix(run[2].Key, run[1].Key, 2) {
		t.Error("level 3 key must share the first two nibbles with level 2's key")
	}
}

func TestMineAddressesAreUnique(t *testing.T) {
	run, err := Mine(context.Background(), Options{Depth: 4, Backend: scheduler.Config{Kind: scheduler.CPU, Threads: 4, RangeSize: 1 << 14}})
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	seen := map[types.Address]bool{}
	for _, r := range run {
		if seen[r.Address] {
			t.Fatalf("address %x appears more than once in the run", r.Address)
		}
		seen[r.Address] = true
	}
}

// S5 from spec.md §8: different thread counts still satisfy the prefix and
// uniqueness invariants, even though the mined addresses themselves differ.
func TestMineDifferentThreadCountsBothValid(t *testing.T) {
	for _, threads := range []int{1, 4} {
		run, err := Mine(context.Background(), Options{Depth: 4, Backend: scheduler.Config{Kind: scheduler.CPU, Threads: threads, RangeSize: 1 << 14}})
		if err != nil {
			t.Fatalf("Mine(threads=%d) failed: %v", threads, err)
		}
		for i := 1; i < len(run); i++ {
			if !prefix.SharesPrefix(run[i].Key, run[i-1].Key, uint(i)) {
				t.Errorf("threads=%d: level %d does not share %d nibbles with level %d", threads, i+1, i, i)
			}
		}
		seen := map[types.Address]bool{}
		for _, r := range run {
			if seen[r.Address] {
				t.Errorf("threads=%d: address %x appears more than once in the run", threads, r.Address)
			}
			seen[r.Address] = true
		}
	}
}

// S6 from spec.md §8: cancelling shortly after starting a deep run
// terminates promptly with ErrCancelled and no partial output.
func TestMineCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	type outcome struct {
		run types.MiningRun
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		run, err := Mine(ctx, Options{Depth: 12, Backend: scheduler.Config{Kind: scheduler.CPU, Threads: 2, RangeSize: 1 << 20, AttemptsPerBatch: 4096}})
		done <- outcome{run, err}
	}()

	time.Sleep(time.Millisecond)
	cancel()

	select {
	case o := <-done:
		if !errors.Is(o.err, types.ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", o.err)
		}
		if o.run != nil {
			t.Error("a cancelled Mine call must not return a partial run")
		}
	case <-time.After(200 * time.Millisecond):
		t.Error("Mine did not honour cancellation within the expected bound")
	}
}

func TestMineExplicitZeroBaseSlotMatchesDefault(t *testing.T) {
	// Passing an explicit base slot of 0 must behave the same as the
	// nil/default case (spec.md §9(c)).
	run1, err := Mine(context.Background(), Options{Depth: 1, Backend: scheduler.Config{Kind: scheduler.CPU, Threads: 1, RangeSize: 256}})
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	run2, err := Mine(context.Background(), Options{Depth: 1, BaseSlot: uint256.NewInt(0), Backend: scheduler.Config{Kind: scheduler.CPU, Threads: 1, RangeSize: 256}})
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if slot.StorageKey(run1[0].Address, uint256.NewInt(0)) != run1[0].Key {
		t.Fatal("sanity check on run1 failed")
	}
	if slot.StorageKey(run2[0].Address, uint256.NewInt(0)) != run2[0].Key {
		t.Fatal("sanity check on run2 failed")
	}
}
