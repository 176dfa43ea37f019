package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CPerezz/worst-case-miner/internal/prefix"
	"github.com/CPerezz/worst-case-miner/internal/slot"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

func TestFindOneZeroNibbleTarget(t *testing.T) {
	ctx := context.Background()
	target := types.SearchTarget{RequiredNibbles: 0}

	addr, key, err := FindOne(ctx, target, uint256.NewInt(0), Config{Kind: CPU, Threads: 4, RangeSize: 256})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}

	wantKey := slot.StorageKey(addr, uint256.NewInt(0))
	if key != wantKey {
		t.Error("returned key must be the slot hash of the returned address")
	}
}

func TestFindOneHonoursPrefix(t *testing.T) {
	ctx := context.Background()

	// First find an arbitrary key, then require the next search to match
	// its first nibble — emulating one step of level sequencing.
	_, firstKey, err := FindOne(ctx, types.SearchTarget{RequiredNibbles: 0}, uint256.NewInt(0), Config{Kind: CPU, Threads: 2, RangeSize: 256})
	if err != nil {
		t.Fatalf("first FindOne failed: %v", err)
	}

	target := types.SearchTarget{PrefixBytes: firstKey, RequiredNibbles: 1}
	addr, key, err := FindOne(ctx, target, uint256.NewInt(0), Config{Kind: CPU, Threads: 4, RangeSize: 1 << 14})
	if err != nil {
		t.Fatalf("second FindOne failed: %v", err)
	}

	if !prefix.SharesPrefix(key, firstKey, 1) {
		t.Error("second result must share the first nibble with the prior level's key")
	}

	wantKey := slot.StorageKey(addr, uint256.NewInt(0))
	if key != wantKey {
		t.Error("returned key must be the slot hash of the returned address")
	}
}

func TestFindOneCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Unsatisfiable target, so the only way FindOne returns is via context
	// cancellation being observed at a batch boundary.
	target := types.SearchTarget{RequiredNibbles: 64}
	_, _, err := FindOne(ctx, target, uint256.NewInt(0), Config{Kind: CPU, Threads: 2, RangeSize: 1 << 14, AttemptsPerBatch: 1024})

	if !errors.Is(err, types.ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestFindOneCancellationLatencyBound(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		target := types.SearchTarget{RequiredNibbles: 64}
		FindOne(ctx, target, uint256.NewInt(0), Config{Kind: CPU, Threads: 2, RangeSize: 1 << 20, AttemptsPerBatch: 4096})
		close(done)
	}()

	time.Sleep(time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("FindOne did not honour cancellation within the expected latency bound")
	}
}

func TestFindOneExplicitGPUFallsBackToCPUWithoutDevice(t *testing.T) {
	// Without the cuda build tag, gpuAvailable() is always false, so
	// findOneGPU returns ErrBackendUnavailable. Per spec.md §7 this must
	// still downgrade to CPU for an explicit Kind: GPU request, exactly as
	// it does under Auto, unless ForbidFallback is set.
	ctx := context.Background()
	target := types.SearchTarget{RequiredNibbles: 0}

	addr, key, err := FindOne(ctx, target, uint256.NewInt(0), Config{Kind: GPU, Threads: 4, RangeSize: 256})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}

	wantKey := slot.StorageKey(addr, uint256.NewInt(0))
	if key != wantKey {
		t.Error("returned key must be the slot hash of the returned address")
	}
}

func TestFindOneExplicitGPUForbidFallbackFailsWithoutDevice(t *testing.T) {
	ctx := context.Background()
	target := types.SearchTarget{RequiredNibbles: 0}

	_, _, err := FindOne(ctx, target, uint256.NewInt(0), Config{Kind: GPU, ForbidFallback: true, Threads: 4, RangeSize: 256})
	if !errors.Is(err, types.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestAutoResolvesToCPUWithoutGPUBuild(t *testing.T) {
	// In the default (non-cuda) build, gpuAvailable() is always false, so
	// Auto must resolve to CPU regardless of the required-nibble policy
	// threshold.
	cfg := Config{Kind: Auto}.withDefaults()
	if got := cfg.resolve(GPUPolicyThreshold); got != CPU {
		t.Errorf("Auto.resolve(%d) = %v, want CPU", GPUPolicyThreshold, got)
	}
	if got := cfg.resolve(1); got != CPU {
		t.Errorf("Auto.resolve(1) = %v, want CPU", got)
	}
}
