package worker

import (
	"sync/atomic"
	"testing"

	"github.com/CPerezz/worst-case-miner/internal/slot"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

func TestCandidateAddressDeterministic(t *testing.T) {
	a := candidateAddress(42)
	b := candidateAddress(42)
	if a != b {
		t.Error("candidateAddress must be a pure function of its nonce")
	}

	c := candidateAddress(43)
	if a == c {
		t.Error("distinct nonces should overwhelmingly yield distinct addresses")
	}
}

func TestRunFindsZeroNibbleTargetImmediately(t *testing.T) {
	var cancel atomic.Bool
	var result atomic.Pointer[Found]

	cfg := types.WorkerConfig{StartNonce: 0, RangeSize: 10, AttemptsPerBatch: 4}
	target := types.SearchTarget{RequiredNibbles: 0}

	Run(cfg, target, uint256.NewInt(0), &cancel, &result)

	got := result.Load()
	if got == nil {
		t.Fatal("expected a result for a zero-nibble target")
	}
	if !cancel.Load() {
		t.Error("winning the result cell must set cancel")
	}

	wantKey := slot.StorageKey(got.Address, uint256.NewInt(0))
	if got.Key != wantKey {
		t.Error("reported key must be the slot hash of the reported address")
	}
}

func TestRunRespectsCancelAtBatchBoundary(t *testing.T) {
	var cancel atomic.Bool
	var result atomic.Pointer[Found]
	cancel.Store(true)

	// Unsatisfiable target (all 64 nibbles must match an arbitrary fixed
	// key) so the only way Run returns is via the cancel check.
	target := types.SearchTarget{RequiredNibbles: 64}
	cfg := types.WorkerConfig{StartNonce: 0, RangeSize: 1 << 20, AttemptsPerBatch: 4096}

	Run(cfg, target, uint256.NewInt(0), &cancel, &result)

	if result.Load() != nil {
		t.Error("a pre-cancelled worker must not write a result")
	}
}
