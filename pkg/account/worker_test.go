package account

import (
	"testing"

	"github.com/CPerezz/worst-case-miner/internal/crypto"
)

func testWorkerConfig(t *testing.T) *WorkerConfig {
	t.Helper()
	deployer, err := crypto.MustAddressBytes(crypto.FactoryAddress)
	if err != nil {
		t.Fatalf("MustAddressBytes: %v", err)
	}
	prefix, err := crypto.BuildCreate2Prefix(deployer)
	if err != nil {
		t.Fatalf("BuildCreate2Prefix: %v", err)
	}
	return &WorkerConfig{
		InitcodeHash:  crypto.Keccak256([]byte{0x60, 0x80, 0x60, 0x40}),
		FactoryBytes:  deployer,
		Create2Prefix: prefix[:],
	}
}

func TestGenerateAddressIsWellFormed(t *testing.T) {
	cfg := testWorkerConfig(t)
	var attempts int64
	w := newWorker(cfg, &attempts)

	result := w.generateAddress()
	if result == nil {
		t.Fatal("generateAddress returned nil")
	}
	if len(result.Address) != 42 || result.Address[:2] != "0x" {
		t.Errorf("malformed address %q", result.Address)
	}
	if len(result.Salt) != 64 {
		t.Errorf("salt must be 64 hex chars, got %d", len(result.Salt))
	}
	if result.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", result.Attempts)
	}
}

func TestMatchesBytesTarget(t *testing.T) {
	cfg := testWorkerConfig(t)
	cfg.TargetBytes = []byte{1, 2, 3, 4}
	w := newWorker(cfg, new(int64))

	if !w.matchesBytes([]byte{1, 2, 3, 4}) {
		t.Error("expected exact target match")
	}
	if w.matchesBytes([]byte{1, 2, 3, 5}) {
		t.Error("did not expect match on differing byte")
	}
}

func TestMatchesBytesPrefix(t *testing.T) {
	cfg := testWorkerConfig(t)
	cfg.PrefixBytes = []byte{0xab, 0xcd}
	w := newWorker(cfg, new(int64))

	addr := make([]byte, 20)
	addr[0], addr[1] = 0xab, 0xcd
	if !w.matchesBytes(addr) {
		t.Error("expected prefix match")
	}
	addr[1] = 0xce
	if w.matchesBytes(addr) {
		t.Error("did not expect match with altered prefix byte")
	}
}

func TestMatchesBytesSuffix(t *testing.T) {
	cfg := testWorkerConfig(t)
	cfg.SuffixBytes = []byte{0x00, 0xff}
	w := newWorker(cfg, new(int64))

	addr := make([]byte, 20)
	addr[18], addr[19] = 0x00, 0xff
	if !w.matchesBytes(addr) {
		t.Error("expected suffix match")
	}
}

func TestMatchesBytesNoneConfigured(t *testing.T) {
	cfg := testWorkerConfig(t)
	w := newWorker(cfg, new(int64))
	if w.matchesBytes(make([]byte, 20)) {
		t.Error("expected no match when no criteria configured")
	}
}
