package account

import "time"

// Result represents a single mined CREATE2 account.
type Result struct {
	Salt     string
	Address  string
	Attempts int64
	Duration time.Duration
}

// WorkerConfig contains configuration for individual account-mining workers.
type WorkerConfig struct {
	Initcode     []byte
	InitcodeHash []byte
	FactoryBytes []byte
	Target       string
	Prefix       string
	Suffix       string
	Verbose      bool

	// Pre-decoded for fast byte-level matching (hot path). Nil if not set.
	TargetBytes   []byte // full 20-byte address to match
	PrefixBytes   []byte // first N bytes of address must match
	SuffixBytes   []byte // last N bytes of address must match
	Create2Prefix []byte // 21 bytes: 0xff + factory, constant per run
	Create2Suffix []byte // 32 bytes: initcode hash, constant per run
}

// WorkerResult represents a result from a single worker attempt.
type WorkerResult struct {
	Salt         string   // hex-encoded salt, set on every attempt
	SaltBytes    [32]byte // raw salt; generateAddress leaves it zero
	Address      string   // EIP-55 checksummed, set on every attempt
	AddressBytes [20]byte // raw 20-byte address for comparison
	Attempts     int64
	IsMatch      bool
}
