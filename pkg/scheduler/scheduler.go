// Package scheduler drives the workers (pkg/worker) that search a single
// level: it hands out disjoint nonce ranges from a shared counter, fans
// workers out across an errgroup, and returns as soon as any of them wins
// the one-shot result cell.
package scheduler

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/CPerezz/worst-case-miner/pkg/worker"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

// GPUPolicyThreshold is the required-nibble count at or above which Auto
// selection prefers the GPU backend, per spec.md §4.5.
const GPUPolicyThreshold = 8

// Kind selects which backend a Config drives.
type Kind int

const (
	CPU Kind = iota
	GPU
	Auto
)

// Config bundles the backend hint the façade passes down into a concrete
// scheduler configuration.
type Config struct {
	Kind Kind

	// ForbidFallback, when Kind is GPU, turns an unavailable device into a
	// hard ErrBackendUnavailable instead of the default CPU downgrade that
	// spec.md §7 describes for BackendUnavailable.
	ForbidFallback bool

	Threads          int
	RangeSize        uint64 // nonces handed to a worker per dispatch
	AttemptsPerBatch uint64
	GPU              GPUConfig
}

// GPUConfig tunes a CUDA kernel launch.
type GPUConfig struct {
	Blocks            int
	ThreadsPerBlock   int
	AttemptsPerThread uint64
}

func (c Config) withDefaults() Config {
	if c.Threads <= 0 {
		c.Threads = 1
	}
	if c.RangeSize == 0 {
		c.RangeSize = 1 << 16
	}
	if c.AttemptsPerBatch == 0 {
		c.AttemptsPerBatch = types.DefaultAttemptsPerBatch
	}
	if c.GPU.Blocks == 0 {
		c.GPU.Blocks = 256
	}
	if c.GPU.ThreadsPerBlock == 0 {
		c.GPU.ThreadsPerBlock = 256
	}
	if c.GPU.AttemptsPerThread == 0 {
		c.GPU.AttemptsPerThread = 100000
	}
	return c
}

// resolve turns Auto into a concrete CPU/GPU choice for this level.
func (c Config) resolve(requiredNibbles uint) Kind {
	switch c.Kind {
	case CPU, GPU:
		return c.Kind
	default:
		if gpuAvailable() && requiredNibbles >= GPUPolicyThreshold {
			return GPU
		}
		return CPU
	}
}

// FindOne searches for one address/key pair matching target, fanning work
// out across the backend selected by cfg. It returns types.ErrCancelled if
// ctx is cancelled before a winner is found. Per spec.md §7,
// BackendUnavailable downgrades to CPU by default, whether the GPU backend
// was chosen by Auto or requested explicitly via Kind: GPU. With
// cfg.ForbidFallback set, or for any other GPU error (such as
// ErrCancelled), the error is returned without falling back.
func FindOne(ctx context.Context, target types.SearchTarget, baseSlot *uint256.Int, cfg Config) (types.Address, types.StorageKey, error) {
	cfg = cfg.withDefaults()

	switch cfg.resolve(target.RequiredNibbles) {
	case GPU:
		addr, key, err := findOneGPU(ctx, target, baseSlot, cfg.GPU)
		if err == nil {
			return addr, key, nil
		}
		if cfg.ForbidFallback || !errors.Is(err, types.ErrBackendUnavailable) {
			return types.Address{}, types.StorageKey{}, err
		}
		// Device unavailable and fallback permitted: downgrade to CPU.
		fallthrough
	case CPU:
		return findOneCPU(ctx, target, baseSlot, cfg)
	default:
		return types.Address{}, types.StorageKey{}, types.ErrBackendUnavailable
	}
}

func findOneCPU(ctx context.Context, target types.SearchTarget, baseSlot *uint256.Int, cfg Config) (types.Address, types.StorageKey, error) {
	var cancel atomic.Bool
	var result atomic.Pointer[worker.Found]
	var nonceCounter atomic.Uint64
	nonceCounter.Store(randomStartNonce())

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel.Store(true)
		case <-stop:
		}
	}()
	defer close(stop)

	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Threads; i++ {
		g.Go(func() error {
			for result.Load() == nil && !cancel.Load() {
				start := nonceCounter.Add(cfg.RangeSize) - cfg.RangeSize
				workerCfg := types.WorkerConfig{
					StartNonce:       start,
					RangeSize:        cfg.RangeSize,
					AttemptsPerBatch: cfg.AttemptsPerBatch,
				}
				worker.Run(workerCfg, target, baseSlot, &cancel, &result)
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil && result.Load() == nil {
		return types.Address{}, types.StorageKey{}, types.ErrCancelled
	}

	found := result.Load()
	if found == nil {
		// Cancelled by a sibling without a recorded winner: shouldn't
		// happen under normal operation, but report it the same way as an
		// explicit cancellation rather than returning a zero result.
		return types.Address{}, types.StorageKey{}, types.ErrCancelled
	}
	return found.Address, found.Key, nil
}

func randomStartNonce() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(b[:])
}
