//go:build !cuda

package scheduler

import (
	"context"

	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

// gpuAvailable always reports false in builds without the cuda tag, the
// same fallback behaviour original_source's cuda_miner::cuda_available
// has when the "cuda" feature is disabled.
func gpuAvailable() bool { return false }

func findOneGPU(_ context.Context, _ types.SearchTarget, _ *uint256.Int, _ GPUConfig) (types.Address, types.StorageKey, error) {
	return types.Address{}, types.StorageKey{}, types.ErrBackendUnavailable
}
