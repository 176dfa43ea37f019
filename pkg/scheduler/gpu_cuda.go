//go:build cuda

// GPU backend for the storage-key miner. Mirrors the original program's
// cuda_miner::mine_with_cuda: it packages the search target and a start
// nonce into a kernel launch of blocks*threads_per_block workers, each
// doing attempts_per_thread iterations, and copies the device-resident
// result back after synchronisation.
//
// Build requirements (per original_source/build.rs and the "cuda" feature
// it gates): compile the accompanying storage_miner_cuda kernel library
// first, then build this package with `-tags cuda`.
package scheduler

/*
#cgo LDFLAGS: -L${SRCDIR}/kernel -lstorage_miner_cuda -L/usr/local/cuda/lib64 -lcudart -lstdc++ -lm
#cgo CFLAGS: -I/usr/local/cuda/include

#include <stdbool.h>

// Mirrors the extern "C" contract in original_source/src/cuda_miner.rs.
extern void cuda_mine_storage_slot(
	const unsigned char *target_prefix,
	int required_nibbles,
	unsigned long long base_slot,
	unsigned char *result_address,
	unsigned char *result_storage_key,
	bool *found,
	int blocks,
	int threads_per_block,
	unsigned long long attempts_per_thread
);

extern int storage_miner_cuda_device_count();
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

func gpuAvailable() bool {
	return int(C.storage_miner_cuda_device_count()) > 0
}

// findOneGPU launches successive kernel batches until the device reports a
// hit or the caller's context is cancelled. cuda_mine_storage_slot returns
// no status, so a failed launch, copy or sync is not detected here and
// this function never returns types.ErrBackendFault. A GPU kernel run is
// not interruptible mid-launch: the scheduler only refuses to relaunch
// once cancellation is observed between batches.
func findOneGPU(ctx context.Context, target types.SearchTarget, baseSlot *uint256.Int, cfg GPUConfig) (types.Address, types.StorageKey, error) {
	if !gpuAvailable() {
		return types.Address{}, types.StorageKey{}, types.ErrBackendUnavailable
	}

	prefixBytes := target.PrefixBytes
	baseSlotU64 := baseSlot.Uint64() // base_slot is normally 0; the kernel takes a 64-bit launch parameter

	for {
		select {
		case <-ctx.Done():
			return types.Address{}, types.StorageKey{}, types.ErrCancelled
		default:
		}

		var resultAddr [20]byte
		var resultKey [32]byte
		var found C.bool

		C.cuda_mine_storage_slot(
			(*C.uchar)(unsafe.Pointer(&prefixBytes[0])),
			C.int(target.RequiredNibbles),
			C.ulonglong(baseSlotU64),
			(*C.uchar)(unsafe.Pointer(&resultAddr[0])),
			(*C.uchar)(unsafe.Pointer(&resultKey[0])),
			(*C.bool)(unsafe.Pointer(&found)),
			C.int(cfg.Blocks),
			C.int(cfg.ThreadsPerBlock),
			C.ulonglong(cfg.AttemptsPerThread),
		)

		if bool(found) {
			return types.Address(resultAddr), types.StorageKey(resultKey), nil
		}
		// No hit this batch: the scheduler bumps start_nonce implicitly by
		// relaunching (the kernel seeds its own per-launch nonce base) and
		// tries again.
	}
}
