package types

import "errors"

// Error kinds from the error-handling design: worker-level events are
// control signals handled locally and never surface as one of these: only
// the four conditions below abort a Mine call.
var (
	// ErrInvalidDepth is returned when depth is 0 or exceeds the
	// implementation ceiling (32).
	ErrInvalidDepth = errors.New("invalid depth")

	// ErrBackendUnavailable is returned when the GPU backend is requested
	// but no device is available and the caller forbade CPU fallback.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendFault is the error kind for a failed GPU launch, memcpy or
	// sync. The CUDA binding in pkg/scheduler has no fault path (its kernel
	// entry point returns no status), so no code in this module returns it.
	ErrBackendFault = errors.New("backend fault")

	// ErrCancelled is returned when the caller's context is cancelled
	// before a level completes. Partial results are discarded.
	ErrCancelled = errors.New("mining cancelled")
)
