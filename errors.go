package tonalcore

import "errors"

// Sentinel errors for the closed taxonomy of failures the core can raise.
// Call sites wrap these with fmt.Errorf("...: %w", ErrX) so errors.Is keeps
// working across package boundaries (operations, pipeline, state).
var (
	// ErrInvalidBuffer is returned when a PixelBuffer's element count does
	// not equal w*h*channelCount.
	ErrInvalidBuffer = errors.New("tonalcore: invalid pixel buffer")

	// ErrAllocFailed is returned when allocating host or device storage fails.
	ErrAllocFailed = errors.New("tonalcore: allocation failed")

	// ErrInvalidWorkingImage is returned when an operation is attempted on
	// an uninitialized working image.
	ErrInvalidWorkingImage = errors.New("tonalcore: invalid working image")

	// ErrDeviceTransferFailed is returned when a GPU host<->device copy
	// fails.
	ErrDeviceTransferFailed = errors.New("tonalcore: device transfer failed")

	// ErrBackendMismatch is returned when an executor requires a backend
	// different from the working image's memory location.
	ErrBackendMismatch = errors.New("tonalcore: backend mismatch")

	// ErrMissingFusionFragment is returned when a fused build encounters an
	// operation with no fusion facet.
	ErrMissingFusionFragment = errors.New("tonalcore: operation has no fusion fragment")

	// ErrMissingFallbackFragment is returned when a fallback execute
	// encounters an operation with no fallback facet.
	ErrMissingFallbackFragment = errors.New("tonalcore: operation has no fallback fragment")

	// ErrIO is returned when the source provider reports an I/O failure.
	ErrIO = errors.New("tonalcore: i/o error")

	// ErrDecoding is returned when the source provider cannot decode a file.
	ErrDecoding = errors.New("tonalcore: decoding error")

	// ErrUnexpected indicates an invariant violation that should not occur
	// in a correct build.
	ErrUnexpected = errors.New("tonalcore: unexpected internal error")
)
