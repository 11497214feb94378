package tonalcore

import "github.com/gogpu/tonalcore/gpucore"

// KernelHandle is the raw storage a fused kernel executor reads and writes
// directly, bypassing the WorkingImage interface's copy/export contract.
// It is produced only by KernelAccessible.RawKernelHandle and is valid only
// for the duration of the call that requested it.
type KernelHandle struct {
	W, H, Channels int
	// Location reports which fields below are meaningful: CPU for the host
	// variant, GPU for the device variant.
	Location MemoryLocation

	// CPU is the host-resident backing array. Populated only for the CPU
	// variant (aliasing the image's own storage); nil for the GPU variant.
	CPU []float32

	// Buffer and Adapter are set only when Location == MemoryGPU: Buffer
	// identifies the device-resident storage buffer bound by the fused GPU
	// kernel, and Adapter is the device the buffer lives on.
	Buffer  gpucore.BufferID
	Adapter gpucore.DeviceAdapter
}

// KernelAccessible is implemented by WorkingImage variants that can hand
// their backing storage directly to a fused kernel executor. It is
// deliberately not part of the WorkingImage interface: only the pipeline
// package's fused executors are expected to use it, everything else goes
// through UpdateFrom/ExportCPUCopy.
type KernelAccessible interface {
	RawKernelHandle() (KernelHandle, error)
}
