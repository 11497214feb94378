// Package gpucore defines the shared GPU abstractions used by the backend
// decider and the fused GPU executor: opaque resource IDs, a minimal
// compute-only [DeviceAdapter] interface, and the WGSL data structures a
// compiled fused kernel binds.
//
// # Architecture
//
// A single [DeviceAdapter] implementation backs every GPU family the
// backend decider probes (Vulkan, Metal, DX12, and GL via gogpu/wgpu's HAL
// layer); the decider and the fused GPU executor depend only on this
// package's interface, never on a concrete wgpu/hal type, so the rest of
// the module stays agnostic to the underlying graphics API.
//
//	+------------------+       +---------------------+
//	| backend.Decider  |       | pipeline fused (GPU) |
//	+--------+---------+       +-----------+----------+
//	         |                             |
//	         +-------------+---------------+
//	                       |
//	              +--------v---------+
//	              |  gpucore.Device  |
//	              |     Adapter      |
//	              +--------+---------+
//	                       |
//	              +--------v---------+
//	              | gogpu/wgpu (hal) |
//	              +------------------+
//
// # Resource management
//
// GPU resources are managed via opaque IDs ([BufferID], [ShaderModuleID],
// etc). [DeviceAdapter] provides creation and destruction methods for each
// resource type; adapters track the mapping between IDs and actual GPU
// resources.
package gpucore
