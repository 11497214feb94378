package gpucore

// DeviceAdapter abstracts over a GPU backend implementation. It is the
// abstraction both the backend decider's probe/benchmark step and the
// fused GPU executor depend on, so neither ever touches a concrete
// gogpu/wgpu type.
//
// Unlike a full rendering adapter, DeviceAdapter has no texture management:
// a working image is a dense float32 storage buffer, never a sampled
// texture, so the surface here is buffers, shader modules, and compute
// pipelines only.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - Destroying a resource while in use is undefined behavior
//   - IDs become invalid after destruction and must not be reused
//
// Implementations must be safe for concurrent use.
type DeviceAdapter interface {
	// === Capabilities ===

	// SupportsCompute returns whether compute shaders are supported. The
	// backend decider treats false as automatic disqualification for the
	// family this adapter represents.
	SupportsCompute() bool

	// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
	MaxWorkgroupSize() [3]uint32

	// MaxBufferSize returns the maximum buffer size in bytes. Neither the
	// fused GPU executor nor the GPU working image checks an image's size
	// against it.
	MaxBufferSize() uint64

	// === Shader Compilation ===

	// CreateShaderModule creates a shader module from SPIR-V bytecode, as
	// produced by naga.Compile from the fused pipeline's generated WGSL.
	CreateShaderModule(spirv []uint32, label string) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// === Buffer Management ===

	// CreateBuffer creates a GPU buffer of size bytes with the given usage
	// flags.
	CreateBuffer(size int, usage BufferUsage) (BufferID, error)

	// DestroyBuffer releases a GPU buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer writes data to a buffer starting at offset bytes.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// ReadBuffer reads size bytes from a buffer starting at offset. This
	// may cause a GPU-CPU synchronization stall.
	ReadBuffer(id BufferID, offset, size uint64) ([]byte, error)

	// === Pipeline Management ===

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreatePipelineLayout combines bind group layouts into a pipeline
	// layout.
	CreatePipelineLayout(desc *PipelineLayoutDesc) (PipelineLayoutID, error)

	// DestroyPipelineLayout releases a pipeline layout.
	DestroyPipelineLayout(id PipelineLayoutID)

	// CreateComputePipeline creates a compute pipeline.
	CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error)

	// DestroyComputePipeline releases a compute pipeline.
	DestroyComputePipeline(id ComputePipelineID)

	// CreateBindGroup binds actual resources to a bind group layout.
	CreateBindGroup(desc *BindGroupDesc) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)

	// === Command Recording and Execution ===

	// BeginComputePass begins a compute pass. The encoder must be ended
	// with ComputePassEncoder.End() before Submit.
	BeginComputePass() ComputePassEncoder

	// Submit submits recorded commands to the GPU.
	Submit()

	// WaitIdle waits for all GPU operations to complete. The fused GPU
	// executor calls this once per Execute, after Submit, since the
	// pipeline's result must be fully realized before it is published.
	WaitIdle()
}

// ComputePassEncoder records compute commands for a single dispatch of the
// fused tonal kernel.
//
// Usage:
//  1. Obtain encoder from DeviceAdapter.BeginComputePass()
//  2. SetPipeline, SetBindGroup
//  3. Dispatch
//  4. End(), then DeviceAdapter.Submit()
//
// The encoder is single-use and cannot be reused after End().
type ComputePassEncoder interface {
	// SetPipeline sets the active compute pipeline.
	SetPipeline(pipeline ComputePipelineID)

	// SetBindGroup sets a bind group at the specified index.
	SetBindGroup(index uint32, group BindGroupID)

	// Dispatch dispatches compute workgroups. x, y, z are workgroup counts,
	// not thread counts: the fused kernel's WorkgroupSize{16,16,1} means a
	// w x h image dispatches ceil(w/16) x ceil(h/16) x 1 workgroups.
	Dispatch(x, y, z uint32)

	// End finishes the compute pass. After this call the encoder cannot be
	// used again.
	End()
}

// AdapterCapabilities is a snapshot of a DeviceAdapter's limits, held by
// WGPUAdapter and reported through SupportsCompute, MaxWorkgroupSize and
// MaxBufferSize.
type AdapterCapabilities struct {
	SupportsCompute                  bool
	MaxWorkgroupSizeX                uint32
	MaxWorkgroupSizeY                uint32
	MaxWorkgroupSizeZ                uint32
	MaxWorkgroupInvocations          uint32
	MaxBufferSize                    uint64
	MaxStorageBufferBindingSize      uint64
	MaxComputeWorkgroupsPerDimension uint32
}
