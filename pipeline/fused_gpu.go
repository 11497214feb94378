package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/cache"
	"github.com/gogpu/tonalcore/gpucore"
	"github.com/gogpu/tonalcore/operations"
)

// compiledKernel is a GPU pipeline ready to dispatch against any
// correctly-shaped buffer, along with the bind-group layout and pipeline
// layout needed to build a fresh bind group per image.
type compiledKernel struct {
	shader         gpucore.ShaderModuleID
	layout         gpucore.BindGroupLayoutID
	pipelineLayout gpucore.PipelineLayoutID
	pipeline       gpucore.ComputePipelineID
}

// kernelCache memoizes compiled kernels process-wide (the key does not
// include the adapter), keyed by a signature
// of the enabled operation kinds and their clamped values plus the target
// image's dimensions (the WGSL entry point bakes width/height in as
// literals). Capacity is generous: a typical editing session cycles
// through a handful of distinct operation combinations, not thousands.
var kernelCache = cache.NewSharded[string, *compiledKernel](256, cache.StringHasher)

// fusedGPUExecutor dispatches a compiled compute kernel against a single
// read-write storage buffer.
type fusedGPUExecutor struct {
	adapter     gpucore.DeviceAdapter
	descriptors []operations.Descriptor
}

func buildFusedGPU(descriptors []operations.Descriptor, adapter gpucore.DeviceAdapter) (*fusedGPUExecutor, error) {
	active := filterActive(descriptors)
	for _, d := range active {
		if _, ok := operations.Fusion(d.Kind); !ok {
			return nil, errMissingFusion(d.Kind)
		}
	}
	return &fusedGPUExecutor{adapter: adapter, descriptors: active}, nil
}

func (e *fusedGPUExecutor) Kind() string { return "fused-gpu" }

func (e *fusedGPUExecutor) Execute(ctx context.Context, img tonalcore.WorkingImage) error {
	accessible, ok := img.(tonalcore.KernelAccessible)
	if !ok {
		return fmt.Errorf("fusedGPUExecutor.Execute: %w", tonalcore.ErrBackendMismatch)
	}
	handle, err := accessible.RawKernelHandle()
	if err != nil {
		return fmt.Errorf("fusedGPUExecutor.Execute: %w", err)
	}
	if handle.Location != tonalcore.MemoryGPU {
		return fmt.Errorf("fusedGPUExecutor.Execute: %w: image is on %s", tonalcore.ErrBackendMismatch, handle.Location)
	}

	sig := kernelSignature(e.descriptors, handle.W, handle.H)
	kernel, err := e.compiledFor(sig, handle.W, handle.H)
	if err != nil {
		return fmt.Errorf("fusedGPUExecutor.Execute: %w", err)
	}

	bindGroup, err := e.adapter.CreateBindGroup(&gpucore.BindGroupDesc{
		Layout: kernel.layout,
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Buffer: handle.Buffer},
		},
	})
	if err != nil {
		return fmt.Errorf("fusedGPUExecutor.Execute: %w: %v", tonalcore.ErrDeviceTransferFailed, err)
	}
	defer e.adapter.DestroyBindGroup(bindGroup)

	pass := e.adapter.BeginComputePass()
	pass.SetPipeline(kernel.pipeline)
	pass.SetBindGroup(0, bindGroup)
	groupsX := uint32((handle.W + 15) / 16)
	groupsY := uint32((handle.H + 15) / 16)
	pass.Dispatch(groupsX, groupsY, 1)
	pass.End()
	e.adapter.Submit()
	e.adapter.WaitIdle()

	return nil
}

func (e *fusedGPUExecutor) compiledFor(sig string, w, h int) (*compiledKernel, error) {
	if k, ok := kernelCache.Get(sig); ok {
		tonalcore.Logger().Debug("pipeline: fused GPU kernel cache hit", "signature", sig)
		return k, nil
	}

	wgsl, err := buildWGSL(e.descriptors, w, h)
	if err != nil {
		return nil, err
	}
	spirv, err := compileWGSL(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile fused kernel: %w", err)
	}

	shader, err := e.adapter.CreateShaderModule(spirv, "tonalcore-fused")
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}

	layout, err := e.adapter.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label:   "tonalcore-fused-layout",
		Entries: []gpucore.BindGroupLayoutEntry{{Binding: 0, Type: gpucore.BindingTypeStorageBuffer}},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	pipelineLayout, err := e.adapter.CreatePipelineLayout(&gpucore.PipelineLayoutDesc{
		BindGroupLayouts: []gpucore.BindGroupLayoutID{layout},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	pipeline, err := e.adapter.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        "tonalcore-fused",
		Layout:       pipelineLayout,
		ShaderModule: shader,
		EntryPoint:   "tonal_main",
	})
	if err != nil {
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}

	kernel := &compiledKernel{shader: shader, layout: layout, pipelineLayout: pipelineLayout, pipeline: pipeline}
	kernelCache.Set(sig, kernel)
	tonalcore.Logger().Debug("pipeline: fused GPU kernel compiled and cached", "signature", sig)
	return kernel, nil
}

// kernelSignature builds a cache key from the enabled operation kinds, in
// application order, their clamped values, and the target dimensions
// (the WGSL entry point bakes width/height in as literals, so two images
// of different size need distinct compiled pipelines).
func kernelSignature(descriptors []operations.Descriptor, w, h int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(w))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(h))
	for _, d := range descriptors {
		b.WriteByte('|')
		b.WriteString(d.Kind.String())
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(d.V(), 'g', -1, 64))
	}
	return b.String()
}
