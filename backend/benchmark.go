package backend

import (
	"fmt"
	"time"

	"github.com/gogpu/tonalcore/gpucore"
)

// benchWidth and benchHeight size the reference raster the decider times
// the candidate backends against: a full HD RGBA frame, representative of
// a typical working-image edit.
const (
	benchWidth  = 1920
	benchHeight = 1080
	benchChans  = 4
)

// benchKernelWGSL is the single-operation compute shader used to time every
// GPU family. It implements the same out = in*1.1 + 0.05 kernel the CPU
// closure below runs, so the benchmark measures dispatch-and-sync overhead
// for the real fused-kernel code path, not a synthetic stand-in.
const benchKernelWGSL = `
@group(0) @binding(0) var<storage, read_write> pixels: array<f32>;

@compute @workgroup_size(256)
fn bench_main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i >= arrayLength(&pixels)) {
		return;
	}
	pixels[i] = pixels[i] * 1.1 + 0.05;
}
`

// benchmarkCPU runs the reference kernel on a freshly allocated raster and
// returns the wall-clock duration.
func benchmarkCPU() time.Duration {
	n := benchWidth * benchHeight * benchChans
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = 0.5
	}
	start := time.Now()
	for i, v := range buf {
		buf[i] = v*1.1 + 0.05
	}
	return time.Since(start)
}

// benchmarkGPU uploads a zero-filled raster of the reference size to
// adapter, dispatches the
// compiled benchmark kernel, waits for completion, and returns the
// wall-clock duration of upload+dispatch+sync. A compile or dispatch error
// disqualifies the family the caller is probing.
func benchmarkGPU(adapter gpucore.DeviceAdapter) (time.Duration, error) {
	n := benchWidth * benchHeight * benchChans
	data := make([]byte, n*4)

	spirv, err := compileWGSL(benchKernelWGSL)
	if err != nil {
		return 0, fmt.Errorf("compile benchmark kernel: %w", err)
	}

	start := time.Now()

	shader, err := adapter.CreateShaderModule(spirv, "tonalcore-benchmark")
	if err != nil {
		return 0, fmt.Errorf("create shader module: %w", err)
	}
	defer adapter.DestroyShaderModule(shader)

	buf, err := adapter.CreateBuffer(len(data), gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc|gpucore.BufferUsageCopyDst)
	if err != nil {
		return 0, fmt.Errorf("create benchmark buffer: %w", err)
	}
	defer adapter.DestroyBuffer(buf)
	adapter.WriteBuffer(buf, 0, data)

	layout, err := adapter.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label: "tonalcore-benchmark-layout",
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeStorageBuffer},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("create bind group layout: %w", err)
	}
	defer adapter.DestroyBindGroupLayout(layout)

	pipelineLayout, err := adapter.CreatePipelineLayout(&gpucore.PipelineLayoutDesc{
		BindGroupLayouts: []gpucore.BindGroupLayoutID{layout},
	})
	if err != nil {
		return 0, fmt.Errorf("create pipeline layout: %w", err)
	}
	defer adapter.DestroyPipelineLayout(pipelineLayout)

	pipeline, err := adapter.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        "tonalcore-benchmark",
		Layout:       pipelineLayout,
		ShaderModule: shader,
		EntryPoint:   "bench_main",
	})
	if err != nil {
		return 0, fmt.Errorf("create compute pipeline: %w", err)
	}
	defer adapter.DestroyComputePipeline(pipeline)

	bindGroup, err := adapter.CreateBindGroup(&gpucore.BindGroupDesc{
		Layout: layout,
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Buffer: buf},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("create bind group: %w", err)
	}
	defer adapter.DestroyBindGroup(bindGroup)

	pass := adapter.BeginComputePass()
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup)
	pass.Dispatch(uint32((n+255)/256), 1, 1)
	pass.End()
	adapter.Submit()
	adapter.WaitIdle()

	return time.Since(start), nil
}
