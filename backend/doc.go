// Package backend chooses, once per process, whether the fused pipeline
// should execute on the CPU or on a GPU family, and if a GPU, which one.
//
// The choice is made by Decide: run the same microbenchmark kernel on the
// CPU and on every available GPU family, in spec-fixed priority order
// (CUDA, D3D12, Metal, Vulkan, OpenCL), and keep whichever candidate wins
// by the configured advantage margin. The result is a [Decision], computed
// lazily behind a sync.Once and intended to be requested once at startup
// and reused for the life of the process; re-probing per edit would
// contradict the CORE's "decide once" contract.
package backend
