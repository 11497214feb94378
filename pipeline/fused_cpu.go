package pipeline

import (
	"context"
	"fmt"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/operations"
)

// cpuRowBand is the row-band granularity the fused CPU executor partitions
// work into: spec's tile-8x8 scheduling hint reinterpreted for a
// per-pixel closure chain with no spatial locality to exploit, so banding
// on rows alone gives every worker an equal, cache-friendly, contiguous
// slice of the buffer.
const cpuRowBand = 8

// fusedCPUExecutor composes every enabled descriptor's CPUKernel into one
// closure chain and runs it over the image once, parallelized across row
// bands on the package's dedicated rowBandPool (see rowpool.go for why
// this must not be the state manager's own scheduling pool).
type fusedCPUExecutor struct {
	chain operations.CPUKernel
}

// buildFusedCPU composes descriptors into a single chained kernel. Returns
// ErrMissingFusionFragment if any remaining descriptor has no registered
// FusionFragment.
func buildFusedCPU(descriptors []operations.Descriptor) (*fusedCPUExecutor, error) {
	active := filterActive(descriptors)

	kernels := make([]operations.CPUKernel, 0, len(active))
	for _, d := range active {
		frag, ok := operations.Fusion(d.Kind)
		if !ok {
			return nil, errMissingFusion(d.Kind)
		}
		kernels = append(kernels, frag.CPUFragment(d))
	}

	chain := chainKernels(kernels)
	return &fusedCPUExecutor{chain: chain}, nil
}

func chainKernels(kernels []operations.CPUKernel) operations.CPUKernel {
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		for _, k := range kernels {
			r, g, b, a = k(r, g, b, a)
		}
		return r, g, b, a
	}
}

func (e *fusedCPUExecutor) Kind() string { return "fused-cpu" }

func (e *fusedCPUExecutor) Execute(ctx context.Context, img tonalcore.WorkingImage) error {
	accessible, ok := img.(tonalcore.KernelAccessible)
	if !ok {
		return fmt.Errorf("fusedCPUExecutor.Execute: %w", tonalcore.ErrBackendMismatch)
	}
	handle, err := accessible.RawKernelHandle()
	if err != nil {
		return fmt.Errorf("fusedCPUExecutor.Execute: %w", err)
	}
	if handle.Location != tonalcore.MemoryCPU {
		return fmt.Errorf("fusedCPUExecutor.Execute: %w: image is on %s", tonalcore.ErrBackendMismatch, handle.Location)
	}

	w, h, ch := handle.W, handle.H, handle.Channels
	pixels := handle.CPU
	if ch < 3 {
		return nil
	}

	rowsPerBand := cpuRowBand
	bandCount := (h + rowsPerBand - 1) / rowsPerBand
	if bandCount == 0 {
		return nil
	}

	tasks := make([]func(), 0, bandCount)
	for band := 0; band < bandCount; band++ {
		y0 := band * rowsPerBand
		y1 := y0 + rowsPerBand
		if y1 > h {
			y1 = h
		}
		tasks = append(tasks, func() {
			for y := y0; y < y1; y++ {
				base := y * w * ch
				for x := 0; x < w; x++ {
					i := base + x*ch
					a := float32(1)
					if ch >= 4 {
						a = pixels[i+3]
					}
					r, g, b, a2 := e.chain(pixels[i], pixels[i+1], pixels[i+2], a)
					pixels[i], pixels[i+1], pixels[i+2] = r, g, b
					if ch >= 4 {
						pixels[i+3] = a2
					}
				}
			}
		})
	}

	rowBandPool().ExecuteAll(tasks)
	return nil
}
