package pipeline

import (
	"fmt"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/backend"
	"github.com/gogpu/tonalcore/operations"
)

// Build is the pipeline's factory for executors. Given the current
// operation list and the process-wide backend decision, it returns the
// executor of the appropriate kind, or (nil, nil) if descriptors is empty
// — spec's "returns an executor of the appropriate kind or null if the
// list is empty" (§4.4), read literally: an empty list has nothing to
// execute, so the caller should simply treat the constructed working image
// as already representing the pipeline's output.
//
// The fused CPU executor parallelizes its row bands on this package's own
// dedicated pool (rowpool.go), not on any pool the caller schedules
// background passes with — see rowpool.go for why reusing the caller's
// pool would deadlock a single-worker configuration.
//
// Build always succeeds when descriptors is non-empty: it prefers the
// fused executor matching decision's chosen memory location, and degrades
// to the sequential fallback executor (logging why at slog.LevelWarn)
// whenever the fused path cannot be built — an enabled, non-no-op
// descriptor's Kind has no registered FusionFragment, or decision selected
// GPU but has no live Adapter. Callers must treat the fused-vs-fallback
// choice as an implementation detail (spec §4.4, "Callers MUST treat this
// as an implementation detail").
func Build(descriptors []operations.Descriptor, decision *backend.Decision) (Executor, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	if decision != nil && decision.UseGPU {
		if decision.Adapter == nil {
			logFusedFallback("gpu", fmt.Errorf("pipeline: %w: GPU decision has no adapter", tonalcore.ErrBackendMismatch))
			return newFallbackExecutor(descriptors), nil
		}
		exec, err := buildFusedGPU(descriptors, decision.Adapter)
		if err == nil {
			return exec, nil
		}
		logFusedFallback("gpu", err)
		return newFallbackExecutor(descriptors), nil
	}

	exec, err := buildFusedCPU(descriptors)
	if err == nil {
		return exec, nil
	}
	logFusedFallback("cpu", err)
	return newFallbackExecutor(descriptors), nil
}
