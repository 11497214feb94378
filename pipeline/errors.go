package pipeline

import (
	"fmt"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/operations"
)

func errMissingFusion(kind operations.Kind) error {
	return fmt.Errorf("pipeline: %w: %s", tonalcore.ErrMissingFusionFragment, kind)
}

// logFusedFallback records why Build degraded from a fused executor to the
// sequential fallback for the given backend tag.
func logFusedFallback(backend string, err error) {
	tonalcore.Logger().Warn("pipeline: fused executor unavailable, using fallback", "backend", backend, "reason", err)
}
