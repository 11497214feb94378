package pipeline

import (
	"context"
	"fmt"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/operations"
)

// fallbackExecutor applies each enabled, non-no-op descriptor's
// FallbackFragment in sequence over a plain CPU buffer.
type fallbackExecutor struct {
	descriptors []operations.Descriptor
}

func newFallbackExecutor(descriptors []operations.Descriptor) *fallbackExecutor {
	return &fallbackExecutor{descriptors: filterActive(descriptors)}
}

func (e *fallbackExecutor) Kind() string { return "fallback" }

func (e *fallbackExecutor) Execute(ctx context.Context, img tonalcore.WorkingImage) error {
	buf, err := img.ExportCPUCopy()
	if err != nil {
		return fmt.Errorf("fallbackExecutor.Execute: %w", err)
	}

	log := tonalcore.Logger()
	for _, d := range e.descriptors {
		frag, ok := operations.Fallback(d.Kind)
		if !ok {
			log.Warn("pipeline: operation has no fallback fragment, skipping", "kind", d.Kind)
			continue
		}
		frag.ApplyFallback(d, buf.Pixels, buf.ChannelCount)
	}

	if err := img.UpdateFrom(buf, tonalcore.ByMove); err != nil {
		return fmt.Errorf("fallbackExecutor.Execute: %w", err)
	}
	return nil
}

// filterActive drops disabled and no-op descriptors, the first construction
// step both the fused and fallback executors share.
func filterActive(descriptors []operations.Descriptor) []operations.Descriptor {
	out := make([]operations.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if !d.Enabled || d.IsNoOp() {
			continue
		}
		out = append(out, d)
	}
	return out
}
