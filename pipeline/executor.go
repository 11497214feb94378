package pipeline

import (
	"context"

	"github.com/gogpu/tonalcore"
)

// Executor runs a fixed operation list against a working image. Build
// produces the concrete variant (fused CPU, fused GPU, or fallback); the
// state manager depends only on this interface.
type Executor interface {
	// Execute applies the executor's operation list to img in place.
	Execute(ctx context.Context, img tonalcore.WorkingImage) error

	// Kind reports which concrete strategy this executor is, for logging
	// and tests.
	Kind() string
}
