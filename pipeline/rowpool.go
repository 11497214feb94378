package pipeline

import (
	"sync"

	"github.com/gogpu/tonalcore/parallel"
)

// rowBandPool is the dedicated WorkerPool the fused CPU executor fans its
// row bands out onto (spec §4.4's "CPU -> parallel on rows" schedule).
//
// It is deliberately a pool of its own, separate from any pool the state
// manager uses to schedule background passes. The manager runs a pass by
// calling Submit(m.runLoop) on its pool, and runLoop calls Execute, which
// for the fused CPU path calls ExecuteAll on this pool and blocks until
// every row band completes. If that ExecuteAll reused the manager's own
// pool, a single-worker pool (GOMAXPROCS==1, exactly the constrained hosts
// spec §4.2 benchmarks against) would deadlock: the lone worker would be
// busy running runLoop, blocked waiting on work it just submitted to a
// queue nothing is left to drain. Keeping row-band fan-out on its own pool
// means that worker is never the one running the pass that submitted it.
var (
	rowPoolOnce sync.Once
	rowPool     *parallel.WorkerPool
)

// rowBandPool lazily starts and returns the shared row-band pool. It is
// never closed: it lives for the process, the same lifetime as the backend
// decision and operation registries spec §5 designates read-only-after-init.
func rowBandPool() *parallel.WorkerPool {
	rowPoolOnce.Do(func() {
		rowPool = parallel.NewWorkerPool(0)
	})
	return rowPool
}
