// Package state owns the editable operation list and the currently
// published working image: the sole writer of the latter, and the sole
// schedule point for background pipeline execution (spec §4.5).
package state

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/backend"
	"github.com/gogpu/tonalcore/operations"
	"github.com/gogpu/tonalcore/parallel"
	"github.com/gogpu/tonalcore/pipeline"
	"github.com/gogpu/tonalcore/source"
)

// publishedImage wraps a WorkingImage so it can be held in an
// atomic.Pointer: Go's atomic.Pointer is generic over a concrete type, not
// an interface, so a one-field wrapper struct is the idiomatic way to get
// a lock-free atomic slot over an interface value (spec §5, §9).
type publishedImage struct {
	img tonalcore.WorkingImage
}

// Manager owns the operation list, serializes edits under a mutex, runs
// the pipeline asynchronously on a worker, and publishes the resulting
// working image via a lock-free atomic reference. See spec §4.5 for the
// full public-operation table this type implements.
type Manager struct {
	provider source.Provider
	decision *backend.Decision
	pool     *parallel.WorkerPool

	mu         sync.Mutex
	sourcePath string
	ops        []operations.Descriptor

	// Run-loop bookkeeping, guarded by mu alongside ops/sourcePath so a
	// snapshot taken under the lock always reflects the edit that (maybe)
	// also flipped dirty.
	dirty     bool
	waiters   []*Future
	callbacks []func(success bool)

	published      atomic.Pointer[publishedImage]
	updateInFlight atomic.Bool
}

// NewManager constructs a Manager. provider supplies and receives rasters;
// decision is the process-wide backend choice from backend.Decide (nil is
// treated as CPU); pool runs background pipeline passes — if nil, a
// dedicated pool sized to GOMAXPROCS is created.
func NewManager(provider source.Provider, decision *backend.Decision, pool *parallel.WorkerPool) *Manager {
	if pool == nil {
		pool = parallel.NewWorkerPool(0)
	}
	return &Manager{provider: provider, decision: decision, pool: pool}
}

// SetSource sets the original-source path. Subsequent RequestUpdate calls
// read from this path until SetSource is called again.
func (m *Manager) SetSource(path string) {
	m.mu.Lock()
	m.sourcePath = path
	m.mu.Unlock()
}

// Add appends desc to the operation list and triggers an update.
func (m *Manager) Add(desc operations.Descriptor) *Future {
	m.mu.Lock()
	m.ops = append(m.ops, desc)
	m.mu.Unlock()
	return m.RequestUpdate(nil)
}

// Modify replaces the entry at index i and triggers an update. Returns
// ErrUnexpected if i is out of range.
func (m *Manager) Modify(i int, desc operations.Descriptor) (*Future, error) {
	m.mu.Lock()
	if i < 0 || i >= len(m.ops) {
		n := len(m.ops)
		m.mu.Unlock()
		return nil, fmt.Errorf("state: Modify: %w: index %d out of range (len=%d)", tonalcore.ErrUnexpected, i, n)
	}
	m.ops[i] = desc
	m.mu.Unlock()
	return m.RequestUpdate(nil), nil
}

// Remove deletes the entry at index i and triggers an update. Returns
// ErrUnexpected if i is out of range.
func (m *Manager) Remove(i int) (*Future, error) {
	m.mu.Lock()
	if i < 0 || i >= len(m.ops) {
		n := len(m.ops)
		m.mu.Unlock()
		return nil, fmt.Errorf("state: Remove: %w: index %d out of range (len=%d)", tonalcore.ErrUnexpected, i, n)
	}
	m.ops = append(m.ops[:i], m.ops[i+1:]...)
	m.mu.Unlock()
	return m.RequestUpdate(nil), nil
}

// ResetToOriginal empties the operation list and triggers an update.
func (m *Manager) ResetToOriginal() *Future {
	m.mu.Lock()
	m.ops = nil
	m.mu.Unlock()
	return m.RequestUpdate(nil)
}

// ActiveOperations returns a snapshot copy of the operation list.
func (m *Manager) ActiveOperations() []operations.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]operations.Descriptor, len(m.ops))
	copy(out, m.ops)
	return out
}

// WorkingImage is a lock-free read of the latest published working image.
// It may be nil before the first successful pass.
func (m *Manager) WorkingImage() tonalcore.WorkingImage {
	p := m.published.Load()
	if p == nil {
		return nil
	}
	return p.img
}

// IsUpdatePending reports whether a pipeline pass is currently running.
func (m *Manager) IsUpdatePending() bool {
	return m.updateInFlight.Load()
}

// RequestUpdate schedules a pipeline pass over the current operation list
// and source. If a pass is already running, this call coalesces: it does
// not spawn a second run loop, it marks the active one dirty so it
// re-snapshots after finishing its current pass, and registers cb and the
// returned Future against that same active loop. The Future resolves, and
// cb (if non-nil) fires, only once a pass completes with no further
// dirtiness queued behind it — the "coalesce rapid edits" guarantee of
// spec §4.5/§8 scenario 6.
func (m *Manager) RequestUpdate(cb func(success bool)) *Future {
	fut := newFuture()

	m.mu.Lock()
	m.waiters = append(m.waiters, fut)
	if cb != nil {
		m.callbacks = append(m.callbacks, cb)
	}
	if m.updateInFlight.Load() {
		m.dirty = true
		m.mu.Unlock()
		return fut
	}
	m.updateInFlight.Store(true)
	m.dirty = false
	m.mu.Unlock()

	m.pool.Submit(m.runLoop)
	return fut
}

// runLoop is the single active background worker for this Manager. It
// snapshots the operation list, runs one pipeline pass, and either loops
// again (if an edit arrived mid-pass) or resolves every Future/callback
// queued since the loop started and clears updateInFlight.
func (m *Manager) runLoop() {
	for {
		m.mu.Lock()
		srcPath := m.sourcePath
		snapshot := make([]operations.Descriptor, len(m.ops))
		copy(snapshot, m.ops)
		m.dirty = false
		m.mu.Unlock()

		err := m.runPass(srcPath, snapshot)

		m.mu.Lock()
		if m.dirty {
			m.mu.Unlock()
			continue
		}
		waiters := m.waiters
		callbacks := m.callbacks
		m.waiters = nil
		m.callbacks = nil
		m.updateInFlight.Store(false)
		m.mu.Unlock()

		for _, f := range waiters {
			f.resolve(err)
		}
		success := err == nil
		for _, c := range callbacks {
			c(success)
		}
		return
	}
}

// runPass fetches the source raster, constructs a fresh working image of
// the configured backend, builds and executes a pipeline for snapshot, and
// on success atomically publishes the result. On failure it returns the
// error without touching the previous publication, per spec §7's "a failed
// update leaves the system in its last successful state".
func (m *Manager) runPass(srcPath string, snapshot []operations.Descriptor) error {
	log := tonalcore.Logger()

	if srcPath == "" {
		return fmt.Errorf("state: runPass: %w: no source set", tonalcore.ErrIO)
	}

	raster, err := m.provider.Load(srcPath)
	if err != nil {
		log.Warn("state: source load failed", "error", err)
		return fmt.Errorf("state: runPass: %w", err)
	}

	loc := m.decision.MemoryLocation()
	img, err := tonalcore.NewWorkingImage(loc, raster)
	if err != nil {
		log.Warn("state: working image construction failed", "error", err)
		return fmt.Errorf("state: runPass: %w", err)
	}

	executor, err := pipeline.Build(snapshot, m.decision)
	if err != nil {
		log.Warn("state: pipeline build failed", "error", err)
		return fmt.Errorf("state: runPass: %w", err)
	}

	if executor != nil {
		if err := executor.Execute(context.Background(), img); err != nil {
			log.Warn("state: pipeline execution failed", "error", err, "executor", executor.Kind())
			return fmt.Errorf("state: runPass: %w", err)
		}
	}

	m.published.Store(&publishedImage{img: img})
	return nil
}

// CommitWorkingImageToSource exports the currently published working image
// to a CPU raster and hands it to the provider for writeback. It is
// synchronous from the caller's perspective and distinct from
// RequestUpdate: it does not touch the operation list or run loop.
func (m *Manager) CommitWorkingImageToSource() error {
	img := m.WorkingImage()
	if img == nil {
		return fmt.Errorf("state: commit: %w: no published working image", tonalcore.ErrInvalidWorkingImage)
	}
	buf, err := img.ExportCPUCopy()
	if err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	if err := m.provider.Store(buf); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}
