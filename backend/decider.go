package backend

import (
	"sync"
	"time"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/gpucore"
)

// gpuAdvantageThreshold is the margin a GPU family must beat the CPU
// baseline by to be chosen: a GPU duration at or above 90% of the CPU
// duration is not worth the device-transfer overhead the fused GPU
// executor incurs on every edit, so the CPU is kept instead.
const gpuAdvantageThreshold = 0.9

// Decision is the result of a one-time backend probe: whether the fused
// pipeline should run on the CPU or on a specific GPU family, and if GPU,
// the adapter to execute against.
type Decision struct {
	UseGPU  bool
	Family  Family
	Adapter gpucore.DeviceAdapter

	// candidates records every family probed and its outcome, kept for
	// diagnostics. The slice itself is not logged; decide logs each
	// outcome as it is recorded (Warn for a disqualified family, Info for
	// a measured one).
	candidates []candidateResult
}

type candidateResult struct {
	family    Family
	available bool
	reason    string
}

var (
	decideOnce   sync.Once
	decideResult *Decision
)

// Decide runs the CPU/GPU microbenchmark exactly once per process and
// caches the result; subsequent calls return the cached Decision
// immediately. This matches the CORE's "decide once at startup" contract:
// callers must not re-probe per edit.
func Decide() *Decision {
	decideOnce.Do(func() {
		decideResult = decide()
	})
	return decideResult
}

// ResetForTest clears the cached decision so tests can exercise Decide
// under different (fake) probing conditions. Not for production use.
func ResetForTest() {
	decideOnce = sync.Once{}
	decideResult = nil
}

// probedFamily is one family's measured outcome, kept around only long
// enough to pick the argmin and close every adapter but the winner's.
type probedFamily struct {
	family   Family
	adapter  gpucore.DeviceAdapter
	duration time.Duration
}

// decide implements spec's single-pass algorithm exactly: probe every GPU
// family in fixed priority order, benchmark every one that survives
// initialization, then select the argmin over all surviving families and
// compare that single best duration against the CPU baseline. This is
// deliberately not a greedy first-past-the-post scan: a later family in
// priority order may be faster than an earlier one that also beat the
// threshold, and spec's argmin step requires the actual fastest, not the
// first adequate one.
func decide() *Decision {
	log := tonalcore.Logger()
	cpuDuration := benchmarkCPU()
	log.Info("backend: CPU baseline measured", "duration", cpuDuration)

	d := &Decision{UseGPU: false}
	var probed []probedFamily

	for _, fam := range families {
		bit, ok := fam.wgpuBackend()
		if !ok {
			d.candidates = append(d.candidates, candidateResult{family: fam, reason: "no wgpu analog for this family"})
			log.Warn("backend: GPU family disqualified", "family", fam, "reason", "no wgpu analog")
			continue
		}

		adapter, err := gpucore.OpenWGPUAdapter(bit, "tonalcore-probe-"+fam.String())
		if err != nil {
			d.candidates = append(d.candidates, candidateResult{family: fam, reason: err.Error()})
			log.Warn("backend: GPU family disqualified", "family", fam, "reason", err)
			continue
		}
		if !adapter.SupportsCompute() {
			adapter.Close()
			d.candidates = append(d.candidates, candidateResult{family: fam, reason: "compute shaders not supported"})
			log.Warn("backend: GPU family disqualified", "family", fam, "reason", "compute shaders not supported")
			continue
		}

		gpuDuration, err := benchmarkGPU(adapter)
		if err != nil {
			adapter.Close()
			d.candidates = append(d.candidates, candidateResult{family: fam, reason: err.Error()})
			log.Warn("backend: GPU family disqualified", "family", fam, "reason", err)
			continue
		}

		d.candidates = append(d.candidates, candidateResult{family: fam, available: true})
		log.Info("backend: GPU family measured", "family", fam, "duration", gpuDuration)
		probed = append(probed, probedFamily{family: fam, adapter: adapter, duration: gpuDuration})
	}

	if len(probed) == 0 {
		log.Info("backend: no GPU family available, using CPU")
		return d
	}

	best := probed[0]
	for _, p := range probed[1:] {
		if p.duration < best.duration {
			best = p
		}
	}
	for _, p := range probed {
		if p.family != best.family {
			p.adapter.Close()
		}
	}

	if float64(best.duration) < float64(cpuDuration)*gpuAdvantageThreshold {
		d.UseGPU = true
		d.Family = best.family
		d.Adapter = best.adapter
		log.Info("backend: selected GPU family", "family", best.family, "duration", best.duration)
		tonalcore.RegisterWorkingImageFactory(tonalcore.MemoryGPU, tonalcore.NewGPUWorkingImageFactory(best.adapter))
		return d
	}

	best.adapter.Close()
	log.Info("backend: no GPU family beat the CPU baseline, using CPU")
	return d
}

// MemoryLocation reports the tonalcore.MemoryLocation this decision
// selected: MemoryGPU iff a GPU family was chosen, MemoryCPU otherwise
// (including a nil Decision, which a caller that skipped Decide should
// never pass, but is handled the same as the CPU result regardless).
func (d *Decision) MemoryLocation() tonalcore.MemoryLocation {
	if d != nil && d.UseGPU {
		return tonalcore.MemoryGPU
	}
	return tonalcore.MemoryCPU
}
