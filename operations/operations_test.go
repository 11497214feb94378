package operations

import (
	"context"
	"log/slog"
	"testing"

	"github.com/gogpu/tonalcore"
)

// recordingHandler captures slog records for assertions instead of writing
// them anywhere; used to verify that Descriptor.V logs a warning when it
// clamps, per spec §4.3's "clamp it, logging a warning" contract.
type recordingHandler struct {
	records *[]slog.Record
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

// withRecordingLogger installs a recording logger for the duration of the
// test and returns the slice its records land in.
func withRecordingLogger(t *testing.T) *[]slog.Record {
	t.Helper()
	records := &[]slog.Record{}
	tonalcore.SetLogger(slog.New(recordingHandler{records: records}))
	t.Cleanup(func() { tonalcore.SetLogger(nil) })
	return records
}

func approxEqual(t *testing.T, got, want, tolerance float32) {
	t.Helper()
	d := got - want
	if d < 0 {
		d = -d
	}
	if d > tolerance {
		t.Errorf("got %v, want %v (tolerance %v)", got, want, tolerance)
	}
}

func applyFallback(t *testing.T, kind Kind, v float64, pixels []float32, channels int) {
	t.Helper()
	frag, ok := Fallback(kind)
	if !ok {
		t.Fatalf("no fallback fragment registered for %s", kind)
	}
	frag.ApplyFallback(NewDescriptor(kind, v), pixels, channels)
}

func TestBrightnessFormula(t *testing.T) {
	px := []float32{0.2, 0.4, 0.6, 1.0}
	applyFallback(t, Brightness, 0.25, px, 4)
	want := [4]float32{0.45, 0.65, 0.85, 1.0}
	for i, w := range want {
		approxEqual(t, px[i], w, 1e-5)
	}
}

func TestBrightnessThenContrast(t *testing.T) {
	px := []float32{0.4, 0.5, 0.6, 1.0}
	applyFallback(t, Brightness, 0.1, px, 4)
	applyFallback(t, Contrast, 1.5, px, 4)
	want := [4]float32{0.5, 0.75, 1.0, 1.0}
	for i, w := range want {
		approxEqual(t, px[i], w, 1e-5)
	}
}

func TestContrastFormula(t *testing.T) {
	px := []float32{0.4, 0.5, 0.6, 1.0}
	applyFallback(t, Contrast, 1.5, px, 4)
	want := [4]float32{0.25, 0.5, 0.75, 1.0}
	for i, w := range want {
		approxEqual(t, px[i], w, 1e-5)
	}
}

func TestExposureNoOpAtDefault(t *testing.T) {
	r, ok := RangeFor(Exposure)
	if !ok || r.Default != 0 {
		t.Fatalf("Exposure default should be 0, got %+v", r)
	}
	px := []float32{0.3, 0.5, 0.7, 1.0}
	applyFallback(t, Exposure, r.Default, px, 4)
	want := [4]float32{0.3, 0.5, 0.7, 1.0}
	for i, w := range want {
		approxEqual(t, px[i], w, 1e-6)
	}
}

func TestExposureStops(t *testing.T) {
	px := []float32{0.1, 0.2, 0.3, 1.0}
	applyFallback(t, Exposure, 1, px, 4)
	want := [4]float32{0.2, 0.4, 0.6, 1.0}
	for i, w := range want {
		approxEqual(t, px[i], w, 1e-5)
	}
}

func TestSaturationNoChangeAtZero(t *testing.T) {
	px := []float32{0.1, 0.8, 0.3, 1.0}
	orig := append([]float32(nil), px...)
	applyFallback(t, Saturation, 0, px, 4)
	for i := range orig {
		approxEqual(t, px[i], orig[i], 1e-6)
	}
}

func TestHighlightsAffectsBrightPixelsOnly(t *testing.T) {
	bright := []float32{0.9, 0.9, 0.9, 1.0}
	dark := []float32{0.05, 0.05, 0.05, 1.0}
	applyFallback(t, Highlights, 0.5, bright, 4)
	applyFallback(t, Highlights, 0.5, dark, 4)
	if bright[0] <= 0.9 {
		t.Errorf("expected highlights to brighten a bright pixel, got %v", bright[0])
	}
	approxEqual(t, dark[0], 0.05, 1e-6)
}

func TestShadowsAffectsDarkPixelsOnly(t *testing.T) {
	bright := []float32{0.95, 0.95, 0.95, 1.0}
	dark := []float32{0.05, 0.05, 0.05, 1.0}
	applyFallback(t, Shadows, 0.5, bright, 4)
	applyFallback(t, Shadows, 0.5, dark, 4)
	approxEqual(t, bright[0], 0.95, 1e-6)
	if dark[0] <= 0.05 {
		t.Errorf("expected shadows to brighten a dark pixel, got %v", dark[0])
	}
}

func TestWhitesTighterThanHighlights(t *testing.T) {
	mid := luma(0.75, 0.75, 0.75)
	if maskVeryHigh(mid) >= maskHigh(mid) {
		t.Errorf("expected Whites' band to affect 0.75 luma less than Highlights: veryhigh=%v high=%v", maskVeryHigh(mid), maskHigh(mid))
	}
}

func TestBlacksTighterThanShadows(t *testing.T) {
	mid := luma(0.25, 0.25, 0.25)
	if maskVeryLow(mid) >= maskLow(mid) {
		t.Errorf("expected Blacks' band to affect 0.25 luma less than Shadows: verylow=%v low=%v", maskVeryLow(mid), maskLow(mid))
	}
}

func TestDescriptorClampsOutOfRange(t *testing.T) {
	d := NewDescriptor(Brightness, 3.0)
	approxEqual(t, float32(d.V()), 1.0, 1e-9)
}

func TestDescriptorVClampsAndLogsRegardlessOfConstructionPath(t *testing.T) {
	records := withRecordingLogger(t)

	// Constructed directly, bypassing NewDescriptor entirely (the shape
	// Manager.Modify accepts) — V must still clamp.
	d := Descriptor{Kind: Contrast, Params: map[string]Value{"v": Float(5.0)}}
	approxEqual(t, float32(d.V()), 2.0, 1e-9)

	if len(*records) == 0 {
		t.Fatal("expected a warning logged when V clamps an out-of-range value")
	}
	last := (*records)[len(*records)-1]
	if last.Level != slog.LevelWarn {
		t.Errorf("expected clamp warning at LevelWarn, got %v", last.Level)
	}
}

func TestDescriptorVDoesNotLogWhenInRange(t *testing.T) {
	records := withRecordingLogger(t)

	d := NewDescriptor(Brightness, 0.5)
	_ = d.V()

	if len(*records) != 0 {
		t.Errorf("expected no warning for an in-range value, got %d record(s)", len(*records))
	}
}

func TestIsNoOpDoesNotLogAClampWarning(t *testing.T) {
	records := withRecordingLogger(t)

	d := Descriptor{Kind: Brightness, Params: map[string]Value{"v": Float(9.0)}}
	if d.IsNoOp() {
		t.Error("an out-of-range value must not be reported as a no-op")
	}
	if len(*records) != 0 {
		t.Errorf("IsNoOp must not trigger V's clamp-warning logging, got %d record(s)", len(*records))
	}
}

func TestDescriptorTypedAccessorsNeverPanic(t *testing.T) {
	d := Descriptor{Kind: Brightness, Params: map[string]Value{}}
	if d.Float("v", 7) != 7 {
		t.Errorf("expected default on missing float param")
	}
	if d.Int("n", 9) != 9 {
		t.Errorf("expected default on missing int param")
	}
	if d.Bool("b", true) != true {
		t.Errorf("expected default on missing bool param")
	}
	if d.String("s", "x") != "x" {
		t.Errorf("expected default on missing string param")
	}
}

func TestEveryKindEmitsNonEmptyWGSLFragment(t *testing.T) {
	for _, kind := range AllKinds {
		frag, ok := Fusion(kind)
		if !ok {
			t.Fatalf("no fusion fragment registered for %s", kind)
		}
		src := frag.WGSLFragment(NewDescriptor(kind, 0.5))
		if src == "" {
			t.Errorf("%s: empty WGSL fragment", kind)
		}
	}
}
