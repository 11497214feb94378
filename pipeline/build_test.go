package pipeline

import (
	"context"
	"testing"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/operations"
)

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

func sourceBuffer() tonalcore.PixelBuffer {
	buf := tonalcore.NewPixelBuffer(2, 1, tonalcore.LayoutRGBAF32)
	copy(buf.Pixels, []float32{0.2, 0.4, 0.6, 1.0, 0.8, 0.1, 0.5, 1.0})
	return buf
}

func newCPUImage(t *testing.T) tonalcore.WorkingImage {
	t.Helper()
	img, err := tonalcore.NewWorkingImage(tonalcore.MemoryCPU, sourceBuffer())
	if err != nil {
		t.Fatalf("NewWorkingImage: %v", err)
	}
	return img
}

func TestBuildEmptyListReturnsNil(t *testing.T) {
	exec, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if exec != nil {
		t.Errorf("expected a nil executor for an empty operation list, got %v", exec.Kind())
	}
}

func TestFusedCPUMatchesFallback(t *testing.T) {
	descriptors := []operations.Descriptor{
		operations.NewDescriptor(operations.Brightness, 0.1),
		operations.NewDescriptor(operations.Contrast, 1.5),
		operations.NewDescriptor(operations.Highlights, 0.3),
	}

	fused, err := Build(descriptors, nil)
	if err != nil {
		t.Fatalf("Build fused: %v", err)
	}
	if fused.Kind() != "fused-cpu" {
		t.Fatalf("expected fused-cpu executor, got %s", fused.Kind())
	}
	fusedImg := newCPUImage(t)
	if err := fused.Execute(context.Background(), fusedImg); err != nil {
		t.Fatalf("fused Execute: %v", err)
	}
	fusedBuf, err := fusedImg.ExportCPUCopy()
	if err != nil {
		t.Fatalf("ExportCPUCopy: %v", err)
	}

	fallback := newFallbackExecutor(descriptors)
	fallbackImg := newCPUImage(t)
	if err := fallback.Execute(context.Background(), fallbackImg); err != nil {
		t.Fatalf("fallback Execute: %v", err)
	}
	fallbackBuf, err := fallbackImg.ExportCPUCopy()
	if err != nil {
		t.Fatalf("ExportCPUCopy: %v", err)
	}

	if !fusedBuf.EqualWithin(fallbackBuf, 1e-5) {
		t.Errorf("fused and fallback diverged:\nfused=%v\nfallback=%v", fusedBuf.Pixels, fallbackBuf.Pixels)
	}
}

func TestFusedExecuteIsIdempotent(t *testing.T) {
	descriptors := []operations.Descriptor{operations.NewDescriptor(operations.Brightness, 0.1)}
	exec, err := Build(descriptors, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	img1 := newCPUImage(t)
	img2 := newCPUImage(t)
	if err := exec.Execute(context.Background(), img1); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if err := exec.Execute(context.Background(), img2); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	buf1, _ := img1.ExportCPUCopy()
	buf2, _ := img2.ExportCPUCopy()
	if !buf1.EqualWithin(buf2, 1e-6) {
		t.Errorf("two Execute calls on the same executor with the same input diverged")
	}
}

func TestNoOpDescriptorLeavesImageUnchanged(t *testing.T) {
	descriptors := []operations.Descriptor{
		operations.NewDescriptor(operations.Brightness, 0.0),
		operations.NewDescriptor(operations.Contrast, 1.0),
	}
	exec, err := Build(descriptors, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img := newCPUImage(t)
	if err := exec.Execute(context.Background(), img); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	buf, _ := img.ExportCPUCopy()
	src := sourceBuffer()
	if !buf.EqualWithin(src, 0) {
		t.Errorf("no-op descriptors altered the image: got %v, want %v", buf.Pixels, src.Pixels)
	}
}

func TestDisabledDescriptorIsSkipped(t *testing.T) {
	d := operations.NewDescriptor(operations.Brightness, 0.5)
	d.Enabled = false
	exec, err := Build([]operations.Descriptor{d}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img := newCPUImage(t)
	if err := exec.Execute(context.Background(), img); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	buf, _ := img.ExportCPUCopy()
	src := sourceBuffer()
	if !buf.EqualWithin(src, 0) {
		t.Errorf("a disabled descriptor must be observationally identical to not appending anything")
	}
}

func TestOutOfRangeClampsBeforeFusion(t *testing.T) {
	clamped := operations.NewDescriptor(operations.Brightness, 3.0)
	exec, err := Build([]operations.Descriptor{clamped}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img := newCPUImage(t)
	if err := exec.Execute(context.Background(), img); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	buf, _ := img.ExportCPUCopy()
	want := []float32{1.2, 1.4, 1.6, 1.0, 1.8, 1.1, 1.5, 1.0}
	for i, w := range want {
		approxEqual(t, buf.Pixels[i], w, 1e-5)
	}
}

// fusionOnlyOp is a synthetic operation registered only in this test file's
// init, implementing FusionFragment but not FallbackFragment, to exercise
// the builder/executor error paths for an operation that is legally
// defined on only one facet (spec §4.3's open registry contract).
type fusionOnlyOp struct{}

const fusionOnlyKind operations.Kind = 100

func init() {
	operations.RegisterRange(fusionOnlyKind, operations.Range{Min: -1, Max: 1, Default: 0})
	operations.RegisterFusion(fusionOnlyKind, fusionOnlyOp{})
}

func (fusionOnlyOp) CPUFragment(d operations.Descriptor) operations.CPUKernel {
	v := float32(d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		return r + v, g + v, b + v, a
	}
}

func (fusionOnlyOp) WGSLFragment(d operations.Descriptor) string {
	return "px = px;\n"
}

func TestFallbackExecutorSkipsOperationMissingFallbackFragment(t *testing.T) {
	descriptors := []operations.Descriptor{operations.NewDescriptor(fusionOnlyKind, 0.5)}
	exec := newFallbackExecutor(descriptors)
	img := newCPUImage(t)
	if err := exec.Execute(context.Background(), img); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	buf, _ := img.ExportCPUCopy()
	src := sourceBuffer()
	if !buf.EqualWithin(src, 0) {
		t.Errorf("an operation with no fallback fragment must be skipped, not error, leaving the buffer untouched")
	}
}

func TestBuildDegradesToFallbackWhenFusionFragmentMissing(t *testing.T) {
	// A Kind with no FusionFragment registered at all (not fusionOnlyKind,
	// which does have one) must make buildFusedCPU fail with
	// ErrMissingFusionFragment so Build's degrade-to-fallback path has
	// something concrete to catch.
	const noFragmentKind operations.Kind = 101
	operations.RegisterRange(noFragmentKind, operations.Range{Min: -1, Max: 1, Default: 0})
	operations.RegisterFallback(noFragmentKind, fallbackOnlyOp{})

	descriptors := []operations.Descriptor{operations.NewDescriptor(noFragmentKind, 0.5)}
	exec, err := Build(descriptors, nil)
	if err != nil {
		t.Fatalf("Build should degrade to fallback, not error: %v", err)
	}
	if exec.Kind() != "fallback" {
		t.Errorf("expected Build to degrade to the fallback executor, got %s", exec.Kind())
	}
}

type fallbackOnlyOp struct{}

func (fallbackOnlyOp) ApplyFallback(d operations.Descriptor, pixels []float32, channels int) {
	v := float32(d.V())
	for i := 0; i+channels <= len(pixels); i += channels {
		pixels[i] += v
		pixels[i+1] += v
		pixels[i+2] += v
	}
}
