package pipeline

import (
	"fmt"
	"strings"

	"github.com/gogpu/tonalcore/operations"
)

// wgslPreamble is prefixed once onto a fused GPU kernel, supplying the
// luma and mask helper functions the operation fragments call into, so no
// individual fragment needs to emit its own copy.
const wgslPreamble = `
@group(0) @binding(0) var<storage, read_write> pixels: array<f32>;

fn tonal_luma(c: vec3<f32>) -> f32 {
	return 0.299 * c.x + 0.587 * c.y + 0.114 * c.z;
}

fn tonal_ramp(lo: f32, hi: f32, x: f32) -> f32 {
	if (hi == lo) {
		if (x < lo) { return 0.0; }
		return 1.0;
	}
	return clamp((x - lo) / (hi - lo), 0.0, 1.0);
}

fn tonal_mask_high(l: f32) -> f32 { return tonal_ramp(0.2, 0.8, l); }
fn tonal_mask_low(l: f32) -> f32 { return 1.0 - tonal_ramp(0.0, 0.5, l); }
fn tonal_mask_veryhigh(l: f32) -> f32 { return tonal_ramp(0.7, 1.0, l); }
fn tonal_mask_verylow(l: f32) -> f32 { return 1.0 - tonal_ramp(0.0, 0.3, l); }
`

// wgslEntryHeaderFmt wraps the concatenated per-operation fragments into
// the kernel's compute entry point. Each pixel is 4 contiguous floats
// (RGBA), always true by the time a buffer reaches the GPU variant.
const wgslEntryHeaderFmt = `
@compute @workgroup_size(16, 16, 1)
fn tonal_main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let width = %du;
	let height = %du;
	if (gid.x >= width || gid.y >= height) {
		return;
	}
	let base = (gid.y * width + gid.x) * 4u;
	var px = vec4<f32>(pixels[base], pixels[base+1u], pixels[base+2u], pixels[base+3u]);
`

const wgslEntryFooter = `
	pixels[base] = px.x;
	pixels[base+1u] = px.y;
	pixels[base+2u] = px.z;
	pixels[base+3u] = px.w;
}
`

// buildWGSL concatenates every descriptor's WGSL fragment into one compute
// shader operating on a single read-write storage buffer. Returns
// ErrMissingFusionFragment (via errMissingFusion) if any descriptor has no
// registered FusionFragment.
func buildWGSL(descriptors []operations.Descriptor, width, height int) (string, error) {
	var body strings.Builder
	body.WriteString(wgslPreamble)
	body.WriteString(fmt.Sprintf(wgslEntryHeaderFmt, width, height))

	for _, d := range descriptors {
		frag, ok := operations.Fusion(d.Kind)
		if !ok {
			return "", errMissingFusion(d.Kind)
		}
		body.WriteString(frag.WGSLFragment(d))
	}

	body.WriteString(wgslEntryFooter)
	return body.String(), nil
}
