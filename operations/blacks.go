package operations

import "fmt"

// blacksOp implements p + v*mask_verylow(luma(p)), a tighter-banded
// sibling of Shadows.
type blacksOp struct{}

func init() {
	RegisterFusion(Blacks, blacksOp{})
	RegisterFallback(Blacks, blacksOp{})
}

func (blacksOp) CPUFragment(d Descriptor) CPUKernel {
	v := float32(d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskVeryLow(luma(r, g, b))
		return r + m, g + m, b + m, a
	}
}

func (blacksOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(px.xyz + vec3<f32>(%s * tonal_mask_verylow(tonal_luma(px.xyz))), px.w);\n", wgslFloat(d.V()))
}

func (blacksOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	v := float32(d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskVeryLow(luma(r, g, b))
		return r + m, g + m, b + m, a
	})
}
