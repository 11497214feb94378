package operations

import "fmt"

// whitesOp implements p + v*mask_veryhigh(luma(p)), a tighter-banded
// sibling of Highlights.
type whitesOp struct{}

func init() {
	RegisterFusion(Whites, whitesOp{})
	RegisterFallback(Whites, whitesOp{})
}

func (whitesOp) CPUFragment(d Descriptor) CPUKernel {
	v := float32(d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskVeryHigh(luma(r, g, b))
		return r + m, g + m, b + m, a
	}
}

func (whitesOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(px.xyz + vec3<f32>(%s * tonal_mask_veryhigh(tonal_luma(px.xyz))), px.w);\n", wgslFloat(d.V()))
}

func (whitesOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	v := float32(d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskVeryHigh(luma(r, g, b))
		return r + m, g + m, b + m, a
	})
}
