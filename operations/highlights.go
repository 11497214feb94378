package operations

import "fmt"

// highlightsOp implements p + v*mask_high(luma(p)).
type highlightsOp struct{}

func init() {
	RegisterFusion(Highlights, highlightsOp{})
	RegisterFallback(Highlights, highlightsOp{})
}

func (highlightsOp) CPUFragment(d Descriptor) CPUKernel {
	v := float32(d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskHigh(luma(r, g, b))
		return r + m, g + m, b + m, a
	}
}

func (highlightsOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(px.xyz + vec3<f32>(%s * tonal_mask_high(tonal_luma(px.xyz))), px.w);\n", wgslFloat(d.V()))
}

func (highlightsOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	v := float32(d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskHigh(luma(r, g, b))
		return r + m, g + m, b + m, a
	})
}
