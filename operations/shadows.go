package operations

import "fmt"

// shadowsOp implements p + v*mask_low(luma(p)).
type shadowsOp struct{}

func init() {
	RegisterFusion(Shadows, shadowsOp{})
	RegisterFallback(Shadows, shadowsOp{})
}

func (shadowsOp) CPUFragment(d Descriptor) CPUKernel {
	v := float32(d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskLow(luma(r, g, b))
		return r + m, g + m, b + m, a
	}
}

func (shadowsOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(px.xyz + vec3<f32>(%s * tonal_mask_low(tonal_luma(px.xyz))), px.w);\n", wgslFloat(d.V()))
}

func (shadowsOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	v := float32(d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		m := v * maskLow(luma(r, g, b))
		return r + m, g + m, b + m, a
	})
}
