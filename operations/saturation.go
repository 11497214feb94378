package operations

import "fmt"

// saturationOp implements luma + (p-luma)*(1+v): scale each channel's
// distance from the pixel's own luma.
type saturationOp struct{}

func init() {
	RegisterFusion(Saturation, saturationOp{})
	RegisterFallback(Saturation, saturationOp{})
}

func (saturationOp) CPUFragment(d Descriptor) CPUKernel {
	factor := float32(1 + d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		l := luma(r, g, b)
		return l + (r-l)*factor, l + (g-l)*factor, l + (b-l)*factor, a
	}
}

func (saturationOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf(
		"{ let l = tonal_luma(px.xyz); px = vec4<f32>(l + (px.xyz - l) * %s, px.w); }\n",
		wgslFloat(1+d.V()),
	)
}

func (saturationOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	factor := float32(1 + d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		l := luma(r, g, b)
		return l + (r-l)*factor, l + (g-l)*factor, l + (b-l)*factor, a
	})
}
