package operations

import "fmt"

// contrastOp implements 0.5 + (p-0.5)*(1+v).
type contrastOp struct{}

func init() {
	RegisterFusion(Contrast, contrastOp{})
	RegisterFallback(Contrast, contrastOp{})
}

func (contrastOp) CPUFragment(d Descriptor) CPUKernel {
	factor := float32(1 + d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		return 0.5 + (r-0.5)*factor, 0.5 + (g-0.5)*factor, 0.5 + (b-0.5)*factor, a
	}
}

func (contrastOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(0.5 + (px.xyz - 0.5) * %s, px.w);\n", wgslFloat(1+d.V()))
}

func (contrastOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	factor := float32(1 + d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		return 0.5 + (r-0.5)*factor, 0.5 + (g-0.5)*factor, 0.5 + (b-0.5)*factor, a
	})
}
