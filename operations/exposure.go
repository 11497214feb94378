package operations

import (
	"fmt"
	"math"
)

// exposureOp implements p * 2^v, the standard photographic stops formula.
type exposureOp struct{}

func init() {
	RegisterFusion(Exposure, exposureOp{})
	RegisterFallback(Exposure, exposureOp{})
}

func (exposureOp) CPUFragment(d Descriptor) CPUKernel {
	factor := float32(math.Pow(2, d.V()))
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		return r * factor, g * factor, b * factor, a
	}
}

func (exposureOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(px.xyz * pow(2.0, %s), px.w);\n", wgslFloat(d.V()))
}

func (exposureOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	factor := float32(math.Pow(2, d.V()))
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		return r * factor, g * factor, b * factor, a
	})
}
