package operations

import "fmt"

// brightnessOp implements p + v.
type brightnessOp struct{}

func init() {
	RegisterFusion(Brightness, brightnessOp{})
	RegisterFallback(Brightness, brightnessOp{})
}

func (brightnessOp) CPUFragment(d Descriptor) CPUKernel {
	v := float32(d.V())
	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		return r + v, g + v, b + v, a
	}
}

func (brightnessOp) WGSLFragment(d Descriptor) string {
	return fmt.Sprintf("px = vec4<f32>(px.xyz + vec3<f32>(%s), px.w);\n", wgslFloat(d.V()))
}

func (brightnessOp) ApplyFallback(d Descriptor, pixels []float32, channels int) {
	v := float32(d.V())
	forEachPixel(pixels, channels, func(r, g, b, a float32) (float32, float32, float32, float32) {
		return r + v, g + v, b + v, a
	})
}
