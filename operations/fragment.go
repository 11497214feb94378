package operations

// CPUKernel transforms one RGBA pixel. Fused CPU execution chains one
// CPUKernel per enabled operation into a single closure run once per
// pixel, instead of one full buffer pass per operation.
type CPUKernel func(r, g, b, a float32) (float32, float32, float32, float32)

// FusionFragment is the backend-polymorphic facet of an operation: it
// contributes to a single fused kernel rather than running as its own
// pass, on both the CPU and GPU backends.
type FusionFragment interface {
	// CPUFragment returns the per-pixel closure for this Descriptor's
	// parameters, to be chained into the fused CPU kernel.
	CPUFragment(d Descriptor) CPUKernel

	// WGSLFragment returns the WGSL statements to splice into the fused
	// GPU kernel's body for this Descriptor's parameters. The fragment may
	// assume a vec4<f32> named "px" holds the current pixel and must leave
	// the result in "px" when it returns; helper functions it depends on
	// (luma, masks) are emitted once by the pipeline builder, not per
	// fragment.
	WGSLFragment(d Descriptor) string
}

// FallbackFragment is the backend-independent facet of an operation: a
// standalone, sequential pass over an entire buffer. Used when a fused
// executor is unavailable or when a Kind has no FusionFragment registered.
type FallbackFragment interface {
	// ApplyFallback mutates pixels in place according to d's parameters.
	ApplyFallback(d Descriptor, pixels []float32, channels int)
}

var (
	fusionRegistry   = map[Kind]FusionFragment{}
	fallbackRegistry = map[Kind]FallbackFragment{}
)

// RegisterFusion registers the FusionFragment for kind. Built-in kinds
// register themselves via init(); a caller may register a custom Kind the
// same way.
func RegisterFusion(kind Kind, frag FusionFragment) {
	fusionRegistry[kind] = frag
}

// RegisterFallback registers the FallbackFragment for kind.
func RegisterFallback(kind Kind, frag FallbackFragment) {
	fallbackRegistry[kind] = frag
}

// Fusion looks up the registered FusionFragment for kind.
func Fusion(kind Kind) (FusionFragment, bool) {
	f, ok := fusionRegistry[kind]
	return f, ok
}

// Fallback looks up the registered FallbackFragment for kind.
func Fallback(kind Kind) (FallbackFragment, bool) {
	f, ok := fallbackRegistry[kind]
	return f, ok
}
