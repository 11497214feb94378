package operations

// Range describes the valid span and default of an operation's single
// numeric parameter "v" (for Exposure, the number of stops). Values outside
// [Min, Max] are clamped by Descriptor.V on every read, which also logs a
// warning through tonalcore.Logger, so clamping applies the same way no
// matter how the Descriptor was constructed.
type Range struct {
	Min, Max, Default float64
}

// Clamp restricts v to [r.Min, r.Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// ranges is the package-level table resolving every built-in Kind's
// parameter range, one entry per row of the formula table this package
// implements (Exposure through Saturation).
var ranges = map[Kind]Range{
	Exposure:   {Min: -3, Max: 3, Default: 0},
	Brightness: {Min: -1, Max: 1, Default: 0},
	Contrast:   {Min: 0, Max: 2, Default: 1},
	Highlights: {Min: -1, Max: 1, Default: 0},
	Shadows:    {Min: -1, Max: 1, Default: 0},
	Whites:     {Min: -1, Max: 1, Default: 0},
	Blacks:     {Min: -1, Max: 1, Default: 0},
	Saturation: {Min: -1, Max: 1, Default: 0},
}

// RangeFor returns the registered Range for kind, and false if kind has no
// registered range (true for every built-in Kind; a caller-supplied custom
// Kind must register its own via RegisterRange before use).
func RangeFor(kind Kind) (Range, bool) {
	r, ok := ranges[kind]
	return r, ok
}

// RegisterRange registers the parameter range for a custom operation Kind.
func RegisterRange(kind Kind, r Range) {
	ranges[kind] = r
}
