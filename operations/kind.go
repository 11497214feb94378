package operations

// Kind identifies a tonal adjustment operation. The set is closed: a new
// operation requires a new Kind constant plus range table and registry
// entries, the same way the teacher's rasterizer-mode constants are a
// closed, enumerable set.
type Kind int

const (
	Exposure Kind = iota
	Brightness
	Contrast
	Highlights
	Shadows
	Whites
	Blacks
	Saturation
)

// String returns the operation's canonical name, used as part of the fused
// GPU kernel's cache-key signature and in log output.
func (k Kind) String() string {
	switch k {
	case Exposure:
		return "Exposure"
	case Brightness:
		return "Brightness"
	case Contrast:
		return "Contrast"
	case Highlights:
		return "Highlights"
	case Shadows:
		return "Shadows"
	case Whites:
		return "Whites"
	case Blacks:
		return "Blacks"
	case Saturation:
		return "Saturation"
	default:
		return "Unknown"
	}
}

// AllKinds lists every built-in Kind, in the canonical application order a
// Descriptor list is composed in.
var AllKinds = []Kind{Exposure, Brightness, Contrast, Highlights, Shadows, Whites, Blacks, Saturation}
