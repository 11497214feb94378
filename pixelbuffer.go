package tonalcore

import "fmt"

// ChannelLayout tags the channel arrangement and element type of a
// PixelBuffer. The core only ever produces and consumes RGBAF32 internally;
// other tags exist so the type can describe buffers handed in by an
// external source provider before they are normalized.
type ChannelLayout int

const (
	// LayoutRGBAF32 is 4 channels (R, G, B, A) of float32, the working
	// format for every PixelBuffer that reaches a WorkingImage.
	LayoutRGBAF32 ChannelLayout = iota
	// LayoutRGBF32 is 3 channels (R, G, B) of float32, no alpha.
	LayoutRGBF32
)

// String returns a human-readable name for the layout.
func (l ChannelLayout) String() string {
	switch l {
	case LayoutRGBAF32:
		return "RGBAF32"
	case LayoutRGBF32:
		return "RGBF32"
	default:
		return "Unknown"
	}
}

// ChannelCount returns the number of channels implied by the layout.
func (l ChannelLayout) ChannelCount() int {
	switch l {
	case LayoutRGBF32:
		return 3
	default:
		return 4
	}
}

// PixelBuffer is a rectangular, row-major float32 pixel buffer. It is a
// value type: copying a PixelBuffer copies the header but shares the
// backing Pixels slice, so callers that need an independent copy must call
// Clone explicitly.
//
// Invariant: len(Pixels) == W*H*ChannelCount. A buffer violating this is
// considered invalid; Validate reports ErrInvalidBuffer.
type PixelBuffer struct {
	X, Y         int
	W, H         int
	ChannelCount int
	Layout       ChannelLayout
	Pixels       []float32
}

// NewPixelBuffer allocates a zeroed PixelBuffer of the given extent and
// layout, with channel count derived from layout.
func NewPixelBuffer(w, h int, layout ChannelLayout) PixelBuffer {
	cc := layout.ChannelCount()
	return PixelBuffer{
		W:            w,
		H:            h,
		ChannelCount: cc,
		Layout:       layout,
		Pixels:       make([]float32, w*h*cc),
	}
}

// Validate reports ErrInvalidBuffer if the buffer's element count does not
// match its geometric extent.
func (b PixelBuffer) Validate() error {
	if b.W < 0 || b.H < 0 || b.ChannelCount <= 0 {
		return fmt.Errorf("%w: negative or zero dimension (w=%d h=%d c=%d)", ErrInvalidBuffer, b.W, b.H, b.ChannelCount)
	}
	want := b.W * b.H * b.ChannelCount
	if len(b.Pixels) != want {
		return fmt.Errorf("%w: have %d elements, want %d (%dx%dx%d)", ErrInvalidBuffer, len(b.Pixels), want, b.W, b.H, b.ChannelCount)
	}
	return nil
}

// PixelCount returns W*H.
func (b PixelBuffer) PixelCount() int { return b.W * b.H }

// ElementCount returns len(Pixels).
func (b PixelBuffer) ElementCount() int { return len(b.Pixels) }

// At returns the channel values for pixel (x, y) as a 4-float array. For
// LayoutRGBF32 buffers, the alpha slot is always 1.
func (b PixelBuffer) At(x, y int) [4]float32 {
	i := (y*b.W + x) * b.ChannelCount
	var px [4]float32
	px[3] = 1
	for c := 0; c < b.ChannelCount && c < 4; c++ {
		px[c] = b.Pixels[i+c]
	}
	return px
}

// Set writes the channel values for pixel (x, y), ignoring channels beyond
// the buffer's ChannelCount.
func (b PixelBuffer) Set(x, y int, px [4]float32) {
	i := (y*b.W + x) * b.ChannelCount
	for c := 0; c < b.ChannelCount && c < 4; c++ {
		b.Pixels[i+c] = px[c]
	}
}

// Clone returns a PixelBuffer with its own copy of the backing storage.
func (b PixelBuffer) Clone() PixelBuffer {
	out := b
	out.Pixels = make([]float32, len(b.Pixels))
	copy(out.Pixels, b.Pixels)
	return out
}

// EqualWithin reports whether two buffers have the same extent and every
// element differs by no more than tolerance.
func (b PixelBuffer) EqualWithin(other PixelBuffer, tolerance float32) bool {
	if b.W != other.W || b.H != other.H || b.ChannelCount != other.ChannelCount {
		return false
	}
	if len(b.Pixels) != len(other.Pixels) {
		return false
	}
	for i, v := range b.Pixels {
		d := v - other.Pixels[i]
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			return false
		}
	}
	return true
}
