package source

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/gogpu/tonalcore"
)

// FileProvider is the reference Provider implementation: it decodes and
// encodes PNG files via the standard image/png codec, generalizing the
// teacher's Pixmap uint8 RGBA conversion loops (FromImage/ToImage/SavePNG)
// to the CORE's float32 RGBA working format. A single mutex serializes
// Store against itself and against the path bookkeeping Load/Store share,
// satisfying the CORE's documented assumption that a Provider is
// internally thread-safe for concurrent Store calls.
type FileProvider struct {
	mu       sync.Mutex
	lastPath string
	meta     map[string]string
}

// NewFileProvider returns a FileProvider with no metadata preset. Callers
// that want Metadata to resolve extra sidecar keys call SetMetadata after
// construction, before any concurrent use begins.
func NewFileProvider() *FileProvider {
	return &FileProvider{meta: make(map[string]string)}
}

// SetMetadata sets a key the Metadata accessor resolves. Not safe to call
// concurrently with Metadata; intended for setup before the provider is
// shared across goroutines.
func (p *FileProvider) SetMetadata(key, value string) {
	p.meta[key] = value
}

// Load implements Provider: it decodes path as a PNG and converts every
// pixel to a float32 RGBA PixelBuffer in [0, 1] range, normalizing 8-bit
// per-channel source data the way the teacher's Pixmap.FromImage loop
// normalizes into its own uint8 buffer, except the destination precision
// here is float32, not uint8.
func (p *FileProvider) Load(path string) (tonalcore.PixelBuffer, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided intentionally
	if err != nil {
		return tonalcore.PixelBuffer{}, fmt.Errorf("source: %w: %v", tonalcore.ErrIO, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return tonalcore.PixelBuffer{}, fmt.Errorf("source: %w: %v", tonalcore.ErrDecoding, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := tonalcore.NewPixelBuffer(w, h, tonalcore.LayoutRGBAF32)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			i := (y*w + x) * 4
			buf.Pixels[i+0] = float32(c.R) / 65535
			buf.Pixels[i+1] = float32(c.G) / 65535
			buf.Pixels[i+2] = float32(c.B) / 65535
			buf.Pixels[i+3] = float32(c.A) / 65535
		}
	}

	p.mu.Lock()
	p.lastPath = path
	p.mu.Unlock()

	return buf, nil
}

// Store implements Provider: it encodes raster back to an 8-bit PNG at the
// path most recently passed to Load, clamping each float32 channel to
// [0, 1] before quantizing (the inverse of Load's normalization).
func (p *FileProvider) Store(raster tonalcore.PixelBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	path := p.lastPath
	if path == "" {
		return fmt.Errorf("source: %w: Store called before any Load", tonalcore.ErrIO)
	}
	return p.StoreAs(path, raster)
}

// StoreAs encodes raster to path directly, independent of whatever path a
// prior Load used. It is not part of the Provider interface — the CORE
// only ever calls Store, which always commits back to the original
// source — but is useful to a caller (such as cmd/tonaldemo) that wants to
// export a working image to a new file without overwriting the source.
func (p *FileProvider) StoreAs(path string, raster tonalcore.PixelBuffer) error {
	if err := raster.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, raster.W, raster.H))
	for y := 0; y < raster.H; y++ {
		for x := 0; x < raster.W; x++ {
			px := raster.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: clampToByte(px[0]),
				G: clampToByte(px[1]),
				B: clampToByte(px[2]),
				A: clampToByte(px[3]),
			})
		}
	}

	f, err := os.Create(path) //nolint:gosec // path is caller-provided intentionally
	if err != nil {
		return fmt.Errorf("source: %w: %v", tonalcore.ErrIO, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("source: %w: %v", tonalcore.ErrIO, err)
	}
	return nil
}

// Metadata implements Provider.
func (p *FileProvider) Metadata(key string) (string, bool) {
	v, ok := p.meta[key]
	return v, ok
}

func clampToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
