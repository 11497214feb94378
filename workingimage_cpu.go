package tonalcore

import "fmt"

// cpuWorkingImage is the host-RAM WorkingImage variant. Its backing storage
// is a plain []float32; UpdateFrom(ByMove) takes ownership of the source
// buffer's slice directly instead of copying it.
type cpuWorkingImage struct {
	w, h, channels int
	valid          bool
	pixels         []float32
}

func newCPUWorkingImage(buf PixelBuffer) (WorkingImage, error) {
	img := &cpuWorkingImage{}
	if err := img.UpdateFrom(buf, ByCopy); err != nil {
		return nil, err
	}
	return img, nil
}

// UpdateFrom implements WorkingImage.
func (img *cpuWorkingImage) UpdateFrom(buf PixelBuffer, mode CopyMode) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("cpuWorkingImage.UpdateFrom: %w", err)
	}
	img.w, img.h, img.channels = buf.W, buf.H, buf.ChannelCount
	if mode == ByMove {
		img.pixels = buf.Pixels
	} else {
		img.pixels = make([]float32, len(buf.Pixels))
		copy(img.pixels, buf.Pixels)
	}
	img.valid = true
	return nil
}

// ExportCPUCopy implements WorkingImage.
func (img *cpuWorkingImage) ExportCPUCopy() (PixelBuffer, error) {
	if !img.valid {
		return PixelBuffer{}, fmt.Errorf("cpuWorkingImage.ExportCPUCopy: %w", ErrInvalidWorkingImage)
	}
	out := PixelBuffer{
		W:            img.w,
		H:            img.h,
		ChannelCount: img.channels,
		Layout:       LayoutRGBAF32,
		Pixels:       make([]float32, len(img.pixels)),
	}
	copy(out.Pixels, img.pixels)
	return out, nil
}

// ExportCPUShared implements CPUSharedExporter: returns a PixelBuffer that
// aliases this image's own backing array. Callers must not mutate it and
// must not retain it across a subsequent UpdateFrom.
func (img *cpuWorkingImage) ExportCPUShared() (PixelBuffer, error) {
	if !img.valid {
		return PixelBuffer{}, fmt.Errorf("cpuWorkingImage.ExportCPUShared: %w", ErrInvalidWorkingImage)
	}
	return PixelBuffer{
		W:            img.w,
		H:            img.h,
		ChannelCount: img.channels,
		Layout:       LayoutRGBAF32,
		Pixels:       img.pixels,
	}, nil
}

func (img *cpuWorkingImage) Size() (int, int)        { return img.w, img.h }
func (img *cpuWorkingImage) Channels() int           { return img.channels }
func (img *cpuWorkingImage) PixelCount() int         { return img.w * img.h }
func (img *cpuWorkingImage) ElementCount() int       { return len(img.pixels) }
func (img *cpuWorkingImage) IsValid() bool           { return img.valid }
func (img *cpuWorkingImage) MemoryLocation() MemoryLocation { return MemoryCPU }

// RawKernelHandle implements KernelAccessible. The returned handle aliases
// img.pixels directly; the fused CPU executor realizes into it in place,
// which is safe because the executor is the sole writer for the duration
// of a single Execute call.
func (img *cpuWorkingImage) RawKernelHandle() (KernelHandle, error) {
	if !img.valid {
		return KernelHandle{}, fmt.Errorf("cpuWorkingImage.RawKernelHandle: %w", ErrInvalidWorkingImage)
	}
	return KernelHandle{
		W: img.w, H: img.h, Channels: img.channels,
		Location: MemoryCPU,
		CPU:      img.pixels,
	}, nil
}
