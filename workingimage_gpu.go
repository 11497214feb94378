package tonalcore

import (
	"fmt"
	"math"

	"github.com/gogpu/tonalcore/gpucore"
)

// gpuWorkingImage is the device-memory WorkingImage variant. Its primary
// storage is a gpucore storage buffer; a host mirror is kept only
// transiently, built on demand by ExportCPUCopy and discarded once read.
type gpuWorkingImage struct {
	adapter gpucore.DeviceAdapter

	w, h, channels int
	valid          bool
	buf            gpucore.BufferID
}

// NewGPUWorkingImageFactory returns a WorkingImageFactory backed by adapter.
// The backend decider registers this under MemoryGPU once it has chosen and
// initialized a GPU family; until then NewWorkingImage(MemoryGPU, ...)
// reports ErrUnexpected.
func NewGPUWorkingImageFactory(adapter gpucore.DeviceAdapter) WorkingImageFactory {
	return func(buf PixelBuffer) (WorkingImage, error) {
		img := &gpuWorkingImage{adapter: adapter}
		if err := img.UpdateFrom(buf, ByCopy); err != nil {
			return nil, err
		}
		return img, nil
	}
}

// UpdateFrom implements WorkingImage. mode is ignored beyond validation:
// device storage is always written by copy, since there is nothing to move
// a host slice into.
func (img *gpuWorkingImage) UpdateFrom(buf PixelBuffer, _ CopyMode) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("gpuWorkingImage.UpdateFrom: %w", err)
	}
	byteLen := len(buf.Pixels) * 4
	if img.buf != gpucore.InvalidID {
		img.adapter.DestroyBuffer(img.buf)
		img.buf = gpucore.InvalidID
	}
	id, err := img.adapter.CreateBuffer(byteLen, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc|gpucore.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("gpuWorkingImage.UpdateFrom: %w: %v", ErrDeviceTransferFailed, err)
	}
	img.adapter.WriteBuffer(id, 0, float32SliceToBytes(buf.Pixels))
	img.w, img.h, img.channels = buf.W, buf.H, buf.ChannelCount
	img.buf = id
	img.valid = true
	return nil
}

// ExportCPUCopy implements WorkingImage: it reads the device buffer back
// into a fresh host buffer, stalling on the GPU-CPU sync this requires.
func (img *gpuWorkingImage) ExportCPUCopy() (PixelBuffer, error) {
	if !img.valid {
		return PixelBuffer{}, fmt.Errorf("gpuWorkingImage.ExportCPUCopy: %w", ErrInvalidWorkingImage)
	}
	raw, err := img.adapter.ReadBuffer(img.buf, 0, uint64(img.ElementCount()*4))
	if err != nil {
		return PixelBuffer{}, fmt.Errorf("gpuWorkingImage.ExportCPUCopy: %w: %v", ErrDeviceTransferFailed, err)
	}
	return PixelBuffer{
		W:            img.w,
		H:            img.h,
		ChannelCount: img.channels,
		Layout:       LayoutRGBAF32,
		Pixels:       bytesToFloat32Slice(raw),
	}, nil
}

func (img *gpuWorkingImage) Size() (int, int)        { return img.w, img.h }
func (img *gpuWorkingImage) Channels() int           { return img.channels }
func (img *gpuWorkingImage) PixelCount() int         { return img.w * img.h }
func (img *gpuWorkingImage) ElementCount() int       { return img.w * img.h * img.channels }
func (img *gpuWorkingImage) IsValid() bool           { return img.valid }
func (img *gpuWorkingImage) MemoryLocation() MemoryLocation { return MemoryGPU }

// RawKernelHandle implements KernelAccessible: it hands the fused GPU
// executor the buffer ID and adapter directly, with no host round trip.
func (img *gpuWorkingImage) RawKernelHandle() (KernelHandle, error) {
	if !img.valid {
		return KernelHandle{}, fmt.Errorf("gpuWorkingImage.RawKernelHandle: %w", ErrInvalidWorkingImage)
	}
	return KernelHandle{
		W: img.w, H: img.h, Channels: img.channels,
		Location: MemoryGPU,
		Buffer:   img.buf,
		Adapter:  img.adapter,
	}, nil
}

func float32SliceToBytes(s []float32) []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		bits := math.Float32bits(v)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[i*4+0]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
