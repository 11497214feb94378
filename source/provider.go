// Package source defines the external collaborator the CORE reads the
// original image from and writes committed edits back to: decoding,
// encoding, and sidecar metadata are explicitly out of the CORE's scope
// (spec §1), so this package is a reference implementation the CORE
// depends on only through the Provider interface, never concretely.
package source

import "github.com/gogpu/tonalcore"

// Provider is the external collaborator the state manager asks for the
// source raster and hands committed edits back to. The CORE assumes a
// Provider is internally thread-safe for concurrent Store calls while the
// editor UI is idle (spec §6).
type Provider interface {
	// Load decodes path into an RGBA/F32 PixelBuffer, normalizing to 4
	// channels regardless of the source file's native layout.
	Load(path string) (tonalcore.PixelBuffer, error)

	// Store encodes raster and writes it back to the path most recently
	// passed to Load (or to wherever the concrete Provider is configured
	// to write).
	Store(raster tonalcore.PixelBuffer) error

	// Metadata returns an implementation-defined string value for key, and
	// false if the key is unset. Used for sidecar/EXIF-adjacent lookups the
	// CORE itself never interprets.
	Metadata(key string) (string, bool)
}
