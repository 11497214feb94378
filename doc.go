// Package tonalcore implements the hardware-abstracted working-image
// pipeline at the heart of a non-destructive image editor: a polymorphic
// CPU/GPU pixel buffer, its factory registry, and the core types shared by
// the backend, operations, pipeline, and state packages.
//
// Source decoding, UI rendering, and sidecar serialization are external
// collaborators and are not part of this package; package source defines
// the Provider interface the state manager reads and writes rasters
// through.
package tonalcore
