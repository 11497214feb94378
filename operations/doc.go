// Package operations defines the closed set of tonal adjustments the fused
// pipeline can apply, their parameter ranges, and the two facets every
// operation may implement: FusionFragment (a piece of a single fused
// kernel, CPU or GPU) and FallbackFragment (a standalone, sequential
// pass over a PixelBuffer).
//
// Operations are looked up by Kind through two independent registries,
// RegisterFusion and RegisterFallback, mirroring how the teacher's backend
// package registers render backends by name: a Kind need not have both
// facets registered, and the pipeline package's executors degrade
// gracefully (and loudly, via a warning log) when one is missing.
package operations
