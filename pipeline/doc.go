// Package pipeline builds and runs an Executor over a working image's
// current operation list. Build chooses between a fused executor (one
// kernel for the whole operation list, CPU or GPU per the backend
// decision) and a sequential fallback executor, and always succeeds: if
// the fused path cannot be built (a GPU family is unavailable, or an
// operation lacks a fusion fragment) the builder degrades to the fallback
// path rather than failing, logging why at slog.LevelWarn.
package pipeline
