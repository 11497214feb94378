package backend

import (
	"fmt"

	"github.com/gogpu/naga"
)

// compileWGSL compiles WGSL source to a SPIR-V uint32 word slice, the
// format gpucore.DeviceAdapter.CreateShaderModule expects. Duplicated from
// package pipeline's identical helper rather than shared, since importing
// pipeline from backend (or vice versa) would create a cycle: backend is
// lower in the dependency order and pipeline depends on backend's
// Decision, not the reverse.
func compileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile WGSL: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}
