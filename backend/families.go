package backend

import (
	"github.com/gogpu/wgpu/types"
)

// Family enumerates the GPU families the decider considers, in the fixed
// priority order probing must follow: when two families measure exactly
// the same benchmark duration, the earlier entry in this list wins.
type Family int

const (
	CUDA Family = iota
	D3D12
	Metal
	Vulkan
	OpenCL
)

// String returns the family's canonical name.
func (f Family) String() string {
	switch f {
	case CUDA:
		return "CUDA"
	case D3D12:
		return "D3D12"
	case Metal:
		return "Metal"
	case Vulkan:
		return "Vulkan"
	case OpenCL:
		return "OpenCL"
	default:
		return "Unknown"
	}
}

// families lists every Family in priority order. CPU is not a Family: it
// is the decider's baseline, always available, and is represented
// separately in Decision.
var families = []Family{CUDA, D3D12, Metal, Vulkan, OpenCL}

// wgpuBackend reports the gogpu/wgpu backend bit this family maps onto, and
// whether the family has a wgpu analog at all. CUDA has none: wgpu targets
// Vulkan/Metal/DX12/GL only, never NVIDIA's proprietary compute API, so
// CUDA is always reported unavailable regardless of what hardware is
// present. OpenCL, spec's legacy cross-vendor fallback family, maps onto
// wgpu's own legacy fallback backend, GL.
func (f Family) wgpuBackend() (types.Backend, bool) {
	switch f {
	case D3D12:
		return types.BackendDX12, true
	case Metal:
		return types.BackendMetal, true
	case Vulkan:
		return types.BackendVulkan, true
	case OpenCL:
		return types.BackendGL, true
	default:
		return 0, false
	}
}
