package gpucore

import (
	"fmt"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// WGPUAdapter is the DeviceAdapter implementation backed by gogpu/wgpu's
// HAL layer. One instance wraps one concrete (instance, adapter, device,
// queue) tuple restricted to a single backend bit, so the backend package
// can probe each GPU family independently.
type WGPUAdapter struct {
	instanceID core.InstanceID
	adapterID  core.AdapterID
	deviceID   core.DeviceID
	queueID    core.QueueID
	caps       AdapterCapabilities
}

// OpenWGPUAdapter requests an adapter restricted to backendBit and creates
// a device and queue on it. The caller owns the returned adapter and must
// call Close when done probing or executing on it.
func OpenWGPUAdapter(backendBit types.Backend, label string) (*WGPUAdapter, error) {
	instanceID, err := core.CreateInstance(&types.InstanceDescriptor{
		Backends: backendBit,
	})
	if err != nil {
		return nil, fmt.Errorf("gpucore: create instance: %w", err)
	}

	adapterID, err := core.RequestAdapter(instanceID, &types.AdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		core.InstanceDrop(instanceID)
		return nil, fmt.Errorf("gpucore: request adapter: %w", err)
	}

	deviceID, err := core.RequestDevice(adapterID, &types.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	})
	if err != nil {
		core.AdapterDrop(adapterID)
		core.InstanceDrop(instanceID)
		return nil, fmt.Errorf("gpucore: request device: %w", err)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		core.DeviceDrop(deviceID)
		core.AdapterDrop(adapterID)
		core.InstanceDrop(instanceID)
		return nil, fmt.Errorf("gpucore: get device queue: %w", err)
	}

	limits, err := core.GetDeviceLimits(deviceID)
	caps := AdapterCapabilities{SupportsCompute: true}
	if err == nil {
		caps.MaxBufferSize = limits.MaxBufferSize
		caps.MaxStorageBufferBindingSize = limits.MaxStorageBufferBindingSize
		caps.MaxComputeWorkgroupsPerDimension = limits.MaxComputeWorkgroupsPerDimension
		caps.MaxWorkgroupSizeX = limits.MaxComputeWorkgroupSizeX
		caps.MaxWorkgroupSizeY = limits.MaxComputeWorkgroupSizeY
		caps.MaxWorkgroupSizeZ = limits.MaxComputeWorkgroupSizeZ
		caps.MaxWorkgroupInvocations = limits.MaxComputeInvocationsPerWorkgroup
	}

	return &WGPUAdapter{
		instanceID: instanceID,
		adapterID:  adapterID,
		deviceID:   deviceID,
		queueID:    queueID,
		caps:       caps,
	}, nil
}

// Close releases the device, adapter, and instance, in that order.
func (a *WGPUAdapter) Close() {
	core.DeviceDrop(a.deviceID)
	core.AdapterDrop(a.adapterID)
	core.InstanceDrop(a.instanceID)
}

func (a *WGPUAdapter) SupportsCompute() bool { return a.caps.SupportsCompute }

func (a *WGPUAdapter) MaxWorkgroupSize() [3]uint32 {
	return [3]uint32{a.caps.MaxWorkgroupSizeX, a.caps.MaxWorkgroupSizeY, a.caps.MaxWorkgroupSizeZ}
}

func (a *WGPUAdapter) MaxBufferSize() uint64 { return a.caps.MaxBufferSize }

func (a *WGPUAdapter) CreateShaderModule(spirv []uint32, label string) (ShaderModuleID, error) {
	id, err := core.CreateShaderModule(a.deviceID, &types.ShaderModuleDescriptor{
		Label: label,
		Code:  spirv,
	})
	if err != nil {
		return 0, fmt.Errorf("gpucore: create shader module: %w", err)
	}
	return ShaderModuleID(id.Raw()), nil
}

func (a *WGPUAdapter) DestroyShaderModule(id ShaderModuleID) {
	core.ShaderModuleDrop(core.ShaderModuleIDFromRaw(uint64(id)))
}

func (a *WGPUAdapter) CreateBuffer(size int, usage BufferUsage) (BufferID, error) {
	id, err := core.CreateBuffer(a.deviceID, &types.BufferDescriptor{
		Size:  uint64(size),
		Usage: types.BufferUsage(usage),
	})
	if err != nil {
		return 0, fmt.Errorf("gpucore: create buffer: %w", err)
	}
	return BufferID(id.Raw()), nil
}

func (a *WGPUAdapter) DestroyBuffer(id BufferID) {
	core.BufferDrop(core.BufferIDFromRaw(uint64(id)))
}

func (a *WGPUAdapter) WriteBuffer(id BufferID, offset uint64, data []byte) {
	core.WriteBuffer(a.queueID, core.BufferIDFromRaw(uint64(id)), offset, data)
}

func (a *WGPUAdapter) ReadBuffer(id BufferID, offset, size uint64) ([]byte, error) {
	data, err := core.ReadBuffer(a.deviceID, core.BufferIDFromRaw(uint64(id)), offset, size)
	if err != nil {
		return nil, fmt.Errorf("gpucore: read buffer: %w", err)
	}
	return data, nil
}

func (a *WGPUAdapter) CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error) {
	entries := make([]types.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = types.BindGroupLayoutEntry{
			Binding:        e.Binding,
			Type:           types.BindingType(e.Type),
			MinBindingSize: e.MinBindingSize,
		}
	}
	id, err := core.CreateBindGroupLayout(a.deviceID, &types.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return 0, fmt.Errorf("gpucore: create bind group layout: %w", err)
	}
	return BindGroupLayoutID(id.Raw()), nil
}

func (a *WGPUAdapter) DestroyBindGroupLayout(id BindGroupLayoutID) {
	core.BindGroupLayoutDrop(core.BindGroupLayoutIDFromRaw(uint64(id)))
}

func (a *WGPUAdapter) CreatePipelineLayout(desc *PipelineLayoutDesc) (PipelineLayoutID, error) {
	layouts := make([]core.BindGroupLayoutID, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		layouts[i] = core.BindGroupLayoutIDFromRaw(uint64(l))
	}
	id, err := core.CreatePipelineLayout(a.deviceID, &types.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return 0, fmt.Errorf("gpucore: create pipeline layout: %w", err)
	}
	return PipelineLayoutID(id.Raw()), nil
}

func (a *WGPUAdapter) DestroyPipelineLayout(id PipelineLayoutID) {
	core.PipelineLayoutDrop(core.PipelineLayoutIDFromRaw(uint64(id)))
}

func (a *WGPUAdapter) CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error) {
	id, err := core.CreateComputePipeline(a.deviceID, &types.ComputePipelineDescriptor{
		Label:        desc.Label,
		Layout:       core.PipelineLayoutIDFromRaw(uint64(desc.Layout)),
		ShaderModule: core.ShaderModuleIDFromRaw(uint64(desc.ShaderModule)),
		EntryPoint:   desc.EntryPoint,
	})
	if err != nil {
		return 0, fmt.Errorf("gpucore: create compute pipeline: %w", err)
	}
	return ComputePipelineID(id.Raw()), nil
}

func (a *WGPUAdapter) DestroyComputePipeline(id ComputePipelineID) {
	core.ComputePipelineDrop(core.ComputePipelineIDFromRaw(uint64(id)))
}

func (a *WGPUAdapter) CreateBindGroup(desc *BindGroupDesc) (BindGroupID, error) {
	entries := make([]types.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = types.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  core.BufferIDFromRaw(uint64(e.Buffer)),
			Offset:  e.Offset,
			Size:    e.Size,
		}
	}
	id, err := core.CreateBindGroup(a.deviceID, &types.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  core.BindGroupLayoutIDFromRaw(uint64(desc.Layout)),
		Entries: entries,
	})
	if err != nil {
		return 0, fmt.Errorf("gpucore: create bind group: %w", err)
	}
	return BindGroupID(id.Raw()), nil
}

func (a *WGPUAdapter) DestroyBindGroup(id BindGroupID) {
	core.BindGroupDrop(core.BindGroupIDFromRaw(uint64(id)))
}

func (a *WGPUAdapter) BeginComputePass() ComputePassEncoder {
	return &wgpuComputePass{adapter: a, enc: core.BeginComputePass(a.deviceID)}
}

func (a *WGPUAdapter) Submit() { core.Submit(a.queueID) }

func (a *WGPUAdapter) WaitIdle() { core.DeviceWaitIdle(a.deviceID) }

type wgpuComputePass struct {
	adapter *WGPUAdapter
	enc     core.ComputePassEncoderID
}

func (p *wgpuComputePass) SetPipeline(pipeline ComputePipelineID) {
	core.ComputePassSetPipeline(p.enc, core.ComputePipelineIDFromRaw(uint64(pipeline)))
}

func (p *wgpuComputePass) SetBindGroup(index uint32, group BindGroupID) {
	core.ComputePassSetBindGroup(p.enc, index, core.BindGroupIDFromRaw(uint64(group)))
}

func (p *wgpuComputePass) Dispatch(x, y, z uint32) {
	core.ComputePassDispatchWorkgroups(p.enc, x, y, z)
}

func (p *wgpuComputePass) End() { core.ComputePassEnd(p.enc) }
