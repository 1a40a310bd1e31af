// Package gpusim is the GPU compute pipeline: the same force-and-integrate
// math as simcpu, run as a WGSL compute shader over WebGPU storage
// buffers. It follows the buffer/descriptor layout of
// _examples/original_source/src/lib/world_vk.c's SimPipeline, re-expressed
// against github.com/cogentcore/webgpu/wgpu the way the teacher's own
// voxelrt/rt/gpu package and gpu_operations.go drive that library.
package gpusim

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/nbody-go/nbody/config"
	"github.com/nbody-go/nbody/gpumem"
	"github.com/nbody-go/nbody/nblog"
	"github.com/nbody-go/nbody/particle"
)

// uniformSize is the wire size of the uniform block: { total_len u32;
// mass_len u32; dt f32 }, padded to a 16-byte multiple.
const uniformSize = 16

// Pipeline owns the device-side compute pipeline and its double-buffered
// storage: storage[0] is "old", storage[1] is "new".
type Pipeline struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	log    nblog.Logger

	n   uint32
	dt  float32
	cfg config.Config

	devRegion  *gpumem.Region
	hostRegion *gpumem.Region

	uniform         *gpumem.Buffer
	storage         [2]*gpumem.Buffer
	transferUniform *gpumem.Buffer
	transferStorage *gpumem.Buffer

	shaderModule    *wgpu.ShaderModule
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
	pipeline        *wgpu.ComputePipeline
}

// New builds the compute pipeline for a fixed particle count n, carving
// its buffers out of device-local and host-coherent gpumem Regions and
// setting G/N-COEF/F/workgroup size as WGSL override constants, the way
// world_vk.c bakes them in via VkSpecializationInfo.
func New(device *wgpu.Device, n uint32, cfg config.Config, log nblog.Logger) (*Pipeline, error) {
	storageSize := uint64(n) * particle.Size

	p := &Pipeline{
		device: device,
		queue:  device.GetQueue(),
		log:    log,
		n:      n,
		cfg:    cfg,

		devRegion:  gpumem.NewRegion(device, gpumem.DeviceLocal, uniformSize+2*storageSize),
		hostRegion: gpumem.NewRegion(device, gpumem.HostCoherent, uniformSize+storageSize),
	}

	var err error
	p.uniform, err = p.devRegion.CarveBuffer("nbody-uniform", uniformSize, wgpu.BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	p.storage[0], err = p.devRegion.CarveBuffer("nbody-storage-old", storageSize, wgpu.BufferUsageStorage)
	if err != nil {
		return nil, err
	}
	p.storage[1], err = p.devRegion.CarveBuffer("nbody-storage-new", storageSize, wgpu.BufferUsageStorage)
	if err != nil {
		return nil, err
	}
	p.transferUniform, err = p.hostRegion.CarveBuffer("nbody-transfer-uniform", uniformSize,
		wgpu.BufferUsageMapRead|wgpu.BufferUsageMapWrite)
	if err != nil {
		return nil, err
	}
	p.transferStorage, err = p.hostRegion.CarveBuffer("nbody-transfer-storage", storageSize,
		wgpu.BufferUsageMapRead|wgpu.BufferUsageMapWrite)
	if err != nil {
		return nil, err
	}

	if err := p.createPipeline(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) createPipeline() error {
	shader, err := p.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "nbody-particle",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: particleWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpusim: create shader module: %w", err)
	}
	p.shaderModule = shader

	p.bindGroupLayout, err = p.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "nbody-bindgroup-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpusim: create bind group layout: %w", err)
	}

	layout, err := p.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "nbody-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("gpusim: create pipeline layout: %w", err)
	}

	p.pipeline, err = p.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "nbody-pipeline",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     p.shaderModule,
			EntryPoint: "main",
			Constants: map[string]float64{
				"workgroup_size_x": float64(p.cfg.WorkgroupSizeX),
				"g":                float64(p.cfg.G),
				"n_coef":           float64(p.cfg.NCoef),
				"friction":         float64(p.cfg.Friction),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpusim: create compute pipeline: %w", err)
	}

	p.bindGroup, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "nbody-bindgroup",
		Layout: p.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.uniform.Buffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: p.storage[0].Buffer, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: p.storage[1].Buffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpusim: create bind group: %w", err)
	}
	return nil
}

// StorageBuffer returns the device buffer currently holding authoritative
// particle state (the "old" slot, which every operation — Upload,
// Download, PerformUpdate — leaves pointing at the current step), for a
// renderer to bind directly per render.GPUSource.
func (p *Pipeline) StorageBuffer() *wgpu.Buffer {
	return p.storage[0].Buffer
}

// Upload writes ps into the device's "old" storage buffer without
// dispatching the shader, for World.InitGPU's "allocate; upload current
// host array" transition.
func (p *Pipeline) Upload(ps []particle.Particle) {
	if uint32(len(ps)) != p.n {
		p.log.Fatalf("gpusim: particle count mismatch: pipeline built for %d, got %d", p.n, len(ps))
	}
	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		p.log.Fatalf("gpusim: create command encoder: %v", err)
	}
	p.transferStorage.CopyInto(p.queue, encodeParticles(ps))
	p.transferStorage.EnqueueCopy(encoder, p.storage[0])

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		p.log.Fatalf("gpusim: finish command encoder: %v", err)
	}
	p.queue.Submit(cmdBuf)
}

// Download reads the device's "old" storage buffer back into ps, for
// World's "download GPU->host" transitions. It does not dispatch the
// shader: it reflects whatever the last PerformUpdate or Upload left
// behind.
func (p *Pipeline) Download(ps []particle.Particle) {
	if uint32(len(ps)) != p.n {
		p.log.Fatalf("gpusim: particle count mismatch: pipeline built for %d, got %d", p.n, len(ps))
	}
	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		p.log.Fatalf("gpusim: create command encoder: %v", err)
	}
	p.storage[0].EnqueueCopy(encoder, p.transferStorage)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		p.log.Fatalf("gpusim: finish command encoder: %v", err)
	}
	p.queue.Submit(cmdBuf)

	decodeParticles(p.readback(p.transferStorage), ps)
}

// PerformUpdate runs steps kernel invocations over ps with time step dt,
// mirroring PerformSimUpdate in world_vk.c: upload new data (or reuse the
// prior step's result), dispatch `steps` times with a device-to-device
// ping-pong copy between dispatches, then read the final state back.
// newData selects whether ps's current contents are uploaded fresh or the
// device's own last result is reused as the starting state.
func (p *Pipeline) PerformUpdate(ps []particle.Particle, dt float32, steps uint32, newData bool) {
	if steps == 0 {
		p.log.Fatalf("gpusim: PerformUpdate called with steps=0")
	}
	if uint32(len(ps)) != p.n {
		p.log.Fatalf("gpusim: particle count mismatch: pipeline built for %d, got %d", p.n, len(ps))
	}

	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		p.log.Fatalf("gpusim: create command encoder: %v", err)
	}

	if dt != p.dt {
		p.dt = dt
		p.transferUniform.CopyInto(p.queue, encodeUniform(p.n, p.n, dt))
		p.transferUniform.EnqueueCopy(encoder, p.uniform)
		// write_read_barrier: WebGPU auto-serializes within a submission.
		p.uniform.Barrier()
	}

	// Without new data, storage[0] already holds the latest state: Upload
	// writes it there and every PerformUpdate ends by copying its result
	// back into it.
	if newData {
		p.transferStorage.CopyInto(p.queue, encodeParticles(ps))
		p.transferStorage.EnqueueCopy(encoder, p.storage[0])
	}
	p.storage[0].Barrier()

	workgroups := p.n / p.cfg.WorkgroupSizeX
	if p.n%p.cfg.WorkgroupSizeX != 0 {
		workgroups++
	}

	for i := uint32(0); i < steps; i++ {
		if i != 0 {
			p.storage[1].Barrier()
			p.storage[1].EnqueueCopy(encoder, p.storage[0])
			p.storage[0].Barrier()
		}
		pass := encoder.BeginComputePass(nil)
		pass.SetPipeline(p.pipeline)
		pass.SetBindGroup(0, p.bindGroup, nil)
		pass.DispatchWorkgroups(workgroups, 1, 1)
		pass.End()
	}

	p.storage[1].Barrier()
	p.storage[1].EnqueueCopy(encoder, p.storage[0])
	p.storage[1].EnqueueCopy(encoder, p.transferStorage)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		p.log.Fatalf("gpusim: finish command encoder: %v", err)
	}
	p.queue.Submit(cmdBuf)

	decodeParticles(p.readback(p.transferStorage), ps)
}

// readback reads buf back to the host through gpumem's CopyFrom, the
// component that owns the map/poll/unmap sequence for every buffer this
// pipeline carves.
func (p *Pipeline) readback(buf *gpumem.Buffer) []byte {
	data, err := buf.CopyFrom(p.device)
	if err != nil {
		p.log.Fatalf("gpusim: %v", err)
	}
	return data
}

// Close releases every GPU resource this pipeline owns, device-side
// objects first and host-visible transfer buffers last, mirroring
// DestroySimPipeline's reverse-of-construction teardown order.
func (p *Pipeline) Close() {
	p.bindGroup.Release()
	p.pipeline.Release()
	p.bindGroupLayout.Release()
	p.shaderModule.Release()
	p.storage[1].Release()
	p.storage[0].Release()
	p.uniform.Release()
	p.transferStorage.Release()
	p.transferUniform.Release()
}

func encodeUniform(totalLen, massLen uint32, dt float32) []byte {
	buf := make([]byte, uniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], totalLen)
	binary.LittleEndian.PutUint32(buf[4:8], massLen)
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(dt))
	return buf
}

func encodeParticles(ps []particle.Particle) []byte {
	buf := make([]byte, len(ps)*particle.Size)
	for i, pt := range ps {
		off := i * particle.Size
		binary.LittleEndian.PutUint32(buf[off+0:], math.Float32bits(pt.Pos[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(pt.Pos[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(pt.Vel[0]))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(pt.Vel[1]))
		binary.LittleEndian.PutUint32(buf[off+16:], math.Float32bits(pt.Acc[0]))
		binary.LittleEndian.PutUint32(buf[off+20:], math.Float32bits(pt.Acc[1]))
		binary.LittleEndian.PutUint32(buf[off+24:], math.Float32bits(pt.Mass))
		binary.LittleEndian.PutUint32(buf[off+28:], math.Float32bits(pt.Radius))
	}
	return buf
}

func decodeParticles(data []byte, ps []particle.Particle) {
	for i := range ps {
		off := i * particle.Size
		ps[i].Pos[0] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+0:]))
		ps[i].Pos[1] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))
		ps[i].Vel[0] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))
		ps[i].Vel[1] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+12:]))
		ps[i].Acc[0] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+16:]))
		ps[i].Acc[1] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+20:]))
		ps[i].Mass = math.Float32frombits(binary.LittleEndian.Uint32(data[off+24:]))
		ps[i].Radius = math.Float32frombits(binary.LittleEndian.Uint32(data[off+28:]))
	}
}
