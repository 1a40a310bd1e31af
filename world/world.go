// Package world is the CPU/GPU coherence layer: it owns the host
// particle array, an optional GPU pipeline, and the freshness bookkeeping
// that decides which side needs a refresh before the next operation.
// Grounded on _examples/original_source/src/lib/world.c/world_vk.c's
// World_update/PerformSimUpdate split, and on the teacher's own
// id-per-resource convention (mod_assets.go's uuid.NewString for AssetId)
// for cross-call log correlation.
package world

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"

	"github.com/nbody-go/nbody/config"
	"github.com/nbody-go/nbody/gpusim"
	"github.com/nbody-go/nbody/nblog"
	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/quadtree"
	"github.com/nbody-go/nbody/render"
	"github.com/nbody-go/nbody/simcpu"
	"github.com/nbody-go/nbody/vec2"
)

// World owns the particle array authoritative between the CPU and GPU
// kernels, under the invariant that at least one of hostFresh/gpuFresh is
// always true.
var (
	_ render.Source    = (*World)(nil)
	_ render.GPUSource = (*World)(nil)
)

type World struct {
	id  uuid.UUID
	log nblog.Logger
	cfg config.Config

	bodies []particle.Particle

	gpu       *gpusim.Pipeline
	hostFresh bool
	gpuFresh  bool

	tree       *quadtree.Tree
	generation uint64
}

// New constructs a World over an owned copy of bodies. Both freshness
// flags start true: the host array is the only state that exists yet.
// An invalid cfg is a contract violation and aborts via log.Fatalf.
func New(bodies []particle.Particle, cfg config.Config, log nblog.Logger) *World {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("world: invalid config: %v", err)
	}
	w := &World{
		id:        uuid.New(),
		log:       log,
		cfg:       cfg,
		bodies:    append([]particle.Particle(nil), bodies...),
		hostFresh: true,
		gpuFresh:  true,
	}
	w.log.Infof("world %s: created with %d bodies", w.id, len(bodies))
	return w
}

// GetBodies returns the current authoritative state, downloading from the
// GPU first if the host copy is stale.
func (w *World) GetBodies() []particle.Particle {
	if !w.hostFresh {
		w.gpu.Download(w.bodies)
		w.hostFresh = true
	}
	return w.bodies
}

// Snapshot returns a defensive copy of the current bodies, for callers
// (such as Frame, which hands it to a renderer) that must not alias
// World's internal slice.
func (w *World) Snapshot() []particle.Particle {
	bodies := w.GetBodies()
	out := make([]particle.Particle, len(bodies))
	copy(out, bodies)
	return out
}

// CPUStep downloads the host array if stale, then runs the exact O(N²)
// kernel n times. Leaves the host copy authoritative.
func (w *World) CPUStep(dt float32, n int) {
	if !w.hostFresh {
		w.gpu.Download(w.bodies)
	}
	c := w.cfg.SimConstants()
	for i := 0; i < n; i++ {
		simcpu.Step(w.bodies, dt, c)
	}
	w.hostFresh = true
	w.gpuFresh = false
	w.generation++
}

// CPUStepApprox is CPUStep's Barnes-Hut counterpart: it rebuilds the
// quadtree once per step and walks it for every particle's acceleration,
// then integrates with the same symplectic-Euler update as simcpu.Step.
func (w *World) CPUStepApprox(dt float32, n int, from, to vec2.Vec2) {
	if !w.hostFresh {
		w.gpu.Download(w.bodies)
	}
	if w.tree == nil {
		w.tree = quadtree.New(from, to, w.cfg.QuadtreeParams())
	}
	c := w.cfg.SimConstants()

	for i := 0; i < n; i++ {
		w.tree.Update(w.bodies)
		for j := range w.bodies {
			p := &w.bodies[j]
			p.Acc = w.tree.ApplyGravity(p.Pos, p.Radius, c)
		}
		for j := range w.bodies {
			p := &w.bodies[j]
			p.Vel = vec2.Add(p.Vel, vec2.Scale(p.Acc, dt))
			p.Vel = vec2.Add(p.Vel, vec2.Scale(p.Vel, c.F))
			p.Pos = vec2.Add(p.Pos, vec2.Scale(p.Vel, dt))
		}
	}
	w.hostFresh = true
	w.gpuFresh = false
	w.generation++
}

// InitGPU allocates the GPU pipeline for this World's particle count and
// uploads the current host array. Calling it twice is a contract
// violation: the pipeline is a construct-once resource.
func (w *World) InitGPU(device *wgpu.Device) {
	if w.gpu != nil {
		w.log.Fatalf("world %s: InitGPU called twice", w.id)
	}

	pipeline, err := gpusim.New(device, uint32(len(w.bodies)), w.cfg, w.log)
	if err != nil {
		w.log.Fatalf("world %s: gpu pipeline init failed: %v", w.id, err)
	}
	w.gpu = pipeline
	w.gpu.Upload(w.bodies)

	w.hostFresh = true
	w.gpuFresh = true
}

// GPUStep uploads the host array if stale, then runs n GPU iterations.
// Aborts if InitGPU has not been called: the pipeline must exist first.
func (w *World) GPUStep(dt float32, n int) {
	if w.gpu == nil {
		w.log.Fatalf("world %s: GPUStep called before InitGPU", w.id)
	}

	newData := !w.gpuFresh
	w.gpu.PerformUpdate(w.bodies, dt, uint32(n), newData)
	w.hostFresh = false
	w.gpuFresh = true
	w.generation++
}

// Frame implements render.Source: a defensive copy of the current bodies
// tagged with the generation counter, so a renderer can tell a stale
// frame apart from a fresh one without comparing buffer contents.
func (w *World) Frame() (render.Frame, error) {
	return render.Frame{Generation: w.generation, Bodies: w.Snapshot()}, nil
}

// GPUBuffer implements render.GPUSource: it exposes the device buffer
// backing the current authoritative state directly, for a renderer to
// bind without a readback. Only valid after InitGPU.
func (w *World) GPUBuffer() *wgpu.Buffer {
	if w.gpu == nil {
		w.log.Fatalf("world %s: GPUBuffer called before InitGPU", w.id)
	}
	return w.gpu.StorageBuffer()
}

// Close releases the GPU pipeline, if any. The host array needs no
// explicit teardown.
func (w *World) Close() {
	if w.gpu != nil {
		w.gpu.Close()
		w.gpu = nil
	}
}
