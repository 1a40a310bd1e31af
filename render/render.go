// Package render defines the hand-off contract between the simulator and
// an external renderer, without implementing one: camera, color, and
// draw-call construction are out of scope. What a renderer needs from
// World is a read-only, point-in-time view of the
// particle buffer and, when that buffer lives on the GPU, the device
// resources to bind it directly instead of round-tripping through the
// host. Grounded on gpu_operations.go's GpuState/WindowState split: this
// package owns no window or device, it only describes what one would be
// handed.
package render

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/nbody-go/nbody/particle"
)

// Frame is a single consistent view of the particle state for drawing.
// Generation increases every time the source World advances, so a
// renderer holding a stale Frame can tell without comparing buffer
// contents.
type Frame struct {
	Generation uint64
	Bodies     []particle.Particle
}

// Source is implemented by World: it is the only thing a renderer needs
// to pull a consistent frame from the simulator.
type Source interface {
	// Frame returns the current particle state and its generation.
	Frame() (Frame, error)
}

// GPUSource is the optional capability a GPU-backed World exposes: direct
// access to the device-local storage buffer so a renderer can bind it
// without a readback, avoiding a round trip through host memory for
// state that already lives on the device. World implements it at the
// type level, but its GPUBuffer aborts until InitGPU has been called.
type GPUSource interface {
	Source
	// GPUBuffer returns the live device buffer currently holding particle
	// state, for direct binding into a render pipeline's vertex/storage
	// slot. The caller must not write through it.
	GPUBuffer() *wgpu.Buffer
}

// Renderer is the contract an external renderer implements against a
// Source. This package ships no implementation: cmd/demo exercises the
// contract with a pass-through that clears and presents, proving the
// hand-off without drawing particles.
type Renderer interface {
	// Render draws one frame from src. Implementations decide their own
	// pacing; callers are not expected to call this faster than src
	// produces new generations.
	Render(src Source) error
	Close()
}
