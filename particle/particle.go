// Package particle defines the per-particle simulation state shared by every
// kernel and by the GPU shaders. Its memory layout is load-bearing: it is
// uploaded to device storage buffers byte-for-byte (see gpusim).
package particle

import "github.com/nbody-go/nbody/vec2"

// Particle is the unit of simulation: position, velocity, an acceleration
// accumulator reset every step, mass, and radius.
//
// Layout is fixed at 32 bytes / 16-byte alignment, field order
// {pos, vel, acc, mass, radius} — eight contiguous float32s. This must stay
// bit-compatible with the WGSL struct in gpusim/shaders/particle.wgsl.
type Particle struct {
	Pos    vec2.Vec2
	Vel    vec2.Vec2
	Acc    vec2.Vec2
	Mass   float32
	Radius float32
}

// Size is the wire size of Particle in bytes, per spec: 32.
const Size = 32

// IsTracer reports whether p is a massless tracer: it feels gravity but
// exerts none.
func (p Particle) IsTracer() bool {
	return p.Mass == 0
}

// New constructs a Particle with zero velocity and acceleration, validating
// the construction-time invariants (radius > 0, mass >= 0). Violating either
// is a programmer error: it panics rather than returning an error.
func New(pos vec2.Vec2, mass, radius float32) Particle {
	if radius <= 0 {
		panic("particle: radius must be > 0")
	}
	if mass < 0 {
		panic("particle: mass must be >= 0")
	}
	return Particle{
		Pos:    pos,
		Mass:   mass,
		Radius: radius,
	}
}
