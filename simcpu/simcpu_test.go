package simcpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

func noForce() Constants { return Constants{} }

func TestStepNoParticlesIsNoop(t *testing.T) {
	ps := []particle.Particle{}
	assert.NotPanics(t, func() { Step(ps, 0.01, Constants{G: 10}) })
}

func TestStepSingleParticleStaysStationaryUnderSelfForce(t *testing.T) {
	ps := []particle.Particle{particle.New(vec2.Zero, 5, 1)}
	Step(ps, 0.01, Constants{G: 10})
	assert.Equal(t, vec2.Zero, ps[0].Vel)
	assert.Equal(t, vec2.Zero, ps[0].Pos)
}

// Two equal masses on the x-axis should attract each other symmetrically:
// equal and opposite acceleration, no y-component.
func TestStepTwoMassesOnALineAttractSymmetrically(t *testing.T) {
	ps := []particle.Particle{
		particle.New(vec2.New(-1, 0), 10, 0.01),
		particle.New(vec2.New(1, 0), 10, 0.01),
	}
	Step(ps, 0.001, Constants{G: 10})

	assert.Greater(t, ps[0].Acc[0], float32(0))
	assert.Less(t, ps[1].Acc[0], float32(0))
	assert.InDelta(t, -ps[0].Acc[0], ps[1].Acc[0], 1e-5)
	assert.InDelta(t, 0, ps[0].Acc[1], 1e-6)
	assert.InDelta(t, 0, ps[1].Acc[1], 1e-6)
}

// A massless tracer feels gravity but exerts none: the heavy body's motion
// must be unaffected by the tracer's presence.
func TestStepMasslessTracerExertsNoForce(t *testing.T) {
	heavy := particle.New(vec2.New(0, 0), 100, 1)
	tracer := particle.New(vec2.New(5, 0), 0, 1)

	withTracer := []particle.Particle{heavy, tracer}
	withoutTracer := []particle.Particle{heavy}

	Step(withTracer, 0.01, Constants{G: 10})
	Step(withoutTracer, 0.01, Constants{G: 10})

	assert.Equal(t, withoutTracer[0].Pos, withTracer[0].Pos)
	assert.Equal(t, withoutTracer[0].Vel, withTracer[0].Vel)
	assert.NotEqual(t, vec2.Zero, withTracer[1].Vel)
}

// Mirror symmetry: two equal masses at mirrored positions stay mirror
// symmetric after any number of steps.
func TestStepPreservesMirrorSymmetry(t *testing.T) {
	ps := []particle.Particle{
		particle.New(vec2.New(-3, 2), 7, 0.5),
		particle.New(vec2.New(3, -2), 7, 0.5),
	}
	for i := 0; i < 20; i++ {
		Step(ps, 0.001, Constants{G: 10})
	}
	assert.InDelta(t, -ps[0].Pos[0], ps[1].Pos[0], 1e-4)
	assert.InDelta(t, -ps[0].Pos[1], ps[1].Pos[1], 1e-4)
	assert.InDelta(t, -ps[0].Vel[0], ps[1].Vel[0], 1e-4)
	assert.InDelta(t, -ps[0].Vel[1], ps[1].Vel[1], 1e-4)
}

// Momentum conservation: with friction and repulsion disabled and every
// body given the same radius (so the softening is symmetric), the exact
// kernel's pairwise forces are equal and opposite in this 3-body system,
// so total momentum is conserved to floating-point tolerance.
func TestStepConservesMomentumWithoutFrictionOrRepulsion(t *testing.T) {
	ps := []particle.Particle{
		particle.New(vec2.New(-2, 1), 3, 0.2),
		particle.New(vec2.New(1, -1), 5, 0.2),
		particle.New(vec2.New(4, 2), 2, 0.2),
	}
	momentum := func(ps []particle.Particle) vec2.Vec2 {
		m := vec2.Zero
		for _, p := range ps {
			m = vec2.Add(m, vec2.Scale(p.Vel, p.Mass))
		}
		return m
	}

	before := momentum(ps)
	for i := 0; i < 50; i++ {
		Step(ps, 0.001, Constants{G: 10})
	}
	after := momentum(ps)

	assert.InDelta(t, before[0], after[0], 1e-2)
	assert.InDelta(t, before[1], after[1], 1e-2)
}

func TestStepTailPackNotMultipleOfLaneWidth(t *testing.T) {
	ps := make([]particle.Particle, W+3)
	for i := range ps {
		ps[i] = particle.New(vec2.New(float32(i), 0), 1, 0.1)
	}
	assert.NotPanics(t, func() { Step(ps, 0.001, Constants{G: 1}) })
}

func TestFrictionDampensVelocity(t *testing.T) {
	ps := []particle.Particle{particle.New(vec2.New(0, 0), 1, 1)}
	ps[0].Vel = vec2.New(1, 0)

	Step(ps, 0.01, Constants{F: -0.5})
	assert.Less(t, ps[0].Vel[0], float32(1))
}
