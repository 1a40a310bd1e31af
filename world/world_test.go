package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbody-go/nbody/config"
	"github.com/nbody-go/nbody/nblog"
	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

func newTestWorld(ps []particle.Particle) *World {
	return New(ps, config.Default(), nblog.Nop())
}

func TestNewCopiesBodies(t *testing.T) {
	ps := []particle.Particle{particle.New(vec2.New(1, 1), 1, 1)}
	w := newTestWorld(ps)
	ps[0].Pos = vec2.New(99, 99)
	assert.Equal(t, float32(1), w.GetBodies()[0].Pos[0])
}

func TestCPUStepAdvancesAndKeepsHostFresh(t *testing.T) {
	w := newTestWorld([]particle.Particle{
		particle.New(vec2.New(-1, 0), 10, 0.1),
		particle.New(vec2.New(1, 0), 10, 0.1),
	})
	w.CPUStep(0.01, 1)
	assert.True(t, w.hostFresh)
	assert.False(t, w.gpuFresh)
	assert.NotEqual(t, vec2.Zero, w.GetBodies()[0].Vel)
}

func TestCPUStepApproxAdvances(t *testing.T) {
	w := newTestWorld([]particle.Particle{
		particle.New(vec2.New(-1, 0), 10, 0.1),
		particle.New(vec2.New(1, 0), 10, 0.1),
	})
	w.CPUStepApprox(0.01, 1, vec2.New(-100, -100), vec2.New(100, 100))
	assert.NotEqual(t, vec2.Zero, w.GetBodies()[0].Vel)
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	w := newTestWorld([]particle.Particle{particle.New(vec2.New(1, 1), 1, 1)})
	snap := w.Snapshot()
	snap[0].Pos = vec2.New(42, 42)
	assert.Equal(t, float32(1), w.GetBodies()[0].Pos[0])
}

func TestGPUStepWithoutInitGPUAborts(t *testing.T) {
	w := newTestWorld([]particle.Particle{particle.New(vec2.Zero, 1, 1)})
	assert.Panics(t, func() { w.GPUStep(0.01, 1) })
}

func TestCloseWithoutGPUIsNoop(t *testing.T) {
	w := newTestWorld([]particle.Particle{particle.New(vec2.Zero, 1, 1)})
	assert.NotPanics(t, func() { w.Close() })
}

func TestFrameGenerationAdvancesOnStep(t *testing.T) {
	w := newTestWorld([]particle.Particle{
		particle.New(vec2.New(-1, 0), 10, 0.1),
		particle.New(vec2.New(1, 0), 10, 0.1),
	})
	f0, err := w.Frame()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), f0.Generation)

	w.CPUStep(0.01, 1)
	f1, err := w.Frame()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), f1.Generation)
}

func TestGPUBufferWithoutInitGPUAborts(t *testing.T) {
	w := newTestWorld([]particle.Particle{particle.New(vec2.Zero, 1, 1)})
	assert.Panics(t, func() { w.GPUBuffer() })
}
