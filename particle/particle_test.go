package particle

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbody-go/nbody/vec2"
)

// TestLayoutIsGPUCompatible pins the struct layout that gpusim uploads
// byte-for-byte to device storage buffers: 32 bytes, field order
// {pos, vel, acc, mass, radius}.
func TestLayoutIsGPUCompatible(t *testing.T) {
	var p Particle
	require.Equal(t, uintptr(Size), unsafe.Sizeof(p))

	assert.Equal(t, uintptr(0), unsafe.Offsetof(p.Pos))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(p.Vel))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(p.Acc))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(p.Mass))
	assert.Equal(t, uintptr(28), unsafe.Offsetof(p.Radius))
}

func TestNewValidates(t *testing.T) {
	p := New(vec2.New(1, 2), 3, 4)
	assert.Equal(t, vec2.New(1, 2), p.Pos)
	assert.Equal(t, vec2.Zero, p.Vel)
	assert.Equal(t, vec2.Zero, p.Acc)
	assert.Equal(t, float32(3), p.Mass)
	assert.Equal(t, float32(4), p.Radius)

	assert.Panics(t, func() { New(vec2.Zero, 1, 0) })
	assert.Panics(t, func() { New(vec2.Zero, 1, -1) })
	assert.Panics(t, func() { New(vec2.Zero, -1, 1) })
}

func TestIsTracer(t *testing.T) {
	tracer := New(vec2.Zero, 0, 1)
	body := New(vec2.Zero, 5, 1)
	assert.True(t, tracer.IsTracer())
	assert.False(t, body.IsTracer())
}
