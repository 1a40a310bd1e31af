package vec2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := New(1, 2)
	b := New(3, -1)
	assert.Equal(t, New(4, 1), Add(a, b))
	assert.Equal(t, New(-2, 3), Sub(a, b))
}

func TestScale(t *testing.T) {
	assert.Equal(t, New(2, 4), Scale(New(1, 2), 2))
}

func TestMagnitude(t *testing.T) {
	v := New(3, 4)
	assert.Equal(t, float32(25), SqMag(v))
	assert.Equal(t, float32(5), Mag(v))
}

func TestNormalizeZeroIsZero(t *testing.T) {
	assert.Equal(t, Zero, Normalize(Zero))
}

func TestNormalizeUnit(t *testing.T) {
	v := Normalize(New(3, 4))
	assert.InDelta(t, 1.0, float64(Mag(v)), 1e-6)
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
}
