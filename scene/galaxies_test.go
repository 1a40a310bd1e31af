package scene

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbody-go/nbody/vec2"
)

func TestGalaxiesCount(t *testing.T) {
	n := 3*MinParticlesPerGalaxy + 17
	ps := Galaxies(n, 3, 1)
	assert.Len(t, ps, n)
}

func TestGalaxiesPanicsBelowMinimum(t *testing.T) {
	assert.Panics(t, func() { Galaxies(3*MinParticlesPerGalaxy-1, 3, 1) })
}

func TestGalaxiesPanicsOnZeroGalaxies(t *testing.T) {
	assert.Panics(t, func() { Galaxies(10, 0, 1) })
}

func TestGalaxiesCoresDoNotCollide(t *testing.T) {
	ps := Galaxies(5*MinParticlesPerGalaxy, 5, 9)

	var coreIdx []int
	idx := 0
	sizes := splitGalaxySizes(rand.New(rand.NewSource(9)), 5*MinParticlesPerGalaxy, 5)
	for _, n := range sizes {
		coreIdx = append(coreIdx, idx)
		idx += n
	}

	for i := range coreIdx {
		for j := range coreIdx {
			if i == j {
				continue
			}
			d := vec2.Sub(ps[coreIdx[i]].Pos, ps[coreIdx[j]].Pos)
			assert.Greater(t, vec2.Mag(d), float32(0))
		}
	}
}

func TestPlaceGalaxyCoreReturnsOriginForFirst(t *testing.T) {
	c := placeGalaxyCore(nil, nil, 100)
	assert.Equal(t, vec2.Zero, c)
}

func TestPlaceGalaxyCoreRespectsMinSeparationFromParent(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	placed := []galaxyCore{{center: vec2.Zero, maxDist: 100}}
	c := placeGalaxyCore(rng, placed, 100)

	minSep := galaxySepMinF * (100 + 100)
	assert.GreaterOrEqual(t, vec2.Mag(vec2.Sub(c, placed[0].center)), minSep)
}

func TestInjectMutualVelocityIsAntisymmetricInDirection(t *testing.T) {
	a := galaxyCore{center: vec2.New(0, 0), mass: 10}
	b := galaxyCore{center: vec2.New(100, 0), mass: 10}
	injectMutualVelocity(&a, &b)

	assert.NotEqual(t, vec2.Zero, a.vel)
	assert.Equal(t, a.vel[0], -b.vel[0])
	assert.Equal(t, a.vel[1], -b.vel[1])
}
