// Package scene builds initial particle arrays for the simulation: two
// gravitationally bound clusters, a set of spiral galaxies, or a plain
// uniform scatter. The cluster and galaxy generators port the exact
// spiral placement and collision-avoidance algorithms of
// _examples/original_source/src/lib/cluster.c and galaxy.c, which the
// distilled spec only describes at the level of their statistical shape.
package scene

import (
	"math"
	"math/rand"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

const (
	minSpirals = 2
	maxSpirals = 4

	npMinR    = 1.5
	npMaxR    = 9.5
	npDensity = 10.0

	nbG = 10.0 // matches config.Default().G; scene generation is independent of a live World
)

func radiusToMass(r, density float32) float32 {
	return (4 * math.Pi / 3) * density * r * r * r
}

func randFloat(rng *rand.Rand, min, max float32) float32 {
	return min + (max-min)*rng.Float32()
}

// spiralOffsets picks a random number of evenly spaced spiral arms with a
// shared random rotation, so each cluster/galaxy's spirals look distinct.
func spiralOffsets(rng *rand.Rand) []float32 {
	n := minSpirals + rng.Intn(maxSpirals-minSpirals+1)
	initial := randFloat(rng, 0, 2*math.Pi)
	angleDist := float32(2*math.Pi) / float32(n)

	offsets := make([]float32, n)
	for j := range offsets {
		offsets[j] = initial + float32(j)*angleDist
	}
	return offsets
}

// spiralParticle places one particle along a k-armed spiral around a
// center, following the r(t) = b*t parametrization derived in cluster.c:
// the spiral spans [minDist, maxDist] as t ranges over [t0, 2π]. tJitter
// and rJitter scale the per-particle randomization cluster.c and galaxy.c
// apply with slightly different magnitudes (0.5/1.0 vs 0.6/0.6).
// Particles farther from minDist are linearly more likely to be massless.
func spiralParticle(rng *rand.Rand, offsets []float32, minDist, maxDist, tJitter, rJitter float32) (offset vec2.Vec2, mass, radius float32) {
	b := maxDist / (2 * math.Pi)
	t0 := 2 * math.Pi * minDist / maxDist
	t1 := float32(2 * math.Pi)
	angleDist := float32(2*math.Pi) / float32(len(offsets))

	t := randFloat(rng, t0, t1)
	r := b * t

	tOff := randFloat(rng, 0, tJitter*sqrt32(angleDist))
	rOff := randFloat(rng, 0, rJitter*sqrt32(minf32(b, r-minDist)))

	dist := r + sign(rng)*rOff*rOff
	ang := t + sign(rng)*tOff*tOff

	spiralOffset := offsets[rng.Intn(len(offsets))]
	dx := dist * cos32(ang+spiralOffset)
	dy := dist * sin32(ang+spiralOffset)

	distRange := maxDist - minDist
	if randFloat(rng, 0, 1) < (dist-minDist)/distRange {
		radius = 0.5
		mass = 0
	} else {
		radius = randFloat(rng, npMinR, npMaxR)
		mass = radiusToMass(radius, npDensity)
	}

	return vec2.New(dx, dy), mass, radius
}

// orbitalVelocity returns the velocity tangential to offset (the vector
// from the orbit center to the particle) giving a circular orbit around
// a mass centerMass, per cluster.c/galaxy.c: speed = sqrt(G*M/dist),
// direction (dy, -dx)/dist.
func orbitalVelocity(offset vec2.Vec2, centerMass float32) vec2.Vec2 {
	dist := vec2.Mag(offset)
	speed := sqrt32(nbG * centerMass / dist)
	return vec2.Scale(vec2.New(offset[1], -offset[0]), speed/dist)
}

func sign(rng *rand.Rand) float32 {
	if rng.Intn(2) == 0 {
		return -1
	}
	return 1
}

func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func cos32(x float32) float32  { return float32(math.Cos(float64(x))) }
func sin32(x float32) float32  { return float32(math.Sin(float64(x))) }
func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Uniform returns n particles with independent uniform-random positions
// within [min, max), zero velocity, and small fixed mass/radius. A cheap
// baseline scene with no gravitationally bound structure, useful for
// benchmarking the raw kernels without cluster/galaxy placement overhead.
func Uniform(n int, min, max vec2.Vec2, seed int64) []particle.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]particle.Particle, n)
	for i := range ps {
		x := randFloat(rng, min[0], max[0])
		y := randFloat(rng, min[1], max[1])
		ps[i] = particle.New(vec2.New(x, y), 1, 1)
	}
	return ps
}
