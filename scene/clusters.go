package scene

import (
	"math"
	"math/rand"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

const (
	// MinParticlesPerCluster is the smallest cluster MakeTwoClusters will
	// produce; the remaining count is handed to the other cluster.
	MinParticlesPerCluster = 100

	ccDensity = 30.0 // core density, denser than the surrounding disk (npDensity)

	clusterCoreMinR = 20.0
	clusterCoreMaxR = 60.0

	clusterMinDistF = 2.0 // disk starts this many core-radii out
	clusterMaxDistF = 12.0

	// clusterSepMinF/clusterSepMaxF scale the pair's summed core radii into
	// the range the two centers are separated by: sep in
	// [clusterSepMinF*(r0+r1), clusterSepMaxF*clusterSepMinF*(r0+r1)).
	clusterSepMinF = 1.2
	clusterSepMaxF = 1.4

	clusterBulkSpeedMin = 100.0
	clusterBulkSpeedMax = 200.0
)

type clusterCore struct {
	center vec2.Vec2
	vel    vec2.Vec2
	mass   float32
	radius float32
}

// TwoClusters builds two gravitationally bound clusters totalling count
// particles: a dense core plus a spiral disk of lighter particles orbiting
// it, each cluster given a perpendicular bulk velocity so the pair drifts
// toward and past each other. Ports MakeTwoClusters from cluster.c; count
// must be at least 2*MinParticlesPerCluster.
func TwoClusters(count int, seed int64) []particle.Particle {
	if count < 2*MinParticlesPerCluster {
		panic("scene: TwoClusters requires count >= 2*MinParticlesPerCluster")
	}
	rng := rand.New(rand.NewSource(seed))

	n0 := MinParticlesPerCluster + rng.Intn(count-2*MinParticlesPerCluster+1)
	n1 := count - n0

	core0 := clusterCore{
		center: vec2.Zero,
		radius: randFloat(rng, clusterCoreMinR, clusterCoreMaxR),
	}
	core0.mass = radiusToMass(core0.radius, ccDensity)

	core1 := clusterCore{
		radius: randFloat(rng, clusterCoreMinR, clusterCoreMaxR),
	}
	core1.mass = radiusToMass(core1.radius, ccDensity)

	minR := clusterSepMinF * (core0.radius + core1.radius)
	maxR := clusterSepMaxF * minR
	sep := randFloat(rng, minR, maxR)
	ang := randFloat(rng, 0, float32(2*math.Pi))
	core1.center = vec2.New(sep*cos32(ang), sep*sin32(ang))

	toward := vec2.Sub(core1.center, core0.center)
	perp := vec2.Normalize(vec2.New(toward[1], -toward[0]))
	speed := randFloat(rng, clusterBulkSpeedMin, clusterBulkSpeedMax)
	core0.vel = vec2.Scale(perp, speed)
	core1.vel = vec2.Scale(perp, -speed)

	out := make([]particle.Particle, 0, count)
	out = append(out, clusterParticles(rng, core0, n0)...)
	out = append(out, clusterParticles(rng, core1, n1)...)
	return out
}

func clusterParticles(rng *rand.Rand, core clusterCore, n int) []particle.Particle {
	ps := make([]particle.Particle, 0, n+1)
	ps = append(ps, particle.New(core.center, core.mass, core.radius))
	ps[0].Vel = core.vel

	offsets := spiralOffsets(rng)
	minDist := core.radius * clusterMinDistF
	maxDist := core.radius * clusterMaxDistF

	for i := 0; i < n-1; i++ {
		off, mass, radius := spiralParticle(rng, offsets, minDist, maxDist, 0.5, 1.0)
		p := particle.New(vec2.Add(core.center, off), mass, radius)
		p.Vel = vec2.Add(orbitalVelocity(off, core.mass), core.vel)
		ps = append(ps, p)
	}
	return ps
}
