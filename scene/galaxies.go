package scene

import (
	"math"
	"math/rand"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

const (
	// MinParticlesPerGalaxy is the floor MakeGalaxies enforces per galaxy
	// before the remainder of count is distributed across the rest.
	MinParticlesPerGalaxy = 50

	galaxyCoreMinR = 15.0
	galaxyCoreMaxR = 45.0

	galaxyMinDistF = 2.0
	galaxyMaxDistF = 10.0

	// galaxySepMinF/galaxySepMaxF scale a pair of galaxies' summed max
	// particle distance into the range their centers are separated by:
	// sep in [galaxySepMinF*(maxᵢ+maxⱼ), galaxySepMaxF*(maxᵢ+maxⱼ)).
	galaxySepMinF = 1.4
	galaxySepMaxF = 2.8

	galaxyPlacementMaxAttempts = 10000

	galaxyVelScale = 0.15 // fraction of mutual orbital speed injected per pair
)

type galaxyCore struct {
	center  vec2.Vec2
	vel     vec2.Vec2
	mass    float32
	radius  float32
	maxDist float32
}

// Galaxies builds k spiral galaxies totalling count particles. Each
// galaxy's core is placed by rejection sampling against every previously
// placed galaxy (not just its immediate predecessor), so a late galaxy
// can't land on top of an early one even indirectly. Every pair of
// galaxies then receives a small mutual orbital velocity nudge. Ports
// MakeGalaxies from galaxy.c; count must be at least k*MinParticlesPerGalaxy.
func Galaxies(count, k int, seed int64) []particle.Particle {
	if k < 1 {
		panic("scene: Galaxies requires k >= 1")
	}
	if count < k*MinParticlesPerGalaxy {
		panic("scene: Galaxies requires count >= k*MinParticlesPerGalaxy")
	}
	rng := rand.New(rand.NewSource(seed))

	sizes := splitGalaxySizes(rng, count, k)
	cores := make([]galaxyCore, k)

	for i := 0; i < k; i++ {
		radius := randFloat(rng, galaxyCoreMinR, galaxyCoreMaxR)
		cores[i] = galaxyCore{
			radius:  radius,
			mass:    radiusToMass(radius, ccDensity),
			maxDist: radius * galaxyMaxDistF,
		}
		cores[i].center = placeGalaxyCore(rng, cores[:i], cores[i].maxDist)
	}

	for i := 1; i < k; i++ {
		for j := 0; j < i; j++ {
			injectMutualVelocity(&cores[i], &cores[j])
		}
	}

	out := make([]particle.Particle, 0, count)
	for i, core := range cores {
		out = append(out, galaxyParticles(rng, core, sizes[i])...)
	}
	return out
}

// splitGalaxySizes distributes count particles across k galaxies, each
// getting at least MinParticlesPerGalaxy: every galaxy but the last gets
// the minimum plus a random share of what the remaining minimums leave
// free, and the last galaxy absorbs whatever remains.
func splitGalaxySizes(rng *rand.Rand, count, k int) []int {
	sizes := make([]int, k)
	remaining := count
	for i := 0; i < k-1; i++ {
		maxExtra := remaining - MinParticlesPerGalaxy*(k-i)
		n := MinParticlesPerGalaxy
		if maxExtra > 0 {
			n += rng.Intn(maxExtra + 1)
		}
		sizes[i] = n
		remaining -= n
	}
	sizes[k-1] = remaining
	return sizes
}

// placeGalaxyCore places a galaxy with the given maxDist on a circle
// around a randomly chosen already-placed parent, at a distance sampled
// (area-uniform, via a square-root of a uniform squared range) from
// [galaxySepMinF*(maxDist+parent.maxDist), galaxySepMaxF*(maxDist+parent.maxDist)).
// A candidate is rejected and retried with a fresh parent/angle/distance
// whenever it falls within any other previously placed galaxy's own
// minimum separation from this one.
func placeGalaxyCore(rng *rand.Rand, placed []galaxyCore, maxDist float32) vec2.Vec2 {
	if len(placed) == 0 {
		return vec2.Zero
	}
	for attempt := 0; attempt < galaxyPlacementMaxAttempts; attempt++ {
		parentIdx := rng.Intn(len(placed))
		parent := placed[parentIdx]

		minSep := galaxySepMinF * (maxDist + parent.maxDist)
		maxSep := galaxySepMaxF * (maxDist + parent.maxDist)
		dist := sqrt32(randFloat(rng, minSep*minSep, maxSep*maxSep))
		angle := randFloat(rng, 0, float32(2*math.Pi))

		c := vec2.Add(parent.center, vec2.New(dist*cos32(angle), dist*sin32(angle)))

		collision := false
		for j, other := range placed {
			if j == parentIdx {
				continue
			}
			otherMinSep := galaxySepMinF * (maxDist + other.maxDist)
			if vec2.SqMag(vec2.Sub(c, other.center)) < otherMinSep*otherMinSep {
				collision = true
				break
			}
		}
		if !collision {
			return c
		}
	}
	// Exhausted attempts: fall back to the maximum separation on the +x
	// side of the most recently placed galaxy rather than looping forever,
	// accepting a rare near-collision.
	last := placed[len(placed)-1]
	return vec2.Add(last.center, vec2.New(galaxySepMaxF*(maxDist+last.maxDist), 0))
}

// injectMutualVelocity nudges i and j toward a shared orbit: each gets a
// small velocity component perpendicular to the line between them, scaled
// by the two-body orbital speed and galaxyVelScale.
func injectMutualVelocity(i, j *galaxyCore) {
	d := vec2.Sub(i.center, j.center)
	dist := vec2.Mag(d)
	if dist == 0 {
		return
	}
	perp := vec2.Normalize(vec2.New(d[1], -d[0]))
	speed := sqrt32(nbG*(i.mass+j.mass)/dist) * galaxyVelScale

	i.vel = vec2.Add(i.vel, vec2.Scale(perp, speed))
	j.vel = vec2.Add(j.vel, vec2.Scale(perp, -speed))
}

func galaxyParticles(rng *rand.Rand, core galaxyCore, n int) []particle.Particle {
	ps := make([]particle.Particle, 0, n+1)
	ps = append(ps, particle.New(core.center, core.mass, core.radius))
	ps[0].Vel = core.vel

	offsets := spiralOffsets(rng)
	minDist := core.radius * galaxyMinDistF

	for i := 0; i < n-1; i++ {
		off, mass, radius := spiralParticle(rng, offsets, minDist, core.maxDist, 0.6, 0.6)
		p := particle.New(vec2.Add(core.center, off), mass, radius)
		p.Vel = vec2.Add(orbitalVelocity(off, core.mass), core.vel)
		ps = append(ps, p)
	}
	return ps
}
