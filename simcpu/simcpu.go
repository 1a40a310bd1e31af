// Package simcpu implements the exact O(N²) force kernel, packed into
// fixed-width lanes the way the original AVX/SSE kernel in
// particle_pack.c packed float lanes for vector instructions. Go has no
// portable SIMD without cgo or assembly, so the lanes here are plain
// slices; the packing discipline (padding tail lanes with mass=0) is kept
// so the evaluate loop never needs a tail special case.
package simcpu

import (
	"math"
	"runtime"
	"sync"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

// W is the lane width packs are built with, matching the AVX width of the
// original particle_pack.c for parity of packing/padding behavior.
const W = 8

// Constants holds the build-time force constants. Any may be zero to
// disable the corresponding term.
type Constants struct {
	G float32 // gravitational constant
	N float32 // short-range repulsion coefficient
	F float32 // velocity-proportional friction, in (-1, 0]
}

// lanePack holds W particles' x, y and mass, lane-parallel. Tail packs are
// padded with mass=0 sentinels so padding contributes zero force.
type lanePack struct {
	x, y, m [W]float32
}

// pack partitions ps into ceil(len(ps)/W) lanePacks.
func pack(ps []particle.Particle) []lanePack {
	if len(ps) == 0 {
		return nil
	}
	n := len(ps) / W
	rem := len(ps) % W
	total := n
	if rem != 0 {
		total++
	}
	packs := make([]lanePack, total)
	for i := 0; i < n; i++ {
		var lp lanePack
		for l := 0; l < W; l++ {
			p := ps[i*W+l]
			lp.x[l], lp.y[l], lp.m[l] = p.Pos[0], p.Pos[1], p.Mass
		}
		packs[i] = lp
	}
	if rem != 0 {
		var lp lanePack
		for l := 0; l < rem; l++ {
			p := ps[n*W+l]
			lp.x[l], lp.y[l], lp.m[l] = p.Pos[0], p.Pos[1], p.Mass
		}
		packs[n] = lp
	}
	return packs
}

// evaluate computes (ax, ay) felt by the particle at (x, y, r) from every
// packed source: softened denominator r²_soft = r² + radius, force
// coefficient f = (G·m + N) / r³.
func evaluate(x, y, r float32, c Constants, packs []lanePack) (ax, ay float32) {
	for _, p := range packs {
		for l := 0; l < W; l++ {
			dx := p.x[l] - x
			dy := p.y[l] - y
			rSq := dx*dx + dy*dy
			rSoft := rSq + r
			r1 := sqrt32(rSoft)
			r3 := r1 * rSoft
			f := (c.G*p.m[l] + c.N) / r3
			ax += dx * f
			ay += dy * f
		}
	}
	return ax, ay
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// parallelFor splits [0, n) into chunks and runs fn(lo, hi) on a bounded
// worker pool, blocking until every chunk completes (an implicit barrier,
// mirroring an OpenMP `#pragma omp parallel for`).
func parallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// Step advances ps by one fixed time step dt in place. Zero particles is
// a no-op. The two phases (evaluate, integrate) are
// separate parallel regions: every particle's acceleration is read from
// the pre-step state before any position is mutated.
func Step(ps []particle.Particle, dt float32, c Constants) {
	if len(ps) == 0 {
		return
	}

	packs := pack(ps)
	acc := make([]vec2.Vec2, len(ps))

	parallelFor(len(ps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := ps[i]
			ax, ay := evaluate(p.Pos[0], p.Pos[1], p.Radius, c, packs)
			acc[i] = vec2.New(ax, ay)
		}
	})

	parallelFor(len(ps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := &ps[i]
			p.Acc = acc[i]
			p.Vel = vec2.Add(p.Vel, vec2.Scale(p.Acc, dt))
			p.Vel = vec2.Add(p.Vel, vec2.Scale(p.Vel, c.F))
			p.Pos = vec2.Add(p.Pos, vec2.Scale(p.Vel, dt))
		}
	})
}
