// Package quadtree implements the Barnes–Hut approximation used by the
// GPU/CPU-coherence layer as a cheaper alternative to the exact O(N²)
// kernel in simcpu. Structure and walk follow
// _examples/original_source/src/lib/quadtree.c: a static 4-way top-level
// split, sequential recursion below it, and an opening criterion that
// combines a Barnes–Hut distance test with a physical exclusion radius.
package quadtree

import (
	"sync"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/simcpu"
	"github.com/nbody-go/nbody/vec2"
)

const (
	// LeafMaxBodies is the member count above which a non-terminal node
	// splits into its quad.
	LeafMaxBodies = 1
	// NodeComDistF scales a node's dimensions into the minimum (dx, dy)
	// a target must clear before the node may be treated as a point mass.
	NodeComDistF = 1.5
	// NodeEndWidth/NodeEndHeight are the minimum dimensions a node may
	// have before it is forced to stay a leaf regardless of membership.
	NodeEndWidth  = 1.0
	NodeEndHeight = 1.0
)

// Params bundles the build/walk thresholds a Tree is constructed with, so
// a World can override them from its config.Config instead of compiling
// in one fixed set of values.
type Params struct {
	LeafMaxBodies int
	NodeComDistF  float32
	NodeEndWidth  float32
	NodeEndHeight float32
}

// DefaultParams returns the package's compile-time constants above, for
// callers that don't need to override them.
func DefaultParams() Params {
	return Params{
		LeafMaxBodies: LeafMaxBodies,
		NodeComDistF:  NodeComDistF,
		NodeEndWidth:  NodeEndWidth,
		NodeEndHeight: NodeEndHeight,
	}
}

// Node is one quadrant of the tree. Its aggregate fields (COM, mass,
// radius) are recomputed on every Update from its cached member list.
type Node struct {
	quad               [4]*Node
	from, to, dims     vec2.Vec2
	com                vec2.Vec2
	mass               float32
	radius             float32
	radiusSq           float32
	members            []particle.Particle
	isLeaf             bool
	end                bool // dims too small to ever split
	params             Params
}

func newNode(from, dims vec2.Vec2, params Params) *Node {
	return &Node{
		from:   from,
		dims:   dims,
		to:     vec2.Add(from, dims),
		isLeaf: true,
		end:    dims[0] < params.NodeEndWidth || dims[1] < params.NodeEndHeight,
		params: params,
	}
}

func initQuad(parentFrom, parentDims vec2.Vec2, params Params) [4]*Node {
	dims := vec2.Scale(parentDims, 0.5)
	froms := [4]vec2.Vec2{
		parentFrom,
		vec2.Add(parentFrom, vec2.New(dims[0], 0)),
		vec2.Add(parentFrom, vec2.New(0, dims[1])),
		vec2.Add(parentFrom, dims),
	}
	var quad [4]*Node
	for i, f := range froms {
		quad[i] = newNode(f, dims, params)
	}
	return quad
}

// update resets n's aggregates and rescans ps for members that fall
// within n's half-open box, recursing into a quad if the node is not a
// leaf (and not force-terminal).
func (n *Node) update(ps []particle.Particle) {
	n.com = vec2.Zero
	n.mass = 0
	n.radius = 0
	n.radiusSq = 0
	n.isLeaf = true
	n.members = n.members[:0]

	com := vec2.Zero
	for _, p := range ps {
		if p.Pos[0] >= n.from[0] && p.Pos[0] < n.to[0] &&
			p.Pos[1] >= n.from[1] && p.Pos[1] < n.to[1] {
			n.members = append(n.members, p)
			com = vec2.Add(com, p.Pos)
			n.mass += p.Mass
			n.radius += p.Radius
		}
	}

	if len(n.members) > 0 {
		n.com = vec2.Scale(com, 1/float32(len(n.members)))
		n.radiusSq = n.radius * n.radius
	}

	if !n.end && len(n.members) > n.params.LeafMaxBodies {
		n.isLeaf = false
		if n.quad[0] == nil {
			n.quad = initQuad(n.from, n.dims, n.params)
		}
		for _, c := range n.quad {
			c.update(n.members)
		}
	}
}

// toPoint collapses a node into the point mass used when it is accepted
// by the opening criterion: its COM, its summed mass, zero radius (a
// collapsed node has no physical extent of its own).
func (n *Node) toPoint() particle.Particle {
	return particle.Particle{Pos: n.com, Mass: n.mass}
}

// applyGravity recurses down n, accumulating the gravitational pull felt
// by target at (pos, radius) into acc.
func (n *Node) applyGravity(pos vec2.Vec2, radius float32, acc *vec2.Vec2, c simcpu.Constants) {
	if len(n.members) == 0 {
		return
	}
	if len(n.members) == 1 {
		applyPointGravity(pos, radius, n.members[0], acc, c)
		return
	}

	min := vec2.Scale(n.dims, n.params.NodeComDistF)
	d := vec2.Sub(n.com, pos)

	if absf(d[0]) > min[0] && absf(d[1]) > min[1] && vec2.SqMag(d) > n.radiusSq {
		applyPointGravity(pos, radius, n.toPoint(), acc, c)
		return
	}

	if n.isLeaf {
		for _, m := range n.members {
			applyPointGravity(pos, radius, m, acc, c)
		}
		return
	}
	for _, q := range n.quad {
		q.applyGravity(pos, radius, acc, c)
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// applyPointGravity is the gravity kernel shared by every tree walk: a
// source point mass at source.Pos exerts G·m/dist² on target, added to
// acc along the direction from target to source. Skipped entirely if
// target and source are within contact distance (sum of radii). Unlike
// simcpu.Step, this kernel never applies the short-range repulsion
// coefficient: repulsion is a dense-neighbor effect the coarse Barnes-Hut
// approximation cannot represent once a node has collapsed to a point.
func applyPointGravity(pos vec2.Vec2, radius float32, source particle.Particle, acc *vec2.Vec2, c simcpu.Constants) {
	radv := vec2.Sub(source.Pos, pos)
	dist := vec2.Mag(radv)
	if dist <= radius+source.Radius {
		return
	}
	g := (c.G * source.Mass) / (dist * dist)
	*acc = vec2.Add(*acc, vec2.Scale(radv, g/dist))
}

// Tree is a Barnes–Hut quadtree over a fixed bounding box, rebuilt from
// scratch on every Update call.
type Tree struct {
	quad    [4]*Node
	from    vec2.Vec2
	dims    vec2.Vec2
	members []particle.Particle
	params  Params
}

// New allocates a quadtree spanning [from, to), built and walked with the
// given params.
func New(from, to vec2.Vec2, params Params) *Tree {
	t := &Tree{from: from, dims: vec2.Sub(to, from), params: params}
	t.quad = initQuad(from, t.dims, params)
	return t
}

// Update rebuilds the tree from ps. The four top-level quadrants are
// built in parallel; recursion below that level is sequential per subtree.
func (t *Tree) Update(ps []particle.Particle) {
	t.members = append(t.members[:0], ps...)

	var wg sync.WaitGroup
	wg.Add(4)
	for _, q := range t.quad {
		go func(q *Node) {
			defer wg.Done()
			q.update(t.members)
		}(q)
	}
	wg.Wait()
}

// ApplyGravity walks the tree and returns the acceleration felt at pos by
// a body with the given radius. An empty tree contributes nothing.
func (t *Tree) ApplyGravity(pos vec2.Vec2, radius float32, c simcpu.Constants) vec2.Vec2 {
	acc := vec2.Zero
	for _, q := range t.quad {
		q.applyGravity(pos, radius, &acc, c)
	}
	return acc
}
