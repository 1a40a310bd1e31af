// Package gpusim owns the compute shader and hosts it the way
// voxelrt/rt/shaders/shaders.go embeds its WGSL files.
package gpusim

import _ "embed"

//go:embed shaders/particle.wgsl
var particleWGSL string
