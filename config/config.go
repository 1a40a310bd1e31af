// Package config holds the build-time force constants and tree parameters
// that parameterize every kernel (simcpu, quadtree, gpusim). Values load
// from YAML or fall back to the spec's documented defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nbody-go/nbody/quadtree"
	"github.com/nbody-go/nbody/simcpu"
)

// Config is the full set of constants a World is constructed with.
type Config struct {
	// G is the gravitational constant.
	G float32 `yaml:"g"`
	// NCoef is the short-range repulsion coefficient; 0 disables it.
	NCoef float32 `yaml:"n_coef"`
	// Friction is the velocity-proportional damping coefficient, in (-1, 0].
	Friction float32 `yaml:"friction"`
	// WorkgroupSizeX is the GPU compute workgroup size along x.
	WorkgroupSizeX uint32 `yaml:"workgroup_size_x"`
	// LeafMaxBodies is the quadtree leaf split threshold.
	LeafMaxBodies int `yaml:"leaf_max_bodies"`
	// NodeComDistF scales node dims into the Barnes-Hut opening distance.
	NodeComDistF float32 `yaml:"node_com_dist_f"`
	// NodeEndWidth/NodeEndHeight are the minimum splittable node dims.
	NodeEndWidth  float32 `yaml:"node_end_width"`
	NodeEndHeight float32 `yaml:"node_end_height"`
}

// Default returns the configuration documented in the external interface:
// G=10, repulsion and friction disabled, 256-wide GPU workgroups.
func Default() Config {
	return Config{
		G:              10.0,
		NCoef:          0,
		Friction:       0,
		WorkgroupSizeX: 256,
		LeafMaxBodies:  1,
		NodeComDistF:   1.5,
		NodeEndWidth:   1.0,
		NodeEndHeight:  1.0,
	}
}

// Load reads a YAML file at path, layering it over Default so any field
// the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports a contract violation in cfg. Called at World
// construction time; an invalid Config is a programmer error, not a
// runtime condition, so the caller should treat a non-nil error as fatal.
func (c Config) Validate() error {
	if c.Friction <= -1 || c.Friction > 0 {
		return fmt.Errorf("config: friction %v out of range (-1, 0]", c.Friction)
	}
	if c.WorkgroupSizeX == 0 {
		return fmt.Errorf("config: workgroup_size_x must be > 0")
	}
	if c.LeafMaxBodies < 1 {
		return fmt.Errorf("config: leaf_max_bodies must be >= 1")
	}
	return nil
}

// SimConstants narrows cfg to the force constants the CPU kernel and
// quadtree walk need.
func (c Config) SimConstants() simcpu.Constants {
	return simcpu.Constants{G: c.G, N: c.NCoef, F: c.Friction}
}

// QuadtreeParams narrows cfg to the build/walk thresholds a quadtree.Tree
// is constructed with.
func (c Config) QuadtreeParams() quadtree.Params {
	return quadtree.Params{
		LeafMaxBodies: c.LeafMaxBodies,
		NodeComDistF:  c.NodeComDistF,
		NodeEndWidth:  c.NodeEndWidth,
		NodeEndHeight: c.NodeEndHeight,
	}
}
