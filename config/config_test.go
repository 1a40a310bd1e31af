package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestDefaultMatchesExternalInterface(t *testing.T) {
	d := Default()
	assert.Equal(t, float32(10.0), d.G)
	assert.Equal(t, float32(0), d.NCoef)
	assert.Equal(t, float32(0), d.Friction)
	assert.Equal(t, uint32(256), d.WorkgroupSizeX)
	assert.Equal(t, 1, d.LeafMaxBodies)
	assert.Equal(t, float32(1.5), d.NodeComDistF)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nbody.yaml")
	require.NoError(t, os.WriteFile(path, []byte("g: 20.0\nfriction: -0.1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(20.0), cfg.G)
	assert.Equal(t, float32(-0.1), cfg.Friction)
	assert.Equal(t, uint32(256), cfg.WorkgroupSizeX) // untouched default
}

func TestValidateRejectsOutOfRangeFriction(t *testing.T) {
	cfg := Default()
	cfg.Friction = 1
	assert.Error(t, cfg.Validate())

	cfg.Friction = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroWorkgroup(t *testing.T) {
	cfg := Default()
	cfg.WorkgroupSizeX = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
