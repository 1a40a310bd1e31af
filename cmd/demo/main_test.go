package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClearColorPhaseCycles(t *testing.T) {
	assert.Equal(t, 0.0, clearColorPhase(0))
	assert.Equal(t, 0.0, clearColorPhase(120))
	assert.InDelta(t, 0.5, clearColorPhase(60), 1e-9)
	assert.Less(t, clearColorPhase(119), 1.0)
}
