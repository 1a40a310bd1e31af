package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbody-go/nbody/particle"
	"github.com/nbody-go/nbody/vec2"
)

// passthroughRenderer is the cmd/demo style implementation: it proves the
// Source contract is usable without drawing anything.
type passthroughRenderer struct {
	lastGen uint64
	calls   int
}

func (r *passthroughRenderer) Render(src Source) error {
	f, err := src.Frame()
	if err != nil {
		return err
	}
	r.lastGen = f.Generation
	r.calls++
	return nil
}

func (r *passthroughRenderer) Close() {}

type fixedSource struct {
	frame Frame
}

func (s fixedSource) Frame() (Frame, error) { return s.frame, nil }

func TestPassthroughRendererReadsFrame(t *testing.T) {
	src := fixedSource{frame: Frame{
		Generation: 3,
		Bodies:     []particle.Particle{particle.New(vec2.New(1, 1), 1, 1)},
	}}

	r := &passthroughRenderer{}
	var _ Renderer = r

	assert.NoError(t, r.Render(src))
	assert.Equal(t, uint64(3), r.lastGen)
	assert.Equal(t, 1, r.calls)
}
