package supertag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBufferLayout(t *testing.T) {
	buf := newScoreBuffer(2, 3)
	copy(buf.Row(0), []float32{0.1, 0.2, 0.3})
	copy(buf.Row(1), []float32{0.4, 0.5, 0.6})

	assert.Equal(t, 6, buf.Len())
	assert.InDelta(t, 0.2, buf.Score(0, 1), 1e-6)
	assert.InDelta(t, 0.4, buf.Score(1, 0), 1e-6)
	// Row-major: token rows are contiguous segments.
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, buf.Row(1))
}

func TestScoreBufferTopK(t *testing.T) {
	dir := newModelDir(t, "NP\nS/NP\nS\\NP\n")
	inv, err := LoadInventory(dir)
	require.NoError(t, err)

	buf := newScoreBuffer(1, 3)
	copy(buf.Row(0), []float32{0.2, 0.7, 0.1})

	top := buf.TopK(inv, 0, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "S/NP", top[0].Category.String())
	assert.InDelta(t, 0.7, top[0].Score, 1e-6)
	assert.Equal(t, "NP", top[1].Category.String())

	// k beyond the row width is clamped.
	assert.Len(t, buf.TopK(inv, 0, 10), 3)
	assert.Nil(t, buf.TopK(inv, 0, 0))
}

func TestScoreBufferTopKTieBreaksByIndex(t *testing.T) {
	dir := newModelDir(t, "NP\nS/NP\nS\\NP\n")
	inv, err := LoadInventory(dir)
	require.NoError(t, err)

	buf := newScoreBuffer(1, 3)
	copy(buf.Row(0), []float32{0.5, 0.5, 0.5})

	top := buf.TopK(inv, 0, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "NP", top[0].Category.String())
	assert.Equal(t, "S/NP", top[1].Category.String())
	assert.Equal(t, "S\\NP", top[2].Category.String())
}

func TestScoreBufferClone(t *testing.T) {
	buf := newScoreBuffer(1, 2)
	copy(buf.Row(0), []float32{1, 2})

	cl := buf.clone()
	cl.Row(0)[0] = 9
	assert.InDelta(t, 1.0, buf.Score(0, 0), 1e-6)
	assert.Equal(t, buf.Tokens(), cl.Tokens())
	assert.Equal(t, buf.Targets(), cl.Targets())
}
