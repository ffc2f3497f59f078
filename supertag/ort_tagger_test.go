package supertag

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrtTaggerConstructionFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) BackendConfig
	}{
		{
			name: "empty model dir",
			cfg:  func(t *testing.T) BackendConfig { return BackendConfig{} },
		},
		{
			name: "nonexistent model directory",
			cfg: func(t *testing.T) BackendConfig {
				return BackendConfig{ModelDir: filepath.Join(t.TempDir(), "nope")}
			},
		},
		{
			name: "directory without target.txt",
			cfg: func(t *testing.T) BackendConfig {
				return BackendConfig{ModelDir: t.TempDir()}
			},
		},
		{
			name: "broken manifest",
			cfg: func(t *testing.T) BackendConfig {
				dir := newModelDir(t, testTargets)
				writeModelFile(t, dir, "model.yaml", "modelFile: [unclosed\n")
				return BackendConfig{ModelDir: dir}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tagger, err := NewOrtTagger(tc.cfg(t))
			assert.Nil(t, tagger)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestNewOnnxKindFailsBeforePredict(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	for _, kind := range []string{KindONNX, ""} {
		tagger, err := New(BackendConfig{Kind: kind, ModelDir: missing})
		assert.Nil(t, tagger, "kind %q", kind)
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr, "kind %q", kind)
	}
}

func TestReshapeRows(t *testing.T) {
	buf, err := reshapeRows([][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, buf.Len())
	assert.InDelta(t, 0.2, buf.Score(0, 1), 1e-6)
	assert.InDelta(t, 0.4, buf.Score(1, 0), 1e-6)
}

func TestReshapeRowsWidthMismatch(t *testing.T) {
	buf, err := reshapeRows([][]float32{{0.1, 0.2}}, 3)
	assert.Nil(t, buf)
	var predErr *PredictionError
	require.ErrorAs(t, err, &predErr)
}
