package supertag

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, KindONNX, cfg.Backend.Kind)
	assert.Equal(t, 512, cfg.Backend.MaxSeqLen)
}

func TestConfigClone(t *testing.T) {
	cfg := Config{TopK: 7, Backend: BackendConfig{Kind: KindLexicon, ModelDir: "/models/en"}}
	cl := cfg.Clone()
	cl.Backend.ModelDir = "/models/ja"

	assert.Equal(t, "/models/en", cfg.Backend.ModelDir)
	assert.Equal(t, 7, cl.TopK)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TopK)
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := Config{
		TopK:     10,
		MinScore: 0.01,
		Backend: BackendConfig{
			Kind:      KindLexicon,
			ModelDir:  "/models/en",
			MaxSeqLen: 256,
		},
	}
	require.NoError(t, SaveConfig(path, in))

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, out.TopK)
	assert.InDelta(t, 0.01, out.MinScore, 1e-6)
	assert.Equal(t, KindLexicon, out.Backend.Kind)
	assert.Equal(t, 256, out.Backend.MaxSeqLen)
}

func TestLoadConfigBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeModelFile(t, dir, "config.json", "{not json")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
