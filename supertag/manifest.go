package supertag

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const manifestFile = "model.yaml"

// Manifest describes the files a model directory provides. It is optional:
// a directory without model.yaml uses the defaults below.
type Manifest struct {
	Framework     string `yaml:"framework"`
	ModelFile     string `yaml:"modelFile"`
	TokenizerFile string `yaml:"tokenizerFile"`
	MaxSeqLen     int    `yaml:"maxSeqLen"`
	Language      string `yaml:"language"`
}

func defaultManifest() Manifest {
	return Manifest{
		Framework:     "onnx",
		ModelFile:     "model.onnx",
		TokenizerFile: "tokenizer.json",
		MaxSeqLen:     512,
	}
}

// LoadManifest reads model.yaml under modelDir. A missing manifest yields
// the defaults; a present but unparseable one is a *LoadError.
func LoadManifest(modelDir string) (Manifest, error) {
	m := defaultManifest()
	path := filepath.Join(modelDir, manifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return m, &LoadError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, &LoadError{Path: path, Err: fmt.Errorf("decode manifest: %w", err)}
	}
	if m.ModelFile == "" {
		m.ModelFile = "model.onnx"
	}
	if m.TokenizerFile == "" {
		m.TokenizerFile = "tokenizer.json"
	}
	if m.MaxSeqLen <= 0 {
		m.MaxSeqLen = 512
	}
	return m, nil
}
