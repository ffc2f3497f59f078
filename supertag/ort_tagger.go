package supertag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"myccg/supertagger/infer"
)

// OrtTagger is the reference backend: an ONNX Runtime token-classification
// model plus its subword tokenizer, bound to the inventory loaded from the
// same model directory. Predict may be called from multiple goroutines; a
// mutex serializes the underlying session, whose scratch state is private
// to this instance.
type OrtTagger struct {
	inv   *Inventory
	cache *scoreCache

	mu   sync.Mutex
	sess *infer.Session
}

// NewOrtTagger loads the manifest, inventory and inference session from
// cfg.ModelDir. Every resource problem is a *LoadError; a tagger that
// constructs successfully is ready for Predict. The model directory path
// is not retained past construction.
func NewOrtTagger(cfg BackendConfig) (*OrtTagger, error) {
	if cfg.ModelDir == "" {
		return nil, &LoadError{Path: ".", Err: errors.New("model directory is required")}
	}
	manifest, err := LoadManifest(cfg.ModelDir)
	if err != nil {
		return nil, err
	}
	inv, err := LoadInventory(cfg.ModelDir)
	if err != nil {
		return nil, err
	}
	if cfg.ModelID == "" {
		cfg.ModelID = filepath.Base(cfg.ModelDir)
	}
	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, &LoadError{Path: cfg.CacheDir, Err: err}
		}
	}
	maxSeq := cfg.MaxSeqLen
	if maxSeq <= 0 {
		maxSeq = manifest.MaxSeqLen
	}
	sess := &infer.Session{}
	if err := sess.Init(infer.Config{
		OrtDLL:        cfg.OrtDLL,
		ModelPath:     filepath.Join(cfg.ModelDir, manifest.ModelFile),
		TokenizerPath: filepath.Join(cfg.ModelDir, manifest.TokenizerFile),
		MaxSeqLen:     maxSeq,
	}); err != nil {
		return nil, &LoadError{Path: cfg.ModelDir, Err: err}
	}
	return &OrtTagger{
		inv:   inv,
		cache: newScoreCache(cfg.CacheDir, cfg.ModelID),
		sess:  sess,
	}, nil
}

// Close releases the inference session. The inventory stays valid for
// callers that still hold categories from it.
func (t *OrtTagger) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess != nil {
		t.sess.Close()
		t.sess = nil
	}
	return nil
}

// Predict scores every token against the inventory. Each row of the result
// aligns with the inventory: score j of token i belongs to TagAt(j).
func (t *OrtTagger) Predict(_ context.Context, tokens []string) (*ScoreBuffer, error) {
	if len(tokens) == 0 {
		return nil, &PredictionError{Err: ErrEmptyInput}
	}
	normed := NormalizeTokens(tokens)
	for i, tok := range normed {
		if tok == "" {
			return nil, &PredictionError{Err: fmt.Errorf("token %d is empty after normalization", i)}
		}
	}

	key := t.cache.key(normed)
	if buf, ok := t.cache.get(key); ok {
		return buf, nil
	}
	if buf, ok, err := t.cache.load(key); err == nil && ok {
		t.cache.put(key, buf)
		return buf.clone(), nil
	}

	rows, err := t.score(normed)
	if err != nil {
		return nil, err
	}
	buf, err := reshapeRows(rows, t.inv.Size())
	if err != nil {
		return nil, err
	}
	t.cache.put(key, buf)
	_ = t.cache.save(key, buf)
	return buf.clone(), nil
}

// reshapeRows copies the kernel's per-token rows into the score buffer
// layout. A row whose width disagrees with the inventory is a
// *PredictionError: the call fails, the tagger stays usable.
func reshapeRows(rows [][]float32, targets int) (*ScoreBuffer, error) {
	buf := newScoreBuffer(len(rows), targets)
	for i, row := range rows {
		if len(row) != targets {
			return nil, &PredictionError{Err: fmt.Errorf("model emits %d scores per token, inventory has %d", len(row), targets)}
		}
		copy(buf.Row(i), row)
	}
	return buf, nil
}

func (t *OrtTagger) score(tokens []string) ([][]float32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return nil, errors.New("tagger is closed")
	}
	rows, err := t.sess.Score(tokens)
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	return rows, nil
}

// TargetSize returns the bound inventory's size.
func (t *OrtTagger) TargetSize() int { return t.inv.Size() }

// TagAt returns the category at inventory index i.
func (t *OrtTagger) TagAt(i int) (*Category, error) { return t.inv.At(i) }

// Inventory exposes the bound inventory for TopK ranking.
func (t *OrtTagger) Inventory() *Inventory { return t.inv }
