package supertag

import (
	"context"
	"fmt"
)

// Tagger scores every token of a sentence against a fixed category
// inventory. Implementations bind to one inventory at construction; index j
// of every score row corresponds to TagAt(j) for as long as the tagger
// lives. Whether a tagger may be called from multiple goroutines is
// declared by each implementation; assume single-goroutine use otherwise.
type Tagger interface {
	// Predict returns a fresh ScoreBuffer of exactly
	// len(tokens) × TargetSize() scores for a non-empty token sequence.
	// An empty sequence fails with a *PredictionError; the tagger stays
	// usable afterwards.
	Predict(ctx context.Context, tokens []string) (*ScoreBuffer, error)

	// TargetSize returns the bound inventory's size. It never changes
	// across calls on the same instance.
	TargetSize() int

	// TagAt returns the category at the given inventory index, or
	// ErrOutOfRange outside [0, TargetSize()).
	TagAt(i int) (*Category, error)
}

// Backend kinds accepted by New.
const (
	KindONNX    = "onnx"
	KindLexicon = "lexicon"
)

// New constructs the tagger selected by cfg.Kind. Resource problems are
// reported as a *LoadError before the tagger is ever usable.
func New(cfg BackendConfig) (Tagger, error) {
	switch cfg.Kind {
	case KindONNX, "":
		return NewOrtTagger(cfg)
	case KindLexicon:
		return NewLexiconTagger(cfg.ModelDir)
	default:
		return nil, &LoadError{Path: cfg.ModelDir, Err: fmt.Errorf("unknown backend kind %q", cfg.Kind)}
	}
}
