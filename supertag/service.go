package supertag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// TokenTags holds the ranked category suggestions for a single token.
type TokenTags struct {
	Token string     `json:"token"`
	Tags  []TagScore `json:"tags"`
}

// Service orchestrates tagging on top of any Tagger: it requests scores
// and ranks the top categories per token. It depends only on the Tagger
// interface, never on a concrete backend.
type Service struct {
	tagger Tagger

	cfgMu sync.RWMutex
	cfg   Config

	logger *log.Logger
}

// NewService constructs a service around the given tagger and configuration.
func NewService(tagger Tagger, cfg Config, logger *log.Logger) (*Service, error) {
	if tagger == nil {
		return nil, errors.New("tagger is required")
	}
	cfg.ApplyDefaults()
	return &Service{tagger: tagger, cfg: cfg, logger: logger}, nil
}

// Close releases the tagger's resources when it holds any.
func (s *Service) Close() error {
	if c, ok := s.tagger.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// TargetSize returns the tagger's inventory size.
func (s *Service) TargetSize() int { return s.tagger.TargetSize() }

// TagSentence scores one pre-tokenized sentence and returns the top
// categories per token, filtered by the configured minimum score. Token
// normalization is the backend's job; tokens pass through untouched.
func (s *Service) TagSentence(ctx context.Context, tokens []string) ([]TokenTags, error) {
	cfg := s.Config()
	buf, err := s.tagger.Predict(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	out := make([]TokenTags, len(tokens))
	for i, tok := range tokens {
		out[i] = TokenTags{
			Token: tok,
			Tags:  s.rankRow(buf.Row(i), cfg.TopK, cfg.MinScore),
		}
	}
	return out, nil
}

// TagAll tags every sentence in order. It stops at the first failure.
func (s *Service) TagAll(ctx context.Context, sentences [][]string) ([][]TokenTags, error) {
	out := make([][]TokenTags, 0, len(sentences))
	for i, sentence := range sentences {
		rows, err := s.TagSentence(ctx, sentence)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		out = append(out, rows)
	}
	s.logf("Tagged %d sentences", len(out))
	return out, nil
}

// rankRow resolves categories through the Tagger interface only, so the
// service stays backend-agnostic.
func (s *Service) rankRow(row []float32, topK int, minScore float32) []TagScore {
	idx := make([]int, len(row))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		if row[idx[i]] == row[idx[j]] {
			return idx[i] < idx[j]
		}
		return row[idx[i]] > row[idx[j]]
	})
	if topK > len(idx) {
		topK = len(idx)
	}
	tags := make([]TagScore, 0, topK)
	for _, i := range idx[:topK] {
		if minScore > 0 && row[i] < minScore {
			break
		}
		cat, err := s.tagger.TagAt(i)
		if err != nil {
			continue
		}
		tags = append(tags, TagScore{Category: cat, Score: row[i]})
	}
	return tags
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
