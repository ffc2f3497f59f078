package supertag

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const lexiconFile = "lexicon.tsv"

// LexiconTagger scores tokens from a word-to-category weight table read
// from lexicon.tsv in the model directory. Words absent from the table get
// a uniform fallback row. The tagger is read-only after construction and
// safe for concurrent use.
type LexiconTagger struct {
	inv      *Inventory
	entries  map[string][]float32
	fallback []float32
}

// NewLexiconTagger loads the inventory and lexicon from modelDir. Any
// missing or malformed resource is a *LoadError.
func NewLexiconTagger(modelDir string) (*LexiconTagger, error) {
	inv, err := LoadInventory(modelDir)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, inv.Size())
	for i := 0; i < inv.Size(); i++ {
		cat, _ := inv.At(i)
		index[cat.String()] = i
	}

	path := filepath.Join(modelDir, lexiconFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	entries := make(map[string][]float32)
	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: want 3 fields, got %d", lineno, len(fields))}
		}
		word := NormalizeToken(fields[0])
		idx, ok := index[fields[1]]
		if !ok {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: category %q not in inventory", lineno, fields[1])}
		}
		weight, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: bad weight: %w", lineno, err)}
		}
		row, ok := entries[word]
		if !ok {
			row = make([]float32, inv.Size())
			entries[word] = row
		}
		row[idx] = float32(weight)
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	fallback := make([]float32, inv.Size())
	uniform := float32(1) / float32(inv.Size())
	for i := range fallback {
		fallback[i] = uniform
	}
	return &LexiconTagger{inv: inv, entries: entries, fallback: fallback}, nil
}

// Predict scores each token from its lexicon row, falling back to a
// lowercase lookup and then to the uniform row for unknown words.
func (t *LexiconTagger) Predict(_ context.Context, tokens []string) (*ScoreBuffer, error) {
	if len(tokens) == 0 {
		return nil, &PredictionError{Err: ErrEmptyInput}
	}
	buf := newScoreBuffer(len(tokens), t.inv.Size())
	for i, tok := range tokens {
		word := NormalizeToken(tok)
		row, ok := t.entries[word]
		if !ok {
			row, ok = t.entries[strings.ToLower(word)]
		}
		if !ok {
			row = t.fallback
		}
		copy(buf.Row(i), row)
	}
	return buf, nil
}

// TargetSize returns the bound inventory's size.
func (t *LexiconTagger) TargetSize() int { return t.inv.Size() }

// TagAt returns the category at inventory index i.
func (t *LexiconTagger) TagAt(i int) (*Category, error) { return t.inv.At(i) }

// Inventory exposes the bound inventory for TopK ranking.
func (t *LexiconTagger) Inventory() *Inventory { return t.inv }
