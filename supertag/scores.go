package supertag

import "sort"

// ScoreBuffer holds per-token category scores as a dense row-major matrix:
// all scores for token 0, then token 1, and so on. Each Predict call
// allocates a fresh buffer that the caller owns exclusively. Scores are raw
// backend output, not normalized probabilities.
type ScoreBuffer struct {
	scores  []float32
	tokens  int
	targets int
}

func newScoreBuffer(tokens, targets int) *ScoreBuffer {
	return &ScoreBuffer{
		scores:  make([]float32, tokens*targets),
		tokens:  tokens,
		targets: targets,
	}
}

// Len returns the total number of scores, tokens × targets.
func (b *ScoreBuffer) Len() int { return len(b.scores) }

// Tokens returns the number of token rows.
func (b *ScoreBuffer) Tokens() int { return b.tokens }

// Targets returns the number of categories per row.
func (b *ScoreBuffer) Targets() int { return b.targets }

// Score returns the score of category cat for token tok. Indexes are not
// range-checked; use Row for a bounds-safe view.
func (b *ScoreBuffer) Score(tok, cat int) float32 {
	return b.scores[tok*b.targets+cat]
}

// Row returns the score segment for one token. The slice aliases the
// buffer; index j within it corresponds to the inventory category at j.
func (b *ScoreBuffer) Row(tok int) []float32 {
	return b.scores[tok*b.targets : (tok+1)*b.targets]
}

// TagScore pairs a category with its score for one token.
type TagScore struct {
	Category *Category
	Score    float32
}

// TopK returns the k highest-scoring categories for token tok in
// descending score order, resolving indices through the given inventory.
func (b *ScoreBuffer) TopK(inv *Inventory, tok, k int) []TagScore {
	if k <= 0 {
		return nil
	}
	row := b.Row(tok)
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
	if k > len(idx) {
		k = len(idx)
	}
	out := make([]TagScore, 0, k)
	for _, i := range idx[:k] {
		cat, err := inv.At(i)
		if err != nil {
			continue
		}
		out = append(out, TagScore{Category: cat, Score: row[i]})
	}
	return out
}

func (b *ScoreBuffer) clone() *ScoreBuffer {
	out := &ScoreBuffer{
		scores:  make([]float32, len(b.scores)),
		tokens:  b.tokens,
		targets: b.targets,
	}
	copy(out.scores, b.scores)
	return out
}
