package supertag

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeToken performs Unicode NFKC normalization, trims whitespace and
// strips control characters from a single token.
func NormalizeToken(token string) string {
	normed := norm.NFKC.String(token)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// NormalizeTokens normalizes a token sequence into a new slice.
func NormalizeTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = NormalizeToken(t)
	}
	return out
}
