package resolver

import (
	"strings"
	"unicode"
)

// Strategy scores how similar two strings are on a 0..1 scale.
// Strategies are tried in the order they are registered; the first one
// producing a candidate above the threshold wins.
type Strategy interface {
	Name() string
	Similarity(a, b string) float64
}

// LevenshteinStrategy scores by normalized edit distance:
// 1 - (distance / max(len(a), len(b))).
type LevenshteinStrategy struct{}

func (LevenshteinStrategy) Name() string { return "levenshtein" }

func (LevenshteinStrategy) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein(ra, rb)
	return 1.0 - float64(dist)/float64(maxLen)
}

// levenshtein computes edit distance with a two-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// TokenOverlapStrategy is the lighter-weight fallback metric:
// |intersection| / max(|tokens_a|, |tokens_b|).
type TokenOverlapStrategy struct{}

func (TokenOverlapStrategy) Name() string { return "token_overlap" }

func (TokenOverlapStrategy) Similarity(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(ta))
	for _, tok := range ta {
		setA[tok] = true
	}
	setB := make(map[string]bool, len(tb))
	for _, tok := range tb {
		setB[tok] = true
	}

	common := 0
	for tok := range setA {
		if setB[tok] {
			common++
		}
	}

	maxLen := len(setA)
	if len(setB) > maxLen {
		maxLen = len(setB)
	}
	return float64(common) / float64(maxLen)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
