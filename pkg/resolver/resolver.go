package resolver

import (
	"sort"
	"strings"

	"ai-notechat-be/internal/entity"
)

// DefaultThreshold is the minimum fuzzy similarity for a candidate to count.
const DefaultThreshold = 0.6

// Match pairs a candidate note with its resolution score.
type Match struct {
	Note  *entity.Note
	Score float64
}

// Resolver maps a free-text description to concrete note records.
// Resolution runs in strict tiers; the first tier with at least one result
// wins:
//  1. case-insensitive exact title equality
//  2. description is a substring of the title
//  3. description is a substring of the content
//  4. fuzzy fallback over titles using the configured strategies in order
type Resolver struct {
	strategies []Strategy
	threshold  float64
}

// New builds a resolver with the given strategy chain.
// With no arguments it uses levenshtein first, token overlap as fallback.
func New(strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = []Strategy{LevenshteinStrategy{}, TokenOverlapStrategy{}}
	}
	return &Resolver{
		strategies: strategies,
		threshold:  DefaultThreshold,
	}
}

// WithThreshold overrides the fuzzy cutoff.
func (r *Resolver) WithThreshold(threshold float64) *Resolver {
	r.threshold = threshold
	return r
}

// Resolve returns candidate notes ordered by score descending.
// A blank description yields an empty result, never an error.
func (r *Resolver) Resolve(description string, notes []*entity.Note) []Match {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" || len(notes) == 0 {
		return []Match{}
	}

	// Tier 1: exact title equality
	if matches := r.exactTitle(desc, notes); len(matches) > 0 {
		return matches
	}

	// Tier 2: description contained in title
	if matches := r.substring(desc, notes, func(n *entity.Note) string { return n.Title }); len(matches) > 0 {
		return matches
	}

	// Tier 3: description contained in content
	if matches := r.substring(desc, notes, func(n *entity.Note) string { return n.Content }); len(matches) > 0 {
		return matches
	}

	// Tier 4: fuzzy fallback, strategies in order
	return r.fuzzy(desc, notes)
}

// ResolveBest returns only the top match, if any.
func (r *Resolver) ResolveBest(description string, notes []*entity.Note) (*Match, bool) {
	matches := r.Resolve(description, notes)
	if len(matches) == 0 {
		return nil, false
	}
	return &matches[0], true
}

func (r *Resolver) exactTitle(desc string, notes []*entity.Note) []Match {
	matches := make([]Match, 0)
	for _, n := range notes {
		if strings.ToLower(n.Title) == desc {
			matches = append(matches, Match{Note: n, Score: 1.0})
		}
	}
	sortMatches(matches)
	return matches
}

func (r *Resolver) substring(desc string, notes []*entity.Note, field func(*entity.Note) string) []Match {
	matches := make([]Match, 0)
	for _, n := range notes {
		haystack := strings.ToLower(field(n))
		if haystack == "" || !strings.Contains(haystack, desc) {
			continue
		}
		// Coverage ratio keeps tighter matches ranked first.
		matches = append(matches, Match{
			Note:  n,
			Score: float64(len(desc)) / float64(len(haystack)),
		})
	}
	sortMatches(matches)
	return matches
}

func (r *Resolver) fuzzy(desc string, notes []*entity.Note) []Match {
	for _, strategy := range r.strategies {
		var best *Match
		for _, n := range notes {
			score := strategy.Similarity(desc, strings.ToLower(n.Title))
			if score <= r.threshold {
				continue
			}
			if best == nil || score > best.Score ||
				(score == best.Score && n.Id.String() < best.Note.Id.String()) {
				best = &Match{Note: n, Score: score}
			}
		}
		if best != nil {
			return []Match{*best}
		}
	}
	return []Match{}
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Note.Id.String() < matches[j].Note.Id.String()
	})
}
