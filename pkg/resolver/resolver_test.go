package resolver

import (
	"testing"

	"github.com/google/uuid"

	"ai-notechat-be/internal/entity"
)

func makeNotes() []*entity.Note {
	return []*entity.Note{
		{Id: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Title: "React Hooks", Content: "useState basics"},
		{Id: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Title: "Grocery List", Content: "milk, eggs, bread"},
		{Id: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Title: "Meeting Notes Q3", Content: "planning discussion about the roadmap"},
	}
}

func TestResolveExactTitle(t *testing.T) {
	r := New()
	matches := r.Resolve("react hooks", makeNotes())

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Note.Title != "React Hooks" {
		t.Errorf("wrong note: %s", matches[0].Note.Title)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("exact title must score 1.0, got %f", matches[0].Score)
	}
}

func TestResolveTitleSubstring(t *testing.T) {
	r := New()
	matches := r.Resolve("grocery", makeNotes())

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Note.Title != "Grocery List" {
		t.Errorf("wrong note: %s", matches[0].Note.Title)
	}
}

func TestResolveContentSubstring(t *testing.T) {
	r := New()
	matches := r.Resolve("roadmap", makeNotes())

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Note.Title != "Meeting Notes Q3" {
		t.Errorf("wrong note: %s", matches[0].Note.Title)
	}
}

func TestResolveFuzzyFallback(t *testing.T) {
	r := New()
	// One typo away from "React Hooks"; no substring tier matches.
	matches := r.Resolve("reactt hooks", makeNotes())

	if len(matches) != 1 {
		t.Fatalf("expected 1 fuzzy match, got %d", len(matches))
	}
	if matches[0].Note.Title != "React Hooks" {
		t.Errorf("wrong note: %s", matches[0].Note.Title)
	}
	if matches[0].Score <= DefaultThreshold {
		t.Errorf("fuzzy score %f should exceed threshold", matches[0].Score)
	}
}

func TestResolveBelowThreshold(t *testing.T) {
	r := New()
	matches := r.Resolve("quantum physics lecture", makeNotes())

	if len(matches) != 0 {
		t.Fatalf("expected empty result, got %d matches", len(matches))
	}
}

func TestResolveBlankDescription(t *testing.T) {
	r := New()
	for _, desc := range []string{"", "   ", "\t\n"} {
		if matches := r.Resolve(desc, makeNotes()); len(matches) != 0 {
			t.Errorf("blank description %q should resolve to empty, got %d", desc, len(matches))
		}
	}
}

func TestResolveEmptyNoteSet(t *testing.T) {
	r := New()
	if matches := r.Resolve("anything", nil); len(matches) != 0 {
		t.Error("empty note set should resolve to empty")
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	s := LevenshteinStrategy{}
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1.0},
		{"", "", 1.0},
		{"abc", "abd", 1.0 - 1.0/3.0},
		{"kitten", "sitting", 1.0 - 3.0/7.0},
		{"abc", "", 0.0},
	}
	for _, tt := range tests {
		got := s.Similarity(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenOverlapSimilarity(t *testing.T) {
	s := TokenOverlapStrategy{}
	tests := []struct {
		a, b string
		want float64
	}{
		{"react hooks", "react hooks", 1.0},
		{"react hooks", "react patterns", 0.5},
		{"a b c d", "a b", 0.5},
		{"one", "two", 0.0},
		{"", "anything", 0.0},
	}
	for _, tt := range tests {
		got := s.Similarity(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStrategyOrderIsRespected(t *testing.T) {
	// Token overlap alone resolves word reordering that levenshtein scores low.
	r := New(TokenOverlapStrategy{})
	notes := []*entity.Note{
		{Id: uuid.New(), Title: "Planning Roadmap Meeting Agenda"},
	}
	matches := r.Resolve("meeting agenda roadmap planning", notes)
	if len(matches) != 1 {
		t.Fatalf("expected token-overlap match, got %d", len(matches))
	}
	if matches[0].Score != 1.0 {
		t.Errorf("full token overlap should score 1.0, got %f", matches[0].Score)
	}
}
