package textsim

import (
	"math"
	"testing"
)

func TestSimilarityIdenticalText(t *testing.T) {
	engine := NewEngine(nil)

	scores := engine.Similarity("same text here", []string{"same text here"})
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if math.Abs(scores[0]-1.0) > 1e-9 {
		t.Fatalf("expected similarity ~1.0 for identical text, got %f", scores[0])
	}
}

func TestSimilarityDisjointText(t *testing.T) {
	engine := NewEngine(nil)

	scores := engine.Similarity("completely unrelated", []string{"totally different"})
	if scores[0] != 0 {
		t.Fatalf("expected similarity 0 with no shared terms, got %f", scores[0])
	}
}

func TestSimilarityRephrasedQuestion(t *testing.T) {
	engine := NewEngine(nil)
	corpus := []string{"What is the capital of France?"}

	scores := engine.Similarity("What city is the capital of France?", corpus)
	if scores[0] < 0.3 {
		t.Fatalf("expected rephrased question to score >= 0.3, got %f", scores[0])
	}

	scores = engine.Similarity("What is the boiling point of water?", corpus)
	if scores[0] >= 0.3 {
		t.Fatalf("expected unrelated question below 0.3, got %f", scores[0])
	}
}

func TestSimilarityEmptyDocuments(t *testing.T) {
	engine := NewEngine(nil)

	scores := engine.Similarity("", []string{"", "a non empty question about algebra"})
	for i, score := range scores {
		if score != 0 {
			t.Fatalf("expected 0 for empty query at index %d, got %f", i, score)
		}
	}
}

func TestSimilarityAlignment(t *testing.T) {
	engine := NewEngine(nil)
	corpus := []string{
		"Photosynthesis converts light energy",
		"Newton's second law relates force and acceleration",
		"What is the capital of France?",
	}

	scores := engine.Similarity("capital city of France", corpus)
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[2] <= scores[0] || scores[2] <= scores[1] {
		t.Fatalf("expected France question to outscore the others, got %v", scores)
	}
}
