// Package dedup flags semantic near-duplicates of a candidate question
// against the existing corpus of a module.
package dedup

import (
	"sort"

	"flashcard-quiz-service/internal/domain"
	"flashcard-quiz-service/internal/textsim"
)

// DefaultThreshold is the minimum similarity treated as a potential duplicate
// when the caller does not override it.
const DefaultThreshold = 0.3

// DefaultLimit caps how many matches are reported by default.
const DefaultLimit = 5

// Detector scores a candidate question against a corpus and reports matches
// above a threshold.
type Detector struct {
	engine *textsim.Engine
}

// NewDetector builds a detector around the given similarity engine,
// defaulting to one with the truncating stemmer when nil.
func NewDetector(engine *textsim.Engine) *Detector {
	if engine == nil {
		engine = textsim.NewEngine(nil)
	}
	return &Detector{engine: engine}
}

// FindDuplicates returns corpus questions whose prompts score at least
// threshold against queryText, ordered by descending similarity and truncated
// to limit. Equal scores keep corpus order. An empty corpus yields an empty
// result; an out-of-range threshold or non-positive limit is a caller error.
func (d *Detector) FindDuplicates(queryText string, corpus []domain.Question, limit int, threshold float64) ([]domain.DuplicateMatch, error) {
	if threshold < 0 || threshold > 1 {
		return nil, domain.ErrInvalidThreshold
	}
	if limit < 1 {
		return nil, domain.ErrInvalidLimit
	}
	if len(corpus) == 0 {
		return []domain.DuplicateMatch{}, nil
	}

	prompts := make([]string, len(corpus))
	for i, q := range corpus {
		prompts[i] = q.Prompt
	}
	scores := d.engine.Similarity(queryText, prompts)

	matches := make([]domain.DuplicateMatch, 0, len(corpus))
	for i, q := range corpus {
		if scores[i] >= threshold {
			matches = append(matches, domain.DuplicateMatch{
				QuestionID: q.ID,
				Prompt:     q.Prompt,
				Answer:     q.Answer,
				Similarity: scores[i],
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
