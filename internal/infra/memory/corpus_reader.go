package memory

import (
	"context"

	"flashcard-quiz-service/internal/domain"
)

// CorpusReader serves questions from an in-memory slice, grouped by module
// (useful for tests/demos).
type CorpusReader struct {
	byModule map[string][]domain.Question
	byID     map[string]domain.Question
}

func NewCorpusReader(questions []domain.Question) *CorpusReader {
	r := &CorpusReader{
		byModule: make(map[string][]domain.Question),
		byID:     make(map[string]domain.Question, len(questions)),
	}
	for _, q := range questions {
		r.byModule[q.ModuleID] = append(r.byModule[q.ModuleID], q)
		r.byID[q.ID] = q
	}
	return r
}

func (r *CorpusReader) QuestionsInModule(_ context.Context, moduleID string) ([]domain.Question, error) {
	questions := r.byModule[moduleID]
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

func (r *CorpusReader) QuestionByID(_ context.Context, questionID string) (domain.Question, error) {
	if q, ok := r.byID[questionID]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}
