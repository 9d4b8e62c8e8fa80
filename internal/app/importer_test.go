package app_test

import (
	"context"
	"testing"

	"flashcard-quiz-service/internal/app"
	"flashcard-quiz-service/internal/dedup"
	"flashcard-quiz-service/internal/domain"
)

// fakeStore backs both sides of the import flow so freshly inserted cards are
// visible to later duplicate checks.
type fakeStore struct {
	questions []domain.Question
}

func (s *fakeStore) Insert(_ context.Context, q domain.Question) (bool, error) {
	for _, existing := range s.questions {
		if existing.ID == q.ID {
			return false, nil
		}
	}
	s.questions = append(s.questions, q)
	return true, nil
}

func (s *fakeStore) QuestionsInModule(_ context.Context, moduleID string) ([]domain.Question, error) {
	out := []domain.Question{}
	for _, q := range s.questions {
		if q.ModuleID == moduleID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeStore) QuestionByID(_ context.Context, questionID string) (domain.Question, error) {
	for _, q := range s.questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func TestImportAcceptsAndStoresCards(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	importer := app.NewImporter(store, store, dedup.NewDetector(nil), dedup.DefaultThreshold)

	report, err := importer.Import(ctx, []app.Flashcard{
		{Module: "geography", Question: "What is the capital of France?", Answer: "Paris", Tags: []string{"europe", " capitals "}},
		{Module: "geography", Question: "What is the longest river in Africa?", Answer: "The Nile"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Accepted) != 2 || len(report.Duplicates) != 0 || len(report.Errors) != 0 {
		t.Fatalf("expected both cards accepted, got %+v", report)
	}
	if len(store.questions) != 2 {
		t.Fatalf("expected 2 stored questions, got %d", len(store.questions))
	}
	if got := store.questions[0].Tags; len(got) != 2 || got[1] != "capitals" {
		t.Fatalf("expected trimmed tags, got %v", got)
	}
}

func TestImportSkipsSemanticDuplicates(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	importer := app.NewImporter(store, store, dedup.NewDetector(nil), dedup.DefaultThreshold)

	report, err := importer.Import(ctx, []app.Flashcard{
		{Module: "geography", Question: "What is the capital of France?", Answer: "Paris"},
		{Module: "geography", Question: "What city is the capital of France?", Answer: "Paris"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Accepted) != 1 {
		t.Fatalf("expected one accepted card, got %+v", report)
	}
	if len(report.Duplicates) != 1 || report.Duplicates[0].Reason != "semantic duplicate" {
		t.Fatalf("expected semantic duplicate skip, got %+v", report.Duplicates)
	}
}

func TestImportSkipsBatchRepeatsAndInvalidCards(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	importer := app.NewImporter(store, store, dedup.NewDetector(nil), dedup.DefaultThreshold)

	report, err := importer.Import(ctx, []app.Flashcard{
		{Module: "geography", Question: "What is the capital of Spain?", Answer: "Madrid"},
		{Module: "Geography", Question: "what is the capital of spain?", Answer: "Madrid"},
		{Module: "geography", Question: "", Answer: "Madrid"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Accepted) != 1 {
		t.Fatalf("expected one accepted card, got %+v", report)
	}
	if len(report.Duplicates) != 1 || report.Duplicates[0].Reason != "duplicate in batch" {
		t.Fatalf("expected batch duplicate skip, got %+v", report.Duplicates)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected one invalid card error, got %+v", report.Errors)
	}
}
