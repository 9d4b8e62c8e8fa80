package app

import (
	"context"
	"fmt"
	"strings"

	"flashcard-quiz-service/internal/dedup"
	"flashcard-quiz-service/internal/domain"
)

// QuestionWriter persists imported questions.
type QuestionWriter interface {
	Insert(ctx context.Context, q domain.Question) (inserted bool, err error)
}

// Flashcard is one entry of an import batch.
type Flashcard struct {
	Module    string   `json:"module"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Topics    []string `json:"topics,omitempty"`
	Subtopics []string `json:"subtopics,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// ImportReport summarizes an import batch.
type ImportReport struct {
	Accepted   []string          `json:"accepted"`
	Duplicates []DuplicateReport `json:"duplicates"`
	Errors     []string          `json:"errors"`
}

// DuplicateReport explains why a flashcard was skipped.
type DuplicateReport struct {
	Question string                  `json:"question"`
	Matches  []domain.DuplicateMatch `json:"matches,omitempty"`
	Reason   string                  `json:"reason"`
}

// Importer ingests flashcard batches, skipping semantic near-duplicates of
// what the module already holds.
type Importer struct {
	corpus    CorpusReader
	store     QuestionWriter
	detector  *dedup.Detector
	threshold float64
}

func NewImporter(corpus CorpusReader, store QuestionWriter, detector *dedup.Detector, threshold float64) *Importer {
	if threshold <= 0 {
		threshold = dedup.DefaultThreshold
	}
	return &Importer{corpus: corpus, store: store, detector: detector, threshold: threshold}
}

// Import processes cards in order. Each card is checked against a fresh read
// of its module's corpus, so duplicates within the batch are also caught once
// their predecessors are stored; an identical prompt seen earlier in the batch
// is skipped outright.
func (im *Importer) Import(ctx context.Context, cards []Flashcard) (ImportReport, error) {
	report := ImportReport{
		Accepted:   []string{},
		Duplicates: []DuplicateReport{},
		Errors:     []string{},
	}
	seen := make(map[string]struct{})

	for i, card := range cards {
		module := strings.TrimSpace(card.Module)
		prompt := strings.TrimSpace(card.Question)
		answer := strings.TrimSpace(card.Answer)
		if module == "" || prompt == "" || answer == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("card %d: question, answer, and module are required", i))
			continue
		}

		seenKey := strings.ToLower(module) + "\x00" + strings.ToLower(prompt)
		if _, ok := seen[seenKey]; ok {
			report.Duplicates = append(report.Duplicates, DuplicateReport{Question: prompt, Reason: "duplicate in batch"})
			continue
		}
		seen[seenKey] = struct{}{}

		existing, err := im.corpus.QuestionsInModule(ctx, module)
		if err != nil {
			return report, fmt.Errorf("load corpus for %q: %w", module, err)
		}
		matches, err := im.detector.FindDuplicates(prompt, existing, dedup.DefaultLimit, im.threshold)
		if err != nil {
			return report, fmt.Errorf("duplicate check for card %d: %w", i, err)
		}
		if len(matches) > 0 {
			report.Duplicates = append(report.Duplicates, DuplicateReport{
				Question: prompt,
				Matches:  matches,
				Reason:   "semantic duplicate",
			})
			continue
		}

		q := domain.Question{
			ID:        domain.QuestionID(module, prompt),
			ModuleID:  module,
			Prompt:    prompt,
			Answer:    answer,
			Topics:    cleanList(card.Topics),
			Subtopics: cleanList(card.Subtopics),
			Tags:      cleanList(card.Tags),
		}
		inserted, err := im.store.Insert(ctx, q)
		if err != nil {
			return report, fmt.Errorf("insert card %d: %w", i, err)
		}
		if !inserted {
			report.Duplicates = append(report.Duplicates, DuplicateReport{Question: prompt, Reason: "already stored"})
			continue
		}
		report.Accepted = append(report.Accepted, q.ID)
	}
	return report, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
