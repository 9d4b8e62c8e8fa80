// Package distractor picks plausible wrong answers for a multiple-choice
// presentation of a flashcard question.
package distractor

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"flashcard-quiz-service/internal/domain"
	"flashcard-quiz-service/internal/textsim"
)

// DefaultCount is how many distractors a deal asks for when unconfigured.
const DefaultCount = 4

// answerSimilarityLimit rejects candidate answers this close to the correct
// one; offering both alongside each other would give the answer away.
const answerSimilarityLimit = 0.9

// Selector scores and ranks candidate wrong answers by shared taxonomy.
// The mutex guards the shuffle source; everything else is per-call state.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector builds a selector with its own shuffle source.
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource is test-friendly: a fixed source gives a fixed shuffle.
func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{rnd: rand.New(src)}
}

// Select returns at most count distractors for target from corpus, ordered by
// descending taxonomy score. Candidates come only from the target's module;
// empty answers, answers already used (the correct one included), and answers
// nearly identical to the correct one are skipped. Equal scores are shuffled
// rather than fixed, and zero-score candidates backfill when high scorers run
// out. Fewer than count results is a valid outcome.
func (s *Selector) Select(target domain.Question, corpus []domain.Question, count int) []domain.DistractorCandidate {
	if count <= 0 {
		return []domain.DistractorCandidate{}
	}

	candidates := make([]domain.DistractorCandidate, 0, len(corpus))
	for _, q := range corpus {
		if q.ID == target.ID || q.ModuleID != target.ModuleID {
			continue
		}
		candidates = append(candidates, domain.DistractorCandidate{
			QuestionID: q.ID,
			Answer:     strings.TrimSpace(q.Answer),
			Score:      score(target, q),
		})
	}

	// Shuffle before the stable sort so equal-score candidates rotate between
	// deals instead of always surfacing the same set.
	s.mu.Lock()
	s.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	s.mu.Unlock()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	used := map[string]struct{}{
		strings.TrimSpace(target.Answer): {},
	}
	selected := make([]domain.DistractorCandidate, 0, count)
	for _, c := range candidates {
		if len(selected) == count {
			break
		}
		if c.Answer == "" {
			continue
		}
		if _, taken := used[c.Answer]; taken {
			continue
		}
		if textsim.Ratio(c.Answer, target.Answer) >= answerSimilarityLimit {
			continue
		}
		used[c.Answer] = struct{}{}
		selected = append(selected, c)
	}
	return selected
}

// score is the composite taxonomy overlap: tags weigh most, then subtopics,
// then topics.
func score(target, candidate domain.Question) int {
	return 3*overlap(target.Tags, candidate.Tags) +
		2*overlap(target.Subtopics, candidate.Subtopics) +
		overlap(target.Topics, candidate.Topics)
}

func overlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	n := 0
	for _, v := range b {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
