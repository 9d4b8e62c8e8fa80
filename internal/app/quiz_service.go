package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"flashcard-quiz-service/internal/dedup"
	"flashcard-quiz-service/internal/distractor"
	"flashcard-quiz-service/internal/domain"
	"flashcard-quiz-service/internal/token"
)

// CorpusReader abstracts how question content is fetched (in-memory, Postgres,
// etc). Reads are always fresh; the core never caches corpus data.
type CorpusReader interface {
	QuestionsInModule(ctx context.Context, moduleID string) ([]domain.Question, error)
	QuestionByID(ctx context.Context, questionID string) (domain.Question, error)
}

// ReplayGuard persists which attempt tokens have already been redeemed for a
// correct answer. MarkRedeemed is idempotent; firstTime reports whether this
// call inserted the pair, so concurrent duplicates surface as replays.
type ReplayGuard interface {
	IsRedeemed(ctx context.Context, userID, tok string) (bool, error)
	MarkRedeemed(ctx context.Context, userID, tok string, at time.Time) (firstTime bool, err error)
}

// QuizService composes token issuance, distractor selection, duplicate
// detection, and replay protection into the deal/grade use cases.
type QuizService struct {
	corpus      CorpusReader
	replay      ReplayGuard
	tokens      *token.Service
	selector    *distractor.Selector
	detector    *dedup.Detector
	distractors int
	rndMu       sync.Mutex
	rnd         *rand.Rand
	now         func() time.Time
}

func NewQuizService(corpus CorpusReader, replay ReplayGuard, tokens *token.Service, selector *distractor.Selector, detector *dedup.Detector, distractorCount int) *QuizService {
	if distractorCount <= 0 {
		distractorCount = distractor.DefaultCount
	}
	return &QuizService{
		corpus:      corpus,
		replay:      replay,
		tokens:      tokens,
		selector:    selector,
		detector:    detector,
		distractors: distractorCount,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// DealQuestion picks a question from the module matching filters, attaches
// shuffled answer choices, and issues a single-use attempt token. Issuing is
// stateless: nothing is written until a correct answer comes back.
func (s *QuizService) DealQuestion(ctx context.Context, moduleID, userID string, filters domain.Filters) (domain.DealtQuestion, error) {
	questions, err := s.corpus.QuestionsInModule(ctx, moduleID)
	if err != nil {
		return domain.DealtQuestion{}, fmt.Errorf("load module corpus: %w", err)
	}

	matching := filterQuestions(questions, filters)
	if len(matching) == 0 {
		return domain.DealtQuestion{}, domain.ErrQuestionNotFound
	}
	question := matching[s.intn(len(matching))]

	answers := []string{question.Answer}
	for _, d := range s.selector.Select(question, questions, s.distractors) {
		answers = append(answers, d.Answer)
	}
	// Presentation order is shuffled independently of selection order.
	s.shuffle(answers)

	tok, err := s.tokens.Issue(question.ID, userID)
	if err != nil {
		return domain.DealtQuestion{}, fmt.Errorf("issue attempt token: %w", err)
	}

	return domain.DealtQuestion{
		QuestionID: question.ID,
		ModuleID:   question.ModuleID,
		Prompt:     question.Prompt,
		Answers:    answers,
		Topics:     question.Topics,
		Subtopics:  question.Subtopics,
		Tags:       question.Tags,
		Token:      tok,
	}, nil
}

// GradeAnswer verifies the attempt token, compares the submitted answer to the
// correct one, and consumes the token only on a first correct redemption.
// Incorrect answers leave the token live so the user can retry.
func (s *QuizService) GradeAnswer(ctx context.Context, tok, userID, submittedAnswer string) (domain.GradeResult, error) {
	redeemed, err := s.replay.IsRedeemed(ctx, userID, tok)
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("check redeemed: %w", err)
	}
	if redeemed {
		return domain.GradeResult{}, domain.ErrAlreadyRedeemed
	}

	questionID, err := s.tokens.Verify(tok, userID)
	if err != nil {
		return domain.GradeResult{}, err
	}

	question, err := s.corpus.QuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return domain.GradeResult{}, err
		}
		return domain.GradeResult{}, fmt.Errorf("load question: %w", err)
	}

	result := domain.GradeResult{
		QuestionID: questionID,
		Correct:    submittedAnswer == question.Answer,
	}
	if result.Correct {
		firstTime, err := s.replay.MarkRedeemed(ctx, userID, tok, s.now())
		if err != nil {
			return domain.GradeResult{}, fmt.Errorf("mark redeemed: %w", err)
		}
		if !firstTime {
			// A concurrent submission won the insert; this one is a replay.
			return domain.GradeResult{}, domain.ErrAlreadyRedeemed
		}
	}
	return result, nil
}

// CheckDuplicate scores candidateText against the module's corpus and returns
// matches at or above threshold, best first.
func (s *QuizService) CheckDuplicate(ctx context.Context, moduleID, candidateText string, limit int, threshold float64) ([]domain.DuplicateMatch, error) {
	questions, err := s.corpus.QuestionsInModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("load module corpus: %w", err)
	}
	return s.detector.FindDuplicates(candidateText, questions, limit, threshold)
}

func (s *QuizService) intn(n int) int {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.rnd.Intn(n)
}

func (s *QuizService) shuffle(answers []string) {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	s.rnd.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
}

// filterQuestions keeps questions matching every requested dimension; within a
// dimension, any listed value matches.
func filterQuestions(questions []domain.Question, filters domain.Filters) []domain.Question {
	matching := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if filters.QuestionID != "" && q.ID != filters.QuestionID {
			continue
		}
		if !matchesAny(q.Topics, filters.Topics) ||
			!matchesAny(q.Subtopics, filters.Subtopics) ||
			!matchesAny(q.Tags, filters.Tags) {
			continue
		}
		matching = append(matching, q)
	}
	return matching
}

func matchesAny(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, v := range have {
		set[v] = struct{}{}
	}
	for _, v := range want {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
