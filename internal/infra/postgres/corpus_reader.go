package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"flashcard-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CorpusReader loads question JSONB from Postgres. Every call is a fresh
// read; staleness is worse than the extra round-trip for corpora this small.
type CorpusReader struct {
	pool *pgxpool.Pool
}

func NewCorpusReader(pool *pgxpool.Pool) *CorpusReader {
	return &CorpusReader{pool: pool}
}

func (r *CorpusReader) QuestionsInModule(ctx context.Context, moduleID string) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM questions WHERE module_id=$1 ORDER BY id`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("query module questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func (r *CorpusReader) QuestionByID(ctx context.Context, questionID string) (domain.Question, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM questions WHERE id=$1`, questionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question: %w", err)
	}
	return q, nil
}
