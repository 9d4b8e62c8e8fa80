package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"flashcard-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore writes questions; used by the import flow.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// Insert stores a question keyed by its content-derived ID. Re-importing the
// same content is a no-op; inserted reports whether the row is new.
func (s *QuestionStore) Insert(ctx context.Context, q domain.Question) (inserted bool, err error) {
	data, err := json.Marshal(q)
	if err != nil {
		return false, fmt.Errorf("marshal question: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO questions (id, module_id, data) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		q.ID, q.ModuleID, data)
	if err != nil {
		return false, fmt.Errorf("insert question: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
