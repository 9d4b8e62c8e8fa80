package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ReplayGuard persists redeemed attempt tokens. The primary key on
// (user_id, token) is the concurrency control: a conflicting insert means the
// token was already redeemed, never an error.
type ReplayGuard struct {
	pool *pgxpool.Pool
}

func NewReplayGuard(pool *pgxpool.Pool) *ReplayGuard {
	return &ReplayGuard{pool: pool}
}

func (g *ReplayGuard) IsRedeemed(ctx context.Context, userID, tok string) (bool, error) {
	var redeemed bool
	err := g.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM redeemed_tokens WHERE user_id=$1 AND token=$2)`,
		userID, tok).Scan(&redeemed)
	if err != nil {
		return false, fmt.Errorf("check redeemed token: %w", err)
	}
	return redeemed, nil
}

func (g *ReplayGuard) MarkRedeemed(ctx context.Context, userID, tok string, at time.Time) (bool, error) {
	tag, err := g.pool.Exec(ctx,
		`INSERT INTO redeemed_tokens (user_id, token, redeemed_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		userID, tok, at)
	if err != nil {
		return false, fmt.Errorf("mark redeemed token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
