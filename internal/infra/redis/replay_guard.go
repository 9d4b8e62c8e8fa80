package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayGuard records redeemed attempt tokens in a per-user Redis set.
// SADD is atomic insert-if-absent, so it doubles as the uniqueness constraint:
// a zero add-count means the pair was already redeemed.
type ReplayGuard struct {
	client *redis.Client
}

func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

func (g *ReplayGuard) IsRedeemed(ctx context.Context, userID, tok string) (bool, error) {
	redeemed, err := g.client.SIsMember(ctx, g.key(userID), tok).Result()
	if err != nil {
		return false, fmt.Errorf("check redeemed token: %w", err)
	}
	return redeemed, nil
}

func (g *ReplayGuard) MarkRedeemed(ctx context.Context, userID, tok string, _ time.Time) (bool, error) {
	added, err := g.client.SAdd(ctx, g.key(userID), tok).Result()
	if err != nil {
		return false, fmt.Errorf("mark redeemed token: %w", err)
	}
	return added == 1, nil
}

func (g *ReplayGuard) key(userID string) string {
	return "redeemed:" + userID
}
