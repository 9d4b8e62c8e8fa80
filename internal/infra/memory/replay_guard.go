package memory

import (
	"context"
	"sync"
	"time"
)

// ReplayGuard is an in-memory implementation of app.ReplayGuard. The mutex
// gives the same insert-if-absent atomicity a storage uniqueness constraint
// provides.
type ReplayGuard struct {
	mu       sync.Mutex
	redeemed map[string]time.Time
}

func NewReplayGuard() *ReplayGuard {
	return &ReplayGuard{redeemed: make(map[string]time.Time)}
}

func (g *ReplayGuard) IsRedeemed(_ context.Context, userID, tok string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.redeemed[key(userID, tok)]
	return ok, nil
}

func (g *ReplayGuard) MarkRedeemed(_ context.Context, userID, tok string, at time.Time) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := key(userID, tok)
	if _, ok := g.redeemed[k]; ok {
		return false, nil
	}
	g.redeemed[k] = at
	return true, nil
}

func key(userID, tok string) string {
	return userID + "\x00" + tok
}
