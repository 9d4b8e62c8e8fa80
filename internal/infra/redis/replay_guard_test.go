package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestGuard(t *testing.T) *ReplayGuard {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewReplayGuard(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestReplayGuardMarkAndCheck(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	redeemed, err := guard.IsRedeemed(ctx, "u1", "tok-1")
	if err != nil || redeemed {
		t.Fatalf("expected fresh token unredeemed, got redeemed=%v err=%v", redeemed, err)
	}

	firstTime, err := guard.MarkRedeemed(ctx, "u1", "tok-1", time.Now())
	if err != nil || !firstTime {
		t.Fatalf("expected first mark to insert, got firstTime=%v err=%v", firstTime, err)
	}

	redeemed, _ = guard.IsRedeemed(ctx, "u1", "tok-1")
	if !redeemed {
		t.Fatalf("expected token redeemed after mark")
	}
}

func TestReplayGuardMarkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	if _, err := guard.MarkRedeemed(ctx, "u1", "tok-1", time.Now()); err != nil {
		t.Fatalf("mark: %v", err)
	}
	firstTime, err := guard.MarkRedeemed(ctx, "u1", "tok-1", time.Now())
	if err != nil {
		t.Fatalf("second mark should not fail: %v", err)
	}
	if firstTime {
		t.Fatalf("expected second mark to report firstTime=false")
	}
}

func TestReplayGuardScopesByUser(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	_, _ = guard.MarkRedeemed(ctx, "u1", "tok-1", time.Now())
	if redeemed, _ := guard.IsRedeemed(ctx, "u2", "tok-1"); redeemed {
		t.Fatalf("expected other user's pair untouched")
	}
}
