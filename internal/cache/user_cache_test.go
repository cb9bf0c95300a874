package cache

import (
	"context"
	"os"
	"testing"

	redis "github.com/redis/go-redis/v9"
)

type snapshot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Coins int64  `json:"coins"`
}

// A disabled cache must behave as a permanent miss, never an error.
func TestUserCache_Disabled(t *testing.T) {
	c := NewUserCache("", "", 0)

	var dest snapshot
	if c.Get(context.Background(), 1, &dest) {
		t.Fatalf("disabled cache returned a hit")
	}

	// writes and invalidations are silent no-ops
	c.Set(context.Background(), 1, snapshot{ID: 1})
	c.Invalidate(context.Background(), 1, 2, 3)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestUserCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	c := NewUserCacheWithClient(rdb)
	defer c.Close()

	ctx := context.Background()
	want := snapshot{ID: 901, Name: "cache-test", Coins: 150}

	c.Set(ctx, want.ID, want)

	var got snapshot
	if !c.Get(ctx, want.ID, &got) {
		t.Fatalf("expected a hit after set")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	c.Invalidate(ctx, want.ID)
	if c.Get(ctx, want.ID, &got) {
		t.Fatalf("expected a miss after invalidate")
	}
}
