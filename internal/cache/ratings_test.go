package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"luct/reporting/internal/model"
)

func TestRatingCacheWithoutRedis(t *testing.T) {
	c := NewRatingCache(nil, time.Minute)
	ctx := context.Background()

	if c.Enabled() {
		t.Fatalf("expected cache to be disabled")
	}
	if err := c.Set(ctx, model.RatingSummary{LectureID: 1, Average: 4, Count: 1}); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if _, ok, err := c.Get(ctx, 1); ok || err != nil {
		t.Fatalf("expected miss without error, got ok=%v err=%v", ok, err)
	}
	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}

	var unset *RatingCache
	if unset.Enabled() {
		t.Fatalf("expected nil cache to be disabled")
	}
}

func TestRatingSummaryKey(t *testing.T) {
	if key := ratingSummaryKey(42); key != "rating_summary:42" {
		t.Fatalf("unexpected key %s", key)
	}
}

func TestRatingCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("set REDIS_TEST_ADDR to run")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}

	c := NewRatingCache(client, time.Minute)
	summary := model.RatingSummary{LectureID: 9001, Average: 3.5, Count: 2}
	if err := c.Set(ctx, summary); err != nil {
		t.Fatalf("set error: %v", err)
	}
	got, ok, err := c.Get(ctx, 9001)
	if err != nil || !ok || got != summary {
		t.Fatalf("expected cached summary, got %+v ok=%v err=%v", got, ok, err)
	}
	if err := c.Invalidate(ctx, 9001); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, 9001); ok {
		t.Fatalf("expected miss after invalidate")
	}
}
