package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"luct/reporting/internal/model"
)

// RatingCache keeps per-lecture rating averages in Redis. A nil client turns
// every call into a miss or a no-op so the server runs without Redis.
type RatingCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{redis: client, ttl: ttl}
}

func (c *RatingCache) Enabled() bool {
	return c != nil && c.redis != nil
}

func (c *RatingCache) Get(ctx context.Context, lectureID int64) (model.RatingSummary, bool, error) {
	if !c.Enabled() {
		return model.RatingSummary{}, false, nil
	}
	value, err := c.redis.Get(ctx, ratingSummaryKey(lectureID)).Result()
	if err == redis.Nil {
		return model.RatingSummary{}, false, nil
	}
	if err != nil {
		return model.RatingSummary{}, false, err
	}
	var summary model.RatingSummary
	if err := json.Unmarshal([]byte(value), &summary); err != nil {
		return model.RatingSummary{}, false, err
	}
	return summary, true, nil
}

func (c *RatingCache) Set(ctx context.Context, summary model.RatingSummary) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, ratingSummaryKey(summary.LectureID), data, c.ttl).Err()
}

func (c *RatingCache) Invalidate(ctx context.Context, lectureID int64) error {
	if !c.Enabled() {
		return nil
	}
	return c.redis.Del(ctx, ratingSummaryKey(lectureID)).Err()
}

func ratingSummaryKey(lectureID int64) string {
	return fmt.Sprintf("rating_summary:%d", lectureID)
}
