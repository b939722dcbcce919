package cache

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"rspo-readiness/internal/model"
)

// ProgressCache keeps each user's in-progress AssessmentData in Redis
type ProgressCache interface {
	Get(ctx context.Context, userID string) (*model.AssessmentData, error)
	Set(ctx context.Context, data *model.AssessmentData) error
	Delete(ctx context.Context, userID string) error
}

type progressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a progress cache; every write extends the TTL
func NewProgressCache(client *redis.Client, ttl time.Duration) ProgressCache {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &progressCache{
		client: client,
		ttl:    ttl,
	}
}

func progressKey(userID string) string {
	return fmt.Sprintf("assessment:%s", userID)
}

func (c *progressCache) Get(ctx context.Context, userID string) (*model.AssessmentData, error) {
	data, err := c.client.Get(ctx, progressKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var progress model.AssessmentData
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("decode progress for %s: %w", userID, err)
	}
	return &progress, nil
}

func (c *progressCache) Set(ctx context.Context, progress *model.AssessmentData) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, progressKey(progress.UserID), data, c.ttl).Err()
}

func (c *progressCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, progressKey(userID)).Err()
}
