package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/validation"
)

// ValidationCache memoizes validation results keyed by workflow revision.
// Validation is pure over the definition, so a result stays correct until
// UpdatedAt changes and the key rolls over naturally.
type ValidationCache interface {
	Get(ctx context.Context, workflow *models.Workflow) (*validation.Result, bool)
	Set(ctx context.Context, workflow *models.Workflow, result validation.Result)
}

const validationCacheTTL = 24 * time.Hour

// RedisValidationCache stores results in Redis. Failures degrade to cache
// misses; the caller always has the validator to fall back on.
type RedisValidationCache struct {
	client *redis.Client
}

func NewRedisValidationCache(redisURL string) (*RedisValidationCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisValidationCache{client: redis.NewClient(opts)}, nil
}

func validationCacheKey(workflow *models.Workflow) string {
	return fmt.Sprintf("journey:validation:%s:%d", workflow.ID, workflow.UpdatedAt.UnixNano())
}

func (c *RedisValidationCache) Get(ctx context.Context, workflow *models.Workflow) (*validation.Result, bool) {
	payload, err := c.client.Get(ctx, validationCacheKey(workflow)).Bytes()
	if err != nil {
		// redis.Nil and transport errors both read as a miss.
		return nil, false
	}

	var result validation.Result

	err = json.Unmarshal(payload, &result)
	if err != nil {
		return nil, false
	}

	return &result, true
}

func (c *RedisValidationCache) Set(ctx context.Context, workflow *models.Workflow, result validation.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	c.client.Set(ctx, validationCacheKey(workflow), payload, validationCacheTTL)
}

func (c *RedisValidationCache) Close() error {
	return c.client.Close()
}
