package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const templateCachePrefix = "credit_ratings:template:"

// RedisTemplateCache caches approved templates in Redis. Cache errors are
// logged and treated as misses.
type RedisTemplateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTemplateCache connects and pings Redis.
func NewRedisTemplateCache(cfg *config.RedisConfig) (*RedisTemplateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisTemplateCache{client: client, ttl: ttl}, nil
}

func (c *RedisTemplateCache) key(id string) string {
	return templateCachePrefix + id
}

func (c *RedisTemplateCache) Get(ctx context.Context, id string) (*models.AssessmentTemplate, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("template_id", id).Msg("template cache read failed")
		}
		return nil, false
	}

	var tpl models.AssessmentTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		logger.Warn().Err(err).Str("template_id", id).Msg("template cache entry corrupt")
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &tpl, true
}

// Set stores approved templates only; anything else may still change.
func (c *RedisTemplateCache) Set(ctx context.Context, tpl *models.AssessmentTemplate) {
	if tpl == nil || tpl.ApprovalStatus != models.ApprovalApproved {
		return
	}
	data, err := json.Marshal(tpl)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(tpl.ID), data, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("template_id", tpl.ID).Msg("template cache write failed")
	}
}

func (c *RedisTemplateCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		logger.Warn().Err(err).Str("template_id", id).Msg("template cache invalidate failed")
	}
}

func (c *RedisTemplateCache) Close() error {
	return c.client.Close()
}
