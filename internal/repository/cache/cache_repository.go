package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	apperrors "github.com/track-synthesizer/internal/pkg/errors"
)

const summaryKeyPrefix = "scenario:summary:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, apperrors.ErrCacheError.Wrap(fmt.Errorf("cache get: %w", err))
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return apperrors.ErrCacheError.Wrap(fmt.Errorf("cache set: %w", err))
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return apperrors.ErrCacheError.Wrap(fmt.Errorf("cache delete: %w", err))
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetSummary получает сводку сценария из кеша
func (r *cacheRepository) GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error) {
	data, err := r.Get(ctx, summaryKeyPrefix+key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var summary domain.ScenarioSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		r.logger.Error("Failed to unmarshal summary from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}

	return &summary, nil
}

// SetSummary сохраняет сводку сценария в кеше
func (r *cacheRepository) SetSummary(ctx context.Context, summary *domain.ScenarioSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		r.logger.Error("Failed to marshal summary", zap.Error(err))
		return fmt.Errorf("marshal summary: %w", err)
	}

	return r.Set(ctx, summaryKeyPrefix+summary.Key, data, ttl)
}

// DeleteSummary удаляет сводку сценария из кеша
func (r *cacheRepository) DeleteSummary(ctx context.Context, key string) error {
	return r.Delete(ctx, summaryKeyPrefix+key)
}
