package repository

import (
	"context"
	"time"

	"github.com/track-synthesizer/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetSummary получает сводку сценария; nil, nil при промахе
	GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error)

	// SetSummary сохраняет сводку сценария
	SetSummary(ctx context.Context, summary *domain.ScenarioSummary, ttl time.Duration) error

	// DeleteSummary удаляет сводку сценария
	DeleteSummary(ctx context.Context, key string) error
}
