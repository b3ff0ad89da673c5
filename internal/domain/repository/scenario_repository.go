package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
)

// ScenarioRepository - хранилище сгенерированных сценариев (PostgreSQL)
type ScenarioRepository interface {
	// Save сохраняет сценарий целиком в одной транзакции.
	// Существующий сценарий с тем же ключом заменяется.
	Save(ctx context.Context, summary *domain.ScenarioSummary, sc *domain.Scenario) error

	// GetSummary возвращает сводку сценария или errors.ErrScenarioNotFound
	GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error)

	// ListSegments возвращает сегменты сценария без геометрии
	ListSegments(ctx context.Context, key string) ([]domain.GeneratedSegment, error)

	// Delete удаляет сценарий и все связанные записи
	Delete(ctx context.Context, key string) error
}

// EffortRepository - чтение прохождений сегментов
type EffortRepository interface {
	// GetLeaderboard возвращает лучшие прохождения сегмента, по одному на пользователя,
	// отсортированные по времени
	GetLeaderboard(ctx context.Context, segmentID uuid.UUID, limit int) ([]domain.GeneratedEffort, error)
}
