package repository

import (
	"context"

	"github.com/track-synthesizer/internal/domain"
)

// DatasetExporter выгружает сценарий в файлы
type DatasetExporter interface {
	// Export записывает сценарий и возвращает пути созданных файлов
	Export(ctx context.Context, key string, sc *domain.Scenario) ([]string, error)
}
