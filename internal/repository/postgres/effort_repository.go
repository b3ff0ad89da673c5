package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	apperrors "github.com/track-synthesizer/internal/pkg/errors"
)

const defaultLeaderboardLimit = 10

type effortRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewEffortRepository(db *DB) repository.EffortRepository {
	return &effortRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetLeaderboard возвращает лучшие попытки на сегменте, по одной на пользователя
func (r *effortRepository) GetLeaderboard(ctx context.Context, segmentID uuid.UUID, limit int) ([]domain.GeneratedEffort, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	query := `
		SELECT * FROM (
			SELECT DISTINCT ON (user_id)
				id, segment_id, user_id, activity_id, started_at,
				elapsed_time_s, moving_time_s, average_speed_mps, max_speed_mps,
				start_fraction, end_fraction
			FROM segment_efforts
			WHERE segment_id = $1
			ORDER BY user_id, elapsed_time_s, started_at
		) best
		ORDER BY elapsed_time_s, started_at
		LIMIT $2
	`

	efforts := []domain.GeneratedEffort{}
	if err := r.db.SelectContext(ctx, &efforts, query, segmentID, limit); err != nil {
		r.logger.Error("Failed to get leaderboard",
			zap.String("segment_id", segmentID.String()),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	return efforts, nil
}
