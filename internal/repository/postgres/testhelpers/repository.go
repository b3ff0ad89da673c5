package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain/repository"
	"github.com/track-synthesizer/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewScenarioRepositoryForTest creates a scenario repository with test database and logger
func NewScenarioRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ScenarioRepository {
	return postgres.NewScenarioRepository(NewDBForTest(db, logger))
}

// NewEffortRepositoryForTest creates an effort repository with test database and logger
func NewEffortRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.EffortRepository {
	return postgres.NewEffortRepository(NewDBForTest(db, logger))
}
