package testhelpers

import (
	"fmt"

	"github.com/track-synthesizer/internal/repository/postgres"
)

// ApplyMigrations brings the schema up to date using the same runner as the services
func ApplyMigrations(db *postgres.DB, migrationsPath string) error {
	if err := db.MigrateUp(migrationsPath); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
