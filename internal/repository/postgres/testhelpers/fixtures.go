package testhelpers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// CountRows returns the number of rows in table that belong to the scenario
func CountRows(db *sqlx.DB, table, scenarioKey string) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE scenario_key = $1", table)
	if err := db.GetContext(context.Background(), &n, query, scenarioKey); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// CountUsersByName returns how many of the given usernames exist in the scenario
func CountUsersByName(db *sqlx.DB, scenarioKey string, usernames []string) (int, error) {
	var n int
	err := db.GetContext(context.Background(), &n,
		"SELECT COUNT(*) FROM synth_users WHERE scenario_key = $1 AND username = ANY($2)",
		scenarioKey, pq.Array(usernames))
	if err != nil {
		return 0, fmt.Errorf("count users by name: %w", err)
	}
	return n, nil
}

// SegmentPointCount returns the number of vertices stored for a segment geometry
func SegmentPointCount(db *sqlx.DB, segmentID string) (int, error) {
	var n int
	err := db.GetContext(context.Background(), &n,
		"SELECT ST_NPoints(geometry) FROM segments WHERE id = $1", segmentID)
	if err != nil {
		return 0, fmt.Errorf("segment point count %s: %w", segmentID, err)
	}
	return n, nil
}
