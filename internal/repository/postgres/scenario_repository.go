package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	apperrors "github.com/track-synthesizer/internal/pkg/errors"
)

type scenarioRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewScenarioRepository(db *DB) repository.ScenarioRepository {
	return &scenarioRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	ScenarioKey  string    `db:"scenario_key"`
	Username     string    `db:"username"`
	ActivityType string    `db:"activity_type"`
	IsCreator    bool      `db:"is_creator"`
}

type activityRow struct {
	ID             uuid.UUID `db:"id"`
	ScenarioKey    string    `db:"scenario_key"`
	UserID         uuid.UUID `db:"user_id"`
	Name           string    `db:"name"`
	ActivityType   string    `db:"activity_type"`
	Visibility     string    `db:"visibility"`
	StartedAt      time.Time `db:"started_at"`
	DistanceM      float64   `db:"distance_m"`
	ElapsedTimeS   float64   `db:"elapsed_time_s"`
	ElevationGainM float64   `db:"elevation_gain_m"`
	TrackWKT       *string   `db:"track_wkt"`
}

type segmentRow struct {
	ID             uuid.UUID `db:"id"`
	ScenarioKey    string    `db:"scenario_key"`
	CreatorID      uuid.UUID `db:"creator_id"`
	Position       int       `db:"position"`
	Name           string    `db:"name"`
	ActivityType   string    `db:"activity_type"`
	Visibility     string    `db:"visibility"`
	Source         string    `db:"source"`
	DistanceM      float64   `db:"distance_m"`
	ElevationGainM float64   `db:"elevation_gain_m"`
	ElevationLossM float64   `db:"elevation_loss_m"`
	AverageGrade   float64   `db:"average_grade"`
	MaxGrade       float64   `db:"max_grade"`
	ClimbCategory  int       `db:"climb_category"`
	GeometryWKT    string    `db:"geometry_wkt"`
}

type effortRow struct {
	domain.GeneratedEffort
	ScenarioKey string `db:"scenario_key"`
}

const (
	insertScenarioQuery = `
		INSERT INTO scenarios (key, seed, summary, generated_at)
		VALUES ($1, $2, $3, $4)`

	insertUserQuery = `
		INSERT INTO synth_users (id, scenario_key, username, activity_type, is_creator)
		VALUES (:id, :scenario_key, :username, :activity_type, :is_creator)`

	insertActivityQuery = `
		INSERT INTO activities (
			id, scenario_key, user_id, name, activity_type, visibility, started_at,
			distance_m, elapsed_time_s, elevation_gain_m, track
		) VALUES (
			:id, :scenario_key, :user_id, :name, :activity_type, :visibility, :started_at,
			:distance_m, :elapsed_time_s, :elevation_gain_m, ST_GeomFromText(:track_wkt, 4326)
		)`

	insertSegmentQuery = `
		INSERT INTO segments (
			id, scenario_key, creator_id, position, name, activity_type, visibility, source,
			distance_m, elevation_gain_m, elevation_loss_m, average_grade, max_grade,
			climb_category, geometry
		) VALUES (
			:id, :scenario_key, :creator_id, :position, :name, :activity_type, :visibility, :source,
			:distance_m, :elevation_gain_m, :elevation_loss_m, :average_grade, :max_grade,
			:climb_category, ST_GeomFromText(:geometry_wkt, 4326)
		)`

	insertEffortQuery = `
		INSERT INTO segment_efforts (
			id, scenario_key, segment_id, user_id, activity_id, started_at,
			elapsed_time_s, moving_time_s, average_speed_mps, max_speed_mps,
			start_fraction, end_fraction
		) VALUES (
			:id, :scenario_key, :segment_id, :user_id, :activity_id, :started_at,
			:elapsed_time_s, :moving_time_s, :average_speed_mps, :max_speed_mps,
			:start_fraction, :end_fraction
		)`
)

// Save сохраняет сценарий целиком в одной транзакции
func (r *scenarioRepository) Save(ctx context.Context, summary *domain.ScenarioSummary, sc *domain.Scenario) error {
	start := time.Now()
	key := summary.Key

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return apperrors.ErrDatabaseError.Wrap(err)
	}
	defer func() {
		// после Commit вернет sql.ErrTxDone, это нормально
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenarios WHERE key = $1`, key); err != nil {
		return r.fail("delete previous scenario", key, err)
	}
	if _, err := tx.ExecContext(ctx, insertScenarioQuery, key, int64(sc.Seed), summaryJSON, summary.GeneratedAt); err != nil {
		return r.fail("insert scenario", key, err)
	}

	users := make([]interface{}, 0, len(sc.Users)+1)
	users = append(users, toUserRow(key, sc.Creator, true))
	for _, u := range sc.Users {
		users = append(users, toUserRow(key, u, false))
	}
	if err := execNamed(ctx, tx, insertUserQuery, users); err != nil {
		return r.fail("insert users", key, err)
	}

	activities := make([]interface{}, len(sc.Activities))
	for i, a := range sc.Activities {
		row, err := toActivityRow(key, a)
		if err != nil {
			return r.fail("encode activity track", key, err)
		}
		activities[i] = row
	}
	if err := execNamed(ctx, tx, insertActivityQuery, activities); err != nil {
		return r.fail("insert activities", key, err)
	}

	segments := make([]interface{}, len(sc.Segments))
	for i, s := range sc.Segments {
		row, err := toSegmentRow(key, i, s)
		if err != nil {
			return r.fail("encode segment geometry", key, err)
		}
		segments[i] = row
	}
	if err := execNamed(ctx, tx, insertSegmentQuery, segments); err != nil {
		return r.fail("insert segments", key, err)
	}

	efforts := make([]interface{}, len(sc.Efforts))
	for i, e := range sc.Efforts {
		efforts[i] = effortRow{GeneratedEffort: e, ScenarioKey: key}
	}
	if err := execNamed(ctx, tx, insertEffortQuery, efforts); err != nil {
		return r.fail("insert efforts", key, err)
	}

	if err := tx.Commit(); err != nil {
		return r.fail("commit", key, err)
	}

	r.logger.Info("Scenario saved",
		zap.String("key", key),
		zap.Int("users", len(users)),
		zap.Int("activities", len(activities)),
		zap.Int("segments", len(segments)),
		zap.Int("efforts", len(efforts)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// GetSummary возвращает сводку сценария
func (r *scenarioRepository) GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT summary FROM scenarios WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrScenarioNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get scenario summary", zap.String("key", key), zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	var summary domain.ScenarioSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		r.logger.Error("Failed to unmarshal scenario summary", zap.String("key", key), zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}
	return &summary, nil
}

// ListSegments возвращает сегменты сценария в порядке создания, без геометрии
func (r *scenarioRepository) ListSegments(ctx context.Context, key string) ([]domain.GeneratedSegment, error) {
	query := `
		SELECT
			id, creator_id, position, name, activity_type, visibility, source,
			distance_m, elevation_gain_m, elevation_loss_m, average_grade, max_grade,
			climb_category
		FROM segments
		WHERE scenario_key = $1
		ORDER BY position
	`

	var rows []segmentRow
	if err := r.db.SelectContext(ctx, &rows, query, key); err != nil {
		r.logger.Error("Failed to list segments", zap.String("key", key), zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	segments := make([]domain.GeneratedSegment, len(rows))
	for i, row := range rows {
		segments[i] = domain.GeneratedSegment{
			ID:             row.ID,
			CreatorID:      row.CreatorID,
			Name:           row.Name,
			ActivityType:   domain.ActivityType(row.ActivityType),
			Visibility:     domain.Visibility(row.Visibility),
			Source:         domain.SegmentSource(row.Source),
			DistanceM:      row.DistanceM,
			ElevationGainM: row.ElevationGainM,
			ElevationLossM: row.ElevationLossM,
			AverageGrade:   row.AverageGrade,
			MaxGrade:       row.MaxGrade,
			ClimbCategory:  domain.ClimbCategory(row.ClimbCategory),
		}
	}
	return segments, nil
}

// Delete удаляет сценарий; связанные записи удаляются каскадно
func (r *scenarioRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE key = $1`, key)
	if err != nil {
		r.logger.Error("Failed to delete scenario", zap.String("key", key), zap.Error(err))
		return apperrors.ErrDatabaseError.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrScenarioNotFound
	}
	return nil
}

func (r *scenarioRepository) fail(op, key string, err error) error {
	r.logger.Error("Failed to save scenario",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err))
	return apperrors.ErrDatabaseError.Wrap(fmt.Errorf("%s: %w", op, err))
}

// execNamed выполняет именованный запрос для каждой строки через один подготовленный statement
func execNamed(ctx context.Context, tx *sqlx.Tx, query string, rows []interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func toUserRow(key string, u domain.GeneratedUser, creator bool) userRow {
	return userRow{
		ID:           u.ID,
		ScenarioKey:  key,
		Username:     u.Username,
		ActivityType: string(u.ActivityType),
		IsCreator:    creator,
	}
}

func toActivityRow(key string, a domain.GeneratedActivity) (activityRow, error) {
	row := activityRow{
		ID:             a.ID,
		ScenarioKey:    key,
		UserID:         a.UserID,
		Name:           a.Name,
		ActivityType:   string(a.ActivityType),
		Visibility:     string(a.Visibility),
		StartedAt:      a.StartedAt,
		DistanceM:      a.DistanceM,
		ElapsedTimeS:   a.ElapsedTimeS,
		ElevationGainM: a.ElevationGainM,
	}
	// PostGIS не принимает линию из одной точки
	if len(a.Track) >= 2 {
		wkt, err := lineStringZ(a.Track)
		if err != nil {
			return row, err
		}
		row.TrackWKT = &wkt
	}
	return row, nil
}

func toSegmentRow(key string, position int, s domain.GeneratedSegment) (segmentRow, error) {
	wkt, err := lineStringZ(s.Points)
	if err != nil {
		return segmentRow{}, fmt.Errorf("segment %s: %w", s.ID, err)
	}
	return segmentRow{
		ID:             s.ID,
		ScenarioKey:    key,
		CreatorID:      s.CreatorID,
		Position:       position,
		Name:           s.Name,
		ActivityType:   string(s.ActivityType),
		Visibility:     string(s.Visibility),
		Source:         string(s.Source),
		DistanceM:      s.DistanceM,
		ElevationGainM: s.ElevationGainM,
		ElevationLossM: s.ElevationLossM,
		AverageGrade:   s.AverageGrade,
		MaxGrade:       s.MaxGrade,
		ClimbCategory:  int(s.ClimbCategory),
		GeometryWKT:    wkt,
	}, nil
}
