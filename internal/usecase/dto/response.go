package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
)

// ScenarioResponse - результат генерации сценария
type ScenarioResponse struct {
	Summary   *domain.ScenarioSummary `json:"summary"`
	Files     []string                `json:"files,omitempty"`
	Cached    bool                    `json:"cached"`
	Persisted bool                    `json:"persisted"`
}

// SegmentListResponse - сегменты сохраненного сценария
type SegmentListResponse struct {
	Segments []domain.GeneratedSegment `json:"segments"`
	Total    int                       `json:"total"`
}

// LeaderboardResponse - лучшие попытки на сегменте
type LeaderboardResponse struct {
	SegmentID uuid.UUID          `json:"segment_id"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	ActivityID      uuid.UUID `json:"activity_id"`
	StartedAt       time.Time `json:"started_at"`
	ElapsedTimeS    float64   `json:"elapsed_time_seconds"`
	AverageSpeedMPS float64   `json:"average_speed_mps"`
}

// TrackPreviewResponse - сгенерированный трек
type TrackPreviewResponse struct {
	Points         []domain.TrackPoint `json:"points"`
	PointCount     int                 `json:"point_count"`
	DistanceM      float64             `json:"distance_m"`
	ElapsedTimeS   float64             `json:"elapsed_time_s"`
	ElevationGainM float64             `json:"elevation_gain_m"`
}

// ClimbDetectionResponse - найденные подъемы
type ClimbDetectionResponse struct {
	Climbs []domain.GeneratedSegment `json:"climbs"`
	Total  int                       `json:"total"`
}
