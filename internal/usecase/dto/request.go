package dto

import (
	"time"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/synth/scenario"
)

// GenerateScenarioRequest - запрос на генерацию сценария.
// Пустые поля берутся из настроек генератора.
type GenerateScenarioRequest struct {
	Seed          uint32              `json:"seed"`
	Bounds        *domain.BoundingBox `json:"bounds,omitempty"`
	TerrainPreset string              `json:"terrain_preset,omitempty" validate:"omitempty,oneof=flat rolling hilly mountainous alpine"`
	ActivityType  string              `json:"activity_type,omitempty" validate:"omitempty,oneof=run ride hike walk dig"`
	Pattern       string              `json:"pattern,omitempty" validate:"omitempty,oneof=random_walk out_and_back loop"`
	StartTime     *time.Time          `json:"start_time,omitempty"`

	ReferenceTrackDistanceM     float64                  `json:"reference_track_distance_m,omitempty" validate:"omitempty,min=100,max=200000"`
	SegmentSlices               []scenario.FractionRange `json:"segment_slices,omitempty" validate:"omitempty,max=50,dive"`
	IndependentSegments         int                      `json:"independent_segments,omitempty" validate:"min=0,max=50"`
	IndependentSegmentDistanceM float64                  `json:"independent_segment_distance_m,omitempty" validate:"omitempty,min=100,max=50000"`
	DetectClimbs                *bool                    `json:"detect_climbs,omitempty"`

	Users             *int             `json:"users,omitempty" validate:"omitempty,min=0"`
	ActivitiesPerUser *float64         `json:"activities_per_user,omitempty" validate:"omitempty,min=0,max=100"`
	ActivityDistanceM float64          `json:"activity_distance_m,omitempty" validate:"omitempty,min=100,max=200000"`
	Coverage          *CoverageRequest `json:"coverage,omitempty"`
	Skill             *SkillRequest    `json:"skill,omitempty"`

	// Persist сохраняет сценарий в PostgreSQL
	Persist bool `json:"persist,omitempty"`
	// Export выгружает сценарий в Parquet
	Export bool `json:"export,omitempty"`
}

// CoverageRequest - политика покрытия сегментов попытками
type CoverageRequest struct {
	Policy   string  `json:"policy" validate:"required,oneof=full sparse zipf"`
	Fraction float64 `json:"fraction,omitempty" validate:"min=0,max=1"`
	Alpha    float64 `json:"alpha,omitempty" validate:"min=0"`
}

// SkillRequest - распределение уровня атлетов
type SkillRequest struct {
	Distribution string  `json:"distribution" validate:"required,oneof=uniform normal power_law"`
	Mean         float64 `json:"mean,omitempty" validate:"min=0"`
	StdDev       float64 `json:"std_dev,omitempty" validate:"min=0"`
	Alpha        float64 `json:"alpha,omitempty" validate:"min=0"`
}

// TrackPreviewRequest - запрос на генерацию одного трека
type TrackPreviewRequest struct {
	Seed          uint32              `json:"seed"`
	Bounds        *domain.BoundingBox `json:"bounds,omitempty"`
	Start         *Point              `json:"start,omitempty"`
	TerrainPreset string              `json:"terrain_preset,omitempty" validate:"omitempty,oneof=flat rolling hilly mountainous alpine"`
	ActivityType  string              `json:"activity_type,omitempty" validate:"omitempty,oneof=run ride hike walk dig"`
	Pattern       string              `json:"pattern,omitempty" validate:"omitempty,oneof=random_walk out_and_back loop"`
	DistanceM     float64             `json:"distance_m" validate:"required,min=50,max=100000"`
	StartTime     *time.Time          `json:"start_time,omitempty"`
}

// ClimbDetectionRequest - запрос на поиск подъемов в треке
type ClimbDetectionRequest struct {
	Points        []TrackPointInput `json:"points" validate:"required,min=2,max=100000,dive"`
	ActivityType  string            `json:"activity_type,omitempty" validate:"omitempty,oneof=run ride hike walk dig"`
	MinClimbGainM float64           `json:"min_climb_gain_m,omitempty" validate:"omitempty,min=1,max=1000"`
}

// Point - координаты точки
type Point struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// TrackPointInput - точка трека с обязательной высотой
type TrackPointInput struct {
	Lat       float64  `json:"lat" validate:"min=-90,max=90"`
	Lon       float64  `json:"lon" validate:"min=-180,max=180"`
	Elevation *float64 `json:"elevation" validate:"required"`
}

// LeaderboardRequest - параметры таблицы лидеров сегмента
type LeaderboardRequest struct {
	SegmentID string `json:"segment_id" validate:"required,uuid"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}
