package domain

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedUser - синтетический пользователь
type GeneratedUser struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Username     string       `json:"username" db:"username"`
	ActivityType ActivityType `json:"activity_type" db:"activity_type"`
}

// GeneratedActivity - синтетическая активность с треком
type GeneratedActivity struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	UserID         uuid.UUID    `json:"user_id" db:"user_id"`
	Name           string       `json:"name" db:"name"`
	ActivityType   ActivityType `json:"activity_type" db:"activity_type"`
	Visibility     Visibility   `json:"visibility" db:"visibility"`
	StartedAt      time.Time    `json:"started_at" db:"started_at"`
	Track          []TrackPoint `json:"track,omitempty" db:"-"`
	DistanceM      float64      `json:"distance_m" db:"distance_m"`
	ElapsedTimeS   float64      `json:"elapsed_time_s" db:"elapsed_time_s"`
	ElevationGainM float64      `json:"elevation_gain_m" db:"elevation_gain_m"`
}

// GeneratedEffort - одно прохождение сегмента пользователем в рамках активности.
// Неизменяемо после создания.
type GeneratedEffort struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SegmentID       uuid.UUID `json:"segment_id" db:"segment_id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	ActivityID      uuid.UUID `json:"activity_id" db:"activity_id"`
	StartedAt       time.Time `json:"started_at" db:"started_at"`
	ElapsedTimeS    float64   `json:"elapsed_time_seconds" db:"elapsed_time_s"`
	MovingTimeS     float64   `json:"moving_time_seconds" db:"moving_time_s"`
	AverageSpeedMPS float64   `json:"average_speed_mps" db:"average_speed_mps"`
	MaxSpeedMPS     float64   `json:"max_speed_mps" db:"max_speed_mps"`
	StartFraction   float64   `json:"start_fraction" db:"start_fraction"`
	EndFraction     float64   `json:"end_fraction" db:"end_fraction"`
}
