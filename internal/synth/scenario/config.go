// Package scenario собирает полный синтетический набор данных:
// эталонный трек, сегменты, пользователей, активности и прохождения.
package scenario

import (
	"fmt"
	"time"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/validator"
	"github.com/track-synthesizer/internal/synth/effort"
	"github.com/track-synthesizer/internal/synth/path"
	"github.com/track-synthesizer/internal/synth/segment"
	"github.com/track-synthesizer/internal/synth/terrain"
)

// DefaultEpoch время старта эталонного трека, если StartTime не задан
var DefaultEpoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// activityWindow окно, в котором разбрасываются старты активностей до StartTime
const activityWindow = 30 * 24 * time.Hour

// FractionRange - доли [Start, End) эталонного трека
type FractionRange struct {
	Start float64 `json:"start" validate:"min=0,max=1"`
	End   float64 `json:"end" validate:"min=0,max=1,gtfield=Start"`
}

// Config параметры сценария
type Config struct {
	Seed          uint32              `json:"seed"`
	Bounds        domain.BoundingBox  `json:"bounds"`
	TerrainPreset terrain.Preset      `json:"terrain_preset"`
	ActivityType  domain.ActivityType `json:"activity_type"`
	Pattern       path.Pattern        `json:"pattern"`
	StartTime     time.Time           `json:"start_time"`

	ReferenceTrackDistanceM     float64         `json:"reference_track_distance_m" validate:"gt=0"`
	SegmentSlices               []FractionRange `json:"segment_slices" validate:"dive"`
	IndependentSegments         int             `json:"independent_segments" validate:"min=0"`
	IndependentSegmentDistanceM float64         `json:"independent_segment_distance_m" validate:"required_unless=IndependentSegments 0,min=0"`
	DetectClimbs                bool            `json:"detect_climbs"`

	Users                int                   `json:"users" validate:"min=0"`
	ActivitiesPerUser    float64               `json:"activities_per_user" validate:"min=0"`
	MinActivitiesPerUser int                   `json:"min_activities_per_user" validate:"min=0"`
	ActivityDistanceM    float64               `json:"activity_distance_m" validate:"gt=0"`
	Coverage             effort.CoveragePolicy `json:"coverage"`

	Path    path.Config    `json:"path"`
	Segment segment.Config `json:"segment"`
	Effort  effort.Config  `json:"effort"`
}

// DefaultConfig сценарий по умолчанию: холмистая местность у Турина, 10 бегунов
func DefaultConfig() Config {
	return Config{
		Seed:                        1,
		Bounds:                      domain.BoundingBox{MinLat: 45.00, MinLon: 7.00, MaxLat: 45.10, MaxLon: 7.15},
		TerrainPreset:               terrain.PresetHilly,
		ActivityType:                domain.ActivityRun,
		Pattern:                     path.RandomWalk,
		StartTime:                   DefaultEpoch,
		ReferenceTrackDistanceM:     5000,
		SegmentSlices:               []FractionRange{{Start: 0.2, End: 0.8}},
		IndependentSegments:         0,
		IndependentSegmentDistanceM: 1500,
		DetectClimbs:                false,
		Users:                       10,
		ActivitiesPerUser:           3,
		MinActivitiesPerUser:        1,
		ActivityDistanceM:           5000,
		Coverage:                    effort.Full(),
		Path:                        path.DefaultConfig(),
		Segment:                     segment.DefaultConfig(),
		Effort:                      effort.DefaultConfig(),
	}
}

// Validate проверяет параметры: числовые диапазоны по тегам validate (включая вложенные
// конфигурации генератора, сегментов и прохождений), затем перечисления и политики.
func (c Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return err
	}
	if !c.ActivityType.IsValid() {
		return fmt.Errorf("unknown activity type %q", c.ActivityType)
	}
	if _, err := terrain.PresetConfig(c.TerrainPreset, c.Seed); err != nil {
		return err
	}
	if err := c.Coverage.Validate(); err != nil {
		return err
	}
	return c.Effort.Skill.Validate()
}
