package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ClimbCategory - категория подъема (HC, 1..4 или без категории)
type ClimbCategory int

const (
	ClimbNone ClimbCategory = iota
	ClimbCat4
	ClimbCat3
	ClimbCat2
	ClimbCat1
	ClimbHC
)

var climbCategoryNames = map[ClimbCategory]string{
	ClimbNone: "",
	ClimbCat4: "4",
	ClimbCat3: "3",
	ClimbCat2: "2",
	ClimbCat1: "1",
	ClimbHC:   "HC",
}

func (c ClimbCategory) String() string {
	return climbCategoryNames[c]
}

// IsCategorized проверяет, что подъем имеет категорию
func (c ClimbCategory) IsCategorized() bool {
	return c != ClimbNone
}

// MarshalText кодирует категорию строкой ("HC", "1".."4" или "")
func (c ClimbCategory) MarshalText() ([]byte, error) {
	name, ok := climbCategoryNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown climb category %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText разбирает строковое представление категории
func (c *ClimbCategory) UnmarshalText(text []byte) error {
	for k, v := range climbCategoryNames {
		if v == string(text) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown climb category %q", string(text))
}

// SegmentSource - способ создания сегмента
type SegmentSource string

const (
	SegmentFromSlice SegmentSource = "slice"
	SegmentFromTrack SegmentSource = "track"
	SegmentFromClimb SegmentSource = "climb"
)

// GeneratedSegment - именованный участок маршрута, на котором засекаются попытки.
// Неизменяем после создания.
type GeneratedSegment struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	CreatorID      uuid.UUID     `json:"creator_id" db:"creator_id"`
	Name           string        `json:"name" db:"name"`
	ActivityType   ActivityType  `json:"activity_type" db:"activity_type"`
	Visibility     Visibility    `json:"visibility" db:"visibility"`
	Source         SegmentSource `json:"source" db:"source"`
	Points         []TrackPoint  `json:"points" db:"-"`
	DistanceM      float64       `json:"distance_m" db:"distance_m"`
	ElevationGainM float64       `json:"elevation_gain_m" db:"elevation_gain_m"`
	ElevationLossM float64       `json:"elevation_loss_m" db:"elevation_loss_m"`
	AverageGrade   float64       `json:"average_grade" db:"average_grade"`
	MaxGrade       float64       `json:"max_grade" db:"max_grade"`
	ClimbCategory  ClimbCategory `json:"climb_category" db:"climb_category"`
}

// Start первая точка сегмента
func (s *GeneratedSegment) Start() GeoPoint {
	return s.Points[0].GeoPoint
}

// End последняя точка сегмента
func (s *GeneratedSegment) End() GeoPoint {
	return s.Points[len(s.Points)-1].GeoPoint
}
