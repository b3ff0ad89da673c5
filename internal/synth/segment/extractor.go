// Package segment выделяет сегменты из треков, считает их статистику и категорию подъема.
package segment

import (
	"math"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/utils"
)

// minGradeStepM шаги короче не участвуют в расчете максимального уклона
const minGradeStepM = 1.0

// Config параметры выделения сегментов
type Config struct {
	MinLengthM    float64 `json:"min_length_m" validate:"min=0"`
	MaxLengthM    float64 `json:"max_length_m" validate:"gtfield=MinLengthM"`
	MinClimbGainM float64 `json:"min_climb_gain_m" validate:"gt=0"`
}

// DefaultConfig параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		MinLengthM:    200,
		MaxLengthM:    5000,
		MinClimbGainM: 10,
	}
}

// Meta - атрибуты создаваемого сегмента, задаются вызывающим
type Meta struct {
	ID           uuid.UUID
	CreatorID    uuid.UUID
	Name         string
	ActivityType domain.ActivityType
	Visibility   domain.Visibility
	Source       domain.SegmentSource
}

// Stats - геометрическая статистика участка
type Stats struct {
	DistanceM      float64
	ElevationGainM float64
	ElevationLossM float64
	AverageGrade   float64
	MaxGrade       float64
}

// Extractor создает сегменты. Не содержит изменяемого состояния.
type Extractor struct {
	cfg Config
}

// NewExtractor создает экстрактор
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Config возвращает параметры экстрактора
func (e *Extractor) Config() Config {
	return e.cfg
}

// ExtractFromTrack вырезает участок [startFraction, endFraction) трека.
// Возвращает false при противоречивых долях, если осталось меньше двух точек
// или длина вне допустимого диапазона.
func (e *Extractor) ExtractFromTrack(
	points []domain.TrackPoint,
	startFraction, endFraction float64,
	meta Meta,
) (*domain.GeneratedSegment, bool) {
	if math.IsNaN(startFraction) || math.IsNaN(endFraction) || startFraction >= endFraction {
		return nil, false
	}

	n := len(points)
	startIdx := int(math.Max(startFraction, 0) * float64(n))
	endIdx := int(math.Min(endFraction*float64(n), float64(n)))
	if endIdx-startIdx < 2 {
		return nil, false
	}

	if meta.Source == "" {
		meta.Source = domain.SegmentFromSlice
	}
	return e.FromPoints(points[startIdx:endIdx], meta)
}

// FromPoints строит сегмент из точек, если его длина в [MinLengthM, MaxLengthM]
func (e *Extractor) FromPoints(points []domain.TrackPoint, meta Meta) (*domain.GeneratedSegment, bool) {
	if len(points) < 2 {
		return nil, false
	}

	stats := ComputeStats(points)
	if stats.DistanceM < e.cfg.MinLengthM || stats.DistanceM > e.cfg.MaxLengthM {
		return nil, false
	}

	source := meta.Source
	if source == "" {
		source = domain.SegmentFromTrack
	}

	geometry := make([]domain.TrackPoint, len(points))
	copy(geometry, points)

	return &domain.GeneratedSegment{
		ID:             meta.ID,
		CreatorID:      meta.CreatorID,
		Name:           meta.Name,
		ActivityType:   meta.ActivityType,
		Visibility:     meta.Visibility,
		Source:         source,
		Points:         geometry,
		DistanceM:      stats.DistanceM,
		ElevationGainM: stats.ElevationGainM,
		ElevationLossM: stats.ElevationLossM,
		AverageGrade:   stats.AverageGrade,
		MaxGrade:       stats.MaxGrade,
		ClimbCategory:  ClassifyClimb(stats.ElevationGainM, stats.DistanceM, stats.AverageGrade, e.cfg.MinClimbGainM),
	}, true
}

// ComputeStats считает дистанцию, набор/сброс высоты и уклоны.
// AverageGrade - уклон по чистому перепаду (конец - начало) / дистанция.
// MaxGrade - уклон шага с наибольшим модулем среди шагов длиннее 1 м (со знаком).
func ComputeStats(points []domain.TrackPoint) Stats {
	var s Stats
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		d := utils.HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
		s.DistanceM += d

		if a.Elevation == nil || b.Elevation == nil {
			continue
		}
		delta := *b.Elevation - *a.Elevation
		if delta > 0 {
			s.ElevationGainM += delta
		} else {
			s.ElevationLossM += -delta
		}

		if d > minGradeStepM {
			g := delta / d
			if math.Abs(g) > math.Abs(s.MaxGrade) {
				s.MaxGrade = g
			}
		}
	}

	if len(points) >= 2 && s.DistanceM > 0 {
		first, last := points[0].Elevation, points[len(points)-1].Elevation
		if first != nil && last != nil {
			s.AverageGrade = (*last - *first) / s.DistanceM
		}
	}
	return s
}
