package path

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/utils"
	"github.com/track-synthesizer/internal/synth/athlete"
	"github.com/track-synthesizer/internal/synth/rng"
)

const (
	// minStepDuration минимальная длительность шага: время строго возрастает
	minStepDuration = 500 * time.Millisecond

	// minGradeStepM шаги короче считаются ровными
	minGradeStepM = 1.0
)

// ElevationSource - поле высот (terrain.Field)
type ElevationSource interface {
	ElevationAt(lat, lon float64) float64
}

// AttachTiming добавляет к точкам высоту и время по профилю атлета.
// Первая точка получает start; нулевой start означает текущее время.
func (g *Generator) AttachTiming(
	r *rand.Rand,
	points []domain.GeoPoint,
	field ElevationSource,
	kind athlete.Kind,
	start time.Time,
) []domain.TrackPoint {
	if len(points) == 0 {
		return nil
	}
	if start.IsZero() {
		start = time.Now().UTC()
	}

	elevations := make([]float64, len(points))
	for i, p := range points {
		elevations[i] = field.ElevationAt(p.Lat, p.Lon)
	}

	result := make([]domain.TrackPoint, len(points))
	current := start
	for i, p := range points {
		if i > 0 {
			prev := points[i-1]
			dist := utils.HaversineDistance(prev.Lat, prev.Lon, p.Lat, p.Lon)

			grade := 0.0
			if dist > minGradeStepM {
				grade = (elevations[i] - elevations[i-1]) / dist
			}

			speed := athlete.SpeedAtGrade(kind, grade, athlete.SampleVariance(r, kind))
			elapsed := dist / speed

			if rng.Bernoulli(r, g.cfg.PauseProbability) {
				elapsed += rng.Uniform(r, g.cfg.PauseMinS, g.cfg.PauseMaxS)
			}

			step := time.Duration(elapsed * float64(time.Second))
			if step < minStepDuration {
				step = minStepDuration
			}
			current = current.Add(step)
		}

		result[i] = g.jitter(r, p, elevations[i], current)
	}

	return result
}

func (g *Generator) jitter(r *rand.Rand, p domain.GeoPoint, elevation float64, at time.Time) domain.TrackPoint {
	sigma := utils.MetersToDegrees(g.cfg.PositionJitterM)
	noisy := g.bounds.Clamp(domain.GeoPoint{
		Lat: p.Lat + rng.Normal(r, 0, sigma),
		Lon: p.Lon + rng.Normal(r, 0, sigma),
	})

	ele := elevation + rng.Normal(r, 0, g.cfg.ElevationJitterM)
	ele = math.Round(ele*100) / 100
	t := at

	return domain.TrackPoint{
		GeoPoint:  noisy,
		Elevation: &ele,
		Time:      &t,
	}
}

// GenerateTrack = Generate + AttachTiming
func (g *Generator) GenerateTrack(
	r *rand.Rand,
	pattern Pattern,
	start domain.GeoPoint,
	targetM float64,
	field ElevationSource,
	kind athlete.Kind,
	startTime time.Time,
) []domain.TrackPoint {
	points := g.Generate(r, pattern, start, targetM)
	return g.AttachTiming(r, points, field, kind, startTime)
}
