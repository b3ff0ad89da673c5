// Package path генерирует синтетические GPS-треки внутри ограничивающей области.
package path

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/utils"
	"github.com/track-synthesizer/internal/pkg/validator"
	"github.com/track-synthesizer/internal/synth/rng"
)

const (
	// boundaryInset отступ внутрь области при отражении от границы, градусы
	boundaryInset = 0.001

	// loopCoverage доля целевой дистанции, за которую петля делает полный оборот
	loopCoverage = 0.95

	// returnJitterDeg СКО смещения точек обратного пути, градусы
	returnJitterDeg = 0.00001

	randomWalkTurn = 0.3
	outAndBackTurn = 0.2
	loopTurnNoise  = 0.1
)

// Config параметры генератора
type Config struct {
	PointSpacingM    float64 `json:"point_spacing_m" validate:"gt=0"`
	PositionJitterM  float64 `json:"position_jitter_m" validate:"min=0"`
	ElevationJitterM float64 `json:"elevation_jitter_m" validate:"min=0"`
	PauseProbability float64 `json:"pause_probability" validate:"min=0,max=1"`
	PauseMinS        float64 `json:"pause_min_s" validate:"min=0"`
	PauseMaxS        float64 `json:"pause_max_s" validate:"min=0,gtefield=PauseMinS"`
}

// DefaultConfig параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		PointSpacingM:    10,
		PositionJitterM:  2,
		ElevationJitterM: 0.5,
		PauseProbability: 0.01,
		PauseMinS:        10,
		PauseMaxS:        120,
	}
}

// Generator строит последовательности координат в пределах области
type Generator struct {
	cfg    Config
	bounds domain.BoundingBox
}

// NewGenerator создает генератор. Пустая область или нулевой шаг - ошибка вызывающего.
func NewGenerator(cfg Config, bounds domain.BoundingBox) (*Generator, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}
	return &Generator{cfg: cfg, bounds: bounds}, nil
}

// Bounds возвращает область генерации
func (g *Generator) Bounds() domain.BoundingBox {
	return g.bounds
}

// Config возвращает параметры генератора
func (g *Generator) Config() Config {
	return g.cfg
}

// RandomStart выбирает стартовую точку во внутренней половине области
func (g *Generator) RandomStart(r *rand.Rand) domain.GeoPoint {
	b := g.bounds
	return domain.GeoPoint{
		Lat: rng.Uniform(r, b.MinLat+b.LatSpan()/4, b.MaxLat-b.LatSpan()/4),
		Lon: rng.Uniform(r, b.MinLon+b.LonSpan()/4, b.MaxLon-b.LonSpan()/4),
	}
}

// Generate строит маршрут заданного шаблона, приблизительно длиной targetM
func (g *Generator) Generate(r *rand.Rand, pattern Pattern, start domain.GeoPoint, targetM float64) []domain.GeoPoint {
	start = g.bounds.Clamp(start)
	if targetM <= 0 {
		return []domain.GeoPoint{start}
	}

	switch pattern {
	case OutAndBack:
		return g.outAndBack(r, start, targetM)
	case Loop:
		return g.loop(r, start, targetM)
	default:
		return g.randomWalk(r, start, targetM)
	}
}

// walker - общее состояние шага: позиция, курс, пройденная дистанция
type walker struct {
	g       *Generator
	pos     domain.GeoPoint
	heading float64
	dist    float64
	points  []domain.GeoPoint
}

func (g *Generator) newWalker(r *rand.Rand, start domain.GeoPoint, capacity int) *walker {
	points := make([]domain.GeoPoint, 0, capacity)
	points = append(points, start)
	return &walker{
		g:       g,
		pos:     start,
		heading: rng.Uniform(r, 0, 2*math.Pi),
		points:  points,
	}
}

// step делает один шаг по текущему курсу с отражением от границ
func (w *walker) step(r *rand.Rand) {
	length := w.g.cfg.PointSpacingM * rng.Uniform(r, 0.8, 1.2)
	dLat := length * math.Cos(w.heading) / utils.MetersPerDegree
	dLon := length * math.Sin(w.heading) / (utils.MetersPerDegree * math.Cos(w.pos.Lat*math.Pi/180))

	lat, lon, heading := ApplyBounds(w.g.bounds, w.pos.Lat+dLat, w.pos.Lon+dLon, w.heading)
	next := domain.GeoPoint{Lat: lat, Lon: lon}

	w.dist += utils.HaversineDistance(w.pos.Lat, w.pos.Lon, next.Lat, next.Lon)
	w.heading = heading
	w.pos = next
	w.points = append(w.points, next)
}

// maxSteps защищает от бесконечного цикла, если шаги у границы почти не дают прогресса
func (g *Generator) maxSteps(targetM float64) int {
	return int(10*targetM/(0.8*g.cfg.PointSpacingM)) + 100
}

func (g *Generator) estimatedPoints(targetM float64) int {
	return int(targetM/g.cfg.PointSpacingM) + 2
}

func (g *Generator) randomWalk(r *rand.Rand, start domain.GeoPoint, targetM float64) []domain.GeoPoint {
	w := g.newWalker(r, start, g.estimatedPoints(targetM))
	limit := g.maxSteps(targetM)
	for i := 0; w.dist < targetM && i < limit; i++ {
		w.heading += rng.Uniform(r, -randomWalkTurn, randomWalkTurn)
		w.step(r)
	}
	return w.points
}

func (g *Generator) outAndBack(r *rand.Rand, start domain.GeoPoint, targetM float64) []domain.GeoPoint {
	half := targetM / 2
	w := g.newWalker(r, start, g.estimatedPoints(targetM))
	limit := g.maxSteps(half)
	for i := 0; w.dist < half && i < limit; i++ {
		w.heading += rng.Uniform(r, -outAndBackTurn, outAndBackTurn)
		w.step(r)
	}

	outbound := w.points
	points := make([]domain.GeoPoint, len(outbound), 2*len(outbound))
	copy(points, outbound)

	// обратный путь: развернутый прямой с небольшим шумом, чтобы не совпадать точка в точку
	for i := len(outbound) - 2; i >= 0; i-- {
		p := domain.GeoPoint{
			Lat: outbound[i].Lat + rng.Normal(r, 0, returnJitterDeg),
			Lon: outbound[i].Lon + rng.Normal(r, 0, returnJitterDeg),
		}
		points = append(points, g.bounds.Clamp(p))
	}
	return points
}

func (g *Generator) loop(r *rand.Rand, start domain.GeoPoint, targetM float64) []domain.GeoPoint {
	spacing := g.cfg.PointSpacingM
	turnRate := 2 * math.Pi / (targetM / spacing)
	if rng.Bernoulli(r, 0.5) {
		turnRate = -turnRate
	}

	w := g.newWalker(r, start, g.estimatedPoints(targetM))
	limit := g.maxSteps(targetM)
	for i := 0; w.dist < loopCoverage*targetM && i < limit; i++ {
		w.heading += turnRate + rng.Uniform(r, -loopTurnNoise, loopTurnNoise)
		w.step(r)
	}

	end := w.pos
	gap := utils.HaversineDistance(end.Lat, end.Lon, start.Lat, start.Lon)
	if gap > 2*spacing {
		steps := int(math.Ceil(gap / spacing))
		for i := 1; i <= steps; i++ {
			f := float64(i) / float64(steps)
			w.points = append(w.points, domain.GeoPoint{
				Lat: end.Lat + (start.Lat-end.Lat)*f,
				Lon: end.Lon + (start.Lon-end.Lon)*f,
			})
		}
	}
	return w.points
}

// ApplyBounds возвращает точку внутри области и отраженный курс.
// Выход по широте: heading' = π − heading; по долготе: heading' = −heading.
func ApplyBounds(b domain.BoundingBox, lat, lon, heading float64) (float64, float64, float64) {
	latInset := math.Min(boundaryInset, b.LatSpan()/100)
	lonInset := math.Min(boundaryInset, b.LonSpan()/100)

	if lat > b.MaxLat {
		lat = b.MaxLat - latInset
		heading = math.Pi - heading
	} else if lat < b.MinLat {
		lat = b.MinLat + latInset
		heading = math.Pi - heading
	}

	if lon > b.MaxLon {
		lon = b.MaxLon - lonInset
		heading = -heading
	} else if lon < b.MinLon {
		lon = b.MinLon + lonInset
		heading = -heading
	}

	return lat, lon, heading
}
