package path

import (
	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/utils"
)

// Distance суммарная длина трека по haversine, метры
func Distance(points []domain.TrackPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		total += utils.HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}

// ElapsedSeconds время между первой и последней точкой с временем
func ElapsedSeconds(points []domain.TrackPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	first, last := points[0].Time, points[len(points)-1].Time
	if first == nil || last == nil {
		return 0
	}
	return last.Sub(*first).Seconds()
}

// ElevationGain сумма положительных перепадов высоты
func ElevationGain(points []domain.TrackPoint) float64 {
	gain := 0.0
	for i := 1; i < len(points); i++ {
		a, b := points[i-1].Elevation, points[i].Elevation
		if a == nil || b == nil {
			continue
		}
		if d := *b - *a; d > 0 {
			gain += d
		}
	}
	return gain
}

// Geo возвращает только координаты трека
func Geo(points []domain.TrackPoint) []domain.GeoPoint {
	result := make([]domain.GeoPoint, len(points))
	for i, p := range points {
		result[i] = p.GeoPoint
	}
	return result
}
