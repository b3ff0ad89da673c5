package utils

import "math"

const (
	// EarthRadiusM средний радиус Земли в метрах
	EarthRadiusM = 6371000.0

	// MetersPerDegree длина одного градуса широты (планарное приближение)
	MetersPerDegree = 111000.0
)

// HaversineDistance вычисляет расстояние между двумя точками в метрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// MetersToDegrees переводит метры в градусы широты
func MetersToDegrees(m float64) float64 {
	return m / MetersPerDegree
}
