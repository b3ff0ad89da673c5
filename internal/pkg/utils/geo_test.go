package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Barcelona -> Madrid ~ 505 km
	d := HaversineDistance(41.3851, 2.1734, 40.4168, -3.7038)
	assert.InDelta(t, 505000, d, 10000)

	assert.Equal(t, 0.0, HaversineDistance(10, 10, 10, 10))
}

func TestHaversineDistance_OneDegreeLatitude(t *testing.T) {
	d := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 1)
}

func TestMetersToDegrees(t *testing.T) {
	assert.InDelta(t, 1.0, MetersToDegrees(MetersPerDegree), 1e-12)
	assert.InDelta(t, 0.0009009, MetersToDegrees(100), 1e-7)
}
