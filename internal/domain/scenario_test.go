package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/track-synthesizer/internal/domain"
)

func TestBoundingBox_Validate(t *testing.T) {
	valid := domain.BoundingBox{MinLat: 45, MinLon: 7, MaxLat: 45.1, MaxLon: 7.1}
	assert.NoError(t, valid.Validate())

	emptyLat := domain.BoundingBox{MinLat: 45, MinLon: 7, MaxLat: 45, MaxLon: 7.1}
	assert.Error(t, emptyLat.Validate())

	emptyLon := domain.BoundingBox{MinLat: 45, MinLon: 7.1, MaxLat: 45.1, MaxLon: 7}
	assert.Error(t, emptyLon.Validate())

	outOfRange := domain.BoundingBox{MinLat: 45, MinLon: 7, MaxLat: 95, MaxLon: 7.1}
	assert.Error(t, outOfRange.Validate())
}

func TestBoundingBox_ClampAndContains(t *testing.T) {
	b := domain.BoundingBox{MinLat: 45, MinLon: 7, MaxLat: 45.1, MaxLon: 7.1}

	p := b.Clamp(domain.GeoPoint{Lat: 46, Lon: 6})
	assert.Equal(t, domain.GeoPoint{Lat: 45.1, Lon: 7}, p)
	assert.True(t, b.Contains(p, 0))
	assert.False(t, b.Contains(domain.GeoPoint{Lat: 45.2, Lon: 7.05}, 1e-9))
	assert.Equal(t, domain.GeoPoint{Lat: 45.05, Lon: 7.05}, b.Center())
}

func TestClimbCategory_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]domain.ClimbCategory{"c": domain.ClimbHC})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"HC"}`, string(data))

	var out map[string]domain.ClimbCategory
	require.NoError(t, json.Unmarshal([]byte(`{"c":"3"}`), &out))
	assert.Equal(t, domain.ClimbCat3, out["c"])

	assert.Error(t, json.Unmarshal([]byte(`{"c":"7"}`), &out))
}

func TestScenario_Summarize(t *testing.T) {
	s := &domain.Scenario{
		Seed:  42,
		Users: make([]domain.GeneratedUser, 2),
		Activities: []domain.GeneratedActivity{
			{DistanceM: 1000, Track: make([]domain.TrackPoint, 10)},
			{DistanceM: 500, Track: make([]domain.TrackPoint, 5)},
		},
		Segments: []domain.GeneratedSegment{
			{ClimbCategory: domain.ClimbCat4},
			{ClimbCategory: domain.ClimbCat4},
			{ClimbCategory: domain.ClimbNone},
		},
		Efforts: make([]domain.GeneratedEffort, 4),
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	summary := s.Summarize("k", now)

	assert.Equal(t, "k", summary.Key)
	assert.Equal(t, uint32(42), summary.Seed)
	assert.Equal(t, 2, summary.Users)
	assert.Equal(t, 2, summary.Activities)
	assert.Equal(t, 3, summary.Segments)
	assert.Equal(t, 4, summary.Efforts)
	assert.Equal(t, 15, summary.TrackPoints)
	assert.Equal(t, 1500.0, summary.TotalDistanceM)
	assert.Equal(t, map[string]int{"4": 2}, summary.ClimbsByCategory)
}

func TestActivityType_IsValid(t *testing.T) {
	assert.True(t, domain.ActivityRide.IsValid())
	assert.False(t, domain.ActivityType("swim").IsValid())
}
