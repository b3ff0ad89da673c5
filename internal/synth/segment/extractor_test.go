package segment_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/synth/segment"
)

// ~10 м по широте
const stepDeg = 0.00009

func line(elevations []float64) []domain.TrackPoint {
	points := make([]domain.TrackPoint, len(elevations))
	for i := range elevations {
		ele := elevations[i]
		points[i] = domain.TrackPoint{
			GeoPoint:  domain.GeoPoint{Lat: 45.0 + float64(i)*stepDeg, Lon: 7.0},
			Elevation: &ele,
		}
	}
	return points
}

func flat(n int, ele float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = ele
	}
	return out
}

func ramp(from float64, steps int, delta float64) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = from + float64(i+1)*delta
	}
	return out
}

func testMeta() segment.Meta {
	return segment.Meta{
		ID:           uuid.MustParse("7b0f8a36-5b5c-4b8e-9f6a-0d7f3f0c9e11"),
		CreatorID:    uuid.MustParse("1d4c2e0a-3b1f-4c77-8d2e-5a6b7c8d9e0f"),
		Name:         "Col",
		ActivityType: domain.ActivityRide,
		Visibility:   domain.VisibilityPublic,
	}
}

func TestClassifyClimb(t *testing.T) {
	tests := []struct {
		name     string
		gain     float64
		distance float64
		grade    float64
		want     domain.ClimbCategory
	}{
		{"short steep ramp", 30, 500, 0.06, domain.ClimbCat4},
		{"below minimum gain", 5, 1000, 0.005, domain.ClimbNone},
		{"below cat4 score", 10, 1000, 0.01, domain.ClimbNone},
		{"cat3", 40, 1000, 0.04, domain.ClimbCat3},
		{"cat2", 60, 1000, 0.06, domain.ClimbCat2},
		{"cat1", 100, 1000, 0.1, domain.ClimbCat1},
		{"hors categorie", 500, 5000, 0.1, domain.ClimbHC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, segment.ClassifyClimb(tt.gain, tt.distance, tt.grade, 10))
		})
	}

	assert.InDelta(t, 24.0, segment.ClimbScore(30, 500, 0.06), 1e-9)
}

func TestFromPoints_LengthGate(t *testing.T) {
	e := segment.NewExtractor(segment.DefaultConfig())

	short := line(flat(6, 100)) // ~50 м
	_, ok := e.FromPoints(short, testMeta())
	assert.False(t, ok)

	long := line(flat(601, 100)) // ~6000 м
	_, ok = e.FromPoints(long, testMeta())
	assert.False(t, ok)

	mid := line(flat(51, 100)) // ~500 м
	seg, ok := e.FromPoints(mid, testMeta())
	require.True(t, ok)
	assert.InDelta(t, 500, seg.DistanceM, 5)
	assert.Equal(t, domain.ClimbNone, seg.ClimbCategory)
	assert.Equal(t, domain.SegmentFromTrack, seg.Source)
}

func TestComputeStats(t *testing.T) {
	elev := append([]float64{100}, ramp(100, 30, 1)...)
	elev = append(elev, ramp(130, 10, -2)...)

	s := segment.ComputeStats(line(elev))
	assert.InDelta(t, 400, s.DistanceM, 2)
	assert.InDelta(t, 30, s.ElevationGainM, 1e-9)
	assert.InDelta(t, 20, s.ElevationLossM, 1e-9)
	assert.InDelta(t, 10/s.DistanceM, s.AverageGrade, 1e-12)
	assert.Less(t, s.MaxGrade, -0.19, "steepest step is the descent and keeps its sign")
}

func TestExtractFromTrack(t *testing.T) {
	e := segment.NewExtractor(segment.DefaultConfig())
	track := line(append([]float64{0}, ramp(0, 100, 0.5)...))

	seg, ok := e.ExtractFromTrack(track, 0.2, 0.8, testMeta())
	require.True(t, ok)
	assert.Len(t, seg.Points, 60)
	assert.Equal(t, domain.SegmentFromSlice, seg.Source)
	assert.Equal(t, track[20].GeoPoint, seg.Start())
	assert.Equal(t, track[79].GeoPoint, seg.End())

	_, ok = e.ExtractFromTrack(track, 0.6, 0.4, testMeta())
	assert.False(t, ok)

	_, ok = e.ExtractFromTrack(track, 0.5, 0.505, testMeta())
	assert.False(t, ok)

	seg, ok = e.ExtractFromTrack(track, 0.5, 1.5, testMeta())
	require.True(t, ok)
	assert.Equal(t, track[len(track)-1].GeoPoint, seg.End())
}

func TestExtractClimbs(t *testing.T) {
	e := segment.NewExtractor(segment.DefaultConfig())

	elev := flat(20, 100)
	elev = append(elev, ramp(100, 40, 1)...)   // +40 м
	elev = append(elev, ramp(140, 20, -1)...)  // -20 м закрывает подъем
	elev = append(elev, ramp(120, 40, 0.5)...) // +20 м до конца трека

	climbs := e.ExtractClimbs(line(elev), testMeta())
	require.Len(t, climbs, 2)

	assert.Equal(t, "Col Climb 1", climbs[0].Name)
	assert.Equal(t, "Col Climb 2", climbs[1].Name)
	assert.InDelta(t, 40, climbs[0].ElevationGainM, 1e-9)
	assert.InDelta(t, 20, climbs[1].ElevationGainM, 1e-9)
	assert.Equal(t, domain.ClimbCat4, climbs[0].ClimbCategory)

	for _, c := range climbs {
		assert.Equal(t, domain.SegmentFromClimb, c.Source)
		assert.Equal(t, testMeta().CreatorID, c.CreatorID)
		assert.NotEqual(t, testMeta().ID, c.ID)
	}
	assert.NotEqual(t, climbs[0].ID, climbs[1].ID)

	again := e.ExtractClimbs(line(elev), testMeta())
	assert.Equal(t, climbs[0].ID, again[0].ID)
}

func TestExtractClimbs_MergesShallowDip(t *testing.T) {
	e := segment.NewExtractor(segment.DefaultConfig())

	elev := flat(5, 50)
	elev = append(elev, ramp(50, 20, 1)...)
	elev = append(elev, ramp(70, 3, -1)...) // яма мельче порога
	elev = append(elev, ramp(67, 20, 1)...)

	climbs := e.ExtractClimbs(line(elev), testMeta())
	require.Len(t, climbs, 1)
	assert.InDelta(t, 40, climbs[0].ElevationGainM, 1e-9)
	assert.InDelta(t, 3, climbs[0].ElevationLossM, 1e-9)
}

func TestExtractClimbs_IgnoresSmallBumps(t *testing.T) {
	e := segment.NewExtractor(segment.DefaultConfig())

	elev := flat(5, 10)
	for i := 0; i < 10; i++ {
		elev = append(elev, ramp(10, 4, 1)...)
		elev = append(elev, ramp(14, 4, -1)...)
	}
	assert.Empty(t, e.ExtractClimbs(line(elev), testMeta()))
}
