package effort_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/synth/athlete"
	"github.com/track-synthesizer/internal/synth/effort"
	"github.com/track-synthesizer/internal/synth/rng"
)

func testSegment() *domain.GeneratedSegment {
	return &domain.GeneratedSegment{
		ID:           uuid.MustParse("0f8e3c1a-2b4d-4e6f-8a9b-1c2d3e4f5a6b"),
		DistanceM:    1000,
		AverageGrade: 0.02,
	}
}

func testTarget() effort.Target {
	return effort.Target{
		UserID:            uuid.MustParse("3a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"),
		ActivityID:        uuid.MustParse("5e6f7a8b-9c0d-4e1f-8a2b-3c4d5e6f7a8b"),
		ActivityStart:     time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC),
		ActivityDistanceM: 5000,
		ActivityElapsedS:  1500,
	}
}

func TestSkill_PowerLawSanity(t *testing.T) {
	r := rng.New(42)
	d := effort.PowerLawSkill(2.0)

	var sum float64
	below, above := 0, 0
	for i := 0; i < 1000; i++ {
		v := d.Sample(r)
		require.GreaterOrEqual(t, v, 0.5)
		require.LessOrEqual(t, v, 3.0)
		sum += v
		if v < 1 {
			below++
		} else {
			above++
		}
	}

	mean := sum / 1000
	assert.GreaterOrEqual(t, mean, 0.8)
	assert.LessOrEqual(t, mean, 1.4)
	assert.Greater(t, below, 0)
	assert.Greater(t, above, 0)
	assert.Less(t, below, 900)
	assert.Less(t, above, 900)
}

func TestSkill_Ranges(t *testing.T) {
	r := rng.New(3)
	for i := 0; i < 500; i++ {
		u := effort.UniformSkill().Sample(r)
		assert.True(t, u >= 0.7 && u <= 1.5, "uniform %v", u)

		n := effort.NormalSkill(1, 1).Sample(r)
		assert.True(t, n >= 0.5 && n <= 2.0, "normal %v", n)
	}
}

func TestParseSkill(t *testing.T) {
	d, err := effort.ParseSkill("power_law", 0, 0, 1.5)
	require.NoError(t, err)
	assert.Equal(t, effort.SkillPowerLaw, d.Kind)

	_, err = effort.ParseSkill("power_law", 0, 0, 0)
	assert.Error(t, err)

	_, err = effort.ParseSkill("gaussian", 1, 0.1, 0)
	assert.Error(t, err)
}

func TestCoverage_InclusionProbabilities(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, effort.Full().InclusionProbabilities(3))
	assert.Equal(t, []float64{0.5, 0.5}, effort.Sparse(0.5).InclusionProbabilities(2))

	probs := effort.Zipf(1).InclusionProbabilities(4)
	require.Len(t, probs, 4)
	assert.Equal(t, 1.0, probs[0])
	for i := 1; i < len(probs); i++ {
		assert.LessOrEqual(t, probs[i], probs[i-1])
	}
	// 1/4 / (1 + 1/2 + 1/3 + 1/4) * 4
	assert.InDelta(t, 0.48, probs[3], 1e-9)

	assert.Equal(t, []float64{1, 1, 1}, effort.Zipf(0).InclusionProbabilities(3))
}

func TestCoverage_SparseCardinality(t *testing.T) {
	r := rng.New(9)
	p := effort.Sparse(0.5)
	probs := p.InclusionProbabilities(4)

	included := 0
	for _, prob := range probs {
		for u := 0; u < 25; u++ {
			if p.Includes(r, prob) {
				included++
			}
		}
	}
	assert.GreaterOrEqual(t, included, 30)
	assert.LessOrEqual(t, included, 70)
}

func TestParseCoverage(t *testing.T) {
	p, err := effort.ParseCoverage("zipf", 0, 1.2)
	require.NoError(t, err)
	assert.Equal(t, effort.Zipf(1.2), p)

	_, err = effort.ParseCoverage("sparse", 1.5, 0)
	assert.Error(t, err)
}

func TestSynthesize(t *testing.T) {
	s, err := effort.NewSynthesizer(effort.DefaultConfig())
	require.NoError(t, err)

	seg := testSegment()
	target := testTarget()
	expected := effort.ExpectedTime(seg, athlete.Runner)
	assert.InDelta(t, 1000/(3.5*0.7), expected, 1e-9)

	r := rng.New(1)
	for i := 0; i < 200; i++ {
		e := s.Synthesize(r, seg, athlete.Runner, target)

		assert.Equal(t, seg.ID, e.SegmentID)
		assert.Equal(t, target.UserID, e.UserID)
		assert.Equal(t, target.ActivityID, e.ActivityID)
		assert.Greater(t, e.ElapsedTimeS, 0.0)
		assert.GreaterOrEqual(t, e.ElapsedTimeS, expected*0.7*0.8-1e-9)
		assert.LessOrEqual(t, e.ElapsedTimeS, expected*1.5*1.3+1e-9)
		assert.LessOrEqual(t, e.MovingTimeS, e.ElapsedTimeS)
		assert.InDelta(t, seg.DistanceM/e.ElapsedTimeS, e.AverageSpeedMPS, 1e-9)
		assert.Greater(t, e.MaxSpeedMPS, e.AverageSpeedMPS)
		assert.InDelta(t, 0.2, e.EndFraction-e.StartFraction, 1e-9)
		assert.False(t, e.StartedAt.Before(target.ActivityStart))
	}
}

func TestSynthesize_PauseInjection(t *testing.T) {
	cfg := effort.DefaultConfig()
	cfg.PauseProbability = 1
	s, err := effort.NewSynthesizer(cfg)
	require.NoError(t, err)

	e := s.Synthesize(rng.New(2), testSegment(), athlete.Cyclist, testTarget())
	ratio := e.MovingTimeS / e.ElapsedTimeS
	assert.GreaterOrEqual(t, ratio, 0.85-1e-9)
	assert.LessOrEqual(t, ratio, 0.98+1e-9)
	assert.InDelta(t, 1000/e.MovingTimeS*1.2, e.MaxSpeedMPS, 1e-9)

	cfg.PauseProbability = 0
	s, err = effort.NewSynthesizer(cfg)
	require.NoError(t, err)
	e = s.Synthesize(rng.New(2), testSegment(), athlete.Cyclist, testTarget())
	assert.Equal(t, e.ElapsedTimeS, e.MovingTimeS)
	assert.InDelta(t, e.AverageSpeedMPS*1.15, e.MaxSpeedMPS, 1e-9)
}

func TestSynthesize_Deterministic(t *testing.T) {
	s, err := effort.NewSynthesizer(effort.DefaultConfig())
	require.NoError(t, err)

	a := s.Synthesize(rng.New(77), testSegment(), athlete.Hiker, testTarget())
	b := s.Synthesize(rng.New(77), testSegment(), athlete.Hiker, testTarget())
	assert.Equal(t, a, b)
}

func TestNewSynthesizer_RejectsInvalidConfig(t *testing.T) {
	cfg := effort.DefaultConfig()
	cfg.PauseFractionMin, cfg.PauseFractionMax = 0.5, 0.1
	_, err := effort.NewSynthesizer(cfg)
	assert.Error(t, err)

	cfg = effort.DefaultConfig()
	cfg.Skill = effort.NormalSkill(0, 1)
	_, err = effort.NewSynthesizer(cfg)
	assert.Error(t, err)
}
