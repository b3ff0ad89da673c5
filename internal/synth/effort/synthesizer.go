package effort

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/validator"
	"github.com/track-synthesizer/internal/synth/athlete"
	"github.com/track-synthesizer/internal/synth/rng"
)

// Config параметры синтеза прохождений
type Config struct {
	Skill            SkillDistribution `json:"skill"`
	TimeVariance     float64           `json:"time_variance" validate:"min=0"`
	PauseProbability float64           `json:"pause_probability" validate:"min=0,max=1"`
	PauseFractionMin float64           `json:"pause_fraction_min" validate:"min=0,max=1"`
	PauseFractionMax float64           `json:"pause_fraction_max" validate:"min=0,lt=1,gtefield=PauseFractionMin"`
}

// DefaultConfig параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		Skill:            UniformSkill(),
		TimeVariance:     0.05,
		PauseProbability: 0.1,
		PauseFractionMin: 0.02,
		PauseFractionMax: 0.15,
	}
}

// Validate проверяет параметры
func (c Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return err
	}
	return c.Skill.Validate()
}

// Target - активность, в рамках которой пользователь проходит сегмент
type Target struct {
	UserID            uuid.UUID
	ActivityID        uuid.UUID
	ActivityStart     time.Time
	ActivityDistanceM float64
	ActivityElapsedS  float64
}

// Synthesizer генерирует прохождения. Не содержит изменяемого состояния.
type Synthesizer struct {
	cfg Config
}

// NewSynthesizer создает синтезатор
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effort config: %w", err)
	}
	return &Synthesizer{cfg: cfg}, nil
}

// Config возвращает параметры синтезатора
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// ExpectedTime ожидаемое время прохождения сегмента профилем kind, секунды
func ExpectedTime(seg *domain.GeneratedSegment, kind athlete.Kind) float64 {
	speed := kind.BaseSpeedMPS() * kind.GradeFactor(seg.AverageGrade)
	if speed <= 0 {
		return 0
	}
	return seg.DistanceM / speed
}

// Synthesize создает одно прохождение сегмента
func (s *Synthesizer) Synthesize(
	r *rand.Rand,
	seg *domain.GeneratedSegment,
	kind athlete.Kind,
	target Target,
) domain.GeneratedEffort {
	id := rng.UUID(r)

	skill := s.cfg.Skill.Sample(r)
	day := rng.Clamp(rng.Normal(r, 1, s.cfg.TimeVariance), 0.8, 1.3)
	elapsed := ExpectedTime(seg, kind) * skill * day

	moving := elapsed
	average := seg.DistanceM / elapsed
	maxSpeed := average * 1.15
	if rng.Bernoulli(r, s.cfg.PauseProbability) {
		fraction := rng.Uniform(r, s.cfg.PauseFractionMin, s.cfg.PauseFractionMax)
		moving = elapsed * (1 - fraction)
		maxSpeed = seg.DistanceM / moving * 1.2
	}

	startFraction, endFraction := placement(r, seg.DistanceM, target.ActivityDistanceM)
	offset := time.Duration(startFraction * target.ActivityElapsedS * float64(time.Second))

	return domain.GeneratedEffort{
		ID:              id,
		SegmentID:       seg.ID,
		UserID:          target.UserID,
		ActivityID:      target.ActivityID,
		StartedAt:       target.ActivityStart.Add(offset),
		ElapsedTimeS:    elapsed,
		MovingTimeS:     moving,
		AverageSpeedMPS: average,
		MaxSpeedMPS:     maxSpeed,
		StartFraction:   startFraction,
		EndFraction:     endFraction,
	}
}

// placement выбирает положение сегмента внутри активности в долях ее длины
func placement(r *rand.Rand, segmentM, activityM float64) (float64, float64) {
	if activityM <= 0 {
		return 0, 1
	}
	span := math.Min(1, segmentM/activityM)
	start := rng.Uniform(r, 0, 1-span)
	return start, start + span
}
