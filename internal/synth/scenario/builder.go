package scenario

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/synth/athlete"
	"github.com/track-synthesizer/internal/synth/effort"
	"github.com/track-synthesizer/internal/synth/path"
	"github.com/track-synthesizer/internal/synth/rng"
	"github.com/track-synthesizer/internal/synth/segment"
	"github.com/track-synthesizer/internal/synth/terrain"
)

const (
	publicSegmentShare  = 0.95
	publicActivityShare = 0.90

	// activityDistanceSpread разброс длины активности относительно ActivityDistanceM
	activityDistanceSpread = 0.2
)

// Builder строит сценарии. Состояние живет только внутри вызова Build.
type Builder struct{}

// NewBuilder создает построитель сценариев
func NewBuilder() *Builder {
	return &Builder{}
}

// engine - компоненты движка для одного сценария
type engine struct {
	cfg       Config
	r         *rand.Rand
	field     *terrain.Field
	gen       *path.Generator
	extractor *segment.Extractor
	synth     *effort.Synthesizer
	kind      athlete.Kind
}

// Build строит сценарий. Ошибка возвращается только при некорректной конфигурации;
// одинаковая конфигурация дает одинаковый результат. Идентификаторы лежат в пространстве
// Namespace(Key(cfg)), поэтому сценарии с одним seed и разной конфигурацией не пересекаются.
func (b *Builder) Build(cfg Config) (*domain.Scenario, error) {
	if cfg.StartTime.IsZero() {
		cfg.StartTime = DefaultEpoch
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}

	key, err := Key(cfg)
	if err != nil {
		return nil, err
	}

	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}

	sc := &domain.Scenario{Seed: cfg.Seed}
	sc.Creator = domain.GeneratedUser{
		ID:           rng.UUID(e.r),
		Username:     "segment_creator",
		ActivityType: cfg.ActivityType,
	}

	reference := e.gen.GenerateTrack(e.r, cfg.Pattern, e.gen.RandomStart(e.r),
		cfg.ReferenceTrackDistanceM, e.field, e.kind, cfg.StartTime)

	sc.Segments = append(sc.Segments, e.slicedSegments(reference, sc.Creator.ID)...)
	sc.Segments = append(sc.Segments, e.independentSegments(sc.Creator.ID, len(sc.Segments))...)
	if cfg.DetectClimbs {
		sc.Segments = append(sc.Segments, e.climbSegments(reference, sc.Creator.ID)...)
	}

	sc.Users = e.users()
	sc.Activities = e.activities(sc.Users)
	sc.Efforts = e.efforts(sc.Segments, sc.Users, sc.Activities)

	scopeIDs(sc, Namespace(key))
	return sc, nil
}

func newEngine(cfg Config) (*engine, error) {
	field, err := terrain.NewPreset(cfg.TerrainPreset, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}
	gen, err := path.NewGenerator(cfg.Path, cfg.Bounds)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}
	synth, err := effort.NewSynthesizer(cfg.Effort)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}

	return &engine{
		cfg:       cfg,
		r:         rng.New(cfg.Seed),
		field:     field,
		gen:       gen,
		extractor: segment.NewExtractor(cfg.Segment),
		synth:     synth,
		kind:      athlete.ForActivityType(cfg.ActivityType),
	}, nil
}

func (e *engine) visibility(publicShare float64) domain.Visibility {
	if rng.Bernoulli(e.r, publicShare) {
		return domain.VisibilityPublic
	}
	return domain.VisibilityPrivate
}

func (e *engine) segmentMeta(creatorID uuid.UUID, name string) segment.Meta {
	return segment.Meta{
		ID:           rng.UUID(e.r),
		CreatorID:    creatorID,
		Name:         name,
		ActivityType: e.cfg.ActivityType,
		Visibility:   e.visibility(publicSegmentShare),
	}
}

func (e *engine) slicedSegments(reference []domain.TrackPoint, creatorID uuid.UUID) []domain.GeneratedSegment {
	var result []domain.GeneratedSegment
	for i, fr := range e.cfg.SegmentSlices {
		meta := e.segmentMeta(creatorID, fmt.Sprintf("Segment %d", i+1))
		if seg, ok := e.extractor.ExtractFromTrack(reference, fr.Start, fr.End, meta); ok {
			result = append(result, *seg)
		}
	}
	return result
}

func (e *engine) independentSegments(creatorID uuid.UUID, offset int) []domain.GeneratedSegment {
	var result []domain.GeneratedSegment
	for i := 0; i < e.cfg.IndependentSegments; i++ {
		meta := e.segmentMeta(creatorID, fmt.Sprintf("Segment %d", offset+i+1))
		track := e.gen.GenerateTrack(e.r, path.RandomWalk, e.gen.RandomStart(e.r),
			e.cfg.IndependentSegmentDistanceM, e.field, e.kind, e.cfg.StartTime)
		if seg, ok := e.extractor.FromPoints(track, meta); ok {
			result = append(result, *seg)
		}
	}
	return result
}

func (e *engine) climbSegments(reference []domain.TrackPoint, creatorID uuid.UUID) []domain.GeneratedSegment {
	meta := e.segmentMeta(creatorID, "Route")
	return e.extractor.ExtractClimbs(reference, meta)
}

func (e *engine) users() []domain.GeneratedUser {
	users := make([]domain.GeneratedUser, e.cfg.Users)
	for i := range users {
		users[i] = domain.GeneratedUser{
			ID:           rng.UUID(e.r),
			Username:     fmt.Sprintf("athlete_%03d", i+1),
			ActivityType: e.cfg.ActivityType,
		}
	}
	return users
}

func (e *engine) activities(users []domain.GeneratedUser) []domain.GeneratedActivity {
	var result []domain.GeneratedActivity
	for _, u := range users {
		n := rng.Poisson(e.r, e.cfg.ActivitiesPerUser)
		if n < e.cfg.MinActivitiesPerUser {
			n = e.cfg.MinActivitiesPerUser
		}

		for j := 0; j < n; j++ {
			id := rng.UUID(e.r)
			visibility := e.visibility(publicActivityShare)
			back := time.Duration(rng.Uniform(e.r, 0, activityWindow.Seconds())) * time.Second
			startedAt := e.cfg.StartTime.Add(-back)
			target := e.cfg.ActivityDistanceM * rng.Uniform(e.r, 1-activityDistanceSpread, 1+activityDistanceSpread)

			track := e.gen.GenerateTrack(e.r, e.cfg.Pattern, e.gen.RandomStart(e.r), target, e.field, e.kind, startedAt)

			result = append(result, domain.GeneratedActivity{
				ID:             id,
				UserID:         u.ID,
				Name:           fmt.Sprintf("%s %s #%d", u.Username, e.cfg.ActivityType, j+1),
				ActivityType:   e.cfg.ActivityType,
				Visibility:     visibility,
				StartedAt:      startedAt,
				Track:          track,
				DistanceM:      path.Distance(track),
				ElapsedTimeS:   path.ElapsedSeconds(track),
				ElevationGainM: path.ElevationGain(track),
			})
		}
	}
	return result
}

// efforts обходит пары сегмент-major, user-minor
func (e *engine) efforts(
	segments []domain.GeneratedSegment,
	users []domain.GeneratedUser,
	activities []domain.GeneratedActivity,
) []domain.GeneratedEffort {
	byUser := make(map[uuid.UUID][]int, len(users))
	for i, a := range activities {
		byUser[a.UserID] = append(byUser[a.UserID], i)
	}

	probs := e.cfg.Coverage.InclusionProbabilities(len(segments))

	var result []domain.GeneratedEffort
	for si := range segments {
		seg := &segments[si]
		for _, u := range users {
			if !e.cfg.Coverage.Includes(e.r, probs[si]) {
				continue
			}
			owned := byUser[u.ID]
			if len(owned) == 0 {
				continue
			}
			a := activities[owned[e.r.IntN(len(owned))]]

			result = append(result, e.synth.Synthesize(e.r, seg, e.kind, effort.Target{
				UserID:            u.ID,
				ActivityID:        a.ID,
				ActivityStart:     a.StartedAt,
				ActivityDistanceM: a.DistanceM,
				ActivityElapsedS:  a.ElapsedTimeS,
			}))
		}
	}
	return result
}
