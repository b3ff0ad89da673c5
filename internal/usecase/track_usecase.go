package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/pkg/validator"
	"github.com/track-synthesizer/internal/synth/athlete"
	"github.com/track-synthesizer/internal/synth/path"
	"github.com/track-synthesizer/internal/synth/rng"
	"github.com/track-synthesizer/internal/synth/scenario"
	"github.com/track-synthesizer/internal/synth/segment"
	"github.com/track-synthesizer/internal/synth/terrain"
	"github.com/track-synthesizer/internal/usecase/dto"
)

// TrackUseCase - генерация отдельных треков и поиск подъемов
type TrackUseCase struct {
	defaults scenario.Config
	logger   *zap.Logger
}

// NewTrackUseCase создает новый экземпляр TrackUseCase
func NewTrackUseCase(defaults scenario.Config, logger *zap.Logger) *TrackUseCase {
	return &TrackUseCase{
		defaults: defaults,
		logger:   logger,
	}
}

// Preview генерирует один трек с временными метками
func (uc *TrackUseCase) Preview(ctx context.Context, req dto.TrackPreviewRequest) (*dto.TrackPreviewResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.Details(err))
	}

	bounds := uc.defaults.Bounds
	if req.Bounds != nil {
		bounds = *req.Bounds
	}
	if err := bounds.Validate(); err != nil {
		return nil, errors.ErrInvalidBoundingBox.WithDetails(map[string]interface{}{"error": err.Error()})
	}

	preset := uc.defaults.TerrainPreset
	if req.TerrainPreset != "" {
		preset = terrain.Preset(req.TerrainPreset)
	}
	activityType := uc.defaults.ActivityType
	if req.ActivityType != "" {
		activityType = domain.ActivityType(req.ActivityType)
	}
	pattern := uc.defaults.Pattern
	if req.Pattern != "" {
		p, err := path.ParsePattern(req.Pattern)
		if err != nil {
			return nil, invalidScenario(err)
		}
		pattern = p
	}
	startTime := scenario.DefaultEpoch
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
	}

	field, err := terrain.NewPreset(preset, req.Seed)
	if err != nil {
		return nil, invalidScenario(err)
	}
	gen, err := path.NewGenerator(uc.defaults.Path, bounds)
	if err != nil {
		return nil, invalidScenario(err)
	}

	r := rng.New(req.Seed)
	start := gen.RandomStart(r)
	if req.Start != nil {
		start = domain.GeoPoint{Lat: req.Start.Lat, Lon: req.Start.Lon}
		if !bounds.Contains(start, 0) {
			return nil, errors.ErrInvalidBoundingBox.WithDetails(map[string]interface{}{
				"start": "outside of bounds",
			})
		}
	}

	track := gen.GenerateTrack(r, pattern, start, req.DistanceM, field, athlete.ForActivityType(activityType), startTime)

	uc.logger.Debug("Track preview generated",
		zap.Uint32("seed", req.Seed),
		zap.String("pattern", pattern.String()),
		zap.Int("points", len(track)))

	return &dto.TrackPreviewResponse{
		Points:         track,
		PointCount:     len(track),
		DistanceM:      path.Distance(track),
		ElapsedTimeS:   path.ElapsedSeconds(track),
		ElevationGainM: path.ElevationGain(track),
	}, nil
}

// DetectClimbs ищет категорийные подъемы в переданном треке
func (uc *TrackUseCase) DetectClimbs(ctx context.Context, req dto.ClimbDetectionRequest) (*dto.ClimbDetectionResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.Details(err))
	}

	cfg := uc.defaults.Segment
	if req.MinClimbGainM > 0 {
		cfg.MinClimbGainM = req.MinClimbGainM
	}
	activityType := uc.defaults.ActivityType
	if req.ActivityType != "" {
		activityType = domain.ActivityType(req.ActivityType)
	}

	points := make([]domain.TrackPoint, len(req.Points))
	for i, p := range req.Points {
		ele := *p.Elevation
		points[i] = domain.TrackPoint{
			GeoPoint:  domain.GeoPoint{Lat: p.Lat, Lon: p.Lon},
			Elevation: &ele,
		}
	}

	climbs := segment.NewExtractor(cfg).ExtractClimbs(points, segment.Meta{
		ID:           uuid.New(),
		Name:         "Track",
		ActivityType: activityType,
		Visibility:   domain.VisibilityPublic,
	})
	if climbs == nil {
		climbs = []domain.GeneratedSegment{}
	}

	uc.logger.Debug("Climbs detected",
		zap.Int("points", len(points)),
		zap.Int("climbs", len(climbs)))

	return &dto.ClimbDetectionResponse{Climbs: climbs, Total: len(climbs)}, nil
}
