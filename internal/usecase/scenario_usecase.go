package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/pkg/logger"
	"github.com/track-synthesizer/internal/pkg/validator"
	"github.com/track-synthesizer/internal/synth/effort"
	"github.com/track-synthesizer/internal/synth/path"
	"github.com/track-synthesizer/internal/synth/scenario"
	"github.com/track-synthesizer/internal/synth/terrain"
	"github.com/track-synthesizer/internal/usecase/dto"
)

// ScenarioOptions - ограничения и настройки генерации
type ScenarioOptions struct {
	MaxUsers int
	CacheTTL time.Duration
}

// ScenarioUseCase генерирует сценарии и отдает сохраненные результаты.
// Хранилище, кеш и выгрузка необязательны (nil - отключено).
type ScenarioUseCase struct {
	builder      *scenario.Builder
	defaults     scenario.Config
	opts         ScenarioOptions
	scenarioRepo repository.ScenarioRepository
	effortRepo   repository.EffortRepository
	cacheRepo    repository.CacheRepository
	exporter     repository.DatasetExporter
	logger       *zap.Logger
	now          func() time.Time
}

// NewScenarioUseCase создает новый экземпляр ScenarioUseCase
func NewScenarioUseCase(
	defaults scenario.Config,
	opts ScenarioOptions,
	scenarioRepo repository.ScenarioRepository,
	effortRepo repository.EffortRepository,
	cacheRepo repository.CacheRepository,
	exporter repository.DatasetExporter,
	logger *zap.Logger,
) *ScenarioUseCase {
	return &ScenarioUseCase{
		builder:      scenario.NewBuilder(),
		defaults:     defaults,
		opts:         opts,
		scenarioRepo: scenarioRepo,
		effortRepo:   effortRepo,
		cacheRepo:    cacheRepo,
		exporter:     exporter,
		logger:       logger,
		now:          time.Now,
	}
}

// Generate строит сценарий по запросу, при необходимости сохраняет и выгружает его
func (uc *ScenarioUseCase) Generate(ctx context.Context, req dto.GenerateScenarioRequest) (*dto.ScenarioResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.Details(err))
	}
	if req.Persist && uc.scenarioRepo == nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"persist": "storage is not configured",
		})
	}
	if req.Export && uc.exporter == nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"export": "export is not configured",
		})
	}

	cfg, err := uc.ToConfig(req)
	if err != nil {
		return nil, err
	}

	key, err := scenario.Key(cfg)
	if err != nil {
		return nil, errors.ErrInternalServer.Wrap(err)
	}
	log := logger.Scenario(uc.logger, key, cfg.Seed)

	// без сохранения и выгрузки повторный запрос отдается из кеша
	if !req.Persist && !req.Export {
		if cached := uc.cachedSummary(ctx, key); cached != nil {
			log.Debug("Scenario summary fetched from cache")
			return &dto.ScenarioResponse{Summary: cached, Cached: true}, nil
		}
	}

	start := uc.now()
	sc, err := uc.builder.Build(cfg)
	if err != nil {
		return nil, errors.ErrInvalidScenario.Wrap(err).WithDetails(map[string]interface{}{
			"error": err.Error(),
		})
	}
	summary := sc.Summarize(key, uc.now().UTC())

	log.Info("Scenario generated",
		zap.Int("users", summary.Users),
		zap.Int("activities", summary.Activities),
		zap.Int("segments", summary.Segments),
		zap.Int("efforts", summary.Efforts),
		zap.Duration("took", uc.now().Sub(start)))

	resp := &dto.ScenarioResponse{Summary: summary}

	if req.Persist {
		if err := uc.scenarioRepo.Save(ctx, summary, sc); err != nil {
			return nil, err
		}
		resp.Persisted = true
	}

	if req.Export {
		files, err := uc.exporter.Export(ctx, key, sc)
		if err != nil {
			return nil, err
		}
		resp.Files = files
	}

	uc.cacheSummary(ctx, summary)
	return resp, nil
}

// GetSummary возвращает сводку сценария: сначала из кеша, затем из БД
func (uc *ScenarioUseCase) GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error) {
	if cached := uc.cachedSummary(ctx, key); cached != nil {
		return cached, nil
	}
	if uc.scenarioRepo == nil {
		return nil, errors.ErrScenarioNotFound
	}

	summary, err := uc.scenarioRepo.GetSummary(ctx, key)
	if err != nil {
		return nil, err
	}
	uc.cacheSummary(ctx, summary)
	return summary, nil
}

// ListSegments возвращает сегменты сохраненного сценария
func (uc *ScenarioUseCase) ListSegments(ctx context.Context, key string) (*dto.SegmentListResponse, error) {
	if uc.scenarioRepo == nil {
		return nil, errors.ErrScenarioNotFound
	}

	segments, err := uc.scenarioRepo.ListSegments(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		// пустой список и отсутствующий сценарий различаем по сводке
		if _, err := uc.scenarioRepo.GetSummary(ctx, key); err != nil {
			return nil, err
		}
	}

	return &dto.SegmentListResponse{Segments: segments, Total: len(segments)}, nil
}

// Delete удаляет сохраненный сценарий и его сводку из кеша
func (uc *ScenarioUseCase) Delete(ctx context.Context, key string) error {
	if uc.scenarioRepo == nil {
		return errors.ErrScenarioNotFound
	}
	if err := uc.scenarioRepo.Delete(ctx, key); err != nil {
		return err
	}
	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.DeleteSummary(ctx, key); err != nil {
			uc.logger.Warn("Failed to drop cached summary", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Leaderboard возвращает лучшие попытки на сегменте
func (uc *ScenarioUseCase) Leaderboard(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.Details(err))
	}
	if uc.effortRepo == nil {
		return nil, errors.ErrScenarioNotFound
	}

	segmentID := uuid.MustParse(req.SegmentID)
	efforts, err := uc.effortRepo.GetLeaderboard(ctx, segmentID, req.Limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, len(efforts))
	for i, e := range efforts {
		entries[i] = dto.LeaderboardEntry{
			Rank:            i + 1,
			UserID:          e.UserID,
			ActivityID:      e.ActivityID,
			StartedAt:       e.StartedAt,
			ElapsedTimeS:    e.ElapsedTimeS,
			AverageSpeedMPS: e.AverageSpeedMPS,
		}
	}
	return &dto.LeaderboardResponse{SegmentID: segmentID, Entries: entries}, nil
}

// ToConfig накладывает запрос на настройки генератора по умолчанию
func (uc *ScenarioUseCase) ToConfig(req dto.GenerateScenarioRequest) (scenario.Config, error) {
	cfg := uc.defaults
	cfg.Seed = req.Seed

	if req.Bounds != nil {
		if err := req.Bounds.Validate(); err != nil {
			return scenario.Config{}, errors.ErrInvalidBoundingBox.WithDetails(map[string]interface{}{
				"error": err.Error(),
			})
		}
		cfg.Bounds = *req.Bounds
	}
	if req.TerrainPreset != "" {
		cfg.TerrainPreset = terrain.Preset(req.TerrainPreset)
	}
	if req.ActivityType != "" {
		cfg.ActivityType = domain.ActivityType(req.ActivityType)
	}
	if req.Pattern != "" {
		p, err := path.ParsePattern(req.Pattern)
		if err != nil {
			return scenario.Config{}, invalidScenario(err)
		}
		cfg.Pattern = p
	}
	if req.StartTime != nil {
		cfg.StartTime = req.StartTime.UTC()
	}

	if req.ReferenceTrackDistanceM > 0 {
		cfg.ReferenceTrackDistanceM = req.ReferenceTrackDistanceM
	}
	if req.SegmentSlices != nil {
		cfg.SegmentSlices = req.SegmentSlices
	}
	cfg.IndependentSegments = req.IndependentSegments
	if req.IndependentSegmentDistanceM > 0 {
		cfg.IndependentSegmentDistanceM = req.IndependentSegmentDistanceM
	} else if cfg.IndependentSegments > 0 && cfg.IndependentSegmentDistanceM <= 0 {
		cfg.IndependentSegmentDistanceM = cfg.Segment.MaxLengthM / 2
	}
	if req.DetectClimbs != nil {
		cfg.DetectClimbs = *req.DetectClimbs
	}

	if req.Users != nil {
		cfg.Users = *req.Users
	}
	if uc.opts.MaxUsers > 0 && cfg.Users > uc.opts.MaxUsers {
		return scenario.Config{}, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"users": fmt.Sprintf("max=%d", uc.opts.MaxUsers),
		})
	}
	if req.ActivitiesPerUser != nil {
		cfg.ActivitiesPerUser = *req.ActivitiesPerUser
	}
	if req.ActivityDistanceM > 0 {
		cfg.ActivityDistanceM = req.ActivityDistanceM
	}

	if req.Coverage != nil {
		coverage, err := effort.ParseCoverage(req.Coverage.Policy, req.Coverage.Fraction, req.Coverage.Alpha)
		if err != nil {
			return scenario.Config{}, invalidScenario(err)
		}
		cfg.Coverage = coverage
	}
	if req.Skill != nil {
		skill, err := effort.ParseSkill(req.Skill.Distribution, req.Skill.Mean, req.Skill.StdDev, req.Skill.Alpha)
		if err != nil {
			return scenario.Config{}, invalidScenario(err)
		}
		cfg.Effort.Skill = skill
	}

	if cfg.StartTime.IsZero() {
		cfg.StartTime = scenario.DefaultEpoch
	}
	if err := cfg.Validate(); err != nil {
		return scenario.Config{}, invalidScenario(err)
	}
	return cfg, nil
}

func (uc *ScenarioUseCase) cachedSummary(ctx context.Context, key string) *domain.ScenarioSummary {
	if uc.cacheRepo == nil {
		return nil
	}
	cached, err := uc.cacheRepo.GetSummary(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get summary from cache", zap.String("key", key), zap.Error(err))
		return nil
	}
	return cached
}

func (uc *ScenarioUseCase) cacheSummary(ctx context.Context, summary *domain.ScenarioSummary) {
	if uc.cacheRepo == nil {
		return
	}
	// ошибка кеша не мешает вернуть результат
	if err := uc.cacheRepo.SetSummary(ctx, summary, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("Failed to cache summary", zap.String("key", summary.Key), zap.Error(err))
	}
}

func invalidScenario(err error) error {
	return errors.ErrInvalidScenario.Wrap(err).WithDetails(map[string]interface{}{
		"error": err.Error(),
	})
}
