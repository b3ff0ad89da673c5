package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/synth/scenario"
	"github.com/track-synthesizer/internal/usecase"
	"github.com/track-synthesizer/internal/usecase/dto"
)

func testDefaults() scenario.Config {
	cfg := scenario.DefaultConfig()
	cfg.Users = 3
	cfg.ReferenceTrackDistanceM = 2000
	cfg.ActivityDistanceM = 1000
	cfg.ActivitiesPerUser = 1
	return cfg
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestScenarioUseCase_Generate_NoSinks(t *testing.T) {
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{MaxUsers: 50}, nil, nil, nil, nil, zap.NewNop())

	resp, err := uc.Generate(context.Background(), dto.GenerateScenarioRequest{Seed: 42, Users: intPtr(5)})
	require.NoError(t, err)
	require.NotNil(t, resp.Summary)

	assert.Equal(t, uint32(42), resp.Summary.Seed)
	assert.Equal(t, 5, resp.Summary.Users)
	assert.Equal(t, 1, resp.Summary.Segments)
	assert.NotEmpty(t, resp.Summary.Key)
	assert.False(t, resp.Cached)
	assert.False(t, resp.Persisted)
	assert.Empty(t, resp.Files)
}

func TestScenarioUseCase_Generate_SameRequestSameKey(t *testing.T) {
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, nil, nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	first, err := uc.Generate(ctx, dto.GenerateScenarioRequest{Seed: 7})
	require.NoError(t, err)
	second, err := uc.Generate(ctx, dto.GenerateScenarioRequest{Seed: 7})
	require.NoError(t, err)
	other, err := uc.Generate(ctx, dto.GenerateScenarioRequest{Seed: 8})
	require.NoError(t, err)

	assert.Equal(t, first.Summary.Key, second.Summary.Key)
	assert.Equal(t, first.Summary.Efforts, second.Summary.Efforts)
	assert.NotEqual(t, first.Summary.Key, other.Summary.Key)
}

func TestScenarioUseCase_ToConfig_DetectClimbs(t *testing.T) {
	defaults := testDefaults()
	defaults.DetectClimbs = true
	uc := usecase.NewScenarioUseCase(defaults, usecase.ScenarioOptions{}, nil, nil, nil, nil, zap.NewNop())

	tests := []struct {
		name string
		flag *bool
		want bool
	}{
		{"unset keeps default", nil, true},
		{"explicit false", boolPtr(false), false},
		{"explicit true", boolPtr(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := uc.ToConfig(dto.GenerateScenarioRequest{Seed: 1, DetectClimbs: tt.flag})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.DetectClimbs)
		})
	}

	off := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, nil, nil, nil, nil, zap.NewNop())
	cfg, err := off.ToConfig(dto.GenerateScenarioRequest{DetectClimbs: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, cfg.DetectClimbs)
}

func TestScenarioUseCase_Generate_InvalidRequests(t *testing.T) {
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{MaxUsers: 10}, nil, nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.GenerateScenarioRequest
		want *errors.AppError
	}{
		{
			name: "unknown terrain preset",
			req:  dto.GenerateScenarioRequest{TerrainPreset: "lunar"},
			want: errors.ErrInvalidRequest,
		},
		{
			name: "too many users",
			req:  dto.GenerateScenarioRequest{Users: intPtr(11)},
			want: errors.ErrInvalidRequest,
		},
		{
			name: "persist without storage",
			req:  dto.GenerateScenarioRequest{Persist: true},
			want: errors.ErrInvalidRequest,
		},
		{
			name: "export without exporter",
			req:  dto.GenerateScenarioRequest{Export: true},
			want: errors.ErrInvalidRequest,
		},
		{
			name: "empty bounding box",
			req: dto.GenerateScenarioRequest{Bounds: &domain.BoundingBox{
				MinLat: 45, MinLon: 7, MaxLat: 45, MaxLon: 8,
			}},
			want: errors.ErrInvalidRequest,
		},
		{
			name: "normal skill without mean",
			req:  dto.GenerateScenarioRequest{Skill: &dto.SkillRequest{Distribution: "normal"}},
			want: errors.ErrInvalidScenario,
		},
		{
			name: "reversed segment slice",
			req: dto.GenerateScenarioRequest{SegmentSlices: []scenario.FractionRange{
				{Start: 0.8, End: 0.2},
			}},
			want: errors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Generate(ctx, tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScenarioUseCase_Generate_CacheHit(t *testing.T) {
	cacheRepo := &MockCacheRepository{}
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{CacheTTL: time.Hour}, nil, nil, cacheRepo, nil, zap.NewNop())
	ctx := context.Background()

	cached := &domain.ScenarioSummary{Key: "cached", Seed: 3, Users: 3}
	cacheRepo.On("GetSummary", ctx, mock.AnythingOfType("string")).Return(cached, nil)

	resp, err := uc.Generate(ctx, dto.GenerateScenarioRequest{Seed: 3})
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Same(t, cached, resp.Summary)

	cacheRepo.AssertExpectations(t)
	cacheRepo.AssertNotCalled(t, "SetSummary", mock.Anything, mock.Anything, mock.Anything)
}

func TestScenarioUseCase_Generate_PersistAndExport(t *testing.T) {
	scenarioRepo := &MockScenarioRepository{}
	cacheRepo := &MockCacheRepository{}
	exporter := &MockExporter{}
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{CacheTTL: time.Hour},
		scenarioRepo, nil, cacheRepo, exporter, zap.NewNop())
	ctx := context.Background()

	scenarioRepo.On("Save", ctx, mock.AnythingOfType("*domain.ScenarioSummary"), mock.AnythingOfType("*domain.Scenario")).
		Return(nil)
	exporter.On("Export", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*domain.Scenario")).
		Return([]string{"export/k/track_points.parquet"}, nil)
	cacheRepo.On("SetSummary", ctx, mock.AnythingOfType("*domain.ScenarioSummary"), time.Hour).
		Return(nil)

	resp, err := uc.Generate(ctx, dto.GenerateScenarioRequest{Seed: 5, Persist: true, Export: true})
	require.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.Equal(t, []string{"export/k/track_points.parquet"}, resp.Files)

	scenarioRepo.AssertExpectations(t)
	exporter.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
	cacheRepo.AssertNotCalled(t, "GetSummary", mock.Anything, mock.Anything)
}

func TestScenarioUseCase_Generate_SaveFails(t *testing.T) {
	scenarioRepo := &MockScenarioRepository{}
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, scenarioRepo, nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	scenarioRepo.On("Save", ctx, mock.Anything, mock.Anything).Return(errors.ErrDatabaseError)

	resp, err := uc.Generate(ctx, dto.GenerateScenarioRequest{Persist: true})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, errors.ErrDatabaseError)
}

func TestScenarioUseCase_GetSummary(t *testing.T) {
	ctx := context.Background()
	summary := &domain.ScenarioSummary{Key: "abc", Seed: 1}

	t.Run("cache miss falls back to database", func(t *testing.T) {
		scenarioRepo := &MockScenarioRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{CacheTTL: time.Minute},
			scenarioRepo, nil, cacheRepo, nil, zap.NewNop())

		cacheRepo.On("GetSummary", ctx, "abc").Return(nil, nil)
		scenarioRepo.On("GetSummary", ctx, "abc").Return(summary, nil)
		cacheRepo.On("SetSummary", ctx, summary, time.Minute).Return(nil)

		got, err := uc.GetSummary(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, summary, got)

		scenarioRepo.AssertExpectations(t)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		scenarioRepo := &MockScenarioRepository{}
		uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, scenarioRepo, nil, nil, nil, zap.NewNop())

		scenarioRepo.On("GetSummary", ctx, "missing").Return(nil, errors.ErrScenarioNotFound)

		_, err := uc.GetSummary(ctx, "missing")
		assert.ErrorIs(t, err, errors.ErrScenarioNotFound)
	})

	t.Run("no storage", func(t *testing.T) {
		uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, nil, nil, nil, nil, zap.NewNop())

		_, err := uc.GetSummary(ctx, "abc")
		assert.ErrorIs(t, err, errors.ErrScenarioNotFound)
	})
}

func TestScenarioUseCase_ListSegments(t *testing.T) {
	ctx := context.Background()
	scenarioRepo := &MockScenarioRepository{}
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, scenarioRepo, nil, nil, nil, zap.NewNop())

	segments := []domain.GeneratedSegment{{ID: uuid.New(), Name: "Segment 1"}}
	scenarioRepo.On("ListSegments", ctx, "abc").Return(segments, nil)
	scenarioRepo.On("ListSegments", ctx, "missing").Return([]domain.GeneratedSegment{}, nil)
	scenarioRepo.On("GetSummary", ctx, "missing").Return(nil, errors.ErrScenarioNotFound)

	resp, err := uc.ListSegments(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = uc.ListSegments(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrScenarioNotFound)
}

func TestScenarioUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	scenarioRepo := &MockScenarioRepository{}
	cacheRepo := &MockCacheRepository{}
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, scenarioRepo, nil, cacheRepo, nil, zap.NewNop())

	scenarioRepo.On("Delete", ctx, "abc").Return(nil)
	cacheRepo.On("DeleteSummary", ctx, "abc").Return(nil)

	require.NoError(t, uc.Delete(ctx, "abc"))
	scenarioRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestScenarioUseCase_Leaderboard(t *testing.T) {
	ctx := context.Background()
	effortRepo := &MockEffortRepository{}
	uc := usecase.NewScenarioUseCase(testDefaults(), usecase.ScenarioOptions{}, nil, effortRepo, nil, nil, zap.NewNop())

	segmentID := uuid.New()
	efforts := []domain.GeneratedEffort{
		{ID: uuid.New(), SegmentID: segmentID, UserID: uuid.New(), ElapsedTimeS: 100},
		{ID: uuid.New(), SegmentID: segmentID, UserID: uuid.New(), ElapsedTimeS: 120},
	}
	effortRepo.On("GetLeaderboard", ctx, segmentID, 5).Return(efforts, nil)

	resp, err := uc.Leaderboard(ctx, dto.LeaderboardRequest{SegmentID: segmentID.String(), Limit: 5})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, 2, resp.Entries[1].Rank)
	assert.Equal(t, efforts[1].UserID, resp.Entries[1].UserID)

	_, err = uc.Leaderboard(ctx, dto.LeaderboardRequest{SegmentID: "not-a-uuid"})
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)

	effortRepo.AssertExpectations(t)
}
