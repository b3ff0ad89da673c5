package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/track-synthesizer/internal/domain"
)

type MockScenarioRepository struct {
	mock.Mock
}

func (m *MockScenarioRepository) Save(ctx context.Context, summary *domain.ScenarioSummary, sc *domain.Scenario) error {
	args := m.Called(ctx, summary, sc)
	return args.Error(0)
}

func (m *MockScenarioRepository) GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScenarioSummary), args.Error(1)
}

func (m *MockScenarioRepository) ListSegments(ctx context.Context, key string) ([]domain.GeneratedSegment, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedSegment), args.Error(1)
}

func (m *MockScenarioRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockEffortRepository struct {
	mock.Mock
}

func (m *MockEffortRepository) GetLeaderboard(ctx context.Context, segmentID uuid.UUID, limit int) ([]domain.GeneratedEffort, error) {
	args := m.Called(ctx, segmentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedEffort), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSummary(ctx context.Context, key string) (*domain.ScenarioSummary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScenarioSummary), args.Error(1)
}

func (m *MockCacheRepository) SetSummary(ctx context.Context, summary *domain.ScenarioSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteSummary(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, key string, sc *domain.Scenario) ([]string, error) {
	args := m.Called(ctx, key, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
