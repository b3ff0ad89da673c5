package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	apperrors "github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/repository/postgres/testhelpers"
	"github.com/track-synthesizer/internal/synth/scenario"
)

// ScenarioRepositorySuite tests scenario persistence with a real database
type ScenarioRepositorySuite struct {
	suite.Suite
	testDB  *testhelpers.TestDB
	repo    repository.ScenarioRepository
	efforts repository.EffortRepository
	ctx     context.Context

	scenario *domain.Scenario
	summary  *domain.ScenarioSummary
}

func (s *ScenarioRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	db := testhelpers.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(testhelpers.ApplyMigrations(db, "../../../migrations"))

	s.repo = testhelpers.NewScenarioRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.efforts = testhelpers.NewEffortRepositoryForTest(s.testDB.DB, s.testDB.Logger)

	cfg := scenario.DefaultConfig()
	cfg.Seed = 7
	cfg.Users = 4
	cfg.ReferenceTrackDistanceM = 3000
	cfg.ActivityDistanceM = 1500
	cfg.ActivitiesPerUser = 2
	cfg.DetectClimbs = true

	sc, err := scenario.NewBuilder().Build(cfg)
	s.Require().NoError(err)
	s.scenario = sc
	s.summary = sc.Summarize("test-scenario", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *ScenarioRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *ScenarioRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *ScenarioRepositorySuite) TestSave_PersistsAllEntities() {
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))

	users, err := testhelpers.CountRows(s.testDB.DB, "synth_users", s.summary.Key)
	s.NoError(err)
	s.Equal(len(s.scenario.Users)+1, users)

	activities, err := testhelpers.CountRows(s.testDB.DB, "activities", s.summary.Key)
	s.NoError(err)
	s.Equal(len(s.scenario.Activities), activities)

	efforts, err := testhelpers.CountRows(s.testDB.DB, "segment_efforts", s.summary.Key)
	s.NoError(err)
	s.Equal(len(s.scenario.Efforts), efforts)

	creators, err := testhelpers.CountUsersByName(s.testDB.DB, s.summary.Key, []string{s.scenario.Creator.Username})
	s.NoError(err)
	s.Equal(1, creators)

	first := s.scenario.Segments[0]
	n, err := testhelpers.SegmentPointCount(s.testDB.DB, first.ID.String())
	s.NoError(err)
	s.Equal(len(first.Points), n)
}

func (s *ScenarioRepositorySuite) TestSave_ReplacesExisting() {
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))

	segments, err := testhelpers.CountRows(s.testDB.DB, "segments", s.summary.Key)
	s.NoError(err)
	s.Equal(len(s.scenario.Segments), segments)
}

func (s *ScenarioRepositorySuite) TestSave_TwoScenariosSameSeed() {
	cfg := scenario.DefaultConfig()
	cfg.Seed = 7
	cfg.Users = 3
	cfg.ReferenceTrackDistanceM = 3000
	cfg.ActivityDistanceM = 1500
	cfg.ActivitiesPerUser = 2

	other, err := scenario.NewBuilder().Build(cfg)
	s.Require().NoError(err)
	otherSummary := other.Summarize("other-scenario", s.summary.GeneratedAt)

	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))
	s.Require().NoError(s.repo.Save(s.ctx, otherSummary, other))

	for _, tc := range []struct {
		key string
		sc  *domain.Scenario
	}{{s.summary.Key, s.scenario}, {otherSummary.Key, other}} {
		users, err := testhelpers.CountRows(s.testDB.DB, "synth_users", tc.key)
		s.NoError(err)
		s.Equal(len(tc.sc.Users)+1, users)

		efforts, err := testhelpers.CountRows(s.testDB.DB, "segment_efforts", tc.key)
		s.NoError(err)
		s.Equal(len(tc.sc.Efforts), efforts)
	}

	s.Require().NoError(s.repo.Delete(s.ctx, otherSummary.Key))

	segments, err := testhelpers.CountRows(s.testDB.DB, "segments", s.summary.Key)
	s.NoError(err)
	s.Equal(len(s.scenario.Segments), segments)
}

func (s *ScenarioRepositorySuite) TestGetSummary() {
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))

	got, err := s.repo.GetSummary(s.ctx, s.summary.Key)
	s.Require().NoError(err)
	s.Equal(s.summary.Efforts, got.Efforts)
	s.Equal(s.summary.Seed, got.Seed)
	s.True(s.summary.GeneratedAt.Equal(got.GeneratedAt))

	_, err = s.repo.GetSummary(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrScenarioNotFound)
}

func (s *ScenarioRepositorySuite) TestListSegments_KeepsOrder() {
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))

	segments, err := s.repo.ListSegments(s.ctx, s.summary.Key)
	s.Require().NoError(err)
	s.Require().Len(segments, len(s.scenario.Segments))
	for i, seg := range segments {
		s.Equal(s.scenario.Segments[i].ID, seg.ID)
		s.Equal(s.scenario.Segments[i].ClimbCategory, seg.ClimbCategory)
		s.Empty(seg.Points)
	}
}

func (s *ScenarioRepositorySuite) TestLeaderboard_BestEffortPerUser() {
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))

	segmentID := s.scenario.Segments[0].ID
	board, err := s.efforts.GetLeaderboard(s.ctx, segmentID, 100)
	s.Require().NoError(err)
	s.NotEmpty(board)

	seen := make(map[string]bool)
	for i, e := range board {
		s.Equal(segmentID, e.SegmentID)
		s.False(seen[e.UserID.String()], "user appears twice")
		seen[e.UserID.String()] = true
		if i > 0 {
			s.GreaterOrEqual(e.ElapsedTimeS, board[i-1].ElapsedTimeS)
		}
	}
}

func (s *ScenarioRepositorySuite) TestDelete() {
	s.Require().NoError(s.repo.Save(s.ctx, s.summary, s.scenario))
	s.Require().NoError(s.repo.Delete(s.ctx, s.summary.Key))

	efforts, err := testhelpers.CountRows(s.testDB.DB, "segment_efforts", s.summary.Key)
	s.NoError(err)
	s.Zero(efforts)

	s.ErrorIs(s.repo.Delete(s.ctx, s.summary.Key), apperrors.ErrScenarioNotFound)
}

func TestScenarioRepositorySuite(t *testing.T) {
	suite.Run(t, new(ScenarioRepositorySuite))
}
