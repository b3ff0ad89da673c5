package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/config"
	deliveryhttp "github.com/track-synthesizer/internal/delivery/http"
	"github.com/track-synthesizer/internal/delivery/http/handler"
	"github.com/track-synthesizer/internal/synth/scenario"
	"github.com/track-synthesizer/internal/usecase"
)

type fakeHealth struct{ err error }

func (f fakeHealth) Health(context.Context) error { return f.err }

func newTestServer(t *testing.T, checks map[string]handler.HealthChecker) *deliveryhttp.Server {
	t.Helper()
	log := zap.NewNop()

	defaults := scenario.DefaultConfig()
	defaults.Users = 2
	defaults.ReferenceTrackDistanceM = 2000
	defaults.ActivityDistanceM = 1000
	defaults.ActivitiesPerUser = 1

	scenarioUC := usecase.NewScenarioUseCase(defaults, usecase.ScenarioOptions{MaxUsers: 20}, nil, nil, nil, nil, log)
	trackUC := usecase.NewTrackUseCase(defaults, log)

	cfg := &config.Config{Server: config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}}

	return deliveryhttp.NewServer(cfg, log,
		handler.NewHealthHandler(checks, log),
		handler.NewScenarioHandler(scenarioUC, log),
		handler.NewTrackHandler(trackUC, log),
		handler.NewSegmentHandler(scenarioUC, trackUC, log),
	)
}

func doJSON(t *testing.T, s *deliveryhttp.Server, method, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, 30_000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, map[string]handler.HealthChecker{"postgres": fakeHealth{}})
	status, body := doJSON(t, s, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	s = newTestServer(t, map[string]handler.HealthChecker{"redis": fakeHealth{err: errors.New("down")}})
	status, body = doJSON(t, s, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
}

func TestServer_GenerateScenario(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := doJSON(t, s, http.MethodPost, "/api/v1/scenarios", map[string]interface{}{
		"seed":  42,
		"users": 3,
	})
	require.Equal(t, http.StatusCreated, status)

	data := body["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.EqualValues(t, 42, summary["seed"])
	assert.EqualValues(t, 3, summary["users"])
}

func TestServer_GenerateScenario_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := doJSON(t, s, http.MethodPost, "/api/v1/scenarios", map[string]interface{}{
		"pattern": "spiral",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_REQUEST", errBody["code"])

	status, _ = doJSON(t, s, http.MethodPost, "/api/v1/scenarios", map[string]interface{}{
		"skill": map[string]interface{}{"distribution": "power_law"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestServer_ScenarioNotFoundWithoutStorage(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := doJSON(t, s, http.MethodGet, "/api/v1/scenarios/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "SCENARIO_NOT_FOUND", body["error"].(map[string]interface{})["code"])
}

func TestServer_TrackPreview(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := doJSON(t, s, http.MethodPost, "/api/v1/tracks/preview", map[string]interface{}{
		"seed":       3,
		"distance_m": 1000,
		"pattern":    "out_and_back",
	})
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	points := data["points"].([]interface{})
	assert.NotEmpty(t, points)
	assert.EqualValues(t, len(points), body["meta"].(map[string]interface{})["total"])
}

func TestServer_DetectClimbs(t *testing.T) {
	s := newTestServer(t, nil)

	points := make([]map[string]interface{}, 0, 60)
	for i := 0; i < 60; i++ {
		points = append(points, map[string]interface{}{
			"lat":       45.0 + float64(i)*0.0001,
			"lon":       7.0,
			"elevation": 100.0 + float64(i),
		})
	}

	status, body := doJSON(t, s, http.MethodPost, "/api/v1/segments/climbs", map[string]interface{}{
		"points": points,
	})
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])
}

func TestServer_LeaderboardValidation(t *testing.T) {
	s := newTestServer(t, nil)

	status, _ := doJSON(t, s, http.MethodGet, "/api/v1/segments/not-a-uuid/leaderboard", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
