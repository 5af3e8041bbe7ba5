package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisynapse/synapse-backend/pkg/config"
	"github.com/aisynapse/synapse-backend/pkg/types"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev"}}
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(testConfig())(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get("X-Synapse-Env"))
	assert.JSONEq(t, `{"data":{"status":"live"}}`, resp.Body.String())
}

func TestHealthReadyAllHealthy(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	handler := HealthReady(testConfig(), nil,
		ReadinessCheck{Name: "database", Pinger: ok},
		ReadinessCheck{Name: "redis", Pinger: nil},
	)

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"data":{"status":"ready","checks":{"database":"ok"}}}`, resp.Body.String())
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	handler := HealthReady(testConfig(), nil,
		ReadinessCheck{Name: "database", Pinger: pingFunc(func(context.Context) error { return nil })},
		ReadinessCheck{Name: "redis", Pinger: pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })},
	)

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "DEPENDENCY_ERROR", body.Error.Code)
	details, ok := body.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"redis"}, details["failed"])
}
