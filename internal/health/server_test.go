package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeRuns struct {
	status RunStatus
	ok     bool
}

func (f fakeRuns) LastRun() (RunStatus, bool) { return f.status, f.ok }

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(Config{ServiceName: "form-guide", Version: "1.0.0", Port: "0"})

	rec := serve(t, s, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "form-guide", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		db         DatabasePinger
		runs       RunStatusProvider
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:       "not marked ready",
			ready:      false,
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "not_ready"},
		},
		{
			name:       "ready before first run",
			ready:      true,
			runs:       fakeRuns{},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "last_run": "pending"},
		},
		{
			name:       "database down",
			ready:      true,
			db:         fakePinger{err: errors.New("connection refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "database": "error: connection refused"},
		},
		{
			name:       "last run failed",
			ready:      true,
			runs:       fakeRuns{ok: true, status: RunStatus{Err: "no documents"}},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "last_run": "error: no documents"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "form-guide", Port: "0", DB: tt.db, Runs: tt.runs})
			s.SetReady(tt.ready)

			rec := serve(t, s, "/ready")

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestLastRunEndpoint(t *testing.T) {
	finished := time.Date(2025, 9, 8, 6, 0, 0, 0, time.UTC)
	s := NewServer(Config{Port: "0", Runs: fakeRuns{ok: true, status: RunStatus{RunID: "abc", FinishedAt: finished, Rows: 48, Bets: 2}}})

	rec := serve(t, s, "/runs/last")

	require.Equal(t, http.StatusOK, rec.Code)
	var got RunStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.RunID)
	assert.Equal(t, 48, got.Rows)
	assert.True(t, finished.Equal(got.FinishedAt))
}

func TestLastRunEndpointWithoutRuns(t *testing.T) {
	rec := serve(t, NewServer(Config{Port: "0"}), "/runs/last")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("form_guide_runs_total 1\n"))
	})
	s := NewServer(Config{Port: "0", Metrics: metrics})

	rec := serve(t, s, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "form_guide_runs_total 1\n", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(t, NewServer(Config{Port: "0"}), "/metrics").Code)
}

func TestMetricsRouteCustomPath(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	s := NewServer(Config{Port: "0", Metrics: metrics, MetricsPath: "/internal/metrics"})

	assert.Equal(t, http.StatusOK, serve(t, s, "/internal/metrics").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, s, "/metrics").Code)
}
