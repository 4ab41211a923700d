package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
	"github.com/couchcryptid/rain-gauge-metrics/internal/observability"
	"github.com/couchcryptid/rain-gauge-metrics/internal/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	var records []domain.StationRecord
	for _, region := range []string{"MG", "SP"} {
		for i := 1; i <= 10; i++ {
			rec := domain.StationRecord{
				StationID: fmt.Sprintf("%s-%03d", region, i),
				Region:    region,
				Year:      2023,
				Month:     1,
			}
			for day := 1; day <= 31; day++ {
				rec.SetDailyValue(day, 0)
			}
			records = append(records, rec)
		}
	}

	runner := pipeline.NewRunner(slog.Default(), observability.NewMetricsForTesting(), 8)
	ds := pipeline.NewDataset(records)
	return NewServer(":0", runner, ds, Defaults{Fraction: 0.5}, slog.Default())
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Readiness(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Any completed run makes the service ready.
	_, err := s.runner.Analyze(context.Background(), s.dataset, 0.5, 42)
	require.NoError(t, err)

	rec = doJSON(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Overview(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Regions []domain.RegionOverview `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Regions, 2)
	assert.Equal(t, "MG", resp.Regions[0].Region)
	assert.Equal(t, 10, resp.Regions[0].StationCount)
	assert.Equal(t, 50.0, resp.Regions[0].StationPct)
}

func TestServer_Analyze(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze", `{"fraction":0.5,"seed":42}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pipeline.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.StationsSampled)
	assert.Len(t, resp.Metrics, 10)
}

func TestServer_Analyze_DefaultsApplied(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pipeline.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.StationsSampled) // default fraction 0.5
}

func TestServer_Analyze_InvalidFraction(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze", `{"fraction":1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fraction")
}

func TestServer_Analyze_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Stability(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/stability", `{"fraction":0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results   []domain.StabilityResult `json:"results"`
		Amplitude float64                  `json:"amplitude"`
		Stable    bool                     `json:"stable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 5) // canonical seed list
	assert.Equal(t, int64(42), resp.Results[0].Seed)
	assert.True(t, resp.Stable) // identical station-months, amplitude 0
}

func TestServer_Summary(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/summary", `{"fraction":0.5,"years":[2023]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Summary []struct {
			Year   int     `json:"year"`
			Region string  `json:"region"`
			Mean   float64 `json:"mean"`
			Count  int     `json:"count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Summary, 2) // one row per region
	assert.Equal(t, 2023, resp.Summary[0].Year)
	assert.Equal(t, 5, resp.Summary[0].Count)
	assert.Equal(t, 8.49, resp.Summary[0].Mean) // 31/365*100
}

func TestServer_Summary_YearFilterExcludesEverything(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/summary", `{"fraction":0.5,"years":[1990]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":[]}`, rec.Body.String())
}
