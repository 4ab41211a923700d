// Package http exposes the pipeline over a small JSON API plus the usual
// health, readiness, and metrics endpoints. Chart rendering and any richer
// presentation stay with the callers of this API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
	"github.com/couchcryptid/rain-gauge-metrics/internal/pipeline"
)

// defaultSeed is used when an analyze request omits the seed, matching the
// draw the dashboard always showed first.
const defaultSeed = 42

// stableAmplitude is the rule-of-thumb threshold below which a sampling
// fraction is reported as stable, in percentage points.
const stableAmplitude = 1.0

// Pipeline runs memoized analyses over a dataset.
type Pipeline interface {
	CheckReadiness(ctx context.Context) error
	Analyze(ctx context.Context, ds pipeline.Dataset, fraction float64, seed int64) (pipeline.AnalysisResult, error)
	Stability(ctx context.Context, ds pipeline.Dataset, fraction float64, seeds []int64) (pipeline.StabilityReport, error)
}

// Defaults are the pipeline parameters applied when a request omits them.
type Defaults struct {
	Fraction float64
	Seeds    []int64
}

// Server exposes the pipeline endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	runner     Pipeline
	dataset    pipeline.Dataset
	overview   []domain.RegionOverview
	defaults   Defaults
}

// NewServer creates an HTTP server bound to a loaded dataset.
func NewServer(addr string, runner Pipeline, dataset pipeline.Dataset, defaults Defaults, logger *slog.Logger) *Server {
	if len(defaults.Seeds) == 0 {
		defaults.Seeds = domain.CanonicalSeeds
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:   logger,
		runner:   runner,
		dataset:  dataset,
		overview: domain.Overview(dataset.Records),
		defaults: defaults,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/overview", s.handleOverview)
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/stability", s.handleStability)
	mux.HandleFunc("POST /v1/summary", s.handleSummary)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.runner.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": s.overview})
}

type analyzeRequest struct {
	Fraction float64 `json:"fraction"`
	Seed     *int64  `json:"seed"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	fraction, seed := s.fractionOrDefault(req.Fraction), seedOrDefault(req.Seed)

	result, err := s.runner.Analyze(r.Context(), s.dataset, fraction, seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type stabilityRequest struct {
	Fraction float64 `json:"fraction"`
	Seeds    []int64 `json:"seeds"`
}

type stabilityResponse struct {
	pipeline.StabilityReport
	Stable bool `json:"stable"`
}

func (s *Server) handleStability(w http.ResponseWriter, r *http.Request) {
	var req stabilityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	fraction := s.fractionOrDefault(req.Fraction)
	seeds := req.Seeds
	if len(seeds) == 0 {
		seeds = s.defaults.Seeds
	}

	report, err := s.runner.Stability(r.Context(), s.dataset, fraction, seeds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stabilityResponse{
		StabilityReport: report,
		Stable:          report.Amplitude < stableAmplitude,
	})
}

type summaryRequest struct {
	Fraction float64 `json:"fraction"`
	Seed     *int64  `json:"seed"`
	Years    []int   `json:"years"`
}

type summaryRow struct {
	Year   int    `json:"year"`
	Region string `json:"region"`
	domain.SummaryStats
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	fraction, seed := s.fractionOrDefault(req.Fraction), seedOrDefault(req.Seed)

	result, err := s.runner.Analyze(r.Context(), s.dataset, fraction, seed)
	if err != nil {
		s.writeError(w, err)
		return
	}

	years := make(map[int]struct{}, len(req.Years))
	for _, y := range req.Years {
		years[y] = struct{}{}
	}
	// No year filter means every year present in the results.
	if len(years) == 0 {
		for i := range result.Metrics {
			years[result.Metrics[i].Year] = struct{}{}
		}
	}

	summary := domain.Summarize(result.Metrics, years)

	rows := make([]summaryRow, 0, len(summary))
	for key, stats := range summary {
		rows = append(rows, summaryRow{Year: key.Year, Region: key.Region, SummaryStats: stats})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Region < rows[j].Region
	})

	writeJSON(w, http.StatusOK, map[string]any{"summary": rows})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) fractionOrDefault(fraction float64) float64 {
	if fraction == 0 {
		return s.defaults.Fraction
	}
	return fraction
}

func seedOrDefault(seed *int64) int64 {
	if seed == nil {
		return defaultSeed
	}
	return *seed
}

// writeError maps typed pipeline failures to HTTP statuses: bad parameters
// are the client's fault, schema holes mean the loaded dataset is unusable.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ipe *domain.InvalidParameterError
	var se *domain.SchemaError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ipe):
		status = http.StatusBadRequest
	case errors.As(err, &se):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
