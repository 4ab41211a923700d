// Package pipeline orchestrates the sample-normalize-aggregate batch runs
// over a loaded dataset, with memoization, logging, and metrics wrapped
// around the pure domain functions.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
	"github.com/couchcryptid/rain-gauge-metrics/internal/observability"
)

// Dataset is an immutable batch of station records plus a content hash
// computed once at load. The hash keys memoized results, so two loads of the
// same file share cache entries.
type Dataset struct {
	Records []domain.StationRecord
	Hash    string
}

// NewDataset wraps records with their content hash. The hash covers every
// field that influences pipeline output, in record order.
func NewDataset(records []domain.StationRecord) Dataset {
	h := sha256.New()
	for i := range records {
		rec := &records[i]
		fmt.Fprintf(h, "%s|%s|%d|%d", rec.StationID, rec.Region, rec.Year, rec.Month)
		for day := 1; day <= domain.MaxDayOfMonth; day++ {
			if v, ok := rec.DailyValue(day); ok {
				fmt.Fprintf(h, "|%d:%g", day, v)
			}
		}
		h.Write([]byte{'\n'})
	}
	return Dataset{Records: records, Hash: hex.EncodeToString(h.Sum(nil))}
}

// AnalysisResult is output table A plus normalization diagnostics.
type AnalysisResult struct {
	Metrics         []domain.StationYearMetric `json:"metrics"`
	Diagnostics     domain.Diagnostics         `json:"diagnostics"`
	StationsSampled int                        `json:"stations_sampled"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

// StabilityReport is output table B plus its spread. Whether the amplitude
// counts as "stable" is the consumer's call.
type StabilityReport struct {
	Results     []domain.StabilityResult `json:"results"`
	Amplitude   float64                  `json:"amplitude"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Runner executes pipeline runs with an LRU memo keyed by
// (dataset hash, fraction, seeds). The domain functions are pure and
// deterministic, which is what makes memoization safe here.
type Runner struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	memo    *memoCache
	ready   atomic.Bool
}

// NewRunner creates a Runner with a memo cache of at most memoSize results.
func NewRunner(logger *slog.Logger, metrics *observability.Metrics, memoSize int) *Runner {
	return &Runner{
		logger:  logger,
		metrics: metrics,
		memo:    newMemoCache(memoSize),
	}
}

// CheckReadiness returns nil once at least one run has completed, or an error
// describing why the service is not yet ready.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no pipeline run has completed yet")
	}
	return nil
}

// Analyze runs Sampler -> Normalizer -> Aggregator over the dataset and
// returns the per station-year metric table. Results are memoized; repeated
// calls with the same dataset, fraction, and seed hit the cache.
func (r *Runner) Analyze(ctx context.Context, ds Dataset, fraction float64, seed int64) (AnalysisResult, error) {
	key := fmt.Sprintf("analyze:%s|%g|%d", ds.Hash, fraction, seed)
	if cached, ok := r.memo.get(key); ok {
		r.metrics.MemoCache.WithLabelValues("hit").Inc()
		return cached.(AnalysisResult), nil
	}
	r.metrics.MemoCache.WithLabelValues("miss").Inc()

	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}

	start := time.Now()
	logger := r.logger.With("run_id", uuid.NewString(), "fraction", fraction, "seed", seed)
	logger.Info("analysis started", "records", len(ds.Records))

	sampled, err := domain.SampleStations(domain.UniqueStations(ds.Records), fraction, seed)
	if err != nil {
		return AnalysisResult{}, r.fail(logger, "analyze", "sample stations", err)
	}

	observations, diags, err := domain.Normalize(ds.Records, sampled)
	if err != nil {
		return AnalysisResult{}, r.fail(logger, "analyze", "normalize records", err)
	}

	metrics, err := domain.Aggregate(observations, domain.RegionsByStation(ds.Records))
	if err != nil {
		return AnalysisResult{}, r.fail(logger, "analyze", "aggregate observations", err)
	}

	result := AnalysisResult{
		Metrics:         metrics,
		Diagnostics:     diags,
		StationsSampled: len(sampled),
		GeneratedAt:     clock.Now().UTC(),
	}
	r.memo.put(key, result)
	r.ready.Store(true)

	r.metrics.RecordsIn.Add(float64(len(ds.Records)))
	r.metrics.ObservationsOut.Add(float64(len(observations)))
	r.metrics.DuplicatesDropped.WithLabelValues("month").Add(float64(diags.DuplicateMonthCount))
	r.metrics.DuplicatesDropped.WithLabelValues("day").Add(float64(diags.DuplicateDayCount))
	r.metrics.StationsSampled.Observe(float64(len(sampled)))
	r.metrics.RunsTotal.WithLabelValues("analyze", "success").Inc()
	r.metrics.RunDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())

	logger.Info("analysis complete",
		"stations_sampled", len(sampled),
		"observations", len(observations),
		"station_years", len(metrics),
		"duplicate_months", diags.DuplicateMonthCount,
		"duplicate_days", diags.DuplicateDayCount,
		"duration", time.Since(start),
	)
	return result, nil
}

// Stability reruns the reduced pipeline once per seed and reports the seed
// means and their amplitude. Memoized like Analyze.
func (r *Runner) Stability(ctx context.Context, ds Dataset, fraction float64, seeds []int64) (StabilityReport, error) {
	key := fmt.Sprintf("stability:%s|%g|%v", ds.Hash, fraction, seeds)
	if cached, ok := r.memo.get(key); ok {
		r.metrics.MemoCache.WithLabelValues("hit").Inc()
		return cached.(StabilityReport), nil
	}
	r.metrics.MemoCache.WithLabelValues("miss").Inc()

	if err := ctx.Err(); err != nil {
		return StabilityReport{}, err
	}

	start := time.Now()
	logger := r.logger.With("run_id", uuid.NewString(), "fraction", fraction, "seeds", seeds)
	logger.Info("stability evaluation started", "records", len(ds.Records))

	results, err := domain.EvaluateStability(ds.Records, fraction, seeds)
	if err != nil {
		return StabilityReport{}, r.fail(logger, "stability", "evaluate stability", err)
	}

	report := StabilityReport{
		Results:     results,
		Amplitude:   domain.Amplitude(results),
		GeneratedAt: clock.Now().UTC(),
	}
	r.memo.put(key, report)
	r.ready.Store(true)

	r.metrics.RunsTotal.WithLabelValues("stability", "success").Inc()
	r.metrics.RunDuration.WithLabelValues("stability").Observe(time.Since(start).Seconds())

	logger.Info("stability evaluation complete",
		"amplitude", report.Amplitude,
		"duration", time.Since(start),
	)
	return report, nil
}

// fail records a failed run and wraps the error with the failing stage.
// Typed domain errors stay unwrappable via errors.As.
func (r *Runner) fail(logger *slog.Logger, kind, stage string, err error) error {
	r.metrics.RunsTotal.WithLabelValues(kind, "error").Inc()
	logger.Error("pipeline run failed", "stage", stage, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}
