// Package domain models rain-gauge station records and the resampling
// pipeline that turns them into completeness and gap metrics.
//
// # Data Source
//
// Records originate from the Brazilian National Water Agency (ANA)
// pluviometric archive. The upstream treatment step exports one wide CSV row
// per (station, region, year, month) with up to 31 daily rainfall columns
// (day_01..day_31; legacy exports use Chuva01..Chuva31). A blank daily cell
// means no reading was taken that day; it is not a zero-rainfall measurement.
//
// # Pipeline Conventions
//
// Sampling:
//
//	Stations are sampled stratified by region: within each region a fixed
//	fraction of stations is drawn uniformly without replacement. The draw is
//	fully deterministic given a seed. Per region, station IDs are sorted
//	ascending, shuffled by a PRNG seeded with the first 8 bytes (big-endian)
//	of SHA-256("<seed>|<region>"), and the first round-half-up(fraction * n)
//	IDs are kept. Region iteration order never affects the result, so
//	independent implementations can be verified against the same vectors.
//	See [SampleStations].
//
// Normalization:
//
//	Wide rows are expanded into one observation per (station, calendar date).
//	Duplicate (station, year, month) rows and duplicate (station, date)
//	observations are dropped first-seen-wins, with removed counts reported as
//	diagnostics. Calendar-impossible slots (day 30 of February, day 31 of
//	April) are skipped silently; they are artifacts of the fixed 31-column
//	layout, not data errors worth counting. See [Normalize].
//
// Metrics:
//
//	Completeness of a station-year is days-with-data over days-in-year, as a
//	percentage. A gap is the day difference between chronologically
//	consecutive observations within a station-year; the first observation
//	contributes no gap, and a station-year with a single observation reports
//	zero for all gap statistics. See [Aggregate].
//
// Stability:
//
//	Rerunning the sample-normalize-count pipeline across several seeds and
//	comparing the mean completeness per seed indicates whether the sampling
//	fraction is large enough to trust. The canonical seed list is
//	[42, 1, 100, 2024, 999]. Interpretation of the spread belongs to the
//	caller; the usual rule of thumb is that an amplitude below one percentage
//	point means the fraction is stable. See [EvaluateStability].
package domain
