// Package pipeline turns raw MPC observation and ephemeris rows into the
// total and reduced photometry datasets. Every stage is a pure transform
// over immutable records; the only side effects are the final writes
// through the dataset.Writer and run counters.
package pipeline

import (
	"errors"
	"log"
	"strconv"

	"github.com/mlara/seculight/internal/dataset"
	"github.com/mlara/seculight/internal/metrics"
	"github.com/mlara/seculight/internal/models"
)

// Result carries both datasets and the per-run bookkeeping.
type Result struct {
	Total   []models.MatchedRecord
	Reduced []models.ReducedRecord
	Report  models.RunReport
}

// Run executes the full reduction: match, emit the total dataset, fold,
// filter, reduce, emit the reduced dataset. Per-record problems exclude
// the record and are counted in the report; only missing configuration or
// a failing writer aborts the run. Empty input produces empty datasets.
//
// The total dataset is written before reduction starts, so it survives a
// reduction-time failure.
func Run(ctx models.RunContext, obs []models.ObservationRecord, eph []models.EphemerisSample, w dataset.Writer) (Result, error) {
	var res Result
	res.Report.TotalObservations = len(obs)

	res.Total = Match(obs, eph, ctx.MatchToleranceDays)
	for _, rec := range res.Total {
		if rec.Eph != nil {
			res.Report.Matched++
		} else {
			res.Report.Unmatched++
		}
	}
	log.Printf("pipeline: %d observations, %d matched to ephemeris, %d unmatched",
		res.Report.TotalObservations, res.Report.Matched, res.Report.Unmatched)

	if err := w.WriteTotal(dataset.TotalRows(res.Total)); err != nil {
		return res, err
	}

	if len(res.Total) == 0 {
		return res, w.WriteReduced(nil)
	}

	if len(ctx.BandCorrections) == 0 || len(ctx.AcceptedBands) == 0 {
		return res, ErrNoConfiguration
	}
	if !ctx.Orbit.PerihelionJD.Valid {
		return res, ErrMissingOrbitData
	}

	filtered := FilterBands(res.Total, ctx.AcceptedBands)
	res.Report.FilteredOut = len(res.Total) - len(filtered)
	metrics.RecordsDiscarded.WithLabelValues("band").Add(float64(res.Report.FilteredOut))

	for _, rec := range filtered {
		if flags := ValidateForReduction(rec, ctx.BandCorrections); excluded(flags, &res.Report) {
			continue
		}
		reduced, err := Reduce(rec, ctx.Orbit, ctx.BandCorrections, ctx.MultiApparition)
		if err != nil {
			// validation should have caught it; count, don't abort
			res.Report.ReductionExcluded++
			res.Report.CountFlag("reduce_error")
			continue
		}
		res.Reduced = append(res.Reduced, reduced)
	}
	res.Report.Reduced = len(res.Reduced)
	metrics.RecordsReduced.Add(float64(res.Report.Reduced))

	log.Printf("pipeline: %d filtered out by band, %d excluded from reduction, %d reduced",
		res.Report.FilteredOut, res.Report.ReductionExcluded, res.Report.Reduced)

	return res, w.WriteReduced(dataset.ReducedRows(res.Reduced))
}

// excluded counts blocking flags into the report and reports whether the
// record must be skipped.
func excluded(flags []string, report *models.RunReport) bool {
	skip := false
	for _, f := range flags {
		if blocksReduction(f) {
			skip = true
			report.CountFlag(f)
			metrics.RecordsDiscarded.WithLabelValues(f).Inc()
		}
	}
	if skip {
		report.ReductionExcluded++
	}
	return skip
}

// IsFatal reports whether a pipeline error is a configuration-level
// failure rather than a per-record one.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoConfiguration) || errors.Is(err, ErrMissingOrbitData)
}

// SummaryLines renders the report for the end of a run.
func SummaryLines(r models.RunReport) []string {
	lines := []string{
		strconv.Itoa(r.TotalObservations) + " total observations found for the requested interval",
		strconv.Itoa(r.FilteredOut) + " observations discarded by filter, " + strconv.Itoa(r.Reduced) + " observations reduced",
	}
	if r.Unmatched > 0 {
		lines = append(lines, strconv.Itoa(r.Unmatched)+" observations had no ephemeris within tolerance")
	}
	for flag, n := range r.ExclusionFlags {
		lines = append(lines, strconv.Itoa(n)+" excluded: "+flag)
	}
	return lines
}
