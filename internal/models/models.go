package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ObservationRecord is a single positional-photometry observation as
// reported by the MPC database: a calendar epoch (UTC, fractional day),
// the apparent magnitude and the photometric band it was measured in.
type ObservationRecord struct {
	Year      int
	Month     int
	Day       float64 // fractional day, UTC
	JD        float64 // Julian Date of the epoch
	Magnitude float64
	Band      string
}

// NewObservationRecord builds a record with its Julian Date precomputed.
func NewObservationRecord(year, month int, day, magnitude float64, band string) ObservationRecord {
	return ObservationRecord{
		Year:      year,
		Month:     month,
		Day:       day,
		JD:        julian.CalendarGregorianToJD(year, month, day),
		Magnitude: magnitude,
		Band:      band,
	}
}

// EphemerisSample carries the geometry of the object at one epoch:
// geocentric distance delta (AU), heliocentric distance r (AU) and
// solar phase angle alpha (degrees).
type EphemerisSample struct {
	Year  int
	Month int
	Day   float64
	JD    float64
	Delta float64
	R     float64
	Alpha float64
}

// NewEphemerisSample builds a sample with its Julian Date precomputed.
func NewEphemerisSample(year, month int, day, delta, r, alpha float64) EphemerisSample {
	return EphemerisSample{
		Year:  year,
		Month: month,
		Day:   day,
		JD:    julian.CalendarGregorianToJD(year, month, day),
		Delta: delta,
		R:     r,
		Alpha: alpha,
	}
}

// MatchedRecord joins an observation with the ephemeris sample nearest to
// its epoch. Eph is nil when no sample fell within the match tolerance;
// such records stay in the total dataset but cannot be reduced.
type MatchedRecord struct {
	Obs ObservationRecord
	Eph *EphemerisSample
}

// OrbitParameters holds the perihelion passage and orbital period used to
// fold epochs onto a single reference orbit. Either value may be absent:
// the MPC page sometimes lacks them and non-periodic objects have no
// period at all. Resolved once per run and immutable afterwards.
type OrbitParameters struct {
	PerihelionJD sql.NullFloat64 // Julian Date of perihelion passage
	PeriodDays   sql.NullFloat64 // orbital period in days
}

// PerihelionTime returns the perihelion passage as UTC time.
// Only meaningful when PerihelionJD is valid.
func (o OrbitParameters) PerihelionTime() time.Time {
	return julian.JDToTime(o.PerihelionJD.Float64)
}

func (o OrbitParameters) String() string {
	p := "unknown"
	if o.PerihelionJD.Valid {
		p = o.PerihelionTime().UTC().Format("2006-01-02")
	}
	t := "unknown"
	if o.PeriodDays.Valid {
		t = fmt.Sprintf("%.1f days", o.PeriodDays.Float64)
	}
	return fmt.Sprintf("perihelion %s, period %s", p, t)
}

// ReducedRecord is a matched record after folding and photometric
// reduction: TMinusTq is the (possibly folded) offset from perihelion in
// days, AbsoluteMagnitude the magnitude normalized to delta=r=1 AU after
// the V-band correction.
type ReducedRecord struct {
	MatchedRecord
	TMinusTq          float64
	AbsoluteMagnitude float64
}

// RunContext is the immutable configuration for one reduction run. It is
// assembled by the caller (CLI flags plus the confirmed orbit parameters)
// and passed into every pipeline stage; stages never read ambient state.
type RunContext struct {
	ObjectName         string
	StartJD            float64
	EndJD              float64
	Orbit              OrbitParameters
	MultiApparition    bool
	AcceptedBands      map[string]bool
	BandCorrections    map[string]float64
	MatchToleranceDays float64
}

// RunReport summarizes what happened to every observation in a run.
// Absent data is counted here rather than raised as an error.
type RunReport struct {
	TotalObservations int
	Matched           int
	Unmatched         int
	FilteredOut       int
	ReductionExcluded int
	Reduced           int
	ExclusionFlags    map[string]int
}

// CountFlag records one reduction-exclusion reason.
func (r *RunReport) CountFlag(flag string) {
	if r.ExclusionFlags == nil {
		r.ExclusionFlags = make(map[string]int)
	}
	r.ExclusionFlags[flag]++
}
