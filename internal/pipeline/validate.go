package pipeline

import (
	"math"

	"github.com/mlara/seculight/internal/models"
)

const (
	FlagNoEphemeris        = "no_ephemeris"
	FlagNonPositiveDelta   = "non_positive_delta"
	FlagNonPositiveR       = "non_positive_r"
	FlagUnknownBand        = "unknown_band"
	FlagAlphaOutOfRange    = "alpha_out_of_range"
	FlagMagnitudeNotFinite = "magnitude_not_finite"
)

// ValidateForReduction returns the reasons a matched record cannot be
// photometrically reduced. An empty slice means the record is reducible.
// Alpha out of range is reported but does not block reduction: the phase
// angle is carried through, never used in the correction.
func ValidateForReduction(rec models.MatchedRecord, corrections map[string]float64) []string {
	var flags []string

	if math.IsNaN(rec.Obs.Magnitude) || math.IsInf(rec.Obs.Magnitude, 0) {
		flags = append(flags, FlagMagnitudeNotFinite)
	}

	if _, ok := corrections[rec.Obs.Band]; !ok {
		flags = append(flags, FlagUnknownBand)
	}

	if rec.Eph == nil {
		flags = append(flags, FlagNoEphemeris)
		return flags
	}

	if rec.Eph.Delta <= 0 || math.IsNaN(rec.Eph.Delta) {
		flags = append(flags, FlagNonPositiveDelta)
	}
	if rec.Eph.R <= 0 || math.IsNaN(rec.Eph.R) {
		flags = append(flags, FlagNonPositiveR)
	}
	if rec.Eph.Alpha < 0 || rec.Eph.Alpha > 180 {
		flags = append(flags, FlagAlphaOutOfRange)
	}

	return flags
}

// blocksReduction reports whether a validation flag excludes the record
// from the reduced dataset.
func blocksReduction(flag string) bool {
	return flag != FlagAlphaOutOfRange
}
