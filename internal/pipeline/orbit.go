package pipeline

import (
	"github.com/mlara/seculight/internal/models"
)

// ResolveOrbit merges the orbit parameters retrieved from the database
// with caller overrides (an override always wins) and classifies the
// requested window: multi-apparition when the window is longer than one
// period, single otherwise or when the period is unknown.
//
// Returns ErrMissingOrbitData when no perihelion date is available after
// the override step, since without it no perihelion-relative offset can
// be computed. A missing period is fine: offsets stay unfolded.
func ResolveOrbit(hints, override models.OrbitParameters, startJD, endJD float64) (models.OrbitParameters, bool, error) {
	resolved := hints
	if override.PerihelionJD.Valid {
		resolved.PerihelionJD = override.PerihelionJD
	}
	if override.PeriodDays.Valid {
		resolved.PeriodDays = override.PeriodDays
	}

	if !resolved.PerihelionJD.Valid {
		return models.OrbitParameters{}, false, ErrMissingOrbitData
	}

	multi := resolved.PeriodDays.Valid && endJD-startJD > resolved.PeriodDays.Float64
	return resolved, multi, nil
}
