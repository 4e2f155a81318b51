package pipeline

import (
	"fmt"
	"math"

	"github.com/mlara/seculight/internal/models"
)

// Reduce computes the reduced record for one matched observation:
//
//	m_V = m + correction(band)
//	M   = m_V - 5*log10(delta*r)
//
// and the signed offset from perihelion, folded onto one orbit when fold
// is true and the period is known. The phase angle is carried along for
// plotting but takes no part in the correction.
func Reduce(rec models.MatchedRecord, orbit models.OrbitParameters, corrections map[string]float64, fold bool) (models.ReducedRecord, error) {
	if rec.Eph == nil {
		return models.ReducedRecord{}, fmt.Errorf("%w: no matched sample", ErrInvalidEphemeris)
	}
	if rec.Eph.Delta <= 0 || rec.Eph.R <= 0 {
		return models.ReducedRecord{}, fmt.Errorf("%w: delta=%g r=%g", ErrInvalidEphemeris, rec.Eph.Delta, rec.Eph.R)
	}
	correction, ok := corrections[rec.Obs.Band]
	if !ok {
		return models.ReducedRecord{}, fmt.Errorf("%w: %q", ErrUnknownBand, rec.Obs.Band)
	}
	if !orbit.PerihelionJD.Valid {
		return models.ReducedRecord{}, ErrMissingOrbitData
	}

	offset := rec.Obs.JD - orbit.PerihelionJD.Float64
	if fold && orbit.PeriodDays.Valid {
		offset = Fold(offset, orbit.PeriodDays.Float64)
	}

	mV := rec.Obs.Magnitude + correction
	return models.ReducedRecord{
		MatchedRecord:     rec,
		TMinusTq:          offset,
		AbsoluteMagnitude: mV - 5*math.Log10(rec.Eph.Delta*rec.Eph.R),
	}, nil
}
