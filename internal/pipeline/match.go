package pipeline

import (
	"sort"

	"github.com/mlara/seculight/internal/models"
)

// DefaultMatchToleranceDays is the widest epoch gap an observation and an
// ephemeris sample may have and still be considered the same moment. The
// ephemeris is requested at one-day steps, so half a day reaches the
// nearest sample without ever skipping to a neighbor.
const DefaultMatchToleranceDays = 0.5

// Match pairs every observation with the ephemeris sample closest to its
// epoch, within tolDays. Exact distance ties go to the earlier sample.
// Observations with no sample in range are kept with a nil ephemeris.
//
// Inputs are not assumed sorted; the result is ordered by observation
// epoch, so logically identical inputs in any order match identically.
func Match(obs []models.ObservationRecord, eph []models.EphemerisSample, tolDays float64) []models.MatchedRecord {
	if tolDays <= 0 {
		tolDays = DefaultMatchToleranceDays
	}

	sortedObs := make([]models.ObservationRecord, len(obs))
	copy(sortedObs, obs)
	sort.SliceStable(sortedObs, func(i, j int) bool { return sortedObs[i].JD < sortedObs[j].JD })

	sortedEph := make([]models.EphemerisSample, len(eph))
	copy(sortedEph, eph)
	sort.SliceStable(sortedEph, func(i, j int) bool { return sortedEph[i].JD < sortedEph[j].JD })

	matched := make([]models.MatchedRecord, 0, len(sortedObs))
	for _, o := range sortedObs {
		matched = append(matched, models.MatchedRecord{
			Obs: o,
			Eph: nearestSample(sortedEph, o.JD, tolDays),
		})
	}
	return matched
}

// nearestSample finds the sample with minimal |JD - target| within tol,
// preferring the earlier sample on an exact tie. Returns nil when nothing
// is in range.
func nearestSample(eph []models.EphemerisSample, target, tol float64) *models.EphemerisSample {
	if len(eph) == 0 {
		return nil
	}
	i := sort.Search(len(eph), func(k int) bool { return eph[k].JD >= target })

	best := -1
	bestDist := tol
	if i < len(eph) {
		if d := eph[i].JD - target; d <= bestDist {
			best, bestDist = i, d
		}
	}
	if i > 0 {
		// earlier sample wins on an exact tie
		if d := target - eph[i-1].JD; d <= bestDist {
			best = i - 1
		}
	}
	if best < 0 {
		return nil
	}
	s := eph[best]
	return &s
}
