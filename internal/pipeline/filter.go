package pipeline

import (
	"github.com/mlara/seculight/internal/models"
)

// FilterBands keeps the records whose band is in the accepted set. The
// dropped records are only excluded from reduction; the caller's total
// dataset is untouched. An empty result is a valid outcome.
func FilterBands(records []models.MatchedRecord, accepted map[string]bool) []models.MatchedRecord {
	kept := make([]models.MatchedRecord, 0, len(records))
	for _, rec := range records {
		if accepted[rec.Obs.Band] {
			kept = append(kept, rec)
		}
	}
	return kept
}
