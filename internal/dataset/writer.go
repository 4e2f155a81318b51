package dataset

import (
	"database/sql"

	"github.com/mlara/seculight/internal/models"
)

// TotalRow is one line of the total-observations table: the observation
// as fetched, with whatever ephemeris geometry could be matched to it.
type TotalRow struct {
	Year      int
	Month     int
	Day       float64
	Magnitude float64
	Band      string
	Delta     sql.NullFloat64
	R         sql.NullFloat64
	Alpha     sql.NullFloat64
}

// ReducedRow is one line of the reduced-observations table.
type ReducedRow struct {
	Year      int
	Month     int
	Day       float64
	TMinusTq  float64
	Delta     float64
	R         float64
	Alpha     float64
	Magnitude float64
	AbsMag    float64
}

// Writer receives the two complete, epoch-ordered output tables. The
// pipeline calls each method at most once per run; file naming, directory
// creation and plotting are the implementation's concern.
type Writer interface {
	WriteTotal(rows []TotalRow) error
	WriteReduced(rows []ReducedRow) error
}

// TotalRows converts matched records to the total table schema.
func TotalRows(records []models.MatchedRecord) []TotalRow {
	rows := make([]TotalRow, 0, len(records))
	for _, rec := range records {
		row := TotalRow{
			Year:      rec.Obs.Year,
			Month:     rec.Obs.Month,
			Day:       rec.Obs.Day,
			Magnitude: rec.Obs.Magnitude,
			Band:      rec.Obs.Band,
		}
		if rec.Eph != nil {
			row.Delta = sql.NullFloat64{Float64: rec.Eph.Delta, Valid: true}
			row.R = sql.NullFloat64{Float64: rec.Eph.R, Valid: true}
			row.Alpha = sql.NullFloat64{Float64: rec.Eph.Alpha, Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// ReducedRows converts reduced records to the reduced table schema.
func ReducedRows(records []models.ReducedRecord) []ReducedRow {
	rows := make([]ReducedRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ReducedRow{
			Year:      rec.Obs.Year,
			Month:     rec.Obs.Month,
			Day:       rec.Obs.Day,
			TMinusTq:  rec.TMinusTq,
			Delta:     rec.Eph.Delta,
			R:         rec.Eph.R,
			Alpha:     rec.Eph.Alpha,
			Magnitude: rec.Obs.Magnitude,
			AbsMag:    rec.AbsoluteMagnitude,
		})
	}
	return rows
}
