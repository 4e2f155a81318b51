package dataset

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlara/seculight/internal/models"
)

func TestTextWriterPaths(t *testing.T) {
	w := NewTextWriter("/out", "C/2023 A3", "2023-01-01", "2024-06-30")

	wantTotal := filepath.Join("/out", "Total observations", "C_2023_A3_total_observations_2023-01-01_2024-06-30.txt")
	if got := w.TotalPath(); got != wantTotal {
		t.Errorf("TotalPath = %q, want %q", got, wantTotal)
	}
	wantReduced := filepath.Join("/out", "Reduced observations", "C_2023_A3_reduced_observations_2023-01-01_2024-06-30.txt")
	if got := w.ReducedPath(); got != wantReduced {
		t.Errorf("ReducedPath = %q, want %q", got, wantReduced)
	}
}

func TestTextWriterTotal(t *testing.T) {
	dir := t.TempDir()
	w := NewTextWriter(dir, "1P", "2023-01-01", "2023-12-31")

	rows := []TotalRow{
		{
			Year: 2023, Month: 11, Day: 21.53, Magnitude: 18.5, Band: "V",
			Delta: sql.NullFloat64{Float64: 1.234, Valid: true},
			R:     sql.NullFloat64{Float64: 2.345, Valid: true},
			Alpha: sql.NullFloat64{Float64: 12.3, Valid: true},
		},
		{Year: 2023, Month: 11, Day: 22.6, Magnitude: 18.3, Band: "R"}, // unmatched
	}
	if err := w.WriteTotal(rows); err != nil {
		t.Fatalf("WriteTotal: %v", err)
	}

	content, err := os.ReadFile(w.TotalPath())
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "2023 11 21.53 18.5 V 1.234 2.345 12.3" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[1] != "2023 11 22.6 18.3 R - - -" {
		t.Errorf("line 2 = %q (missing ephemeris should print placeholders)", lines[1])
	}
}

func TestTextWriterReducedRounding(t *testing.T) {
	dir := t.TempDir()
	w := NewTextWriter(dir, "1P", "2023-01-01", "2023-12-31")

	rows := []ReducedRow{
		{Year: 2023, Month: 11, Day: 21.53, TMinusTq: 29.5001, Delta: 2, R: 1.5, Alpha: 12.3, Magnitude: 18, AbsMag: 15.61257},
		{Year: 2023, Month: 11, Day: 22.6, TMinusTq: -40.49, Delta: 1, R: 1, Alpha: 5, Magnitude: 18, AbsMag: 18},
	}
	if err := w.WriteReduced(rows); err != nil {
		t.Fatalf("WriteReduced: %v", err)
	}

	content, err := os.ReadFile(w.ReducedPath())
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "2023 11 21.53 30 2 1.5 12.3 18 15.61" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[1] != "2023 11 22.6 -40 1 1 5 18 18.00" {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestTextWriterEmptyDatasets(t *testing.T) {
	dir := t.TempDir()
	w := NewTextWriter(dir, "1P", "2023-01-01", "2023-12-31")

	if err := w.WriteTotal(nil); err != nil {
		t.Fatalf("WriteTotal(nil): %v", err)
	}
	if err := w.WriteReduced(nil); err != nil {
		t.Fatalf("WriteReduced(nil): %v", err)
	}

	for _, path := range []string{w.TotalPath(), w.ReducedPath()} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() != 0 {
			t.Errorf("%s not empty", path)
		}
	}
}

func TestRowConversions(t *testing.T) {
	eph := models.NewEphemerisSample(2023, 11, 21, 1.2, 2.3, 10)
	matched := []models.MatchedRecord{
		{Obs: models.NewObservationRecord(2023, 11, 21.5, 18.5, "V"), Eph: &eph},
		{Obs: models.NewObservationRecord(2023, 11, 22.5, 18.6, "R")},
	}

	total := TotalRows(matched)
	if len(total) != 2 {
		t.Fatalf("len(total) = %d, want 2", len(total))
	}
	if !total[0].Delta.Valid || total[0].Delta.Float64 != 1.2 {
		t.Errorf("row 0 delta = %+v, want 1.2", total[0].Delta)
	}
	if total[1].Delta.Valid {
		t.Error("row 1 delta should be invalid for an unmatched record")
	}

	reduced := ReducedRows([]models.ReducedRecord{
		{MatchedRecord: matched[0], TMinusTq: 30, AbsoluteMagnitude: 15.6},
	})
	if len(reduced) != 1 {
		t.Fatalf("len(reduced) = %d, want 1", len(reduced))
	}
	if reduced[0].TMinusTq != 30 || reduced[0].AbsMag != 15.6 || reduced[0].Alpha != 10 {
		t.Errorf("reduced row = %+v", reduced[0])
	}
}
