package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	totalDirName   = "Total observations"
	reducedDirName = "Reduced observations"
)

// TextWriter emits the two tables as space-delimited flat files, one
// directory per table, named after the object and date window:
//
//	Total observations/<object>_total_observations_<start>_<end>.txt
//	Reduced observations/<object>_reduced_observations_<start>_<end>.txt
type TextWriter struct {
	BaseDir string
	Object  string
	Start   string // YYYY-MM-DD
	End     string
}

func NewTextWriter(baseDir, object, start, end string) *TextWriter {
	return &TextWriter{BaseDir: baseDir, Object: object, Start: start, End: end}
}

// sanitizeObject makes an object name safe for use in a filename.
func sanitizeObject(name string) string {
	r := strings.NewReplacer("\\", "_", "/", "_", " ", "_")
	return r.Replace(name)
}

func (w *TextWriter) path(dir, kind string) string {
	name := fmt.Sprintf("%s_%s_observations_%s_%s.txt", sanitizeObject(w.Object), kind, w.Start, w.End)
	return filepath.Join(w.BaseDir, dir, name)
}

// TotalPath returns the destination of the total-observations file.
func (w *TextWriter) TotalPath() string {
	return w.path(totalDirName, "total")
}

// ReducedPath returns the destination of the reduced-observations file.
func (w *TextWriter) ReducedPath() string {
	return w.path(reducedDirName, "reduced")
}

func (w *TextWriter) WriteTotal(rows []TotalRow) error {
	var b strings.Builder
	for _, row := range rows {
		delta, r, alpha := "-", "-", "-"
		if row.Delta.Valid {
			delta = formatFloat(row.Delta.Float64)
		}
		if row.R.Valid {
			r = formatFloat(row.R.Float64)
		}
		if row.Alpha.Valid {
			alpha = formatFloat(row.Alpha.Float64)
		}
		fmt.Fprintf(&b, "%d %d %s %s %s %s %s %s\n",
			row.Year, row.Month, formatFloat(row.Day),
			formatFloat(row.Magnitude), row.Band, delta, r, alpha)
	}
	return w.writeFile(w.TotalPath(), b.String())
}

func (w *TextWriter) WriteReduced(rows []ReducedRow) error {
	var b strings.Builder
	for _, row := range rows {
		// t-Tq to the nearest day, absolute magnitude to 2 decimals
		fmt.Fprintf(&b, "%d %d %s %d %s %s %s %s %.2f\n",
			row.Year, row.Month, formatFloat(row.Day),
			int(math.Round(row.TMinusTq)),
			formatFloat(row.Delta), formatFloat(row.R), formatFloat(row.Alpha),
			formatFloat(row.Magnitude), row.AbsMag)
	}
	return w.writeFile(w.ReducedPath(), b.String())
}

func (w *TextWriter) writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
