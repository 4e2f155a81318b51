package mpc

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/mlara/seculight/internal/models"
)

// ParseEphemeris extracts ephemeris samples from the text of an MPC
// ephemeris page. Data lines carry more than 13 whitespace-separated
// fields; the date occupies the first three, delta the ninth, r the tenth
// and the phase angle the twelfth. Everything else on the page (headers,
// footers, the form echo) has fewer fields or non-numeric dates and is
// skipped. Returns the samples and the count of data lines that failed
// to parse.
func ParseEphemeris(text string) ([]models.EphemerisSample, int) {
	var samples []models.EphemerisSample
	parseErrors := 0

	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) <= 13 {
			continue
		}
		year, month, day, ok := parseDateFields(fields[0], fields[1], fields[2])
		if !ok {
			continue
		}
		delta, err1 := strconv.ParseFloat(fields[8], 64)
		r, err2 := strconv.ParseFloat(fields[9], 64)
		alpha, err3 := strconv.ParseFloat(fields[11], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			parseErrors++
			continue
		}
		samples = append(samples, models.NewEphemerisSample(year, month, day, delta, r, alpha))
	}
	return samples, parseErrors
}

// ParseObjectPage extracts the observation rows and the orbit-parameter
// hints from the text of a db_search/show_object page. Observation rows
// are dated lines with at least five fields: year, month, fractional day,
// magnitude and band. Rows without a magnitude (astrometry-only) are
// skipped. The perihelion date and period come from the orbit table
// labels; either may be absent.
func ParseObjectPage(text string) ([]models.ObservationRecord, models.OrbitParameters, int) {
	var (
		obs         []models.ObservationRecord
		hints       models.OrbitParameters
		parseErrors int
	)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if strings.Contains(lower, "perihelion date") {
			if jd, ok := perihelionFromLabel(trimmed, "perihelion date", lines, i); ok {
				hints.PerihelionJD = sql.NullFloat64{Float64: jd, Valid: true}
			}
			continue
		}
		if strings.Contains(lower, "period (years)") {
			if v, ok := labelValue(trimmed, "period (years)", lines, i); ok {
				if years, err := strconv.ParseFloat(v, 64); err == nil && years > 0 {
					hints.PeriodDays = sql.NullFloat64{Float64: years * daysPerYear, Valid: true}
				}
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 5 {
			continue
		}
		year, month, day, ok := parseDateFields(fields[0], fields[1], fields[2])
		if !ok {
			continue
		}
		mag, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		band := fields[4]
		if !plausibleBand(band) {
			parseErrors++
			continue
		}
		obs = append(obs, models.NewObservationRecord(year, month, day, mag, band))
	}

	return obs, hints, parseErrors
}

// daysPerYear converts the period the MPC reports in Julian years.
const daysPerYear = 365.25

// ParsePerihelionDate parses a YYYY-MM-DD perihelion date, tolerating a
// fractional-day suffix (the MPC appends one), into a Julian Date.
func ParsePerihelionDate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return 0, strconv.ErrSyntax
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day >= 32 {
		return 0, strconv.ErrSyntax
	}
	// fractional part is dropped: perihelion precision beyond a day does
	// not matter for folding
	return julian.CalendarGregorianToJD(year, month, float64(int(day))), nil
}

// perihelionFromLabel reads the value next to the "perihelion date" label
// and converts it to a Julian Date.
func perihelionFromLabel(line, label string, lines []string, i int) (float64, bool) {
	v, ok := labelValue(line, label, lines, i)
	if !ok {
		return 0, false
	}
	jd, err := ParsePerihelionDate(v)
	if err != nil {
		return 0, false
	}
	return jd, true
}

// labelValue returns the text following a label, looking first on the
// same line and then on the next non-empty one. The flattened table puts
// the value cell in either position depending on column widths.
func labelValue(line, label string, lines []string, i int) (string, bool) {
	idx := strings.Index(strings.ToLower(line), label)
	if idx >= 0 {
		rest := strings.TrimSpace(line[idx+len(label):])
		if rest != "" {
			return rest, true
		}
	}
	for j := i + 1; j < len(lines) && j <= i+2; j++ {
		if v := strings.TrimSpace(lines[j]); v != "" {
			return v, true
		}
	}
	return "", false
}

// parseDateFields validates a year/month/day triple. Day may carry a
// fractional part on observation rows.
func parseDateFields(y, m, d string) (int, int, float64, bool) {
	year, err1 := strconv.Atoi(y)
	month, err2 := strconv.Atoi(m)
	day, err3 := strconv.ParseFloat(d, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	if year < 1000 || year > 3000 || month < 1 || month > 12 || day < 1 || day >= 32 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// plausibleBand accepts the short alphabetic filter tags the MPC uses.
func plausibleBand(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
