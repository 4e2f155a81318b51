package mpc

import (
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/julian"
)

const ephemerisText = `Date       UT      R.A. (J2000) Decl.  Delta     r     El.    Ph.   V      Sky Motion
2023 11 20 000000 02 03.4 +10 11 1.234 2.345 120.5 12.3 19.2 0.51 112.3
2023 11 21 000000 02 04.1 +10 15 1.250 2.351 119.8 12.5 19.2 0.52 112.8
2023 11 22 000000 02 05.9 +10 19 1.267 2.357 119.1 12.7 19.3 0.52 113.2
2023 11 23 000000 02 06.0 +10 23 bogus 2.363 118.4 12.9 19.3 0.53 113.7
These calculations have been performed on the behalf of the requester.
`

func TestParseEphemeris(t *testing.T) {
	samples, parseErrors := ParseEphemeris(ephemerisText)

	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}
	if parseErrors != 1 {
		t.Errorf("parseErrors = %d, want 1 (the bogus delta line)", parseErrors)
	}

	s := samples[0]
	if s.Year != 2023 || s.Month != 11 || s.Day != 20 {
		t.Errorf("date = %d-%d-%v, want 2023-11-20", s.Year, s.Month, s.Day)
	}
	if s.Delta != 1.234 || s.R != 2.345 || s.Alpha != 12.3 {
		t.Errorf("geometry = (%v, %v, %v), want (1.234, 2.345, 12.3)", s.Delta, s.R, s.Alpha)
	}
	wantJD := julian.CalendarGregorianToJD(2023, 11, 20)
	if s.JD != wantJD {
		t.Errorf("JD = %v, want %v", s.JD, wantJD)
	}

	if samples[2].JD-samples[0].JD != 2 {
		t.Errorf("daily samples two days apart, got %v", samples[2].JD-samples[0].JD)
	}
}

func TestParseEphemerisEmptyPage(t *testing.T) {
	samples, parseErrors := ParseEphemeris("No current elements found for the specified object.\n")
	if len(samples) != 0 || parseErrors != 0 {
		t.Errorf("got %d samples, %d errors, want none", len(samples), parseErrors)
	}
}

const objectPageText = `1P/Halley
Observations summary

Date (UT)  R.A.  Decl.  Mag.  Band  Observatory
2023 11 21.53 18.5 V F51
2023 11 22.60 18.3 R F52
2023 11 23.10 17.9 C 703
2023 11 24.12 G96
2023 11 25.00 18.1 9 703

Orbit details
perihelion date 2061-07-28.9030
period (years) 75.32
`

func TestParseObjectPage(t *testing.T) {
	obs, hints, parseErrors := ParseObjectPage(objectPageText)

	if len(obs) != 3 {
		t.Fatalf("len(obs) = %d, want 3", len(obs))
	}
	if parseErrors != 1 {
		t.Errorf("parseErrors = %d, want 1 (the numeric band row)", parseErrors)
	}

	first := obs[0]
	if first.Year != 2023 || first.Month != 11 || first.Day != 21.53 {
		t.Errorf("date = %d-%d-%v, want 2023-11-21.53", first.Year, first.Month, first.Day)
	}
	if first.Magnitude != 18.5 || first.Band != "V" {
		t.Errorf("photometry = (%v, %q), want (18.5, V)", first.Magnitude, first.Band)
	}

	if !hints.PerihelionJD.Valid {
		t.Fatal("no perihelion date parsed")
	}
	wantTq := julian.CalendarGregorianToJD(2061, 7, 28)
	if hints.PerihelionJD.Float64 != wantTq {
		t.Errorf("PerihelionJD = %v, want %v", hints.PerihelionJD.Float64, wantTq)
	}

	if !hints.PeriodDays.Valid {
		t.Fatal("no period parsed")
	}
	if want := 75.32 * 365.25; math.Abs(hints.PeriodDays.Float64-want) > 1e-9 {
		t.Errorf("PeriodDays = %v, want %v", hints.PeriodDays.Float64, want)
	}
}

func TestParseObjectPageLabelOnOwnLine(t *testing.T) {
	text := "perihelion date\n2024-03-02.1\n\nperiod (years)\n5.5\n"
	_, hints, _ := ParseObjectPage(text)

	if !hints.PerihelionJD.Valid {
		t.Fatal("no perihelion date parsed from split label")
	}
	if want := julian.CalendarGregorianToJD(2024, 3, 2); hints.PerihelionJD.Float64 != want {
		t.Errorf("PerihelionJD = %v, want %v", hints.PerihelionJD.Float64, want)
	}
	if !hints.PeriodDays.Valid || hints.PeriodDays.Float64 != 5.5*365.25 {
		t.Errorf("PeriodDays = %+v, want %v", hints.PeriodDays, 5.5*365.25)
	}
}

func TestParseObjectPageMissingOrbitData(t *testing.T) {
	text := "2023 11 21.53 18.5 V F51\nperihelion date\n\n\n"
	obs, hints, _ := ParseObjectPage(text)

	if len(obs) != 1 {
		t.Errorf("len(obs) = %d, want 1", len(obs))
	}
	if hints.PerihelionJD.Valid {
		t.Error("parsed a perihelion date out of blank cells")
	}
	if hints.PeriodDays.Valid {
		t.Error("parsed a period that is not on the page")
	}
}

func TestParsePerihelionDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantJD  float64
		wantErr bool
	}{
		{"plain date", "2061-07-28", julian.CalendarGregorianToJD(2061, 7, 28), false},
		{"fractional day dropped", "2061-07-28.9030", julian.CalendarGregorianToJD(2061, 7, 28), false},
		{"surrounding space", "  2024-01-02 ", julian.CalendarGregorianToJD(2024, 1, 2), false},
		{"not a date", "soon", 0, true},
		{"month out of range", "2024-13-02", 0, true},
		{"day out of range", "2024-01-45", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePerihelionDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePerihelionDate(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePerihelionDate(%q): %v", tt.in, err)
			}
			if got != tt.wantJD {
				t.Errorf("ParsePerihelionDate(%q) = %v, want %v", tt.in, got, tt.wantJD)
			}
		})
	}
}
