package mpc

import (
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/julian"
)

func TestParseCometElements(t *testing.T) {
	line := "0001P 2061 07 28.9030 0.586 0.967 112.26 59.42 162.26 20230900 4.0 6.0 1P/Halley"

	hints, err := ParseCometElements(line)
	if err != nil {
		t.Fatalf("ParseCometElements: %v", err)
	}

	if !hints.PerihelionJD.Valid {
		t.Fatal("no perihelion parsed")
	}
	if want := julian.CalendarGregorianToJD(2061, 7, 28.9030); hints.PerihelionJD.Float64 != want {
		t.Errorf("PerihelionJD = %v, want %v", hints.PerihelionJD.Float64, want)
	}

	if !hints.PeriodDays.Valid {
		t.Fatal("no period derived")
	}
	a := 0.586 / (1 - 0.967)
	want := math.Pow(a, 1.5) * 365.25
	if math.Abs(hints.PeriodDays.Float64-want) > 1e-6 {
		t.Errorf("PeriodDays = %v, want %v", hints.PeriodDays.Float64, want)
	}
}

func TestParseCometElementsNonPeriodic(t *testing.T) {
	tests := []struct {
		name string
		e    string
	}{
		{"parabolic", "1.0"},
		{"hyperbolic", "1.0006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := "CK23A030 2024 09 27.7440 0.391 " + tt.e + " 308.49 21.56 139.11 20240900 7.0 4.0 C/2023 A3 (Tsuchinshan-ATLAS)"
			hints, err := ParseCometElements(line)
			if err != nil {
				t.Fatalf("ParseCometElements: %v", err)
			}
			if !hints.PerihelionJD.Valid {
				t.Error("perihelion should parse for non-periodic orbits")
			}
			if hints.PeriodDays.Valid {
				t.Errorf("PeriodDays = %v, want undefined for e = %s", hints.PeriodDays.Float64, tt.e)
			}
		})
	}
}

func TestParseCometElementsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"short line", "0001P 2061 07"},
		{"bad month", "0001P 2061 17 28.9 0.586 0.967 1 2 3 4 5 6 x"},
		{"negative q", "0001P 2061 07 28.9 -0.5 0.967 1 2 3 4 5 6 x"},
		{"non-numeric day", "0001P 2061 07 soon 0.586 0.967 1 2 3 4 5 6 x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCometElements(tt.line); err == nil {
				t.Errorf("ParseCometElements(%q) succeeded, want error", tt.line)
			}
		})
	}
}

func TestMatchesObject(t *testing.T) {
	line := "0001P 2061 07 28.9030 0.586 0.967 112.26 59.42 162.26 20230900 4.0 6.0 1P/Halley"

	tests := []struct {
		object string
		want   bool
	}{
		{"0001P", true},
		{"1P/Halley", true},
		{"halley", true},
		{"2P", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := matchesObject(line, tt.object); got != tt.want {
			t.Errorf("matchesObject(%q) = %v, want %v", tt.object, got, tt.want)
		}
	}
}
