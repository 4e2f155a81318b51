package pipeline

import "math"

// Fold maps a signed offset from perihelion (days) onto the canonical
// window [-period/2, period/2), so observations from any apparition stack
// onto a single reference orbit. An offset exactly at +period/2 lands on
// -period/2: one representative per equivalence class, so a point never
// shows up at both ends of the window.
//
// Implemented with math.Mod rather than repeated add/subtract so offsets
// many periods away cost the same as small ones.
func Fold(offset, period float64) float64 {
	f := math.Mod(offset, period)
	switch {
	case f >= period/2:
		f -= period
	case f < -period/2:
		f += period
	}
	return f
}
