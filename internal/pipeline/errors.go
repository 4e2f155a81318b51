package pipeline

import "errors"

var (
	// ErrMissingOrbitData means perihelion-relative reduction was requested
	// but no perihelion date survived the hint/override step.
	ErrMissingOrbitData = errors.New("perihelion date required but not available")

	// ErrUnknownBand means a record reached reduction with a band that has
	// no entry in the V-band correction table.
	ErrUnknownBand = errors.New("no V-band correction for filter")

	// ErrInvalidEphemeris means delta or r on a record entering reduction
	// was missing or non-positive.
	ErrInvalidEphemeris = errors.New("invalid ephemeris geometry")

	// ErrNoConfiguration means the run context lacks the band-correction
	// table or the accepted-band set. Unlike per-record problems this is
	// fatal to the whole run.
	ErrNoConfiguration = errors.New("missing reduction configuration")
)
