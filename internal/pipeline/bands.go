package pipeline

// DefaultVBandCorrections maps each recognized MPC photometric band to the
// additive offset that brings its magnitudes onto the V band. The empty
// band marks unfiltered reports.
var DefaultVBandCorrections = map[string]float64{
	"":  0,
	"U": -1.3,
	"B": -0.8,
	"g": -0.35,
	"V": 0,
	"r": 0.14,
	"R": 0.4,
	"C": 0.4,
	"W": 0.4,
	"i": 0.32,
	"z": 0.26,
	"I": 0.8,
	"J": 1.2,
	"w": -0.13,
	"y": 0.32,
	"L": 0.2,
	"H": 1.4,
	"K": 1.7,
	"Y": 0.7,
	"G": 0.28,
	"v": 0,
	"c": -0.05,
	"o": 0.33,
	"u": 2.5,
	"N": 0, // nuclear magnitude
	"T": 0, // total magnitude
}

// DefaultDiscardedBands are the filters whose observations are dropped
// before reduction: far from V, with unreliable transformations.
var DefaultDiscardedBands = []string{"U", "u", "B", "I", "J", "H", "K"}

// DefaultAcceptedBands returns the recognized bands minus the discarded
// set, as a membership set for the filter stage.
func DefaultAcceptedBands() map[string]bool {
	discarded := make(map[string]bool, len(DefaultDiscardedBands))
	for _, b := range DefaultDiscardedBands {
		discarded[b] = true
	}
	accepted := make(map[string]bool, len(DefaultVBandCorrections))
	for b := range DefaultVBandCorrections {
		if !discarded[b] {
			accepted[b] = true
		}
	}
	return accepted
}

// AcceptedBandSet builds a membership set from an explicit band list.
func AcceptedBandSet(bands []string) map[string]bool {
	set := make(map[string]bool, len(bands))
	for _, b := range bands {
		set[b] = true
	}
	return set
}
