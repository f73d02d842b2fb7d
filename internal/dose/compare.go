package dose

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// IntendedProfile samples the static, motion-free dose: each position takes
// the weight of the spot whose unshifted interval [left, right) contains it,
// and zero outside [-1, 1).
func IntendedProfile(spots Spots, positions []float64) []float64 {
	intended := make([]float64, len(positions))
	for i := 0; i < spots.Len(); i++ {
		left, right := spots.Interval(i)
		deposit(intended, positions, left, right, spots.Weights[i])
	}
	return intended
}

// MSE returns mean((delivered - intended)²). The result is symmetric in its
// arguments and never negative.
func MSE(delivered, intended []float64) (float64, error) {
	if len(delivered) != len(intended) {
		return 0, fmt.Errorf("%w: profile lengths differ (%d vs %d)", ErrInvalidConfiguration, len(delivered), len(intended))
	}
	if len(delivered) == 0 {
		return 0, fmt.Errorf("%w: profiles are empty", ErrInvalidConfiguration)
	}
	diff := make([]float64, len(delivered))
	floats.SubTo(diff, delivered, intended)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}
