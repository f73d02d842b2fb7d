// Package dose models scanned-beam dose delivery onto a moving target.
//
// A one-dimensional target interval [-1, 1] is split into spots, each with
// a static weight. Spots are delivered one at a time in a chosen order while
// the target moves sinusoidally; every delivered spot lands shifted by the
// motion offset at its delivery time. Delivered and intended (static)
// profiles are sampled on a shared position axis and compared by MSE.
//
// Everything in this package is a pure function of its inputs. Shared inputs
// (spots, axis positions, the intended grid) are never mutated, and every
// delivery allocates its own output grid, so callers may run deliveries
// concurrently.
package dose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default position axis used for sampling profiles.
const (
	DefaultAxisMin     = -1.5
	DefaultAxisMax     = 1.5
	DefaultAxisSamples = 1000
)

// Axis describes the high-resolution sampling axis for dose grids.
type Axis struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

// DefaultAxis returns the [-1.5, 1.5] axis with 1000 samples.
func DefaultAxis() Axis {
	return Axis{Min: DefaultAxisMin, Max: DefaultAxisMax, Samples: DefaultAxisSamples}
}

// Validate checks the axis bounds and sample count.
func (a Axis) Validate() error {
	if a.Samples < 1 {
		return fmt.Errorf("%w: axis samples must be at least 1, got %d", ErrInvalidConfiguration, a.Samples)
	}
	if math.IsNaN(a.Min) || math.IsInf(a.Min, 0) || math.IsNaN(a.Max) || math.IsInf(a.Max, 0) {
		return fmt.Errorf("%w: axis bounds must be finite, got [%v, %v]", ErrInvalidConfiguration, a.Min, a.Max)
	}
	if a.Max <= a.Min {
		return fmt.Errorf("%w: axis max %v must exceed min %v", ErrInvalidConfiguration, a.Max, a.Min)
	}
	return nil
}

// Positions returns Samples evenly spaced sample positions from Min to Max,
// both endpoints included. A single-sample axis yields just Min.
func (a Axis) Positions() []float64 {
	if a.Samples < 1 {
		return nil
	}
	if a.Samples == 1 {
		return []float64{a.Min}
	}
	pos := floats.Span(make([]float64, a.Samples), a.Min, a.Max)
	pos[0], pos[a.Samples-1] = a.Min, a.Max
	return pos
}
