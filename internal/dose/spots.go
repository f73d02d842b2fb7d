package dose

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// TargetFunc is the underlying target dose function evaluated at spot centres.
type TargetFunc func(pos float64) float64

// Quadratic is the default target function, F(x) = x².
func Quadratic(pos float64) float64 { return pos * pos }

// Flat is a uniform target, F(x) = 1.
func Flat(float64) float64 { return 1 }

// Abs is a V-shaped target, F(x) = |x|.
func Abs(pos float64) float64 { return math.Abs(pos) }

// DefaultTarget names the target function used when none is configured.
const DefaultTarget = "quadratic"

var targets = map[string]TargetFunc{
	"quadratic": Quadratic,
	"flat":      Flat,
	"abs":       Abs,
}

// TargetByName returns the built-in target function registered under name.
func TargetByName(name string) (TargetFunc, error) {
	f, ok := targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown target function %q (valid: %v)", ErrInvalidConfiguration, name, TargetNames())
	}
	return f, nil
}

// TargetNames lists the built-in target function names in sorted order.
func TargetNames() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spots is the static spot geometry of one layer. Spot i covers the
// half-open interval [Edges[i], Edges[i+1]) and carries Weights[i].
// A Spots value is built once and never modified.
type Spots struct {
	Edges   []float64 `json:"edges"`
	Centers []float64 `json:"centers"`
	Weights []float64 `json:"weights"`
}

// BuildSpots partitions [-1, 1] into n equal spots and weights each by the
// target function evaluated at its centre, normalised so the largest weight
// is 1. When every raw weight is zero the profile is taken as flat and all
// weights become 1.
func BuildSpots(n int, target TargetFunc) (Spots, error) {
	if n < 1 {
		return Spots{}, fmt.Errorf("%w: n_spots must be at least 1, got %d", ErrInvalidConfiguration, n)
	}
	if target == nil {
		return Spots{}, fmt.Errorf("%w: target function is nil", ErrInvalidConfiguration)
	}

	edges := floats.Span(make([]float64, n+1), -1, 1)
	edges[0], edges[n] = -1, 1

	centers := make([]float64, n)
	weights := make([]float64, n)
	for i := range centers {
		centers[i] = 0.5 * (edges[i] + edges[i+1])
		w := target(centers[i])
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return Spots{}, fmt.Errorf("%w: target weight at %v is not finite", ErrInvalidConfiguration, centers[i])
		}
		weights[i] = w
	}

	maxW, minW := floats.Max(weights), floats.Min(weights)
	switch {
	case maxW > 0:
		for i := range weights {
			weights[i] /= maxW
		}
	case maxW == 0 && minW == 0:
		for i := range weights {
			weights[i] = 1
		}
	default:
		return Spots{}, fmt.Errorf("%w: target function has no positive weight to normalise by (max %v)", ErrInvalidConfiguration, maxW)
	}

	return Spots{Edges: edges, Centers: centers, Weights: weights}, nil
}

// Len returns the number of spots.
func (s Spots) Len() int { return len(s.Weights) }

// Interval returns the static boundaries of spot i.
func (s Spots) Interval(i int) (left, right float64) {
	return s.Edges[i], s.Edges[i+1]
}
