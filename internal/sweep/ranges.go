package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxValues bounds a single expanded range and maxCombos the cartesian
// product of all ranges.
const (
	maxValues = 10000
	maxCombos = 10000
)

// RangeSpec defines a floating-point parameter range for sweeping.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// ParseCSVFloat64s parses a comma-separated list of float64 values.
// Returns nil, nil for empty input strings.
func ParseCSVFloat64s(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseRangeSpec parses a "min:max:step" string into a RangeSpec.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return RangeSpec{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	vals := make([]float64, 3)
	for i, name := range []string{"min", "max", "step"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return RangeSpec{}, fmt.Errorf("invalid %s value %q: %w", name, parts[i], err)
		}
		vals[i] = v
	}

	for i, name := range []string{"min", "max", "step"} {
		if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
			return RangeSpec{}, fmt.Errorf("%s must be finite, got %v", name, vals[i])
		}
	}
	if vals[2] <= 0 {
		return RangeSpec{}, fmt.Errorf("step must be positive, got %f", vals[2])
	}
	if vals[0] > vals[1] {
		return RangeSpec{}, fmt.Errorf("range min %v exceeds max %v", vals[0], vals[1])
	}
	return RangeSpec{Min: vals[0], Max: vals[1], Step: vals[2]}, nil
}

// Values expands the range into min, min+step, ... up to max inclusive.
// The i-th value is min + i·step rounded to nine decimals.
func (r RangeSpec) Values() ([]float64, error) {
	if !finite(r.Min, r.Max, r.Step) || !(r.Step > 0) || !(r.Min <= r.Max) {
		return nil, fmt.Errorf("invalid range %v:%v:%v", r.Min, r.Max, r.Step)
	}
	n := math.Floor((r.Max-r.Min)/r.Step+1e-9) + 1
	if !(n >= 1 && n <= maxValues) {
		return nil, fmt.Errorf("range %v:%v:%v would produce more than %d values", r.Min, r.Max, r.Step, maxValues)
	}
	out := make([]float64, int(n))
	for i := range out {
		out[i] = math.Round((r.Min+float64(i)*r.Step)*1e9) / 1e9
	}
	return out, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ParseParamList parses a comma-separated list of floats or a range specification.
// If the string contains a colon, it is treated as "min:max:step" range spec.
func ParseParamList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ":") {
		spec, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		return spec.Values()
	}
	return ParseCSVFloat64s(s)
}

// ExpandRanges generates the cartesian product of several value lists. An
// empty list in dimension i is replaced by defaults[i]. The last dimension
// varies fastest.
func ExpandRanges(values [][]float64, defaults []float64) ([][]float64, error) {
	if len(values) != len(defaults) {
		return nil, fmt.Errorf("have %d value lists but %d defaults", len(values), len(defaults))
	}
	if len(values) == 0 {
		return nil, nil
	}

	dims := make([][]float64, len(values))
	total := int64(1)
	for i, v := range values {
		if len(v) == 0 {
			v = []float64{defaults[i]}
		}
		dims[i] = v
		total *= int64(len(v))
		if total > maxCombos {
			return nil, fmt.Errorf("parameter combinations would exceed safe limit of %d", maxCombos)
		}
	}

	result := make([][]float64, total)
	for i := range result {
		result[i] = make([]float64, len(dims))
	}
	repeat := int64(1)
	for dim := len(dims) - 1; dim >= 0; dim-- {
		cycle := int64(len(dims[dim]))
		for i := int64(0); i < total; i++ {
			result[i][dim] = dims[dim][(i/repeat)%cycle]
		}
		repeat *= cycle
	}
	return result, nil
}
