package sweep

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MeanStddev calculates the mean and sample standard deviation of a slice.
// Returns (0, 0) for empty slices and a zero deviation for a single value.
func MeanStddev(xs []float64) (mean float64, stddev float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// OrderSummary aggregates one order's MSE across the layers of a run.
type OrderSummary struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Mean   float64 `json:"mse_mean"`
	Stddev float64 `json:"mse_stddev"`
	Min    float64 `json:"mse_min"`
	Max    float64 `json:"mse_max"`

	// Wins counts the layers in which this order had the lowest MSE.
	Wins int `json:"wins"`
}

// Summarise returns per-order MSE statistics, best (lowest mean) first.
// Ties on the mean keep the order-set order.
func Summarise(r *Result) []OrderSummary {
	if r == nil || len(r.Orders) == 0 {
		return nil
	}

	scores := make(map[string][]float64, len(r.Orders))
	wins := make(map[string]int, len(r.Orders))
	for _, lr := range r.Layers {
		best, bestMSE := "", math.Inf(1)
		for _, e := range lr.Entries {
			scores[e.Name] = append(scores[e.Name], e.MSE)
			if e.MSE < bestMSE {
				best, bestMSE = e.Name, e.MSE
			}
		}
		if best != "" {
			wins[best]++
		}
	}

	out := make([]OrderSummary, 0, len(r.Orders))
	for _, no := range r.Orders {
		vals := scores[no.Name]
		s := OrderSummary{Name: no.Name, Label: no.Label, Wins: wins[no.Name]}
		s.Mean, s.Stddev = MeanStddev(vals)
		if len(vals) > 0 {
			s.Min, s.Max = vals[0], vals[0]
			for _, v := range vals[1:] {
				s.Min = math.Min(s.Min, v)
				s.Max = math.Max(s.Max, v)
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out
}
