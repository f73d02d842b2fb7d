// Package sweep drives dose simulations: a Run delivers every order of a
// fixed order set in every layer and scores it, and a Sweep repeats runs over
// a grid of motion and timing parameters. It also parses parameter ranges and
// writes results as CSV.
package sweep

import (
	"fmt"
	"slices"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/google/uuid"
)

// Entry is the outcome of one order in one layer.
type Entry struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Order     dose.Order `json:"order"`
	Times     []float64  `json:"times"`
	Delivered []float64  `json:"delivered,omitempty"`
	MSE       float64    `json:"mse"`
}

// LayerResult holds every order's outcome for one layer.
type LayerResult struct {
	Index   int     `json:"index"`
	Start   float64 `json:"start"`
	Entries []Entry `json:"entries"`
}

// Result is a complete layers × orders run.
type Result struct {
	RunID     string            `json:"run_id"`
	Params    dose.Params       `json:"params"`
	Orders    []dose.NamedOrder `json:"orders"`
	Positions []float64         `json:"positions,omitempty"`
	Intended  []float64         `json:"intended,omitempty"`
	Layers    []LayerResult     `json:"layers"`
}

// Run delivers each order in every layer of model. The order set is used as
// given for all layers; generate it once per run.
func Run(model *dose.Model, orders []dose.NamedOrder) (*Result, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", dose.ErrInvalidConfiguration)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no delivery orders", dose.ErrInvalidConfiguration)
	}

	p := model.Params()
	res := &Result{
		RunID:     uuid.NewString(),
		Params:    p,
		Orders:    orders,
		Positions: model.Positions(),
		Intended:  model.Intended(),
		Layers:    make([]LayerResult, 0, p.NLayers),
	}

	for layer := 0; layer < p.NLayers; layer++ {
		lr := LayerResult{
			Index:   layer,
			Start:   p.Timing.LayerStart(layer, p.NSpots),
			Entries: make([]Entry, 0, len(orders)),
		}
		for _, no := range orders {
			c, err := model.Compare(no.Order, layer)
			if err != nil {
				return nil, fmt.Errorf("layer %d order %q: %w", layer, no.Name, err)
			}
			monitoring.Logf("layer %d order %s %v times %v mse %.6f", layer, no.Name, no.Order, c.Times, c.MSE)
			for step, idx := range c.Order {
				t := c.Times[step]
				monitoring.Tracef("layer %d order %s step %d spot %d t=%.3f offset=%+.5f", layer, no.Name, step, idx, t, p.Motion.Offset(t))
			}
			lr.Entries = append(lr.Entries, Entry{
				Name:      no.Name,
				Label:     no.Label,
				Order:     c.Order,
				Times:     c.Times,
				Delivered: c.Delivered,
				MSE:       c.MSE,
			})
		}
		res.Layers = append(res.Layers, lr)
	}
	return res, nil
}

// RunParams builds a model from p, generates the named orders once and runs.
func RunParams(p dose.Params, reg *dose.OrderRegistry, names []string, seed uint64) (*Result, error) {
	model, err := dose.NewModel(p)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = dose.DefaultOrderRegistry()
	}
	orders, err := reg.BuildOrderSet(names, p.NSpots, seed)
	if err != nil {
		return nil, err
	}
	return Run(model, orders)
}

// MSE looks up the score of the named order in a layer.
func (r *Result) MSE(layer int, name string) (float64, bool) {
	if layer < 0 || layer >= len(r.Layers) {
		return 0, false
	}
	for _, e := range r.Layers[layer].Entries {
		if e.Name == name {
			return e.MSE, true
		}
	}
	return 0, false
}

// Compact returns a copy of r without the sampled profiles, for summaries
// and JSON responses.
func (r *Result) Compact() *Result {
	out := *r
	out.Positions, out.Intended = nil, nil
	out.Layers = make([]LayerResult, len(r.Layers))
	for i, lr := range r.Layers {
		entries := slices.Clone(lr.Entries)
		for j := range entries {
			entries[j].Delivered = nil
		}
		out.Layers[i] = LayerResult{Index: lr.Index, Start: lr.Start, Entries: entries}
	}
	return &out
}
