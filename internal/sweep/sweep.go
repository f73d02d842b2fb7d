package sweep

import (
	"context"
	"fmt"
	"runtime"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ParamNames lists the sweepable parameters in combination column order.
var ParamNames = []string{"amplitude", "period", "phase", "spot_delay", "layer_delay"}

// SweepSpec lists the values to sweep for each parameter. Each field is a
// comma-separated list or a "min:max:step" range; empty keeps the base value.
type SweepSpec struct {
	Amplitude  string `json:"amplitude,omitempty"`
	Period     string `json:"period,omitempty"`
	Phase      string `json:"phase,omitempty"`
	SpotDelay  string `json:"spot_delay,omitempty"`
	LayerDelay string `json:"layer_delay,omitempty"`
}

// Combo is one point of the parameter grid.
type Combo struct {
	Amplitude  float64 `json:"amplitude"`
	Period     float64 `json:"period"`
	Phase      float64 `json:"phase"`
	SpotDelay  float64 `json:"spot_delay"`
	LayerDelay float64 `json:"layer_delay"`
}

// Values returns the combo in ParamNames order.
func (c Combo) Values() []float64 {
	return []float64{c.Amplitude, c.Period, c.Phase, c.SpotDelay, c.LayerDelay}
}

// Apply returns base with the combo's motion and timing substituted.
func (c Combo) Apply(base dose.Params) dose.Params {
	p := base
	p.Motion = dose.Motion{Amplitude: c.Amplitude, Period: c.Period, Phase: c.Phase}
	p.Timing = dose.Timing{SpotDelay: c.SpotDelay, LayerDelay: c.LayerDelay}
	return p
}

// ExpandCombos expands spec into the full grid around base. Every combo is
// validated so a sweep never starts with an impossible point.
func ExpandCombos(base dose.Params, spec SweepSpec) ([]Combo, error) {
	specs := []string{spec.Amplitude, spec.Period, spec.Phase, spec.SpotDelay, spec.LayerDelay}
	values := make([][]float64, len(specs))
	for i, s := range specs {
		v, err := ParseParamList(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ParamNames[i], err)
		}
		values[i] = v
	}
	defaults := []float64{
		base.Motion.Amplitude, base.Motion.Period, base.Motion.Phase,
		base.Timing.SpotDelay, base.Timing.LayerDelay,
	}
	grid, err := ExpandRanges(values, defaults)
	if err != nil {
		return nil, err
	}

	combos := make([]Combo, len(grid))
	for i, row := range grid {
		combos[i] = Combo{Amplitude: row[0], Period: row[1], Phase: row[2], SpotDelay: row[3], LayerDelay: row[4]}
		p := combos[i].Apply(base)
		if err := p.Motion.Validate(); err != nil {
			return nil, fmt.Errorf("combination %d: %w", i, err)
		}
		if err := p.Timing.Validate(); err != nil {
			return nil, fmt.Errorf("combination %d: %w", i, err)
		}
	}
	return combos, nil
}

// ComboResult is the summary of one grid point.
type ComboResult struct {
	Index     int            `json:"index"`
	Combo     Combo          `json:"combo"`
	Summaries []OrderSummary `json:"summaries"`
}

// SweepResult collects every grid point of a sweep, in combo order.
type SweepResult struct {
	RunID  string            `json:"run_id"`
	Base   dose.Params       `json:"base"`
	Orders []dose.NamedOrder `json:"orders"`
	Combos []ComboResult     `json:"combos"`
}

// Sweep runs every combo against the same order set using up to workers
// goroutines (GOMAXPROCS when workers < 1). Each run builds its own model
// and grids; only the read-only order set is shared. The first failure or
// a cancelled ctx stops the sweep.
func Sweep(ctx context.Context, base dose.Params, orders []dose.NamedOrder, combos []Combo, workers int) (*SweepResult, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no delivery orders", dose.ErrInvalidConfiguration)
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &SweepResult{
		RunID:  uuid.NewString(),
		Base:   base,
		Orders: orders,
		Combos: make([]ComboResult, len(combos)),
	}
	monitoring.Logf("sweep %s: %d combinations, %d orders, %d workers", res.RunID, len(combos), len(orders), workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, combo := range combos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model, err := dose.NewModel(combo.Apply(base))
			if err != nil {
				return fmt.Errorf("combination %d: %w", i, err)
			}
			run, err := Run(model, orders)
			if err != nil {
				return fmt.Errorf("combination %d: %w", i, err)
			}
			res.Combos[i] = ComboResult{Index: i, Combo: combo, Summaries: Summarise(run)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
