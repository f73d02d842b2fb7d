package dose

import (
	"fmt"
	"math"
	"slices"
)

// Default simulation parameters.
const (
	DefaultSpots      = 10
	DefaultLayers     = 3
	DefaultAmplitude  = 0.05
	DefaultPeriod     = 7.0
	DefaultSpotDelay  = 0.2
	DefaultLayerDelay = 1.0
)

// DefaultPhase is π: the target starts at zero displacement moving towards
// negative offsets.
const DefaultPhase = math.Pi

// Params is the complete input of a simulation model.
// TargetName only labels Target in reports.
type Params struct {
	NSpots     int        `json:"n_spots"`
	NLayers    int        `json:"n_layers"`
	Motion     Motion     `json:"motion"`
	Timing     Timing     `json:"timing"`
	Axis       Axis       `json:"axis"`
	Target     TargetFunc `json:"-"`
	TargetName string     `json:"target"`
}

// DefaultParams returns the reference scenario: 10 spots, 3 layers, a 7 s
// breathing period with 0.05 amplitude, 0.2 s spot delay and 1 s layer delay.
func DefaultParams() Params {
	return Params{
		NSpots:     DefaultSpots,
		NLayers:    DefaultLayers,
		Motion:     Motion{Amplitude: DefaultAmplitude, Period: DefaultPeriod, Phase: DefaultPhase},
		Timing:     Timing{SpotDelay: DefaultSpotDelay, LayerDelay: DefaultLayerDelay},
		Axis:       DefaultAxis(),
		Target:     Quadratic,
		TargetName: DefaultTarget,
	}
}

// Validate checks every parameter; the first problem found is returned.
func (p Params) Validate() error {
	if p.NSpots < 1 {
		return fmt.Errorf("%w: n_spots must be at least 1, got %d", ErrInvalidConfiguration, p.NSpots)
	}
	if p.NLayers < 1 {
		return fmt.Errorf("%w: n_layers must be at least 1, got %d", ErrInvalidConfiguration, p.NLayers)
	}
	if p.Target == nil {
		return fmt.Errorf("%w: target function is nil", ErrInvalidConfiguration)
	}
	if err := p.Motion.Validate(); err != nil {
		return err
	}
	if err := p.Timing.Validate(); err != nil {
		return err
	}
	return p.Axis.Validate()
}

// Model holds the validated, read-only inputs shared by every delivery of a
// run: spot geometry, the sampling axis and the intended profile.
type Model struct {
	params    Params
	spots     Spots
	positions []float64
	intended  []float64
}

// Comparison is the outcome of delivering one order in one layer.
type Comparison struct {
	Layer     int       `json:"layer"`
	Order     Order     `json:"order"`
	Times     []float64 `json:"times"`
	Delivered []float64 `json:"delivered"`
	MSE       float64   `json:"mse"`
}

// NewModel validates p and precomputes spots, positions and the intended grid.
func NewModel(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	spots, err := BuildSpots(p.NSpots, p.Target)
	if err != nil {
		return nil, err
	}
	positions := p.Axis.Positions()
	return &Model{
		params:    p,
		spots:     spots,
		positions: positions,
		intended:  IntendedProfile(spots, positions),
	}, nil
}

// Params returns the parameters the model was built from.
func (m *Model) Params() Params { return m.params }

// Spots returns a copy of the spot geometry.
func (m *Model) Spots() Spots {
	return Spots{
		Edges:   slices.Clone(m.spots.Edges),
		Centers: slices.Clone(m.spots.Centers),
		Weights: slices.Clone(m.spots.Weights),
	}
}

// Positions returns a copy of the sample positions.
func (m *Model) Positions() []float64 { return slices.Clone(m.positions) }

// Intended returns a copy of the intended static profile.
func (m *Model) Intended() []float64 { return slices.Clone(m.intended) }

func (m *Model) checkLayer(layer int) error {
	if layer < 0 || layer >= m.params.NLayers {
		return fmt.Errorf("%w: layer %d out of range [0, %d)", ErrInvalidConfiguration, layer, m.params.NLayers)
	}
	return nil
}

// Deliver returns the delivered profile of order in layer.
func (m *Model) Deliver(order Order, layer int) ([]float64, error) {
	if err := m.checkLayer(layer); err != nil {
		return nil, err
	}
	return SimulateDelivery(order, layer, m.spots, m.params.Timing, m.params.Motion, m.positions)
}

// Compare delivers order in layer and scores it against the intended profile.
func (m *Model) Compare(order Order, layer int) (Comparison, error) {
	if err := m.checkLayer(layer); err != nil {
		return Comparison{}, err
	}
	if err := ValidateOrder(order, m.spots.Len()); err != nil {
		return Comparison{}, err
	}
	times := m.params.Timing.Schedule(order, layer)
	delivered := deliver(order, times, m.spots, m.params.Motion, m.positions)
	mse, err := MSE(delivered, m.intended)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Layer:     layer,
		Order:     slices.Clone(order),
		Times:     times,
		Delivered: delivered,
		MSE:       mse,
	}, nil
}
