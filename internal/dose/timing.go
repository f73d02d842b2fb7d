package dose

import (
	"fmt"
	"math"
)

// Timing holds the delivery clock parameters in seconds.
type Timing struct {
	// SpotDelay is the travel time per unit of spot-index distance between
	// consecutive deliveries.
	SpotDelay float64 `json:"spot_delay"`

	// LayerDelay is the pause between the end of one layer and the next.
	LayerDelay float64 `json:"layer_delay"`
}

// Validate rejects negative or non-finite delays.
func (t Timing) Validate() error {
	if math.IsNaN(t.SpotDelay) || math.IsInf(t.SpotDelay, 0) || t.SpotDelay < 0 {
		return fmt.Errorf("%w: spot_delay must be a non-negative number, got %v", ErrInvalidConfiguration, t.SpotDelay)
	}
	if math.IsNaN(t.LayerDelay) || math.IsInf(t.LayerDelay, 0) || t.LayerDelay < 0 {
		return fmt.Errorf("%w: layer_delay must be a non-negative number, got %v", ErrInvalidConfiguration, t.LayerDelay)
	}
	return nil
}

// LayerStart returns the base delivery time of a layer:
// layer·(nSpots·SpotDelay + LayerDelay).
func (t Timing) LayerStart(layer, nSpots int) float64 {
	return float64(layer) * (float64(nSpots)*t.SpotDelay + t.LayerDelay)
}

// Schedule returns the delivery time of each step of order within layer.
// The first spot is delivered at the layer start; each later spot adds
// |idx - prev|·SpotDelay, so the delay scales with the index distance the
// beam travels. The order is assumed valid, so len(order) is the spot count.
func (t Timing) Schedule(order Order, layer int) []float64 {
	if len(order) == 0 {
		return nil
	}
	times := make([]float64, len(order))
	now := t.LayerStart(layer, len(order))
	prev := order[0]
	for i, idx := range order {
		if i > 0 {
			jump := idx - prev
			if jump < 0 {
				jump = -jump
			}
			now += float64(jump) * t.SpotDelay
		}
		prev = idx
		times[i] = now
	}
	return times
}
