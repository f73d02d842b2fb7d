package dose

import "fmt"

// SimulateDelivery computes the delivered dose grid for one order within one
// layer. Each spot is delivered at its scheduled time, shifted by the motion
// offset at that time, and its weight is added to every sample position p
// with shiftedLeft <= p < shiftedRight. Samples pushed outside the axis get
// nothing; overlapping deliveries stack.
func SimulateDelivery(order Order, layer int, spots Spots, timing Timing, motion Motion, positions []float64) ([]float64, error) {
	if err := ValidateOrder(order, spots.Len()); err != nil {
		return nil, err
	}
	if layer < 0 {
		return nil, fmt.Errorf("%w: layer index must be non-negative, got %d", ErrInvalidConfiguration, layer)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: position axis is empty", ErrInvalidConfiguration)
	}
	return deliver(order, timing.Schedule(order, layer), spots, motion, positions), nil
}

// deliver accumulates the shifted spots of an already validated order.
func deliver(order Order, times []float64, spots Spots, motion Motion, positions []float64) []float64 {
	delivered := make([]float64, len(positions))
	for i, idx := range order {
		shift := motion.Offset(times[i])
		left, right := spots.Interval(idx)
		deposit(delivered, positions, left-shift, right-shift, spots.Weights[idx])
	}
	return delivered
}

// deposit adds w to dst at every position inside [left, right).
func deposit(dst, positions []float64, left, right, w float64) {
	for j, p := range positions {
		if p >= left && p < right {
			dst[j] += w
		}
	}
}
