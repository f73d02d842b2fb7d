package dose

import (
	"fmt"
	"math"
)

// Motion is a sinusoidal target motion, offset(t) = A·sin(2π/T·t + ε).
type Motion struct {
	Amplitude float64 `json:"amplitude"`
	Period    float64 `json:"period"`
	Phase     float64 `json:"phase"`
}

// Validate rejects non-positive periods, negative amplitudes and
// non-finite values.
func (m Motion) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{{"amplitude", m.Amplitude}, {"period", m.Period}, {"phase", m.Phase}}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: motion %s must be finite, got %v", ErrInvalidConfiguration, f.name, f.v)
		}
	}
	if m.Period <= 0 {
		return fmt.Errorf("%w: motion period must be positive, got %v", ErrInvalidConfiguration, m.Period)
	}
	if m.Amplitude < 0 {
		return fmt.Errorf("%w: motion amplitude must be non-negative, got %v", ErrInvalidConfiguration, m.Amplitude)
	}
	return nil
}

// Offset returns the target displacement at time t seconds.
func (m Motion) Offset(t float64) float64 {
	return MotionOffset(t, m.Amplitude, m.Period, m.Phase)
}

// MotionOffset returns A·sin(2π/T·t + epsilon). A delivered spot lands at its
// static boundaries minus this offset.
func MotionOffset(t, amplitude, period, epsilon float64) float64 {
	omega := 2 * math.Pi / period
	return amplitude * math.Sin(omega*t+epsilon)
}
