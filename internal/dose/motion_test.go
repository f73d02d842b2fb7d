package dose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMotionOffset(t *testing.T) {
	t.Parallel()

	m := Motion{Amplitude: 0.05, Period: 7, Phase: math.Pi}

	assert.InDelta(t, 0, m.Offset(0), 1e-15)
	assert.InDelta(t, 0.05*math.Sin(2*math.Pi/7*1.8+math.Pi), m.Offset(1.8), 1e-15)
	assert.InDelta(t, m.Offset(1.3), m.Offset(1.3+7), 1e-12, "offset is periodic in T")
	assert.InDelta(t, -0.05, m.Offset(7.0/4), 1e-12)
	assert.InDelta(t, 0.05, m.Offset(3*7.0/4), 1e-12)

	static := Motion{Amplitude: 0, Period: 7, Phase: 1.2}
	for _, ts := range []float64{0, 0.4, 3.3, 100} {
		assert.Zero(t, static.Offset(ts))
	}
}

func TestMotionValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		motion  Motion
		wantErr bool
	}{
		{"default", Motion{Amplitude: 0.05, Period: 7, Phase: math.Pi}, false},
		{"static", Motion{Amplitude: 0, Period: 1}, false},
		{"zero_period", Motion{Amplitude: 0.05, Period: 0}, true},
		{"negative_period", Motion{Amplitude: 0.05, Period: -2}, true},
		{"negative_amplitude", Motion{Amplitude: -0.1, Period: 7}, true},
		{"nan_phase", Motion{Amplitude: 0.1, Period: 7, Phase: math.NaN()}, true},
		{"inf_amplitude", Motion{Amplitude: math.Inf(1), Period: 7}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.motion.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
