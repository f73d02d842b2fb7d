package dose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingLayerStart(t *testing.T) {
	t.Parallel()

	tm := Timing{SpotDelay: 0.2, LayerDelay: 1.0}
	assert.Equal(t, 0.0, tm.LayerStart(0, 10))
	assert.InDelta(t, 3.0, tm.LayerStart(1, 10), 1e-12)
	assert.InDelta(t, 6.0, tm.LayerStart(2, 10), 1e-12)
}

func TestTimingSchedule_Ascending(t *testing.T) {
	t.Parallel()

	tm := Timing{SpotDelay: 0.2, LayerDelay: 1.0}
	times := tm.Schedule(Ascending(10), 0)
	require.Len(t, times, 10)
	assert.Equal(t, 0.0, times[0])
	for i, ts := range times {
		assert.InDelta(t, 0.2*float64(i), ts, 1e-12, "step %d", i)
	}
	assert.InDelta(t, 1.8, times[9], 1e-12)
}

func TestTimingSchedule_TravelDistance(t *testing.T) {
	t.Parallel()

	tm := Timing{SpotDelay: 0.5}
	// Jumps of 4, 3 and 2 index units.
	times := tm.Schedule(Order{0, 4, 1, 3}, 0)
	assert.Equal(t, []float64{0, 2, 3.5, 4.5}, times)

	assert.Nil(t, tm.Schedule(nil, 0))
}

func TestTimingSchedule_LayerIndependence(t *testing.T) {
	t.Parallel()

	tm := Timing{SpotDelay: 0.2, LayerDelay: 1.0}
	orders := []Order{Ascending(10), Descending(10), RandomPermutation(10, 3)}
	for _, order := range orders {
		base := tm.Schedule(order, 0)
		for layer := 1; layer < 5; layer++ {
			start := tm.LayerStart(layer, len(order))
			times := tm.Schedule(order, layer)
			assert.Equal(t, start, times[0])
			for i := range times {
				assert.InDelta(t, base[i], times[i]-start, 1e-9, "order %v layer %d step %d", order, layer, i)
			}
		}
	}
}

func TestTimingValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Timing{}.Validate())
	assert.NoError(t, Timing{SpotDelay: 0.2, LayerDelay: 1}.Validate())
	assert.ErrorIs(t, Timing{SpotDelay: -0.1}.Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, Timing{LayerDelay: -1}.Validate(), ErrInvalidConfiguration)
}
