package dose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntendedProfile_HalfOpen(t *testing.T) {
	t.Parallel()

	spots, err := BuildSpots(2, Abs)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1}, spots.Weights)

	positions := []float64{-1.5, -1, -0.25, 0, 0.999, 1, 1.2}
	assert.Equal(t, []float64{0, 1, 1, 1, 1, 0, 0}, IntendedProfile(spots, positions))
}

func TestIntendedProfile_Weights(t *testing.T) {
	t.Parallel()

	spots, err := BuildSpots(10, Quadratic)
	require.NoError(t, err)
	positions := []float64{spots.Centers[0], spots.Centers[4], spots.Edges[9]}
	got := IntendedProfile(spots, positions)
	assert.Equal(t, []float64{spots.Weights[0], spots.Weights[4], spots.Weights[9]}, got)
}

func TestMSE(t *testing.T) {
	t.Parallel()

	a := []float64{0, 1, 2, 3}
	b := []float64{1, 1, 0, 3}

	ab, err := MSE(a, b)
	require.NoError(t, err)
	ba, err := MSE(b, a)
	require.NoError(t, err)
	assert.Equal(t, 1.25, ab)
	assert.Equal(t, ab, ba)

	same, err := MSE(a, a)
	require.NoError(t, err)
	assert.Zero(t, same)

	_, err = MSE(a, b[:3])
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = MSE(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestMSE_NonNegativeAndZeroMeansEqual(t *testing.T) {
	t.Parallel()

	spots, timing, motion, positions := referenceSetup(t)
	intended := IntendedProfile(spots, positions)
	for seed := uint64(0); seed < 20; seed++ {
		delivered, err := SimulateDelivery(RandomPermutation(10, seed), int(seed%3), spots, timing, motion, positions)
		require.NoError(t, err)
		mse, err := MSE(delivered, intended)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, mse, 0.0)
		if mse == 0 {
			assert.Equal(t, intended, delivered)
		} else {
			assert.NotEqual(t, intended, delivered)
		}
	}
}
