package dose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_Defaults(t *testing.T) {
	t.Parallel()

	m, err := NewModel(DefaultParams())
	require.NoError(t, err)

	assert.Len(t, m.Positions(), DefaultAxisSamples)
	assert.Len(t, m.Intended(), DefaultAxisSamples)
	assert.Equal(t, DefaultSpots, m.Spots().Len())
	assert.Equal(t, -1.5, m.Positions()[0])
	assert.Equal(t, 1.5, m.Positions()[DefaultAxisSamples-1])

	// Accessors hand out copies.
	intended := m.Intended()
	intended[500] = 42
	assert.NotEqual(t, 42.0, m.Intended()[500])
}

func TestNewModel_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero_spots", func(p *Params) { p.NSpots = 0 }},
		{"zero_layers", func(p *Params) { p.NLayers = 0 }},
		{"zero_period", func(p *Params) { p.Motion.Period = 0 }},
		{"negative_period", func(p *Params) { p.Motion.Period = -7 }},
		{"negative_amplitude", func(p *Params) { p.Motion.Amplitude = -1 }},
		{"negative_spot_delay", func(p *Params) { p.Timing.SpotDelay = -0.2 }},
		{"zero_samples", func(p *Params) { p.Axis.Samples = 0 }},
		{"negative_samples", func(p *Params) { p.Axis.Samples = -10 }},
		{"inverted_axis", func(p *Params) { p.Axis.Min, p.Axis.Max = 1, -1 }},
		{"nil_target", func(p *Params) { p.Target = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.modify(&p)
			_, err := NewModel(p)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestModelCompare_ReferenceScenario(t *testing.T) {
	t.Parallel()

	m, err := NewModel(DefaultParams())
	require.NoError(t, err)

	c, err := m.Compare(Ascending(10), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Layer)
	assert.InDelta(t, 0, m.Params().Motion.Offset(c.Times[0]), 1e-15, "spot 0 goes in at zero displacement")
	assert.InDelta(t, 1.8, c.Times[9], 1e-12)
	assert.Greater(t, c.MSE, 0.0)

	want, err := MSE(c.Delivered, m.Intended())
	require.NoError(t, err)
	assert.Equal(t, want, c.MSE)

	delivered, err := m.Deliver(Ascending(10), 0)
	require.NoError(t, err)
	assert.Equal(t, c.Delivered, delivered)
}

func TestModelCompare_StaticOrderInvariance(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.Motion.Amplitude = 0
	m, err := NewModel(p)
	require.NoError(t, err)

	set, err := DefaultOrderRegistry().BuildOrderSet(DefaultOrderNames, p.NSpots, 99)
	require.NoError(t, err)

	for layer := 0; layer < p.NLayers; layer++ {
		var first []float64
		for _, no := range set {
			c, err := m.Compare(no.Order, layer)
			require.NoError(t, err)
			assert.Zero(t, c.MSE, "%s layer %d", no.Name, layer)
			if first == nil {
				first = c.Delivered
				continue
			}
			assert.Empty(t, cmp.Diff(first, c.Delivered), "%s layer %d", no.Name, layer)
		}
	}
}

func TestModelCompare_LayersDiffer(t *testing.T) {
	t.Parallel()

	m, err := NewModel(DefaultParams())
	require.NoError(t, err)

	c0, err := m.Compare(Descending(10), 0)
	require.NoError(t, err)
	c1, err := m.Compare(Descending(10), 1)
	require.NoError(t, err)

	// Same relative timing, different base time.
	for i := range c0.Times {
		assert.InDelta(t, c0.Times[i]+3.0, c1.Times[i], 1e-9)
	}
	assert.False(t, cmp.Equal(c0.Delivered, c1.Delivered, cmpopts.EquateApprox(0, 1e-12)))
}

func TestModelCompare_Errors(t *testing.T) {
	t.Parallel()

	m, err := NewModel(DefaultParams())
	require.NoError(t, err)

	_, err = m.Compare(Ascending(10), 3)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = m.Compare(Ascending(10), -1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = m.Compare(Ascending(9), 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	_, err = m.Deliver(Order{0, 0, 1, 2, 3, 4, 5, 6, 7, 8}, 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	_, err = m.Deliver(Ascending(10), 5)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAxisPositions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{2}, Axis{Min: 2, Max: 3, Samples: 1}.Positions())
	assert.Equal(t, []float64{-1, 0, 1}, Axis{Min: -1, Max: 1, Samples: 3}.Positions())

	pos := DefaultAxis().Positions()
	step := 3.0 / 999
	for i := 1; i < len(pos); i++ {
		assert.InDelta(t, step, pos[i]-pos[i-1], 1e-12)
	}
}
