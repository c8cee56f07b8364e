package bloodsugar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUnitContainer(t *testing.T) {
	c := MakeUnitContainer()

	for _, v := range AllViews() {
		state := c.View(v)
		require.NotNil(t, state, v.String())
		assert.Equal(t, 0, state.Total())
		_, ok := state.Mean()
		assert.False(t, ok)
	}
	assert.Nil(t, c.View(View(9)))

	// Each call returns independent state.
	other := MakeUnitContainer()
	c.View(ViewDaily).Add(TagTarget, 100, 1)
	assert.Equal(t, 0, other.View(ViewDaily).Total())
	assert.Equal(t, 0, c.View(ViewBasics).Total())
}

func TestViewStateAggregates(t *testing.T) {
	var s ViewState
	s.Add(TagVeryLow, 50, 1)
	s.Add(TagTarget, 100, 3)
	s.Add(TagTarget, 150, 1)
	s.Add(TagHigh, 200, 1)
	s.Add("", 999, 1)

	assert.Equal(t, 4, s.Total())
	assert.Equal(t, 6, s.WeightedTotal())
	assert.Equal(t, 2, s.Count(TagTarget))
	assert.Equal(t, 0, s.Count(TagVeryHigh))
	assert.Equal(t, 0, s.Count("unknown"))
	assert.InDelta(t, 0.5, s.Percent(TagTarget), 1e-9)
	assert.InDelta(t, 0.25, s.Percent(TagVeryLow), 1e-9)

	mean, ok := s.Mean()
	assert.True(t, ok)
	assert.InDelta(t, 125.0, mean, 1e-9)
}

func TestViewStatePercentEmpty(t *testing.T) {
	var s ViewState
	assert.Equal(t, 0.0, s.Percent(TagTarget))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	mg := r.For(UnitsMgdL)
	mm := r.For(UnitsMmolL)
	require.NotNil(t, mg)
	require.NotNil(t, mm)
	assert.NotSame(t, mg, mm)
	assert.Same(t, mg, r.For(UnitsMgdL))
	assert.Nil(t, r.For(0))

	mg.View(ViewBasics).Add(TagTarget, 100, 1)
	assert.Equal(t, 0, mm.View(ViewBasics).Total())
}

func TestViewStateWeightedPercent(t *testing.T) {
	var s ViewState
	s.Add(TagTarget, 100, 3)
	s.Add(TagHigh, 200, 1)

	assert.Equal(t, 3, s.WeightedCount(TagTarget))
	assert.InDelta(t, 0.75, s.WeightedPercent(TagTarget), 1e-9)
	assert.InDelta(t, 0.5, s.Percent(TagTarget), 1e-9)
	assert.Equal(t, 0.0, s.WeightedPercent(""))

	var empty ViewState
	assert.Equal(t, 0.0, empty.WeightedPercent(TagTarget))
}

func TestViewStateStdDev(t *testing.T) {
	var s ViewState
	s.Add(TagTarget, 2, 1)
	s.Add(TagTarget, 4, 1)
	_, ok := s.StdDev()
	assert.False(t, ok)

	for _, v := range []float64{4, 4, 5, 5, 7, 9} {
		s.Add(TagTarget, v, 1)
	}
	sd, ok := s.StdDev()
	require.True(t, ok)
	// Sample standard deviation: sum of squared deviations 32 over n-1 = 7.
	assert.InDelta(t, 2.13809, sd, 1e-5)
}
