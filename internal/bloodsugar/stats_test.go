package bloodsugar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeLabels(t *testing.T) {
	labels := RangeLabels(mgdlPrefs(t))

	assert.Equal(t, map[Tag]string{
		TagVeryLow:  "below 54 mg/dL",
		TagLow:      "between 54 - 70 mg/dL",
		TagTarget:   "between 70 - 180 mg/dL",
		TagHigh:     "between 180 - 250 mg/dL",
		TagVeryHigh: "above 250 mg/dL",
	}, labels)
}

func TestRangeLabelsMmol(t *testing.T) {
	p, err := NewPrefs(UnitsMmolL, DefaultBounds(UnitsMmolL))
	require.NoError(t, err)

	labels := RangeLabels(p)
	assert.Equal(t, "below 3.0 mmol/L", labels[TagVeryLow])
	assert.Equal(t, "between 3.9 - 10.0 mmol/L", labels[TagTarget])
	assert.Equal(t, "above 13.9 mmol/L", labels[TagVeryHigh])
}

func TestWeightedCGMCount(t *testing.T) {
	data := []Datum{
		{Type: TypeCBG, DeviceID: "DexG6_123"},
		{Type: TypeCBG, DeviceID: "AbbottFreeStyleLibre_XYZ"},
		{Type: TypeSMBG, DeviceID: "AbbottFreeStyleLibre_XYZ"},
		{Type: TypeCBG},
	}

	assert.Equal(t, 6, WeightedCGMCount(data))
	assert.Equal(t, 0, WeightedCGMCount(nil))
}

func TestPercentInCategories(t *testing.T) {
	classifiers, err := GenerateClassifiers(mgdlPrefs(t))
	require.NoError(t, err)

	data := []Datum{mgdl(40), mgdl(60), mgdl(100), mgdl(120), mgdl(200), mgdl(300), mmol(5), mmol(6)}
	pct, err := PercentInCategories(data, classifiers.For(ViewBasics))
	require.NoError(t, err)

	assert.Len(t, pct, 5)
	assert.InDelta(t, 0.125, pct[TagVeryLow], 1e-9)
	assert.InDelta(t, 0.125, pct[TagLow], 1e-9)
	assert.InDelta(t, 0.5, pct[TagTarget], 1e-9)
	assert.InDelta(t, 0.125, pct[TagHigh], 1e-9)
	assert.InDelta(t, 0.125, pct[TagVeryHigh], 1e-9)
}

func TestPercentInCategoriesEmpty(t *testing.T) {
	classifiers, err := GenerateClassifiers(mgdlPrefs(t))
	require.NoError(t, err)

	pct, err := PercentInCategories(nil, classifiers.For(ViewBasics))
	require.NoError(t, err)
	for _, tag := range AllTags() {
		assert.Equal(t, 0.0, pct[tag])
	}
}

func TestPercentInCategoriesInvalidDatum(t *testing.T) {
	classifiers, err := GenerateClassifiers(mgdlPrefs(t))
	require.NoError(t, err)

	_, err = PercentInCategories([]Datum{mgdl(100), mgdl(-1)}, classifiers.For(ViewBasics))
	assert.True(t, IsDataError(err))
}
