package bloodsugar

import "strings"

// libreDevicePrefix identifies FreeStyle Libre sensors, which sample every
// 15 minutes instead of the usual 5.
const libreDevicePrefix = "AbbottFreeStyleLibre"

// DatumWeight returns how many expected 5-minute readings d stands for.
func DatumWeight(d Datum) int {
	if d.Type == TypeCBG && strings.HasPrefix(d.DeviceID, libreDevicePrefix) {
		return 3
	}
	return 1
}

// WeightedCGMCount sums DatumWeight over data.
func WeightedCGMCount(data []Datum) int {
	total := 0
	for _, d := range data {
		total += DatumWeight(d)
	}
	return total
}

// PercentInCategories classifies every datum and returns the share (0.0 to
// 1.0) falling in each tag. Every tag is present in the result. The first
// datum that cannot be classified aborts the computation.
func PercentInCategories(data []Datum, classify Classifier) (map[Tag]float64, error) {
	var state ViewState
	for _, d := range data {
		tag, err := classify(d)
		if err != nil {
			return nil, err
		}
		state.Add(tag, d.Value, DatumWeight(d))
	}

	out := make(map[Tag]float64, tagCount)
	for _, tag := range AllTags() {
		out[tag] = state.Percent(tag)
	}
	return out, nil
}
