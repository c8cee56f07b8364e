package bloodsugar

import "fmt"

// RangeLabels returns a display label for every tag, e.g.
// "between 70 - 180 mg/dL" for target.
func RangeLabels(prefs Prefs) map[Tag]string {
	b := prefs.Bounds
	u := prefs.Units
	veryLow := FormatValue(b.VeryLowThreshold, u)
	targetLow := FormatValue(b.TargetLowerBound, u)
	targetUpper := FormatValue(b.TargetUpperBound, u)
	veryHigh := FormatValue(b.VeryHighThreshold, u)

	return map[Tag]string{
		TagVeryLow:  fmt.Sprintf("below %s %s", veryLow, u),
		TagLow:      fmt.Sprintf("between %s - %s %s", veryLow, targetLow, u),
		TagTarget:   fmt.Sprintf("between %s - %s %s", targetLow, targetUpper, u),
		TagHigh:     fmt.Sprintf("between %s - %s %s", targetUpper, veryHigh, u),
		TagVeryHigh: fmt.Sprintf("above %s %s", veryHigh, u),
	}
}
