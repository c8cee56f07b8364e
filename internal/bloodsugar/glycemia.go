package bloodsugar

import "time"

// MinVariationReadings is the fewest readings a standard deviation or
// coefficient of variation is computed from.
const MinVariationReadings = 3

// CVTargetMax is the highest coefficient of variation (in percent) still
// considered stable glycemia.
const CVTargetMax = 36

// GMI needs at least GMIMinPeriod of data, covered by sensor readings for at
// least GMIMinCoverage of that period.
const (
	GMIMinPeriod   = 14 * 24 * time.Hour
	GMIMinCoverage = 0.7
)

// cgmInterval is the sampling interval of a standard CGM sensor.
const cgmInterval = 5 * time.Minute

// SampleDuration returns the sensor time one cbg reading stands for:
// 15 minutes for FreeStyle Libre sensors, 5 minutes otherwise.
func SampleDuration(d Datum) time.Duration {
	return time.Duration(DatumWeight(d)) * cgmInterval
}

// WeightedDuration converts a weighted reading count to sensor time.
func WeightedDuration(weighted int) time.Duration {
	return time.Duration(weighted) * cgmInterval
}

// ClassifyCV tags a coefficient of variation: target up to CVTargetMax
// percent, high above it.
func ClassifyCV(cv float64) Tag {
	if cv <= CVTargetMax {
		return TagTarget
	}
	return TagHigh
}

// GMI estimates the glucose management indicator (percent) from a mean
// glucose in mg/dL.
func GMI(meanMgdl float64) float64 {
	return 3.31 + 0.02392*meanMgdl
}
