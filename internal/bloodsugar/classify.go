package bloodsugar

import "math"

// Classifier maps a datum to its clinical range.
type Classifier func(d Datum) (Tag, error)

// Classifiers holds one classifier per view.
type Classifiers map[View]Classifier

// For returns the classifier for v, or nil if the set has none.
func (c Classifiers) For(v View) Classifier {
	return c[v]
}

// GenerateClassifiers validates prefs and builds the classifier for every
// view. Invalid prefs fail here rather than on first use.
//
// Every view applies the same boundary policy. Basics feeds it aggregate
// statistics, daily feeds it single readings and settings feeds it the
// threshold entries themselves.
func GenerateClassifiers(prefs Prefs) (Classifiers, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	classifiers := make(Classifiers, viewCount)
	for _, v := range AllViews() {
		classifiers[v] = newClassifier(prefs)
	}
	return classifiers, nil
}

func newClassifier(prefs Prefs) Classifier {
	return func(d Datum) (Tag, error) {
		value, err := normalize(d, prefs.Units)
		if err != nil {
			return "", err
		}
		if d.Units != prefs.Units {
			value = snapToThreshold(prefs.Bounds, value)
		}
		return ClassifyValue(prefs.Bounds, value), nil
	}
}

// conversionTolerance is the relative error a unit conversion may leave on
// a value that sits exactly on a threshold.
const conversionTolerance = 1e-9

// snapToThreshold returns the threshold a converted value is within
// conversionTolerance of, or the value unchanged.
func snapToThreshold(b Bounds, value float64) float64 {
	for _, th := range b.Thresholds() {
		if math.Abs(value-th.Value) <= conversionTolerance*th.Value {
			return th.Value
		}
	}
	return value
}

// normalize returns the datum value expressed in units. The datum itself is
// left untouched.
func normalize(d Datum, units Units) (float64, error) {
	if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
		return 0, &DataError{Value: d.Value, Reason: "value is not a number"}
	}
	if d.Value < 0 {
		return 0, &DataError{Value: d.Value, Reason: "value is negative"}
	}
	if !d.Units.Valid() {
		return 0, &DataError{Value: d.Value, Reason: "unknown units " + d.Units.String()}
	}
	return Convert(d.Value, d.Units, units), nil
}

// ClassifyValue buckets a value already expressed in the bounds' units.
// Each band includes its lower threshold and excludes its upper one.
func ClassifyValue(b Bounds, value float64) Tag {
	switch {
	case value < b.VeryLowThreshold:
		return TagVeryLow
	case value < b.TargetLowerBound:
		return TagLow
	case value < b.TargetUpperBound:
		return TagTarget
	case value < b.VeryHighThreshold:
		return TagHigh
	default:
		return TagVeryHigh
	}
}
