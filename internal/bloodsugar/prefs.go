package bloodsugar

import "math"

// Bounds are the clinician-configured range thresholds, expressed in the
// units of the Prefs that own them.
type Bounds struct {
	VeryLowThreshold  float64 `json:"veryLowThreshold"`
	TargetLowerBound  float64 `json:"targetLowerBound"`
	TargetUpperBound  float64 `json:"targetUpperBound"`
	VeryHighThreshold float64 `json:"veryHighThreshold"`
}

// Prefs is the blood glucose configuration for one viewing session.
// Build it with NewPrefs; it is read-only afterwards.
type Prefs struct {
	Units  Units  `json:"bgUnits"`
	Bounds Bounds `json:"bgBounds"`
}

// NewPrefs validates units and bounds and returns the resulting Prefs.
func NewPrefs(units Units, bounds Bounds) (Prefs, error) {
	p := Prefs{Units: units, Bounds: bounds}
	if err := p.Validate(); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

// DefaultBounds returns the conventional consensus thresholds for units.
func DefaultBounds(units Units) Bounds {
	if units == UnitsMmolL {
		return Bounds{
			VeryLowThreshold:  3.0,
			TargetLowerBound:  3.9,
			TargetUpperBound:  10.0,
			VeryHighThreshold: 13.9,
		}
	}
	return Bounds{
		VeryLowThreshold:  54,
		TargetLowerBound:  70,
		TargetUpperBound:  180,
		VeryHighThreshold: 250,
	}
}

// Validate checks units are known and thresholds are present, finite and
// strictly increasing.
func (p Prefs) Validate() error {
	if !p.Units.Valid() {
		return &ConfigurationError{Field: "bgUnits", Reason: "must be mg/dL or mmol/L"}
	}

	thresholds := p.Bounds.Thresholds()

	for _, th := range thresholds {
		if math.IsNaN(th.Value) || math.IsInf(th.Value, 0) {
			return &ConfigurationError{Field: th.Name, Reason: "must be a finite number"}
		}
		if th.Value <= 0 {
			return &ConfigurationError{Field: th.Name, Reason: "is missing or not positive"}
		}
	}

	for i := 1; i < len(thresholds); i++ {
		if thresholds[i].Value <= thresholds[i-1].Value {
			return &ConfigurationError{
				Field:  thresholds[i].Name,
				Reason: "must be greater than " + thresholds[i-1].Name,
			}
		}
	}

	return nil
}

// Threshold is a single named bound.
type Threshold struct {
	Name  string
	Value float64
}

// Thresholds returns the bounds in ascending order.
func (b Bounds) Thresholds() []Threshold {
	return []Threshold{
		{"veryLowThreshold", b.VeryLowThreshold},
		{"targetLowerBound", b.TargetLowerBound},
		{"targetUpperBound", b.TargetUpperBound},
		{"veryHighThreshold", b.VeryHighThreshold},
	}
}
