package bloodsugar

// Annotation codes.
const (
	// CodeOutOfRange marks a datum classified outside the target range.
	CodeOutOfRange = "bg-out-of-range"
	// CodeDeviceOutOfRange is reported by devices whose reading was clipped
	// at the sensor's measurable range.
	CodeDeviceOutOfRange = "bg/out-of-range"
	// CodeUnknownPrevious flags a datum whose previous status was lost.
	CodeUnknownPrevious = "status/unknown-previous"
)

var outOfRangeMessages = map[Tag]string{
	TagVeryLow:  "below very low threshold",
	TagLow:      "below target range",
	TagHigh:     "above target range",
	TagVeryHigh: "above very high threshold",
}

// GetAnnotations returns the annotations the loading layer attached to d.
// Wizard events report the annotations of the bolus they delivered.
// The result is a fresh slice, empty when there is nothing to report.
func GetAnnotations(d Datum) []Annotation {
	source := d.Annotations
	if d.Type == TypeWizard && d.Bolus != nil {
		source = d.Bolus.Annotations
	}
	out := make([]Annotation, len(source))
	copy(out, source)
	return out
}

// OutOfRangeAnnotations returns the out-of-range annotation for a classified
// datum: one entry for any tag other than target, none for target or for a
// datum that has not been classified yet.
func OutOfRangeAnnotations(d Datum) []Annotation {
	msg, ok := outOfRangeMessages[d.Tag]
	if !ok {
		return []Annotation{}
	}
	return []Annotation{{
		Code:    CodeOutOfRange,
		Message: msg,
		Value:   string(d.Tag),
	}}
}

// Annotate classifies d and records the tag and any out-of-range annotation
// on it. A previous out-of-range annotation is replaced, so annotating twice
// leaves d unchanged. On error d is not modified.
func Annotate(d *Datum, classify Classifier) error {
	tag, err := classify(*d)
	if err != nil {
		return err
	}

	kept := make([]Annotation, 0, len(d.Annotations)+1)
	for _, a := range d.Annotations {
		if a.Code != CodeOutOfRange {
			kept = append(kept, a)
		}
	}

	d.Tag = tag
	kept = append(kept, OutOfRangeAnnotations(*d)...)
	if len(kept) == 0 {
		kept = nil
	}
	d.Annotations = kept
	return nil
}

// HasAnnotation reports whether d carries an annotation with code.
func HasAnnotation(d Datum, code string) bool {
	for _, a := range d.Annotations {
		if a.Code == code {
			return true
		}
	}
	return false
}

// OutOfRangeThreshold returns the device-reported out-of-range direction
// ("low" or "high") and the threshold the reading was clipped at.
func OutOfRangeThreshold(d Datum) (direction string, threshold float64, ok bool) {
	for _, a := range d.Annotations {
		if a.Code == CodeDeviceOutOfRange {
			return a.Value, a.Threshold, true
		}
	}
	return "", 0, false
}
