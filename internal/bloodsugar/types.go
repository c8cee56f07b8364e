// Package bloodsugar classifies glucose data into clinical ranges and derives
// the annotations shown alongside each data point.
package bloodsugar

import (
	"fmt"
	"time"
)

// Tag is the clinical range a datum falls into.
type Tag string

const (
	TagVeryLow  Tag = "veryLow"
	TagLow      Tag = "low"
	TagTarget   Tag = "target"
	TagHigh     Tag = "high"
	TagVeryHigh Tag = "veryHigh"
)

const tagCount = 5

// AllTags lists the tags from lowest to highest range.
func AllTags() []Tag {
	return []Tag{TagVeryLow, TagLow, TagTarget, TagHigh, TagVeryHigh}
}

// Rank returns the ordinal of the tag (veryLow=0 .. veryHigh=4), or -1 for
// an empty or unknown tag.
func (t Tag) Rank() int {
	switch t {
	case TagVeryLow:
		return 0
	case TagLow:
		return 1
	case TagTarget:
		return 2
	case TagHigh:
		return 3
	case TagVeryHigh:
		return 4
	}
	return -1
}

// ThreeWay collapses the five-way tag into low, target or high.
func (t Tag) ThreeWay() Tag {
	switch t {
	case TagVeryLow, TagLow:
		return TagLow
	case TagHigh, TagVeryHigh:
		return TagHigh
	}
	return t
}

// Datum types the engine knows about.
const (
	TypeCBG    = "cbg"
	TypeSMBG   = "smbg"
	TypeBasal  = "basal"
	TypeBolus  = "bolus"
	TypeWizard = "wizard"
)

// IsBG reports whether the datum type carries a glucose value.
func IsBG(datumType string) bool {
	return datumType == TypeCBG || datumType == TypeSMBG
}

// Annotation is a display note attached to a datum.
type Annotation struct {
	Code      string  `json:"code"`
	Message   string  `json:"message,omitempty"`
	Value     string  `json:"value,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Datum is a single plotted or aggregated data point.
type Datum struct {
	ID          string       `json:"id,omitempty"`
	Type        string       `json:"type"`
	Value       float64      `json:"value"`
	Units       Units        `json:"units"`
	Time        time.Time    `json:"time"`
	DeviceID    string       `json:"deviceId,omitempty"`
	Tag         Tag          `json:"tag,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Bolus       *Datum       `json:"bolus,omitempty"`
}

// View is a visualization mode that instantiates its own classifier.
type View uint8

const (
	ViewBasics View = iota
	ViewDaily
	ViewSettings
)

const viewCount = 3

var viewNames = [viewCount]string{"basics", "daily", "settings"}

// AllViews lists the visualization modes.
func AllViews() []View {
	return []View{ViewBasics, ViewDaily, ViewSettings}
}

func (v View) String() string {
	if int(v) >= viewCount {
		return fmt.Sprintf("View(%d)", uint8(v))
	}
	return viewNames[v]
}

// ParseView parses a view name.
func ParseView(s string) (View, error) {
	for i, name := range viewNames {
		if name == s {
			return View(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}
