package bloodsugar

import (
	"fmt"
	"math"
	"strings"
)

// Units is a blood glucose measurement system.
type Units uint8

const (
	UnitsMgdL  Units = iota + 1 // mg/dL
	UnitsMmolL                  // mmol/L
)

// unitsCount sizes lookups indexed by Units.
const unitsCount = 2

// MgdlPerMmolL is the fixed factor between mmol/L and mg/dL.
const MgdlPerMmolL = 18.01559

var unitNames = [unitsCount]string{"mg/dL", "mmol/L"}

// AllUnits lists the supported measurement systems.
func AllUnits() []Units {
	return []Units{UnitsMgdL, UnitsMmolL}
}

// Valid reports whether u is a known measurement system.
func (u Units) Valid() bool {
	return u == UnitsMgdL || u == UnitsMmolL
}

func (u Units) index() int {
	return int(u) - 1
}

// String returns "mg/dL" or "mmol/L".
func (u Units) String() string {
	if !u.Valid() {
		return fmt.Sprintf("Units(%d)", uint8(u))
	}
	return unitNames[u.index()]
}

// ParseUnits parses "mg/dL" or "mmol/L" (case-insensitive).
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mg/dl", "mgdl":
		return UnitsMgdL, nil
	case "mmol/l", "mmoll":
		return UnitsMmolL, nil
	}
	return 0, fmt.Errorf("unknown blood glucose units %q", s)
}

// MarshalText encodes the zero value, used by events that carry no glucose
// value, as an empty string.
func (u Units) MarshalText() ([]byte, error) {
	if u == 0 {
		return []byte{}, nil
	}
	if !u.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid units %d", uint8(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText parses units with ParseUnits; empty text is the zero value.
func (u *Units) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*u = 0
		return nil
	}
	parsed, err := ParseUnits(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ConvertToMmolL converts mg/dL to mmol/L, unrounded.
func ConvertToMmolL(mgdl float64) float64 {
	return mgdl / MgdlPerMmolL
}

// ConvertToMgdL converts mmol/L to mg/dL, unrounded.
func ConvertToMgdL(mmol float64) float64 {
	return mmol * MgdlPerMmolL
}

// Convert expresses value (in from units) in to units.
func Convert(value float64, from, to Units) float64 {
	switch {
	case from == to:
		return value
	case from == UnitsMmolL && to == UnitsMgdL:
		return ConvertToMgdL(value)
	case from == UnitsMgdL && to == UnitsMmolL:
		return ConvertToMmolL(value)
	}
	return value
}

// FormatValue formats a glucose value for display: whole numbers for mg/dL,
// one decimal for mmol/L.
func FormatValue(value float64, units Units) string {
	if units == UnitsMmolL {
		return fmt.Sprintf("%.1f", math.Round(value*10)/10)
	}
	return fmt.Sprintf("%d", int(math.Round(value)))
}
