// Package render maps classified glucose data to display colors.
package render

import (
	"fmt"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
)

// RGB represents an RGB color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// NewRGB creates a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// Hex returns the color as a CSS hex string, e.g. "#ff0000".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the color as "RGB(r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalText encodes the color as its hex string.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// Common colors for the display.
var (
	ColorBlack = NewRGB(0, 0, 0)
	ColorWhite = NewRGB(255, 255, 255)
	ColorGray  = NewRGB(128, 128, 128)

	// Glucose range colors, following the Dexcom color scheme.
	ColorVeryLow  = NewRGB(255, 0, 0)     // Red
	ColorLow      = NewRGB(255, 100, 100) // Light red
	ColorTarget   = NewRGB(0, 255, 0)     // Green
	ColorHigh     = NewRGB(255, 255, 0)   // Yellow
	ColorVeryHigh = NewRGB(255, 165, 0)   // Orange

	// Unclassified data.
	ColorUnknown = ColorGray
)

var tagColors = map[bloodsugar.Tag]RGB{
	bloodsugar.TagVeryLow:  ColorVeryLow,
	bloodsugar.TagLow:      ColorLow,
	bloodsugar.TagTarget:   ColorTarget,
	bloodsugar.TagHigh:     ColorHigh,
	bloodsugar.TagVeryHigh: ColorVeryHigh,
}

// ColorFor returns the display color for a classification tag.
func ColorFor(tag bloodsugar.Tag) RGB {
	if c, ok := tagColors[tag]; ok {
		return c
	}
	return ColorUnknown
}

// ChartColor returns the color for a value already expressed in the prefs'
// units. Inside the target range it blends toward the neighbouring range
// colors near each edge.
func ChartColor(bounds bloodsugar.Bounds, value float64) RGB {
	tag := bloodsugar.ClassifyValue(bounds, value)
	if tag != bloodsugar.TagTarget {
		return ColorFor(tag)
	}

	low, high := bounds.TargetLowerBound, bounds.TargetUpperBound
	center := (low + high) / 2

	if value <= center {
		t := (value - low) / (center - low)
		edgeColor := LerpColor(ColorLow, ColorTarget, 0.3)
		return LerpColor(edgeColor, ColorTarget, t)
	}

	t := (value - center) / (high - center)
	edgeColor := LerpColor(ColorTarget, ColorHigh, 0.7)
	return LerpColor(ColorTarget, edgeColor, t)
}

// LerpColor linearly interpolates between two colors.
func LerpColor(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return NewRGB(
		uint8(float64(a.R)+t*float64(int(b.R)-int(a.R))),
		uint8(float64(a.G)+t*float64(int(b.G)-int(a.G))),
		uint8(float64(a.B)+t*float64(int(b.B)-int(a.B))),
	)
}

// DimColor reduces the brightness of a color by a factor (0-1).
func DimColor(c RGB, factor float64) RGB {
	if factor <= 0 {
		return ColorBlack
	}
	if factor >= 1 {
		return c
	}
	return NewRGB(
		uint8(float64(c.R)*factor),
		uint8(float64(c.G)*factor),
		uint8(float64(c.B)*factor),
	)
}
