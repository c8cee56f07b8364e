package view

import (
	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/render"
	"go.uber.org/zap"
)

// clippedDim is the brightness of readings a device clipped at its
// measurable range.
const clippedDim = 0.6

// Point is one rendered datum of the daily view.
type Point struct {
	bloodsugar.Datum
	Color      render.RGB `json:"color"`
	ChartColor render.RGB `json:"chartColor"`
	Clipped    bool       `json:"clipped,omitempty"`
}

// Daily is the point-by-point view of a period.
type Daily struct {
	Points  []Point `json:"points"`
	Skipped int     `json:"skipped"`
}

// Daily annotates each datum. Bg readings are classified and colored;
// other events only carry the annotations the loader attached. Data flagged
// with an unknown previous status and unclassifiable readings are skipped.
// The input slice is not modified.
func (s *Session) Daily(c *bloodsugar.UnitContainer, data []bloodsugar.Datum) *Daily {
	state := c.View(bloodsugar.ViewDaily)
	classify := s.classifiers.For(bloodsugar.ViewDaily)
	out := &Daily{Points: make([]Point, 0, len(data))}

	for _, d := range data {
		if bloodsugar.HasAnnotation(d, bloodsugar.CodeUnknownPrevious) {
			out.Skipped++
			s.logger.Debug("daily: skipping datum with unknown previous status", zap.String("id", d.ID))
			continue
		}

		if !bloodsugar.IsBG(d.Type) {
			d.Annotations = bloodsugar.GetAnnotations(d)
			out.Points = append(out.Points, Point{Datum: d, Color: render.ColorUnknown, ChartColor: render.ColorUnknown})
			continue
		}

		d.Annotations = bloodsugar.GetAnnotations(d)
		if err := bloodsugar.Annotate(&d, classify); err != nil {
			out.Skipped++
			s.logger.Warn("daily: skipping datum", zap.String("id", d.ID), zap.Error(err))
			continue
		}

		value := bloodsugar.Convert(d.Value, d.Units, s.prefs.Units)
		state.Add(d.Tag, value, bloodsugar.DatumWeight(d))

		p := Point{
			Datum:      d,
			Color:      render.ColorFor(d.Tag),
			ChartColor: render.ChartColor(s.prefs.Bounds, value),
		}
		if _, _, clipped := bloodsugar.OutOfRangeThreshold(d); clipped {
			p.Clipped = true
			p.Color = render.DimColor(p.Color, clippedDim)
		}
		out.Points = append(out.Points, p)
	}

	s.logger.Debug("daily rendered", zap.Int("points", len(out.Points)), zap.Int("skipped", out.Skipped))
	return out
}
