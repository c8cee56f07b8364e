package view

import (
	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/render"
	"go.uber.org/zap"
)

// SettingsRow is one configured threshold as shown on the settings view.
type SettingsRow struct {
	Name    string         `json:"name"`
	Value   float64        `json:"value"`
	Display string         `json:"display"`
	Tag     bloodsugar.Tag `json:"tag"`
	Label   string         `json:"label"`
	Color   render.RGB     `json:"color"`
}

// Settings lists the configured thresholds.
type Settings struct {
	Units bloodsugar.Units `json:"bgUnits"`
	Rows  []SettingsRow    `json:"rows"`
}

// Settings classifies each threshold entry with the settings classifier.
// A threshold belongs to the band it opens.
func (s *Session) Settings(c *bloodsugar.UnitContainer) *Settings {
	state := c.View(bloodsugar.ViewSettings)
	classify := s.classifiers.For(bloodsugar.ViewSettings)
	out := &Settings{Units: s.prefs.Units}

	for _, th := range s.prefs.Bounds.Thresholds() {
		d := bloodsugar.Datum{Type: "threshold", Value: th.Value, Units: s.prefs.Units}
		tag, err := classify(d)
		if err != nil {
			// Validated prefs always produce classifiable thresholds.
			s.logger.Error("settings: unclassifiable threshold", zap.String("name", th.Name), zap.Error(err))
			continue
		}
		state.Add(tag, th.Value, 1)
		out.Rows = append(out.Rows, SettingsRow{
			Name:    th.Name,
			Value:   th.Value,
			Display: bloodsugar.FormatValue(th.Value, s.prefs.Units),
			Tag:     tag,
			Label:   s.labels[tag],
			Color:   render.ColorFor(tag),
		})
	}

	s.logger.Debug("settings rendered", zap.Int("rows", state.Total()))
	return out
}
