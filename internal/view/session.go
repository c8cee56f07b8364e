// Package view runs the render passes that turn patient data into the
// classified, annotated and colored output of each visualization view.
package view

import (
	"context"
	"math"
	"time"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Session holds the validated preferences and classifiers for one patient
// viewing session. It is safe for concurrent use; per-view state lives in
// the containers passed to each render pass.
type Session struct {
	prefs       bloodsugar.Prefs
	classifiers bloodsugar.Classifiers
	labels      map[bloodsugar.Tag]string
	period      Period
	logger      *zap.Logger
}

// Period is the time window a session reports on.
type Period struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the period, zero when it is unset or
// inverted.
func (p Period) Duration() time.Duration {
	if p.Start.IsZero() || p.End.IsZero() || !p.End.After(p.Start) {
		return 0
	}
	return p.End.Sub(p.Start)
}

// Days returns the number of days the period spans, rounded up.
func (p Period) Days() int {
	return int(math.Ceil(p.Duration().Hours() / 24))
}

// NewSession builds the classifier set for prefs. A configuration error is
// returned as is so callers can show a configuration error state.
func NewSession(prefs bloodsugar.Prefs, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	classifiers, err := bloodsugar.GenerateClassifiers(prefs)
	if err != nil {
		return nil, err
	}
	return &Session{
		prefs:       prefs,
		classifiers: classifiers,
		labels:      bloodsugar.RangeLabels(prefs),
		logger:      logger.With(zap.Stringer("bgUnits", prefs.Units)),
	}, nil
}

// ForPeriod returns a copy of the session reporting on p. Without a period,
// day counts come from the data and sensor usage and GMI are not computed.
func (s *Session) ForPeriod(p Period) *Session {
	cp := *s
	cp.period = p
	return &cp
}

// Prefs returns the session preferences.
func (s *Session) Prefs() bloodsugar.Prefs {
	return s.prefs
}

// Report is the output of a full render pass.
type Report struct {
	Basics   *Basics   `json:"basics,omitempty"`
	Daily    *Daily    `json:"daily,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

// Render runs the basics, daily and settings passes concurrently. Each pass
// gets its own container.
func (s *Session) Render(ctx context.Context, data []bloodsugar.Datum) (*Report, error) {
	var report Report
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Basics = s.Basics(bloodsugar.MakeUnitContainer(), data)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Daily = s.Daily(bloodsugar.MakeUnitContainer(), data)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Settings = s.Settings(bloodsugar.MakeUnitContainer())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}

// RenderView runs a single pass.
func (s *Session) RenderView(v bloodsugar.View, data []bloodsugar.Datum) *Report {
	c := bloodsugar.MakeUnitContainer()
	switch v {
	case bloodsugar.ViewBasics:
		return &Report{Basics: s.Basics(c, data)}
	case bloodsugar.ViewDaily:
		return &Report{Daily: s.Daily(c, data)}
	default:
		return &Report{Settings: s.Settings(c)}
	}
}

// SourceSummary tallies bg data by the unit system it was reported in, each
// in its own container, classified with the daily classifier. Values are
// recorded in their source units.
func (s *Session) SourceSummary(data []bloodsugar.Datum) (*bloodsugar.Registry, int) {
	registry := bloodsugar.NewRegistry()
	classify := s.classifiers.For(bloodsugar.ViewDaily)
	skipped := 0

	for _, d := range data {
		if !bloodsugar.IsBG(d.Type) {
			continue
		}
		tag, err := classify(d)
		if err != nil {
			skipped++
			s.logger.Warn("skipping unclassifiable datum", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		registry.For(d.Units).View(bloodsugar.ViewDaily).Add(tag, d.Value, bloodsugar.DatumWeight(d))
	}
	return registry, skipped
}
