package view

import (
	"sort"
	"time"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"go.uber.org/zap"
)

// Stat is a single summary value. InsufficientData is set when there was
// not enough data to compute it, in which case Value is zero.
type Stat struct {
	Value            float64 `json:"value"`
	InsufficientData bool    `json:"insufficientData,omitempty"`
}

func insufficient() Stat {
	return Stat{InsufficientData: true}
}

// RangeTable is the per-tag breakdown of one kind of bg data.
//
// For cbg data Percent is the share of sensor time and PerDay the hours per
// day spent in each range. For smbg data Percent is the share of readings
// and PerDay the readings per day. Over a single day PerDay holds the raw
// hours or reading counts.
type RangeTable struct {
	Count   int                        `json:"count"`
	Percent map[bloodsugar.Tag]float64 `json:"percent"`
	PerDay  map[bloodsugar.Tag]float64 `json:"perDay"`
}

// Basics is the aggregate summary over a period.
type Basics struct {
	Units         bloodsugar.Units           `json:"bgUnits"`
	Days          int                        `json:"days"`
	Total         int                        `json:"total"`
	WeightedTotal int                        `json:"weightedTotal"`
	Skipped       int                        `json:"skipped"`
	Percent       map[bloodsugar.Tag]float64 `json:"percent"`
	Mean          float64                    `json:"mean,omitempty"`
	MeanTag       bloodsugar.Tag             `json:"meanTag,omitempty"`
	Labels        map[bloodsugar.Tag]string  `json:"labels"`

	StdDev          Stat           `json:"standardDeviation"`
	CV              Stat           `json:"coefficientOfVariation"`
	CVTag           bloodsugar.Tag `json:"coefficientOfVariationTag,omitempty"`
	GMI             Stat           `json:"glucoseManagementIndicator"`
	SensorUsage     Stat           `json:"sensorUsage"`
	TimeInRange     RangeTable     `json:"timeInRange"`
	ReadingsInRange RangeTable     `json:"readingsInRange"`
}

// Basics classifies every bg datum into the basics state of c and
// summarizes the result. The mean glucose is classified as an aggregate.
// Cbg and smbg data get separate range tables; sensor usage and GMI need the
// session period (see ForPeriod).
func (s *Session) Basics(c *bloodsugar.UnitContainer, data []bloodsugar.Datum) *Basics {
	state := c.View(bloodsugar.ViewBasics)
	classify := s.classifiers.For(bloodsugar.ViewBasics)
	out := &Basics{Units: s.prefs.Units, Labels: s.labels}

	var cbg, smbg bloodsugar.ViewState
	byDay := make(map[string]*bloodsugar.ViewState)

	for _, d := range data {
		if !bloodsugar.IsBG(d.Type) {
			continue
		}
		tag, err := classify(d)
		if err != nil {
			out.Skipped++
			s.logger.Warn("basics: skipping datum", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		value := bloodsugar.Convert(d.Value, d.Units, s.prefs.Units)
		weight := bloodsugar.DatumWeight(d)
		state.Add(tag, value, weight)

		if d.Type == bloodsugar.TypeCBG {
			cbg.Add(tag, value, weight)
		} else {
			smbg.Add(tag, value, weight)
		}

		day := d.Time.Format(time.DateOnly)
		if byDay[day] == nil {
			byDay[day] = &bloodsugar.ViewState{}
		}
		byDay[day].Add(tag, value, weight)
	}

	out.Days = s.period.Days()
	if out.Days == 0 {
		out.Days = len(byDay)
	}
	out.Total = state.Total()
	out.WeightedTotal = state.WeightedTotal()
	out.Percent = make(map[bloodsugar.Tag]float64, len(bloodsugar.AllTags()))
	for _, tag := range bloodsugar.AllTags() {
		out.Percent[tag] = state.Percent(tag)
	}

	if mean, ok := state.Mean(); ok {
		out.Mean = mean
		tag, err := classify(bloodsugar.Datum{Type: "mean", Value: mean, Units: s.prefs.Units})
		if err != nil {
			s.logger.Warn("basics: unclassifiable mean", zap.Float64("mean", mean), zap.Error(err))
		} else {
			out.MeanTag = tag
		}
	}

	out.StdDev = insufficient()
	if sd, ok := state.StdDev(); ok {
		out.StdDev = Stat{Value: sd}
	}
	out.CV = coefficientOfVariation(state, byDay)
	if !out.CV.InsufficientData {
		out.CVTag = bloodsugar.ClassifyCV(out.CV.Value)
	}

	out.TimeInRange = timeInRange(&cbg, out.Days)
	out.ReadingsInRange = readingsInRange(&smbg, out.Days)
	out.SensorUsage = s.sensorUsage(&cbg)
	out.GMI = s.gmi(&cbg)

	s.logger.Debug("basics rendered", zap.Int("total", out.Total), zap.Int("skipped", out.Skipped))
	return out
}

// coefficientOfVariation averages the daily coefficients of variation (in
// percent) over the days holding enough readings.
func coefficientOfVariation(all *bloodsugar.ViewState, byDay map[string]*bloodsugar.ViewState) Stat {
	if all.Total() < bloodsugar.MinVariationReadings {
		return insufficient()
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	n := 0
	for _, k := range keys {
		day := byDay[k]
		sd, ok := day.StdDev()
		mean, _ := day.Mean()
		if !ok || mean == 0 {
			continue
		}
		sum += sd / mean * 100
		n++
	}
	if n == 0 {
		return insufficient()
	}
	return Stat{Value: sum / float64(n)}
}

func timeInRange(cbg *bloodsugar.ViewState, days int) RangeTable {
	t := newRangeTable(cbg.Total())
	for _, tag := range bloodsugar.AllTags() {
		t.Percent[tag] = cbg.WeightedPercent(tag)
		if days > 1 {
			t.PerDay[tag] = t.Percent[tag] * 24
		} else {
			t.PerDay[tag] = bloodsugar.WeightedDuration(cbg.WeightedCount(tag)).Hours()
		}
	}
	return t
}

func readingsInRange(smbg *bloodsugar.ViewState, days int) RangeTable {
	t := newRangeTable(smbg.Total())
	for _, tag := range bloodsugar.AllTags() {
		t.Percent[tag] = smbg.Percent(tag)
		count := float64(smbg.Count(tag))
		if days > 1 {
			count /= float64(days)
		}
		t.PerDay[tag] = count
	}
	return t
}

func newRangeTable(count int) RangeTable {
	return RangeTable{
		Count:   count,
		Percent: make(map[bloodsugar.Tag]float64, len(bloodsugar.AllTags())),
		PerDay:  make(map[bloodsugar.Tag]float64, len(bloodsugar.AllTags())),
	}
}

// sensorUsage is the share of the session period covered by cbg readings.
func (s *Session) sensorUsage(cbg *bloodsugar.ViewState) Stat {
	period := s.period.Duration()
	if period <= 0 {
		return insufficient()
	}
	return Stat{Value: float64(bloodsugar.WeightedDuration(cbg.WeightedTotal())) / float64(period)}
}

// gmi estimates the glucose management indicator from the cbg mean once the
// period and its sensor coverage are long enough.
func (s *Session) gmi(cbg *bloodsugar.ViewState) Stat {
	if s.period.Duration() < bloodsugar.GMIMinPeriod {
		return insufficient()
	}
	covered := bloodsugar.WeightedDuration(cbg.WeightedTotal())
	if float64(covered) < float64(bloodsugar.GMIMinPeriod)*bloodsugar.GMIMinCoverage {
		return insufficient()
	}
	mean, ok := cbg.Mean()
	if !ok {
		return insufficient()
	}
	return Stat{Value: bloodsugar.GMI(bloodsugar.Convert(mean, s.prefs.Units, bloodsugar.UnitsMgdL))}
}
