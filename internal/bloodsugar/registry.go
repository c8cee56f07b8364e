package bloodsugar

import "math"

// ViewState is the aggregate a view accumulates while it processes data.
// It is owned by a single writer.
type ViewState struct {
	counts         [tagCount]int
	weightedCounts [tagCount]int
	total          int
	weighted       int
	sum            float64
	// Running squared deviation from the mean (Welford).
	m2 float64
}

// Add records one classified value. weight is the expected-readings weight
// of the datum (see DatumWeight).
func (s *ViewState) Add(tag Tag, value float64, weight int) {
	rank := tag.Rank()
	if rank < 0 {
		return
	}
	var prevMean float64
	if s.total > 0 {
		prevMean = s.sum / float64(s.total)
	}

	s.counts[rank]++
	s.weightedCounts[rank] += weight
	s.total++
	s.weighted += weight
	s.sum += value

	mean := s.sum / float64(s.total)
	s.m2 += (value - prevMean) * (value - mean)
}

// Count returns how many values were recorded with tag.
func (s *ViewState) Count(tag Tag) int {
	rank := tag.Rank()
	if rank < 0 {
		return 0
	}
	return s.counts[rank]
}

// Total returns how many values were recorded.
func (s *ViewState) Total() int {
	return s.total
}

// WeightedTotal returns the weighted count of recorded values.
func (s *ViewState) WeightedTotal() int {
	return s.weighted
}

// Percent returns the share (0.0 to 1.0) of values recorded with tag.
func (s *ViewState) Percent(tag Tag) float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.Count(tag)) / float64(s.total)
}

// WeightedPercent returns the weighted share (0.0 to 1.0) of values recorded
// with tag. For cbg data this is the share of sensor time.
func (s *ViewState) WeightedPercent(tag Tag) float64 {
	rank := tag.Rank()
	if rank < 0 || s.weighted == 0 {
		return 0
	}
	return float64(s.weightedCounts[rank]) / float64(s.weighted)
}

// WeightedCount returns the weighted count of values recorded with tag.
func (s *ViewState) WeightedCount(tag Tag) int {
	rank := tag.Rank()
	if rank < 0 {
		return 0
	}
	return s.weightedCounts[rank]
}

// StdDev returns the sample standard deviation of the recorded values, and
// false when fewer than MinVariationReadings were recorded.
func (s *ViewState) StdDev() (float64, bool) {
	if s.total < MinVariationReadings {
		return 0, false
	}
	return math.Sqrt(s.m2 / float64(s.total-1)), true
}

// Mean returns the mean recorded value, and false when nothing was recorded.
func (s *ViewState) Mean() (float64, bool) {
	if s.total == 0 {
		return 0, false
	}
	return s.sum / float64(s.total), true
}

// UnitContainer holds one ViewState per view for a single unit system.
type UnitContainer struct {
	views [viewCount]*ViewState
}

// MakeUnitContainer returns a container with empty state for every view.
func MakeUnitContainer() *UnitContainer {
	c := &UnitContainer{}
	for i := range c.views {
		c.views[i] = &ViewState{}
	}
	return c
}

// View returns the state for v, or nil for an unknown view.
func (c *UnitContainer) View(v View) *ViewState {
	if int(v) >= viewCount {
		return nil
	}
	return c.views[v]
}

// Registry holds one container per unit system. Containers are never shared
// across unit systems.
type Registry struct {
	containers [unitsCount]*UnitContainer
}

// NewRegistry returns a registry with a fresh container for each unit system.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.containers {
		r.containers[i] = MakeUnitContainer()
	}
	return r
}

// For returns the container for units, or nil for invalid units.
func (r *Registry) For(units Units) *UnitContainer {
	if !units.Valid() {
		return nil
	}
	return r.containers[units.index()]
}
