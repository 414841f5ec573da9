package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MnemonicMeta carries query metadata from the engineering database.
// AllPoints is false for change-only mnemonics, whose samples are recorded
// only when the value changes.
type MnemonicMeta struct {
	AllPoints bool `json:"all_points"`
}

// MnemonicInfo is the dictionary entry for a mnemonic.
type MnemonicInfo struct {
	Mnemonic    string `json:"mnemonic"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
}

// MnemonicSeries holds the telemetry samples of one mnemonic over a
// requested time window, together with derived statistics. Blocks marks the
// starting index of each contiguous stretch of data for which separate
// statistics can be computed.
type MnemonicSeries struct {
	Identifier     string       `json:"identifier"`
	RequestedStart time.Time    `json:"requested_start"`
	RequestedEnd   time.Time    `json:"requested_end"`
	Times          []time.Time  `json:"times"`
	Values         []float64    `json:"values"`
	Blocks         []int        `json:"blocks,omitempty"`
	Meta           MnemonicMeta `json:"meta"`
	Info           MnemonicInfo `json:"info"`

	Mean        []float64   `json:"mean,omitempty"`
	Median      []float64   `json:"median,omitempty"`
	Stdev       []float64   `json:"stdev,omitempty"`
	MedianTimes []time.Time `json:"median_times,omitempty"`
}

func (s *MnemonicSeries) Len() int {
	return len(s.Times)
}

func (s *MnemonicSeries) String() string {
	if s.Len() == 0 {
		return fmt.Sprintf("mnemonic %s with no records", s.Identifier)
	}
	return fmt.Sprintf("mnemonic %s with %d records between %s and %s",
		s.Identifier, s.Len(), s.Times[0].Format(time.RFC3339), s.Times[s.Len()-1].Format(time.RFC3339))
}

// Append merges another series of the same mnemonic into a new series.
// Samples are ordered by time and duplicate timestamps from the overlap are
// dropped; block indexes are remapped onto the merged sample positions.
func (s *MnemonicSeries) Append(other *MnemonicSeries) (*MnemonicSeries, error) {
	if s.Identifier != other.Identifier {
		return nil, ErrMnemonicMismatch
	}
	if s.Len() == 0 {
		return other, nil
	}
	if other.Len() == 0 {
		return s, nil
	}

	early, late := s, other
	if other.Times[0].Before(s.Times[0]) {
		early, late = other, s
	}

	type sample struct {
		t time.Time
		v float64
	}
	merged := make([]sample, 0, early.Len()+late.Len())
	for i := range early.Times {
		merged = append(merged, sample{early.Times[i], early.Values[i]})
	}
	for i := range late.Times {
		merged = append(merged, sample{late.Times[i], late.Values[i]})
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].t.Before(merged[j].t) })

	times := make([]time.Time, 0, len(merged))
	values := make([]float64, 0, len(merged))
	position := make(map[time.Time]int, len(merged))
	for _, sm := range merged {
		if _, seen := position[sm.t]; seen {
			continue
		}
		position[sm.t] = len(times)
		times = append(times, sm.t)
		values = append(values, sm.v)
	}

	var blocks []int
	for _, b := range early.Blocks {
		if b >= 0 && b < early.Len() {
			blocks = append(blocks, position[early.Times[b]])
		}
	}
	for _, b := range late.Blocks {
		if b >= 0 && b < late.Len() {
			blocks = append(blocks, position[late.Times[b]])
		}
	}
	sort.Ints(blocks)

	return &MnemonicSeries{
		Identifier:     s.Identifier,
		RequestedStart: early.RequestedStart,
		RequestedEnd:   late.RequestedEnd,
		Times:          times,
		Values:         values,
		Blocks:         blocks,
		Meta:           s.Meta,
		Info:           s.Info,
	}, nil
}

// Multiply returns the sample-wise product of two series. The other series
// is interpolated onto this series' timestamps first; timestamps present in
// only one of the two after interpolation are dropped. A series with fewer
// than two samples cannot be interpolated and yields an empty result.
func (s *MnemonicSeries) Multiply(other *MnemonicSeries) (*MnemonicSeries, error) {
	if other.Len() < 2 {
		return &MnemonicSeries{
			Identifier:     s.Identifier,
			RequestedStart: s.RequestedStart,
			RequestedEnd:   s.RequestedEnd,
			Meta:           s.Meta,
			Info:           s.Info,
		}, nil
	}

	o := other.clone()
	o.Interpolate(s.Times)

	oIndex := make(map[time.Time]int, o.Len())
	for i, t := range o.Times {
		oIndex[t] = i
	}

	var times []time.Time
	var values []float64
	selfKept := 0
	for i, t := range s.Times {
		j, ok := oIndex[t]
		if !ok {
			continue
		}
		times = append(times, t)
		values = append(values, s.Values[i]*o.Values[j])
		selfKept++
	}

	var blocks []int
	switch {
	case selfKept == s.Len():
		blocks = s.Blocks
	case len(times) == o.Len():
		blocks = o.Blocks
	default:
		return nil, ErrSeriesLengthChanged
	}

	info := s.Info
	if s.Info.Unit != "" && other.Info.Unit != "" {
		info.Unit = s.Info.Unit + " " + other.Info.Unit
	}
	if s.Info.Description != "" && other.Info.Description != "" {
		info.Description = fmt.Sprintf("(%s) * (%s)", s.Info.Description, other.Info.Description)
	}

	return &MnemonicSeries{
		Identifier:     s.Identifier,
		RequestedStart: s.RequestedStart,
		RequestedEnd:   s.RequestedEnd,
		Times:          times,
		Values:         values,
		Blocks:         blocks,
		Meta:           s.Meta,
		Info:           info,
	}, nil
}

// Interpolate resamples the series at the given times. All-points data is
// interpolated linearly; change-only data takes the most recent prior
// value. Times outside the span of the data are dropped, never
// extrapolated. Block indexes are remapped to the new sample positions.
func (s *MnemonicSeries) Interpolate(times []time.Time) {
	oldTimes := s.Times

	var newTimes []time.Time
	var newValues []float64

	if !s.Meta.AllPoints {
		for _, t := range times {
			idx := lastAtOrBefore(s.Times, t)
			if idx < 0 {
				continue
			}
			newTimes = append(newTimes, t)
			newValues = append(newValues, s.Values[idx])
		}
	} else if s.Len() >= 2 {
		epoch := s.Times[0]
		srcOffsets := make([]float64, s.Len())
		for i, t := range s.Times {
			srcOffsets[i] = t.Sub(epoch).Seconds()
		}
		for _, t := range times {
			off := t.Sub(epoch).Seconds()
			if off < srcOffsets[0] || off > srcOffsets[len(srcOffsets)-1] {
				continue
			}
			newTimes = append(newTimes, t)
			newValues = append(newValues, linearInterp(off, srcOffsets, s.Values))
		}
	}

	var newBlocks []int
	for _, b := range s.Blocks {
		if b < 0 || b >= len(oldTimes) {
			continue
		}
		blockTime := oldTimes[b]
		for i, t := range newTimes {
			if !t.Before(blockTime) {
				newBlocks = append(newBlocks, i)
				break
			}
		}
	}

	s.Times = newTimes
	s.Values = newValues
	s.Blocks = newBlocks
}

// ChangeOnlyAddPoints inserts an extra sample one microsecond before each
// original sample, holding the previous value. The stepped result has only
// horizontal and vertical transitions, which keeps later condition
// filtering and plotting honest for change-only data.
func (s *MnemonicSeries) ChangeOnlyAddPoints() {
	if s.Len() < 2 {
		return
	}
	delta := time.Microsecond
	newTimes := []time.Time{s.Times[0]}
	newValues := []float64{s.Values[0]}
	for i := 1; i < s.Len(); i++ {
		newTimes = append(newTimes, s.Times[i].Add(-delta), s.Times[i])
		newValues = append(newValues, s.Values[i-1], s.Values[i])
	}
	s.Times = newTimes
	s.Values = newValues
}

// FullStats computes sigma-clipped statistics over the entire series.
func (s *MnemonicSeries) FullStats(sigma float64) {
	var mean, median, stdev float64
	if s.Meta.AllPoints {
		mean, median, stdev = SigmaClippedStats(s.Values, sigma)
	} else {
		mean, median, stdev = ChangeOnlyStats(s.Times, s.Values, sigma)
	}
	s.Mean = []float64{mean}
	s.Median = []float64{median}
	s.Stdev = []float64{stdev}
	s.MedianTimes = []time.Time{MedianTime(s.Times)}
}

// BlockStats computes statistics per block of data, blocks being separated
// by stretches where the data are ignored.
func (s *MnemonicSeries) BlockStats(sigma float64) {
	s.Mean = nil
	s.Median = nil
	s.Stdev = nil
	s.MedianTimes = nil

	bounds := append(append([]int(nil), s.Blocks...), s.Len())
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		if lo < 0 || hi > s.Len() || lo >= hi {
			continue
		}
		var mean, median, stdev float64
		if s.Meta.AllPoints {
			mean, median, stdev = SigmaClippedStats(s.Values[lo:hi], sigma)
		} else {
			mean, median, stdev = ChangeOnlyStats(s.Times[lo:hi], s.Values[lo:hi], sigma)
		}
		s.Mean = append(s.Mean, mean)
		s.Median = append(s.Median, median)
		s.Stdev = append(s.Stdev, stdev)
		s.MedianTimes = append(s.MedianTimes, MedianTime(s.Times[lo:hi]))
	}
}

// DailyStats computes statistics for each day spanned by the data.
func (s *MnemonicSeries) DailyStats(sigma float64) {
	s.Mean = nil
	s.Median = nil
	s.Stdev = nil
	s.MedianTimes = nil

	if s.Len() == 0 {
		return
	}

	minDate := s.Times[0]
	maxDate := s.Times[0]
	for _, t := range s.Times {
		if t.Before(minDate) {
			minDate = t
		}
		if t.After(maxDate) {
			maxDate = t
		}
	}

	days := int(maxDate.Sub(minDate).Hours()/24) + 1
	limits := make([]time.Time, 0, days+1)
	for d := 0; d < days; d++ {
		limits = append(limits, minDate.Add(time.Duration(d)*24*time.Hour))
	}
	// Half-open bins, so nudge the final bound past the last sample.
	limits = append(limits, maxDate.Add(time.Nanosecond))

	for i := 0; i+1 < len(limits); i++ {
		lo, hi := limits[i], limits[i+1]
		var binTimes []time.Time
		var binValues []float64
		for j, t := range s.Times {
			if !t.Before(lo) && t.Before(hi) {
				binTimes = append(binTimes, t)
				binValues = append(binValues, s.Values[j])
			}
		}

		var mean, median, stdev float64
		if s.Meta.AllPoints {
			mean, median, stdev = SigmaClippedStats(binValues, sigma)
		} else {
			mean, median, stdev = ChangeOnlyStats(binTimes, binValues, sigma)
		}
		s.Mean = append(s.Mean, mean)
		s.Median = append(s.Median, median)
		s.Stdev = append(s.Stdev, stdev)
		s.MedianTimes = append(s.MedianTimes, lo.Add(hi.Sub(lo)/2))
	}
}

// TimedStats breaks the data into chunks of the given duration and computes
// statistics for each chunk.
func (s *MnemonicSeries) TimedStats(duration time.Duration, sigma float64) {
	s.Mean = nil
	s.Median = nil
	s.Stdev = nil
	s.MedianTimes = nil

	if s.Len() == 0 || duration <= 0 {
		return
	}

	// Half-open bins, one more than the span strictly needs so the last
	// sample always lands inside a bin.
	span := s.Times[s.Len()-1].Sub(s.Times[0])
	bins := int(span/duration) + 1

	for i := 0; i < bins; i++ {
		lo := s.Times[0].Add(time.Duration(i) * duration)
		hi := lo.Add(duration)

		var binTimes []time.Time
		var binValues []float64
		for j, t := range s.Times {
			if !t.Before(lo) && t.Before(hi) {
				binTimes = append(binTimes, t)
				binValues = append(binValues, s.Values[j])
			}
		}

		var mean, median, stdev float64
		if s.Meta.AllPoints {
			mean, median, stdev = SigmaClippedStats(binValues, sigma)
		} else {
			mean, median, stdev = ChangeOnlyStats(binTimes, binValues, sigma)
		}
		s.Mean = append(s.Mean, mean)
		s.Median = append(s.Median, median)
		s.Stdev = append(s.Stdev, stdev)
		s.MedianTimes = append(s.MedianTimes, MedianTime(binTimes))
	}
}

func (s *MnemonicSeries) clone() *MnemonicSeries {
	c := *s
	c.Times = append([]time.Time(nil), s.Times...)
	c.Values = append([]float64(nil), s.Values...)
	c.Blocks = append([]int(nil), s.Blocks...)
	return &c
}

// BoundChangeOnly synthesizes samples at the window edges of change-only
// data, whose upstream query may have returned bracketing samples outside
// the requested span. The value at each edge is the last sample before it,
// or NaN when none exists. Samples outside the window are cropped.
func BoundChangeOnly(times []time.Time, values []float64, start, end time.Time) ([]time.Time, []float64) {
	startValue := math.NaN()
	endValue := math.NaN()
	for i, t := range times {
		if t.Before(start) {
			startValue = values[i]
		}
		if t.Before(end) {
			endValue = values[i]
		}
	}

	outTimes := []time.Time{start}
	outValues := []float64{startValue}
	for i, t := range times {
		if !t.Before(start) && !t.After(end) {
			outTimes = append(outTimes, t)
			outValues = append(outValues, values[i])
		}
	}
	outTimes = append(outTimes, end)
	outValues = append(outValues, endValue)

	return outTimes, outValues
}

func lastAtOrBefore(times []time.Time, t time.Time) int {
	idx := -1
	for i, ts := range times {
		if !ts.After(t) {
			idx = i
		} else {
			break
		}
	}
	return idx
}

func linearInterp(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
