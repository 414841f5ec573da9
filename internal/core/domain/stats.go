package domain

import (
	"math"
	"sort"
	"time"
)

// SigmaClippedStats computes mean, median and standard deviation after
// iteratively rejecting samples more than sigma standard deviations from
// the median. NaN samples are ignored. All three results are NaN for an
// empty input.
func SigmaClippedStats(values []float64, sigma float64) (mean, median, stdev float64) {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}

	const maxIters = 5
	for iter := 0; iter < maxIters; iter++ {
		if len(kept) == 0 {
			break
		}
		med := medianOf(kept)
		dev := stdevOf(kept)
		if dev == 0 {
			break
		}

		next := kept[:0:0]
		for _, v := range kept {
			if math.Abs(v-med) <= sigma*dev {
				next = append(next, v)
			}
		}
		if len(next) == len(kept) {
			break
		}
		kept = next
	}

	if len(kept) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	return meanOf(kept), medianOf(kept), stdevOf(kept)
}

// ChangeOnlyStats computes sigma-clipped statistics for change-only
// telemetry, where each sample holds until the next one arrives. Samples
// are weighted by their holding time by replication before clipping.
func ChangeOnlyStats(times []time.Time, values []float64, sigma float64) (mean, median, stdev float64) {
	switch len(times) {
	case 0:
		return math.NaN(), math.NaN(), math.NaN()
	case 1:
		return values[0], values[0], 0
	}

	minDelta := math.MaxFloat64
	deltas := make([]float64, len(times)-1)
	for i := 1; i < len(times); i++ {
		deltas[i-1] = times[i].Sub(times[i-1]).Seconds()
		if deltas[i-1] > 0 && deltas[i-1] < minDelta {
			minDelta = deltas[i-1]
		}
	}
	if minDelta == math.MaxFloat64 {
		minDelta = 1
	}

	var weighted []float64
	for i, dt := range deltas {
		n := int(dt / minDelta * 100)
		for j := 0; j < n; j++ {
			weighted = append(weighted, values[i])
		}
	}

	return SigmaClippedStats(weighted, sigma)
}

// MedianTime reports the midpoint of a time array.
func MedianTime(times []time.Time) time.Time {
	if len(times) == 0 {
		return time.Time{}
	}
	first := times[0]
	last := times[len(times)-1]
	return first.Add(last.Sub(first) / 2)
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func stdevOf(values []float64) float64 {
	m := meanOf(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
