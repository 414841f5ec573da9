package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSigmaClippedStats(t *testing.T) {
	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 100}

	mean, median, stdev := SigmaClippedStats(values, 3)
	assert.InDelta(t, 10, mean, 1e-9)
	assert.InDelta(t, 10, median, 1e-9)
	assert.InDelta(t, 0, stdev, 1e-9)
}

func TestSigmaClippedStats_NoOutliers(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	mean, median, stdev := SigmaClippedStats(values, 3)
	assert.InDelta(t, 3, mean, 1e-9)
	assert.InDelta(t, 3, median, 1e-9)
	assert.InDelta(t, math.Sqrt(2), stdev, 1e-9)
}

func TestSigmaClippedStats_IgnoresNaN(t *testing.T) {
	values := []float64{1, math.NaN(), 3}

	mean, median, _ := SigmaClippedStats(values, 3)
	assert.InDelta(t, 2, mean, 1e-9)
	assert.InDelta(t, 2, median, 1e-9)
}

func TestSigmaClippedStats_Empty(t *testing.T) {
	mean, median, stdev := SigmaClippedStats(nil, 3)
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(median))
	assert.True(t, math.IsNaN(stdev))
}

func TestChangeOnlyStats_WeightsByHoldingTime(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(1 * time.Second), base.Add(3 * time.Second)}
	values := []float64{1, 5, 9}

	// The first value holds for one second, the second for two; the last
	// value has no holding time and does not contribute.
	mean, median, _ := ChangeOnlyStats(times, values, 3)
	assert.InDelta(t, 11.0/3.0, mean, 1e-9)
	assert.InDelta(t, 5, median, 1e-9)
}

func TestChangeOnlyStats_SingleSample(t *testing.T) {
	times := []time.Time{time.Now()}

	mean, median, stdev := ChangeOnlyStats(times, []float64{7}, 3)
	assert.Equal(t, 7.0, mean)
	assert.Equal(t, 7.0, median)
	assert.Zero(t, stdev)
}

func TestChangeOnlyStats_Empty(t *testing.T) {
	mean, _, _ := ChangeOnlyStats(nil, nil, 3)
	assert.True(t, math.IsNaN(mean))
}

func TestMedianTime(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(2 * time.Hour), base.Add(4 * time.Hour)}

	assert.Equal(t, base.Add(2*time.Hour), MedianTime(times))
	assert.True(t, MedianTime(nil).IsZero())
}
