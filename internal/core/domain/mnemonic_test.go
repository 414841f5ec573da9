package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var seriesBase = time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)

func allPointsSeries(identifier string, offsets []int, values []float64) *MnemonicSeries {
	times := make([]time.Time, len(offsets))
	for i, off := range offsets {
		times[i] = seriesBase.Add(time.Duration(off) * time.Second)
	}
	return &MnemonicSeries{
		Identifier:     identifier,
		RequestedStart: times[0],
		RequestedEnd:   times[len(times)-1],
		Times:          times,
		Values:         values,
		Meta:           MnemonicMeta{AllPoints: true},
	}
}

func TestSeriesAppend(t *testing.T) {
	first := allPointsSeries("SE_ZIMIRICEA", []int{0, 10, 20}, []float64{1, 2, 3})
	second := allPointsSeries("SE_ZIMIRICEA", []int{20, 30}, []float64{3, 4})
	first.Blocks = []int{0}
	second.Blocks = []int{0}

	merged, err := first.Append(second)
	assert.NoError(t, err)
	assert.Equal(t, 4, merged.Len())
	assert.Equal(t, []float64{1, 2, 3, 4}, merged.Values)
	// The duplicate sample at 20s is dropped and block starts are remapped.
	assert.Equal(t, []int{0, 2}, merged.Blocks)
	assert.Equal(t, first.RequestedStart, merged.RequestedStart)
	assert.Equal(t, second.RequestedEnd, merged.RequestedEnd)
}

func TestSeriesAppend_OutOfOrder(t *testing.T) {
	late := allPointsSeries("SE_ZIMIRICEA", []int{30, 40}, []float64{4, 5})
	early := allPointsSeries("SE_ZIMIRICEA", []int{0, 10}, []float64{1, 2})

	merged, err := late.Append(early)
	assert.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4, 5}, merged.Values)
}

func TestSeriesAppend_IdentifierMismatch(t *testing.T) {
	first := allPointsSeries("SE_ZIMIRICEA", []int{0}, []float64{1})
	second := allPointsSeries("SE_ZBUSVLT", []int{10}, []float64{2})

	_, err := first.Append(second)
	assert.ErrorIs(t, err, ErrMnemonicMismatch)
}

func TestSeriesAppend_Empty(t *testing.T) {
	first := allPointsSeries("SE_ZIMIRICEA", []int{0, 10}, []float64{1, 2})
	empty := &MnemonicSeries{Identifier: "SE_ZIMIRICEA"}

	merged, err := first.Append(empty)
	assert.NoError(t, err)
	assert.Equal(t, first, merged)

	merged, err = empty.Append(first)
	assert.NoError(t, err)
	assert.Equal(t, first, merged)
}

func TestSeriesMultiply(t *testing.T) {
	voltage := allPointsSeries("SE_ZIMIRICEA", []int{0, 10, 20}, []float64{2, 3, 4})
	voltage.Info = MnemonicInfo{Unit: "A", Description: "current"}
	current := allPointsSeries("SE_ZBUSVLT", []int{0, 10, 20}, []float64{10, 10, 10})
	current.Info = MnemonicInfo{Unit: "V", Description: "voltage"}

	power, err := voltage.Multiply(current)
	assert.NoError(t, err)
	assert.Equal(t, []float64{20, 30, 40}, power.Values)
	assert.Equal(t, "A V", power.Info.Unit)
	assert.Equal(t, "(current) * (voltage)", power.Info.Description)
}

func TestSeriesMultiply_TooShort(t *testing.T) {
	voltage := allPointsSeries("SE_ZIMIRICEA", []int{0, 10}, []float64{2, 3})
	current := allPointsSeries("SE_ZBUSVLT", []int{0}, []float64{10})

	power, err := voltage.Multiply(current)
	assert.NoError(t, err)
	assert.Zero(t, power.Len())
}

func TestSeriesInterpolate_AllPoints(t *testing.T) {
	s := allPointsSeries("SE_ZIMIRICEA", []int{0, 10}, []float64{0, 10})

	targets := []time.Time{
		seriesBase.Add(5 * time.Second),
		seriesBase.Add(10 * time.Second),
		seriesBase.Add(20 * time.Second), // outside the span, dropped
	}
	s.Interpolate(targets)

	assert.Equal(t, 2, s.Len())
	assert.InDelta(t, 5, s.Values[0], 1e-9)
	assert.InDelta(t, 10, s.Values[1], 1e-9)
}

func TestSeriesInterpolate_ChangeOnly(t *testing.T) {
	s := allPointsSeries("IMIR_HK_ICE_SEC_VOLT4", []int{0, 10}, []float64{1, 2})
	s.Meta.AllPoints = false

	targets := []time.Time{
		seriesBase.Add(-5 * time.Second), // before any sample, dropped
		seriesBase.Add(5 * time.Second),
		seriesBase.Add(15 * time.Second),
	}
	s.Interpolate(targets)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{1, 2}, s.Values)
}

func TestSeriesInterpolate_RemapsBlocks(t *testing.T) {
	s := allPointsSeries("SE_ZIMIRICEA", []int{0, 10, 20, 30}, []float64{0, 10, 20, 30})
	s.Blocks = []int{0, 2}

	targets := []time.Time{
		seriesBase.Add(5 * time.Second),
		seriesBase.Add(25 * time.Second),
	}
	s.Interpolate(targets)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{0, 1}, s.Blocks)
}

func TestChangeOnlyAddPoints(t *testing.T) {
	s := allPointsSeries("IMIR_HK_ICE_SEC_VOLT4", []int{0, 10, 20}, []float64{1, 2, 3})
	s.Meta.AllPoints = false

	s.ChangeOnlyAddPoints()

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []float64{1, 1, 2, 2, 3}, s.Values)
	assert.Equal(t, seriesBase.Add(10*time.Second-time.Microsecond), s.Times[1])
	assert.Equal(t, seriesBase.Add(10*time.Second), s.Times[2])
}

func TestChangeOnlyAddPoints_ShortSeries(t *testing.T) {
	s := allPointsSeries("IMIR_HK_ICE_SEC_VOLT4", []int{0}, []float64{1})
	s.ChangeOnlyAddPoints()
	assert.Equal(t, 1, s.Len())
}

func TestBoundChangeOnly(t *testing.T) {
	start := seriesBase
	end := seriesBase.Add(30 * time.Second)
	times := []time.Time{
		seriesBase.Add(-10 * time.Second),
		seriesBase.Add(10 * time.Second),
		seriesBase.Add(40 * time.Second),
	}
	values := []float64{1, 2, 3}

	outTimes, outValues := BoundChangeOnly(times, values, start, end)

	assert.Equal(t, []time.Time{start, seriesBase.Add(10 * time.Second), end}, outTimes)
	assert.Equal(t, []float64{1, 2, 2}, outValues)
}

func TestBoundChangeOnly_NoPriorSample(t *testing.T) {
	start := seriesBase
	end := seriesBase.Add(30 * time.Second)
	times := []time.Time{seriesBase.Add(10 * time.Second)}

	outTimes, outValues := BoundChangeOnly(times, []float64{2}, start, end)

	assert.Len(t, outTimes, 3)
	assert.True(t, math.IsNaN(outValues[0]))
	assert.Equal(t, 2.0, outValues[1])
	assert.Equal(t, 2.0, outValues[2])
}

func TestFullStats(t *testing.T) {
	s := allPointsSeries("SE_ZIMIRICEA", []int{0, 10, 20, 30}, []float64{1, 2, 3, 4})

	s.FullStats(3)

	assert.Equal(t, []float64{2.5}, s.Mean)
	assert.Equal(t, []float64{2.5}, s.Median)
	assert.Equal(t, []time.Time{seriesBase.Add(15 * time.Second)}, s.MedianTimes)
}

func TestBlockStats(t *testing.T) {
	s := allPointsSeries("SE_ZIMIRICEA", []int{0, 10, 20, 30}, []float64{1, 1, 5, 5})
	s.Blocks = []int{0, 2}

	s.BlockStats(3)

	assert.Equal(t, []float64{1, 5}, s.Mean)
	assert.Equal(t, []float64{1, 5}, s.Median)
	assert.Len(t, s.MedianTimes, 2)
}

func TestDailyStats(t *testing.T) {
	times := []time.Time{
		seriesBase,
		seriesBase.Add(1 * time.Hour),
		seriesBase.Add(25 * time.Hour),
	}
	s := &MnemonicSeries{
		Identifier: "SE_ZIMIRICEA",
		Times:      times,
		Values:     []float64{1, 3, 10},
		Meta:       MnemonicMeta{AllPoints: true},
	}

	s.DailyStats(3)

	assert.Len(t, s.Mean, 2)
	assert.InDelta(t, 2, s.Mean[0], 1e-9)
	assert.InDelta(t, 10, s.Mean[1], 1e-9)
}

func TestTimedStats(t *testing.T) {
	s := allPointsSeries("SE_ZIMIRICEA", []int{0, 10, 20, 30}, []float64{1, 3, 5, 7})

	s.TimedStats(20*time.Second, 3)

	assert.Len(t, s.Mean, 2)
	assert.InDelta(t, 2, s.Mean[0], 1e-9)
	assert.InDelta(t, 6, s.Mean[1], 1e-9)
}
