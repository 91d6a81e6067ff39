package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/algotrader/market"
)

// genBars builds a deterministic oscillating uptrend long enough to warm up
// every indicator in the frame.
func genBars(n int) []market.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	for i := range bars {
		base := 100 + float64(i)*0.5 + 3*math.Sin(float64(i)/4)
		bars[i] = market.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   base - 0.3,
			High:   base + 1.2,
			Low:    base - 1.1,
			Close:  base,
			Volume: 10000 + 500*float64(i%7),
		}
	}
	return bars
}

func TestCompute_WarmupIsNaN(t *testing.T) {
	t.Parallel()

	f := Compute(genBars(120))
	require.Equal(t, 120, f.Len())

	// Nothing has a 50-bar lookback satisfied at index 10.
	row := f.Row(10)
	assert.True(t, math.IsNaN(row.EMA50))
	assert.True(t, math.IsNaN(row.ADX))
	assert.True(t, math.IsNaN(row.BBWidthAvg))

	// Everything is defined by the end of the series.
	last := f.Row(f.Len() - 1)
	assert.True(t, Valid(
		last.SMA20, last.EMA12, last.EMA26, last.EMA50,
		last.BBUpper, last.BBMiddle, last.BBLower, last.BBWidth, last.BBWidthAvg,
		last.RSI14, last.RSI21,
		last.MACD, last.MACDSignal, last.MACDHist,
		last.StochK, last.StochD,
		last.ADX, last.VolumeSMA, last.OBV,
		last.Resistance, last.Support, last.ATR,
	))
}

func TestCompute_Causal(t *testing.T) {
	t.Parallel()

	bars := genBars(120)
	full := Compute(bars)

	// The row at index i must not change when later bars are appended.
	for _, n := range []int{80, 100, 119} {
		prefix := Compute(bars[:n+1])
		got := prefix.Row(n)
		want := full.Row(n)

		assert.InDelta(t, want.SMA20, got.SMA20, 1e-9)
		assert.InDelta(t, want.EMA50, got.EMA50, 1e-9)
		assert.InDelta(t, want.RSI14, got.RSI14, 1e-9)
		assert.InDelta(t, want.MACDHist, got.MACDHist, 1e-9)
		assert.InDelta(t, want.ADX, got.ADX, 1e-9)
		assert.InDelta(t, want.ATR, got.ATR, 1e-9)
		assert.InDelta(t, want.BBWidthAvg, got.BBWidthAvg, 1e-9)
	}
}

func TestCompute_BoundedOscillators(t *testing.T) {
	t.Parallel()

	f := Compute(genBars(120))
	for i := 60; i < f.Len(); i++ {
		row := f.Row(i)
		assert.GreaterOrEqual(t, row.RSI14, 0.0)
		assert.LessOrEqual(t, row.RSI14, 100.0)
		assert.GreaterOrEqual(t, row.StochK, 0.0)
		assert.LessOrEqual(t, row.StochK, 100.0)
		assert.GreaterOrEqual(t, row.ADX, 0.0)
		assert.LessOrEqual(t, row.ADX, 100.0)
		assert.GreaterOrEqual(t, row.Resistance, row.Support)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	bars := genBars(120)
	f := Compute(bars)

	latest, prev, ok := f.Latest()
	require.True(t, ok)
	assert.Equal(t, bars[119].Time, latest.Time)
	assert.Equal(t, bars[118].Time, prev.Time)
}

func TestLatest_TooShort(t *testing.T) {
	t.Parallel()

	f := Compute(genBars(1))
	_, _, ok := f.Latest()
	assert.False(t, ok)
}

func TestStochastic_FlatRange(t *testing.T) {
	t.Parallel()

	bars := make([]market.Bar, 20)
	for i := range bars {
		bars[i] = market.Bar{High: 100, Low: 100, Close: 100}
	}
	k, _ := Stochastic(bars, 14, 3)
	assert.InDelta(t, 50.0, k[19], 1e-9)
}

func TestBollinger_ConstantCloses(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}
	upper, middle, lower, width := Bollinger(closes, 20, 2)

	assert.InDelta(t, 50.0, upper[29], 1e-9)
	assert.InDelta(t, 50.0, middle[29], 1e-9)
	assert.InDelta(t, 50.0, lower[29], 1e-9)
	assert.InDelta(t, 0.0, width[29], 1e-9)
}

func TestOBV(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 11, 11, 9, 12}
	volumes := []float64{100, 200, 300, 400, 500}
	got := OBV(closes, volumes)

	assert.InDelta(t, 0.0, got[0], 1e-9)
	assert.InDelta(t, 200.0, got[1], 1e-9)
	assert.InDelta(t, 200.0, got[2], 1e-9)
	assert.InDelta(t, -200.0, got[3], 1e-9)
	assert.InDelta(t, 300.0, got[4], 1e-9)
}

func TestATR_Warmup(t *testing.T) {
	t.Parallel()

	bars := genBars(40)
	atr := ATR(bars, 14)

	assert.True(t, math.IsNaN(atr[13]))
	assert.False(t, math.IsNaN(atr[14]))
	assert.Greater(t, atr[39], 0.0)
}

func TestCompute_SwingFlags(t *testing.T) {
	t.Parallel()

	mk := func(high, low float64) market.Bar {
		return market.Bar{High: high, Low: low, Close: (high + low) / 2}
	}
	bars := []market.Bar{
		mk(100, 90),
		mk(101, 91),
		mk(102, 92), // two rising highs and lows behind it
		mk(101, 91),
		mk(100, 90), // two falling highs and lows behind it
	}
	f := Compute(bars)

	assert.False(t, f.HigherHigh[1], "needs two preceding bars")
	assert.True(t, f.HigherHigh[2])
	assert.True(t, f.HigherLow[2])
	assert.False(t, f.LowerHigh[2])

	assert.True(t, f.LowerHigh[4])
	assert.True(t, f.LowerLow[4])
	assert.False(t, f.HigherHigh[4])
}
