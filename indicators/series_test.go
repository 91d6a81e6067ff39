package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	t.Parallel()

	got := SMA([]float64{1, 2, 3, 4, 5}, 3)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestSMA_NaNPrefix(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	got := SMA([]float64{nan, nan, 1, 2, 3, 4}, 2)

	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(got[i]), "index %d", i)
	}
	assert.InDelta(t, 1.5, got[3], 1e-9)
	assert.InDelta(t, 2.5, got[4], 1e-9)
	assert.InDelta(t, 3.5, got[5], 1e-9)
}

func TestEMA(t *testing.T) {
	t.Parallel()

	got := EMA([]float64{1, 2, 3, 4, 5}, 3)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	// Seeded with the SMA of the first window, then mult = 0.5.
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestEMA_TooShort(t *testing.T) {
	t.Parallel()

	got := EMA([]float64{1, 2}, 5)
	for i, v := range got {
		assert.True(t, math.IsNaN(v), "index %d", i)
	}
}

func TestRollingMax(t *testing.T) {
	t.Parallel()

	got := RollingMax([]float64{1, 3, 2, 5, 4}, 3)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 3.0, got[2], 1e-9)
	assert.InDelta(t, 5.0, got[3], 1e-9)
	assert.InDelta(t, 5.0, got[4], 1e-9)
}

func TestRollingMin(t *testing.T) {
	t.Parallel()

	got := RollingMin([]float64{4, 2, 3, 1, 5}, 3)

	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 1.0, got[3], 1e-9)
	assert.InDelta(t, 1.0, got[4], 1e-9)
}

func TestRollingStddev_Constant(t *testing.T) {
	t.Parallel()

	got := rollingStddev([]float64{7, 7, 7, 7, 7}, 3)
	assert.InDelta(t, 0.0, got[2], 1e-12)
	assert.InDelta(t, 0.0, got[4], 1e-12)
}

func TestRSI_BalancedMoves(t *testing.T) {
	t.Parallel()

	// Alternating +1/-1 moves keep average gain and loss equal.
	closes := []float64{10, 11, 10, 11, 10, 11, 10}
	got := RSI(closes, 2)

	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 50.0, got[2], 1e-9)
}

func TestRSI_AllGains(t *testing.T) {
	t.Parallel()

	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := RSI(closes, 3)

	assert.InDelta(t, 100.0, got[len(got)-1], 1e-9)
}

func TestMACD_ConstantSeries(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	line, sig, hist := MACD(closes, 12, 26, 9)

	last := len(closes) - 1
	assert.InDelta(t, 0.0, line[last], 1e-9)
	assert.InDelta(t, 0.0, sig[last], 1e-9)
	assert.InDelta(t, 0.0, hist[last], 1e-9)
}
