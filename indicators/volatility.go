package indicators

import (
	"math"

	"github.com/rustyeddy/algotrader/market"
)

// Bollinger computes the volatility band: rolling mean +/- k standard
// deviations, plus the band width normalized by the middle band.
func Bollinger(closes []float64, period int, k float64) (upper, middle, lower, width []float64) {
	middle = SMA(closes, period)
	std := rollingStddev(closes, period)

	upper = nanSlice(len(closes))
	lower = nanSlice(len(closes))
	width = nanSlice(len(closes))
	for i := range closes {
		if math.IsNaN(middle[i]) {
			continue
		}
		upper[i] = middle[i] + k*std[i]
		lower[i] = middle[i] - k*std[i]
		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i]
		}
	}
	return upper, middle, lower, width
}

// ATR computes Wilder's Average True Range over period. Needs period+1 bars
// because the true range requires the previous close.
func ATR(bars []market.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) <= period {
		return out
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(bars[i], bars[i-1])
	}
	atr := sum / float64(period)
	out[period] = atr

	p := float64(period)
	for i := period + 1; i < len(bars); i++ {
		atr = (atr*(p-1) + trueRange(bars[i], bars[i-1])) / p
		out[i] = atr
	}
	return out
}
