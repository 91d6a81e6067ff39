package indicators

import (
	"math"

	"github.com/rustyeddy/algotrader/market"
)

// RSI computes Wilder's Relative Strength Index over period. The first
// period indexes are NaN.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD computes the MACD line (fast EMA minus slow EMA), its signal line and
// the histogram.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			line[i] = emaFast[i] - emaSlow[i]
		}
	}

	sig = EMA(line, signal)

	hist = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return line, sig, hist
}

// Stochastic computes the %K and %D lines of the stochastic oscillator.
// %K compares the close to the high/low range over kPeriod bars; %D is a
// simple moving average of %K over dPeriod bars.
func Stochastic(bars []market.Bar, kPeriod, dPeriod int) (k, d []float64) {
	k = nanSlice(len(bars))
	for i := kPeriod - 1; i < len(bars); i++ {
		hi := bars[i].High
		lo := bars[i].Low
		for j := i - kPeriod + 1; j < i; j++ {
			if bars[j].High > hi {
				hi = bars[j].High
			}
			if bars[j].Low < lo {
				lo = bars[j].Low
			}
		}
		if hi == lo {
			k[i] = 50
			continue
		}
		k[i] = 100 * (bars[i].Close - lo) / (hi - lo)
	}
	d = SMA(k, dPeriod)
	return k, d
}
