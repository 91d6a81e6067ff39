package indicators

import "math"

// Series helpers operate on aligned []float64 columns. A NaN marks a value
// whose lookback window is not yet met; helpers tolerate NaN prefixes so they
// can be chained (e.g. the MACD signal line is an EMA of a NaN-prefixed MACD).

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstValid(vals []float64) int {
	for i, v := range vals {
		if !math.IsNaN(v) {
			return i
		}
	}
	return len(vals)
}

// SMA returns the simple moving average of vals over period. Indexes before
// the window is full are NaN.
func SMA(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	if period <= 0 {
		return out
	}
	start := firstValid(vals)

	sum := 0.0
	for i := start; i < len(vals); i++ {
		sum += vals[i]
		if i-start >= period {
			sum -= vals[i-period]
		}
		if i-start >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average of vals over period, seeded with
// the SMA of the first full window. Indexes before the seed are NaN.
func EMA(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	if period <= 0 {
		return out
	}
	start := firstValid(vals)
	if start+period > len(vals) {
		return out
	}

	mult := 2.0 / float64(period+1)

	seed := 0.0
	for i := start; i < start+period; i++ {
		seed += vals[i]
	}
	ema := seed / float64(period)
	out[start+period-1] = ema

	for i := start + period; i < len(vals); i++ {
		ema = (vals[i]-ema)*mult + ema
		out[i] = ema
	}
	return out
}

// RollingMax returns the maximum of vals over a trailing window of period
// bars, inclusive of the current bar.
func RollingMax(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	for i := period - 1; i < len(vals); i++ {
		m := vals[i]
		for j := i - period + 1; j < i; j++ {
			if vals[j] > m {
				m = vals[j]
			}
		}
		out[i] = m
	}
	return out
}

// RollingMin returns the minimum of vals over a trailing window of period
// bars, inclusive of the current bar.
func RollingMin(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	for i := period - 1; i < len(vals); i++ {
		m := vals[i]
		for j := i - period + 1; j < i; j++ {
			if vals[j] < m {
				m = vals[j]
			}
		}
		out[i] = m
	}
	return out
}

// rollingStddev is the population standard deviation over a trailing window.
func rollingStddev(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	for i := period - 1; i < len(vals); i++ {
		mean := 0.0
		for j := i - period + 1; j <= i; j++ {
			mean += vals[j]
		}
		mean /= float64(period)

		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := vals[j] - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(period))
	}
	return out
}
