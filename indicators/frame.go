// Package indicators derives a feature frame from raw price bars.
//
// All computations are causal: the value at index i depends only on bars
// [0..i]. Where the lookback window is not yet met the value is NaN, never an
// error. Callers check validity with math.IsNaN or Row.Valid.
package indicators

import (
	"math"
	"time"

	"github.com/rustyeddy/algotrader/market"
)

// Default periods for the feature frame.
const (
	SMAPeriod     = 20
	EMAFast       = 12
	EMAMid        = 26
	EMASlow       = 50
	BBPeriod      = 20
	BBStdDev      = 2.0
	RSIPeriod     = 14
	RSISlowPeriod = 21
	MACDSignal    = 9
	StochK        = 14
	StochD        = 3
	ADXPeriod     = 14
	VolumePeriod  = 20
	ExtremaPeriod = 20
	ATRPeriod     = 14
)

// Frame holds the derived features, one entry per input bar.
type Frame struct {
	Bars []market.Bar

	SMA20 []float64
	EMA12 []float64
	EMA26 []float64
	EMA50 []float64

	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	BBWidth    []float64
	BBWidthAvg []float64 // 20-bar mean of BBWidth, used by the breakout filter

	RSI14 []float64
	RSI21 []float64

	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64

	StochK []float64
	StochD []float64

	ADX []float64

	VolumeSMA []float64
	OBV       []float64

	Resistance []float64
	Support    []float64

	ATR []float64

	HigherHigh []bool
	HigherLow  []bool
	LowerHigh  []bool
	LowerLow   []bool
}

// Row is the feature view of a single bar, consumed by strategy evaluators.
type Row struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	SMA20 float64
	EMA12 float64
	EMA26 float64
	EMA50 float64

	BBUpper    float64
	BBMiddle   float64
	BBLower    float64
	BBWidth    float64
	BBWidthAvg float64

	RSI14 float64
	RSI21 float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	StochK float64
	StochD float64

	ADX float64

	VolumeSMA float64
	OBV       float64

	Resistance float64
	Support    float64

	ATR float64

	HigherHigh bool
	HigherLow  bool
	LowerHigh  bool
	LowerLow   bool
}

// Valid reports whether every listed value is defined (not NaN).
func Valid(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Compute derives the full feature frame from chronologically ordered bars.
func Compute(bars []market.Bar) *Frame {
	n := len(bars)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
		highs[i] = b.High
		lows[i] = b.Low
	}

	f := &Frame{Bars: bars}

	f.SMA20 = SMA(closes, SMAPeriod)
	f.EMA12 = EMA(closes, EMAFast)
	f.EMA26 = EMA(closes, EMAMid)
	f.EMA50 = EMA(closes, EMASlow)

	f.BBUpper, f.BBMiddle, f.BBLower, f.BBWidth = Bollinger(closes, BBPeriod, BBStdDev)
	f.BBWidthAvg = SMA(f.BBWidth, BBPeriod)

	f.RSI14 = RSI(closes, RSIPeriod)
	f.RSI21 = RSI(closes, RSISlowPeriod)

	f.MACD, f.MACDSignal, f.MACDHist = MACD(closes, EMAFast, EMAMid, MACDSignal)
	f.StochK, f.StochD = Stochastic(bars, StochK, StochD)
	f.ADX = ADX(bars, ADXPeriod)

	f.VolumeSMA = SMA(volumes, VolumePeriod)
	f.OBV = OBV(closes, volumes)

	f.Resistance = RollingMax(highs, ExtremaPeriod)
	f.Support = RollingMin(lows, ExtremaPeriod)
	f.ATR = ATR(bars, ATRPeriod)

	f.HigherHigh = make([]bool, n)
	f.HigherLow = make([]bool, n)
	f.LowerHigh = make([]bool, n)
	f.LowerLow = make([]bool, n)
	for i := 2; i < n; i++ {
		f.HigherHigh[i] = highs[i] > highs[i-1] && highs[i-1] > highs[i-2]
		f.HigherLow[i] = lows[i] > lows[i-1] && lows[i-1] > lows[i-2]
		f.LowerHigh[i] = highs[i] < highs[i-1] && highs[i-1] < highs[i-2]
		f.LowerLow[i] = lows[i] < lows[i-1] && lows[i-1] < lows[i-2]
	}

	return f
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int { return len(f.Bars) }

// Row returns the feature view for bar index i.
func (f *Frame) Row(i int) Row {
	b := f.Bars[i]
	return Row{
		Time:   b.Time,
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,

		SMA20: f.SMA20[i],
		EMA12: f.EMA12[i],
		EMA26: f.EMA26[i],
		EMA50: f.EMA50[i],

		BBUpper:    f.BBUpper[i],
		BBMiddle:   f.BBMiddle[i],
		BBLower:    f.BBLower[i],
		BBWidth:    f.BBWidth[i],
		BBWidthAvg: f.BBWidthAvg[i],

		RSI14: f.RSI14[i],
		RSI21: f.RSI21[i],

		MACD:       f.MACD[i],
		MACDSignal: f.MACDSignal[i],
		MACDHist:   f.MACDHist[i],

		StochK: f.StochK[i],
		StochD: f.StochD[i],

		ADX: f.ADX[i],

		VolumeSMA: f.VolumeSMA[i],
		OBV:       f.OBV[i],

		Resistance: f.Resistance[i],
		Support:    f.Support[i],

		ATR: f.ATR[i],

		HigherHigh: f.HigherHigh[i],
		HigherLow:  f.HigherLow[i],
		LowerHigh:  f.LowerHigh[i],
		LowerLow:   f.LowerLow[i],
	}
}

// Latest returns the last two rows (latest, previous). ok is false when the
// frame has fewer than two rows.
func (f *Frame) Latest() (latest, prev Row, ok bool) {
	if f.Len() < 2 {
		return Row{}, Row{}, false
	}
	return f.Row(f.Len() - 1), f.Row(f.Len() - 2), true
}
