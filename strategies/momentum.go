package strategies

import (
	"math"

	"github.com/rustyeddy/algotrader/indicators"
)

// MomentumStrategy follows an established trend: stacked EMAs, bullish MACD
// and stochastic, and price above the key moving averages.
type MomentumStrategy struct{}

func (MomentumStrategy) Name() Name { return Momentum }

func (MomentumStrategy) Evaluate(symbol string, latest, _ indicators.Row) *Signal {
	if !indicators.Valid(latest.EMA12, latest.EMA26, latest.EMA50, latest.RSI14,
		latest.MACD, latest.MACDSignal, latest.MACDHist,
		latest.StochK, latest.StochD, latest.SMA20, latest.ADX) {
		return nil
	}

	emaBullish := latest.EMA12 > latest.EMA26 && latest.EMA26 > latest.EMA50
	rsiMomentum := latest.RSI14 > 55 && latest.RSI14 < 75
	macdBullish := latest.MACD > latest.MACDSignal && latest.MACDHist > 0
	stochBullish := latest.StochK > latest.StochD && latest.StochK > 50
	priceStrength := latest.Close > latest.SMA20 && latest.SMA20 > latest.EMA50

	if !(emaBullish && rsiMomentum && macdBullish && stochBullish &&
		priceStrength && latest.ADX > 20) {
		return nil
	}

	entry := latest.Close
	stop := math.Max(latest.EMA26, entry*0.98)
	target := entry * 1.06

	raw := latest.ADX/40 + (latest.RSI14-50)/25 + 0.3
	confidence, ok := clamp(raw, 0.95)
	if !ok || !wellFormed(entry, target, stop) {
		return nil
	}

	return &Signal{
		Symbol:     symbol,
		Confidence: confidence,
		Entry:      entry,
		Target:     target,
		Stop:       stop,
		Strategy:   Momentum,
		Time:       latest.Time,
	}
}
