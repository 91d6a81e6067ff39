package strategies

import (
	"math"

	"github.com/rustyeddy/algotrader/indicators"
)

// MeanReversionStrategy buys oversold bounces: a rising RSI below 35, price
// at the lower volatility band, a turning stochastic, and a test of support.
type MeanReversionStrategy struct{}

func (MeanReversionStrategy) Name() Name { return MeanReversion }

func (MeanReversionStrategy) Evaluate(symbol string, latest, prev indicators.Row) *Signal {
	if !indicators.Valid(latest.RSI14, prev.RSI14, latest.BBLower, latest.BBMiddle,
		latest.StochK, prev.StochK, latest.Support) {
		return nil
	}

	oversoldRSI := latest.RSI14 < 35 && latest.RSI14 > prev.RSI14
	bbBounce := latest.Close < latest.BBLower*1.02
	stochOversold := latest.StochK < 25 && latest.StochK > prev.StochK
	nearSupport := latest.Low <= latest.Support*1.01

	if !(oversoldRSI && bbBounce && stochOversold && nearSupport) {
		return nil
	}

	entry := latest.Close
	stop := math.Max(latest.Support*0.99, entry*0.98)
	target := math.Min(latest.BBMiddle, entry*1.05)

	raw := (35-latest.RSI14)/20 + (25-latest.StochK)/25 + 0.2
	confidence, ok := clamp(raw, 0.85)
	if !ok || !wellFormed(entry, target, stop) {
		return nil
	}

	return &Signal{
		Symbol:     symbol,
		Confidence: confidence,
		Entry:      entry,
		Target:     target,
		Stop:       stop,
		Strategy:   MeanReversion,
		Time:       latest.Time,
	}
}
