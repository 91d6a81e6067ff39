package strategies

import (
	"math"

	"github.com/rustyeddy/algotrader/indicators"
)

// BreakoutStrategy buys closes pressing through rolling resistance and the
// upper volatility band on a volume surge with expanding band width.
type BreakoutStrategy struct{}

func (BreakoutStrategy) Name() Name { return Breakout }

func (BreakoutStrategy) Evaluate(symbol string, latest, _ indicators.Row) *Signal {
	if !indicators.Valid(latest.Resistance, latest.BBUpper, latest.RSI14,
		latest.ADX, latest.VolumeSMA, latest.BBWidth, latest.BBWidthAvg, latest.Support) {
		return nil
	}
	if latest.VolumeSMA <= 0 {
		return nil
	}

	volumeSurge := latest.Volume > latest.VolumeSMA*1.5
	volatilityExpansion := latest.BBWidth > latest.BBWidthAvg*1.2

	if !(latest.Close >= latest.Resistance*0.998 &&
		latest.Close >= latest.BBUpper*0.995 &&
		latest.RSI14 > 50 && latest.RSI14 < 80 &&
		latest.ADX > 25 &&
		volumeSurge && volatilityExpansion) {
		return nil
	}

	entry := latest.Close
	stop := math.Max(latest.Support, entry*0.98)
	target := entry * 1.07

	raw := (latest.RSI14-50)/30 + (latest.ADX-25)/25 + (latest.Volume/latest.VolumeSMA - 1)
	confidence, ok := clamp(raw, 0.9)
	if !ok || !wellFormed(entry, target, stop) {
		return nil
	}

	return &Signal{
		Symbol:     symbol,
		Confidence: confidence,
		Entry:      entry,
		Target:     target,
		Stop:       stop,
		Strategy:   Breakout,
		Time:       latest.Time,
	}
}
