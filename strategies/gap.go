package strategies

import (
	"math"

	"github.com/rustyeddy/algotrader/indicators"
)

// GapStrategy trades overnight gap-ups that hold through the session on at
// least twice the average volume. The target scales with the gap size.
type GapStrategy struct{}

func (GapStrategy) Name() Name { return GapTrade }

func (GapStrategy) Evaluate(symbol string, latest, prev indicators.Row) *Signal {
	if !indicators.Valid(latest.VolumeSMA, latest.RSI14) {
		return nil
	}
	if prev.Close <= 0 || latest.VolumeSMA <= 0 {
		return nil
	}

	gap := (latest.Open - prev.Close) / prev.Close

	if !(gap > 0.02 &&
		latest.Volume > latest.VolumeSMA*2 &&
		latest.Close > latest.Open && // gap holds
		latest.RSI14 < 70) {
		return nil
	}

	entry := latest.Close
	stop := math.Max(latest.Open, entry*0.98)
	target := entry * (1 + gap*1.5)

	raw := gap*10 + 0.2*(latest.Volume/latest.VolumeSMA-1)
	confidence, ok := clamp(raw, 0.8)
	if !ok || !wellFormed(entry, target, stop) {
		return nil
	}

	return &Signal{
		Symbol:     symbol,
		Confidence: confidence,
		Entry:      entry,
		Target:     target,
		Stop:       stop,
		Strategy:   GapTrade,
		Time:       latest.Time,
	}
}
