package backtest

import (
	"sort"

	"github.com/rustyeddy/algotrader/indicators"
	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/risk"
	"github.com/rustyeddy/algotrader/strategies"
)

// GenerateSignals walks each symbol's series bar by bar, evaluates every
// strategy on the indicator rows available at that point, and keeps the
// signals that clear the policy's confidence and reward:risk floors. The
// result is ordered by time then symbol, so feeding it to Run is
// deterministic.
func GenerateSignals(series map[string][]market.Bar, policy risk.Policy) []*strategies.Signal {
	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var out []*strategies.Signal
	for _, sym := range symbols {
		frame := indicators.Compute(series[sym])
		for i := 1; i < frame.Len(); i++ {
			latest := frame.Row(i)
			prev := frame.Row(i - 1)

			for _, ev := range strategies.All() {
				sig := ev.Evaluate(sym, latest, prev)
				if sig == nil {
					continue
				}
				if sig.Confidence < policy.MinConfidence {
					continue
				}
				if risk.RewardRisk(sig.Entry, sig.Stop, sig.Target) < policy.MinRewardRisk {
					continue
				}
				sig.Time = frame.Bars[i].Time
				out = append(out, sig)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
