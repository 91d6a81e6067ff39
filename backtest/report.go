package backtest

import (
	"math"

	"github.com/rustyeddy/algotrader/strategies"
)

// StrategyStats is the per-strategy breakdown of a backtest run.
type StrategyStats struct {
	Trades       int
	NetPnL       float64
	AvgReturnPct float64
}

// Report aggregates the results of one backtest run.
type Report struct {
	InitialCapital float64
	FinalCapital   float64
	TotalPnL       float64
	TotalReturnPct float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRatePct    float64

	// ProfitFactor is gross profit divided by absolute gross loss; +Inf when
	// there are no losing trades.
	ProfitFactor float64
	MaxGain      float64
	MaxLoss      float64

	AvgReturnPct float64
	AvgHoldDays  float64

	ByStrategy  map[strategies.Name]StrategyStats
	ExitReasons map[string]int

	Trades []Trade
}

func buildReport(initialCapital, finalCapital float64, trades []Trade) Report {
	r := Report{
		InitialCapital: initialCapital,
		FinalCapital:   finalCapital,
		TotalTrades:    len(trades),
		ByStrategy:     make(map[strategies.Name]StrategyStats),
		ExitReasons:    make(map[string]int),
		Trades:         trades,
	}
	if initialCapital > 0 {
		r.TotalReturnPct = (finalCapital - initialCapital) / initialCapital * 100
	}
	if len(trades) == 0 {
		return r
	}

	var grossProfit, grossLoss float64
	var sumReturn, sumHold float64
	r.MaxGain = math.Inf(-1)
	r.MaxLoss = math.Inf(1)

	returnSums := make(map[strategies.Name]float64)

	for _, t := range trades {
		r.TotalPnL += t.NetPnL
		sumReturn += t.ReturnPct
		sumHold += float64(t.HoldDays)

		switch {
		case t.NetPnL > 0:
			r.WinningTrades++
			grossProfit += t.NetPnL
		case t.NetPnL < 0:
			r.LosingTrades++
			grossLoss += -t.NetPnL
		}
		if t.NetPnL > r.MaxGain {
			r.MaxGain = t.NetPnL
		}
		if t.NetPnL < r.MaxLoss {
			r.MaxLoss = t.NetPnL
		}

		st := r.ByStrategy[t.Strategy]
		st.Trades++
		st.NetPnL += t.NetPnL
		r.ByStrategy[t.Strategy] = st
		returnSums[t.Strategy] += t.ReturnPct

		r.ExitReasons[t.ExitReason]++
	}

	n := float64(len(trades))
	r.WinRatePct = float64(r.WinningTrades) / n * 100
	r.AvgReturnPct = sumReturn / n
	r.AvgHoldDays = sumHold / n

	if grossLoss > 0 {
		r.ProfitFactor = grossProfit / grossLoss
	} else {
		r.ProfitFactor = math.Inf(1)
	}

	for name, st := range r.ByStrategy {
		st.AvgReturnPct = returnSums[name] / float64(st.Trades)
		r.ByStrategy[name] = st
	}
	return r
}
