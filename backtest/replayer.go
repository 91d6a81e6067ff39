// Package backtest replays pre-generated signals against archived price
// series, reusing the live exit predicate so offline scoring and live
// trading resolve exits identically.
//
// The replayer maintains its own capital ledger and never shares state with
// the live position repository; Run is pure and deterministic.
package backtest

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/portfolio"
	"github.com/rustyeddy/algotrader/risk"
	"github.com/rustyeddy/algotrader/strategies"
)

// Config tunes one backtest run.
type Config struct {
	InitialCapital float64
	RiskPerTrade   float64       // fraction of current capital risked per trade
	MaxPositionPct float64       // cap on notional as a fraction of current capital
	Commission     float64       // flat per-trade commission
	MaxHold        time.Duration // time-exit threshold, same as live
	LookaheadBars  int           // hard bound on forward scanning
}

// DefaultConfig mirrors the live risk defaults plus the simulation-only
// knobs.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 100000,
		RiskPerTrade:   0.02,
		MaxPositionPct: 0.20,
		Commission:     20,
		MaxHold:        5 * 24 * time.Hour,
		LookaheadBars:  5 * 24,
	}
}

// Run replays the signals chronologically against the per-symbol series and
// returns the aggregated report. Running identical inputs twice produces
// identical trade ledgers and metrics.
func Run(cfg Config, series map[string][]market.Bar, signals []*strategies.Signal) Report {
	ordered := make([]*strategies.Signal, 0, len(signals))
	for _, s := range signals {
		if s != nil {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Time.Equal(ordered[j].Time) {
			return ordered[i].Time.Before(ordered[j].Time)
		}
		if ordered[i].Symbol != ordered[j].Symbol {
			return ordered[i].Symbol < ordered[j].Symbol
		}
		return strategies.Priority(ordered[i].Strategy) < strategies.Priority(ordered[j].Strategy)
	})

	capital := cfg.InitialCapital
	var trades []Trade

	for _, sig := range ordered {
		bars, ok := series[sig.Symbol]
		if !ok || len(bars) == 0 {
			continue
		}

		trade, ok := simulate(cfg, capital, bars, sig)
		if !ok {
			continue
		}
		capital += trade.NetPnL
		trades = append(trades, trade)
	}

	return buildReport(cfg.InitialCapital, capital, trades)
}

// simulate sizes and walks one signal forward through its series.
func simulate(cfg Config, capital float64, bars []market.Bar, sig *strategies.Signal) (Trade, bool) {
	entryIdx := -1
	for i, b := range bars {
		if !b.Time.Before(sig.Time) {
			entryIdx = i
			break
		}
	}
	if entryIdx < 0 {
		return Trade{}, false
	}

	qty, err := risk.PositionSize(sig.Entry, sig.Stop, capital, cfg.RiskPerTrade)
	if err != nil {
		return Trade{}, false
	}
	// Simulation-only concentration cap: notional may not exceed the
	// configured fraction of current capital.
	if sig.Entry*float64(qty) > capital*cfg.MaxPositionPct {
		qty = int(math.Floor(capital * cfg.MaxPositionPct / sig.Entry))
	}
	if qty <= 0 {
		return Trade{}, false
	}

	entryTime := bars[entryIdx].Time
	lastIdx := entryIdx + cfg.LookaheadBars
	if lastIdx > len(bars)-1 {
		lastIdx = len(bars) - 1
	}

	exitPrice := bars[lastIdx].Close
	exitTime := bars[lastIdx].Time
	exitReason := ReasonTimeExit

	for i := entryIdx + 1; i <= lastIdx; i++ {
		price := bars[i].Close
		held := bars[i].Time.Sub(entryTime)

		reason, hit := portfolio.CheckExit(price, sig.Stop, sig.Target, held, cfg.MaxHold, 0, math.Inf(-1))
		if !hit {
			continue
		}
		exitTime = bars[i].Time
		switch reason {
		case portfolio.ExitStopLoss:
			exitPrice = sig.Stop
			exitReason = ReasonStopLoss
		case portfolio.ExitTarget:
			exitPrice = sig.Target
			exitReason = ReasonTarget
		default:
			exitPrice = price
			exitReason = ReasonTimeExit
		}
		break
	}

	gross := (exitPrice - sig.Entry) * float64(qty)
	net := gross - cfg.Commission

	t := Trade{
		Symbol:     sig.Symbol,
		Strategy:   sig.Strategy,
		EntryDate:  entryTime,
		ExitDate:   exitTime,
		EntryPrice: sig.Entry,
		ExitPrice:  exitPrice,
		Quantity:   qty,
		GrossPnL:   gross,
		Commission: cfg.Commission,
		NetPnL:     net,
		HoldDays:   int(exitTime.Sub(entryTime).Hours() / 24),
		ExitReason: exitReason,
	}
	if notional := sig.Entry * float64(qty); notional > 0 {
		t.ReturnPct = net / notional * 100
	}
	return t, true
}
