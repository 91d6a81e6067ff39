// Package strategies contains the rule-based signal evaluators.
//
// Each strategy is a pure function of the latest and previous indicator rows:
// identical inputs always produce the identical signal or none. All
// strategies are long-only.
package strategies

import (
	"time"

	"github.com/rustyeddy/algotrader/indicators"
)

// Name tags the strategy that produced a signal.
type Name string

const (
	Breakout      Name = "BREAKOUT"
	Momentum      Name = "MOMENTUM"
	MeanReversion Name = "MEAN_REVERSION"
	GapTrade      Name = "GAP_TRADE"
)

// Signal is a long-entry proposal. Signals are ephemeral: produced, handed to
// the arbiter, then discarded.
type Signal struct {
	Symbol     string
	Confidence float64 // in [0,1]
	Entry      float64
	Target     float64
	Stop       float64
	Strategy   Name
	Time       time.Time
}

// Evaluator is the contract every strategy variant implements.
type Evaluator interface {
	Name() Name
	// Evaluate inspects the latest and previous indicator rows and returns a
	// signal, or nil when the entry conditions are not met.
	Evaluate(symbol string, latest, prev indicators.Row) *Signal
}

// All returns the full strategy set in fixed priority order. The order is
// also the arbiter's tie-break order.
func All() []Evaluator {
	return []Evaluator{
		BreakoutStrategy{},
		MomentumStrategy{},
		MeanReversionStrategy{},
		GapStrategy{},
	}
}

// Priority returns the tie-break rank of a strategy; lower wins.
func Priority(n Name) int {
	switch n {
	case Breakout:
		return 0
	case Momentum:
		return 1
	case MeanReversion:
		return 2
	case GapTrade:
		return 3
	}
	return 4
}

// clamp caps a raw confidence at max. A non-positive raw value means the
// setup is too weak to trade; callers treat it as no signal.
func clamp(raw, max float64) (float64, bool) {
	if raw <= 0 {
		return 0, false
	}
	if raw > max {
		raw = max
	}
	return raw, true
}

// wellFormed enforces the signal invariant stop < entry < target.
func wellFormed(entry, target, stop float64) bool {
	return stop < entry && entry < target
}
