// Package portfolio owns the open-position ledger: the position state
// machine, its exit-priority logic, and the daily realized-pnl aggregate.
package portfolio

import (
	"time"

	"github.com/rustyeddy/algotrader/strategies"
)

// Status of a position. The state machine has exactly two states and the
// Open -> Closed transition is terminal.
type Status string

const (
	Open   Status = "OPEN"
	Closed Status = "CLOSED"
)

// ExitReason records why a position was closed. The order of the checks in
// CheckExit is a strict priority; the first match wins.
type ExitReason string

const (
	ExitStopLoss  ExitReason = "STOP_LOSS"
	ExitTarget    ExitReason = "TARGET_ACHIEVED"
	ExitTime      ExitReason = "TIME_EXIT"
	ExitDailyLoss ExitReason = "DAILY_LOSS_LIMIT"
)

// Position is one long equity holding. Quantity is always positive; at most
// one open position exists per symbol.
type Position struct {
	ID         string
	Symbol     string
	SecurityID string
	Segment    string
	Quantity   int
	EntryPrice float64
	Current    float64
	Stop       float64
	Target     float64
	EntryTime  time.Time
	Strategy   strategies.Name

	Unrealized float64
	Realized   float64
	Status     Status
}

// MarkPrice updates the current price and unrealized pnl.
func (p *Position) MarkPrice(price float64) {
	p.Current = price
	p.Unrealized = (price - p.EntryPrice) * float64(p.Quantity)
}

// CheckExit evaluates the exit conditions in strict priority order and
// returns the first that matches:
//
//  1. price at or below the stop            -> STOP_LOSS
//  2. price at or above the target          -> TARGET_ACHIEVED
//  3. held at least maxHold                 -> TIME_EXIT
//  4. aggregate daily pnl below dailyFloor  -> DAILY_LOSS_LIMIT
//
// The daily-loss check is a global circuit breaker: it can close a position
// regardless of its own price. The same predicate drives the live ledger and
// the backtest replayer.
func CheckExit(price, stop, target float64, held, maxHold time.Duration, dailyPnL, dailyFloor float64) (ExitReason, bool) {
	switch {
	case price <= stop:
		return ExitStopLoss, true
	case price >= target:
		return ExitTarget, true
	case held >= maxHold:
		return ExitTime, true
	case dailyPnL < dailyFloor:
		return ExitDailyLoss, true
	}
	return "", false
}
