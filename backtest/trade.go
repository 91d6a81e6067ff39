package backtest

import (
	"time"

	"github.com/rustyeddy/algotrader/strategies"
)

// Exit reason labels recorded on backtest trades.
const (
	ReasonStopLoss = "STOP_LOSS"
	ReasonTarget   = "TARGET"
	ReasonTimeExit = "TIME_EXIT"
)

// Trade is one simulated round trip.
type Trade struct {
	Symbol     string
	Strategy   strategies.Name
	EntryDate  time.Time
	ExitDate   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   int
	GrossPnL   float64
	Commission float64
	NetPnL     float64
	ReturnPct  float64
	HoldDays   int
	ExitReason string
}
