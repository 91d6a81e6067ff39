// Package journal persists closed trades and equity snapshots so a session
// can be audited after the fact. SQLite and CSV backends share one record
// shape.
package journal

import "time"

// TradeRecord is one completed round trip.
type TradeRecord struct {
	TradeID     string
	Symbol      string
	Strategy    string
	Quantity    int
	EntryPrice  float64
	ExitPrice   float64
	EntryTime   time.Time
	ExitTime    time.Time
	RealizedPnL float64
	Reason      string
}

// EquitySnapshot captures the portfolio at a point in time.
type EquitySnapshot struct {
	Time          time.Time
	Capital       float64
	UnrealizedPnL float64
	DailyPnL      float64
	OpenPositions int
}

// Journal records trades and snapshots. Implementations must be safe for use
// from the pricing tick and the engine shutdown path concurrently.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled in config.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
