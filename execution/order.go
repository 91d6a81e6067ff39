// Package execution serializes order submission through a single-consumer
// FIFO queue with bounded retry.
package execution

import "time"

// Side of an order. The engine only ever buys to open and sells to close.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Status of an order in the queue. Executed and Failed are terminal.
type Status string

const (
	Queued   Status = "QUEUED"
	Retrying Status = "RETRYING"
	Executed Status = "EXECUTED"
	Failed   Status = "FAILED"
)

// Order is a fixed-shape submission record. Quantity is always the full
// position size; partial fills are not modeled.
type Order struct {
	ID         string
	Symbol     string
	SecurityID string
	Segment    string
	Side       Side
	Quantity   int
	Type       string // e.g. "MARKET"
	Reason     string // strategy tag on entries, exit reason on exits

	Status        Status
	RetryCount    int
	BrokerOrderID string
	EnqueuedAt    time.Time
}
