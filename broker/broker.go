// Package broker defines the external collaborator contracts: market data
// and the order gateway. Implementations live in subpackages.
package broker

import (
	"context"
	"errors"

	"github.com/rustyeddy/algotrader/execution"
	"github.com/rustyeddy/algotrader/market"
)

// ErrDataUnavailable reports missing or too-short history for an instrument.
// Callers skip the instrument for the current tick; it is never fatal.
var ErrDataUnavailable = errors.New("broker: historical data unavailable")

// MarketData fetches historical bars for an instrument.
type MarketData interface {
	// GetHistoricalBars returns chronologically ordered bars covering the
	// trailing lookback window.
	GetHistoricalBars(ctx context.Context, inst market.Instrument, lookbackDays int) ([]market.Bar, error)
}

// Gateway places orders and reports available capital.
type Gateway interface {
	execution.Placer
	GetAvailableCapital(ctx context.Context) (float64, error)
}

// Client is the full broker surface the engine consumes.
type Client interface {
	MarketData
	Gateway
}
