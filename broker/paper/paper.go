// Package paper provides a simulated gateway for dry runs. Orders are
// accepted immediately and capital is tracked locally; market data is
// delegated to a real feed.
package paper

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/algotrader/broker"
	"github.com/rustyeddy/algotrader/execution"
	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/pkg/id"
)

// Gateway fills every order instantly and never fails. It keeps a local
// capital balance so sizing behaves like a funded account.
type Gateway struct {
	data broker.MarketData
	log  zerolog.Logger

	mu      sync.Mutex
	capital float64
	orders  []execution.Order
}

// New wraps a market data feed with a simulated order gateway.
func New(data broker.MarketData, initialCapital float64, log zerolog.Logger) *Gateway {
	return &Gateway{
		data:    data,
		capital: initialCapital,
		log:     log.With().Str("component", "paper").Logger(),
	}
}

func (g *Gateway) GetHistoricalBars(ctx context.Context, inst market.Instrument, lookbackDays int) ([]market.Bar, error) {
	return g.data.GetHistoricalBars(ctx, inst, lookbackDays)
}

// PlaceOrder accepts the order and returns a synthetic broker id.
func (g *Gateway) PlaceOrder(ctx context.Context, o execution.Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	brokerID := "SIM-" + id.New()

	g.mu.Lock()
	o.BrokerOrderID = brokerID
	g.orders = append(g.orders, o)
	g.mu.Unlock()

	g.log.Info().
		Str("symbol", o.Symbol).
		Str("side", string(o.Side)).
		Int("quantity", o.Quantity).
		Str("broker_order_id", brokerID).
		Msg("simulated fill")
	return brokerID, nil
}

func (g *Gateway) GetAvailableCapital(ctx context.Context) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.capital, nil
}

// AdjustCapital applies a realized profit or loss to the simulated balance.
func (g *Gateway) AdjustCapital(delta float64) {
	g.mu.Lock()
	g.capital += delta
	g.mu.Unlock()
}

// Orders returns a copy of every order accepted so far.
func (g *Gateway) Orders() []execution.Order {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]execution.Order, len(g.orders))
	copy(out, g.orders)
	return out
}
