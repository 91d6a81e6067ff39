package portfolio

import (
	"fmt"
	"sort"
	"sync"
)

// Repository owns the open-position set and the daily realized-pnl
// aggregate under a single lock, so readers always observe a fully-updated
// position and a pnl figure consistent with it.
type Repository struct {
	mu        sync.Mutex
	positions map[string]*Position
	dailyPnL  float64
}

func NewRepository() *Repository {
	return &Repository{positions: make(map[string]*Position)}
}

// Add registers a newly filled position. It is an error to add a second open
// position for the same symbol.
func (r *Repository) Add(p Position) error {
	if p.Quantity <= 0 {
		return fmt.Errorf("portfolio: non-positive quantity %d for %s", p.Quantity, p.Symbol)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.positions[p.Symbol]; exists {
		return fmt.Errorf("portfolio: %s already has an open position", p.Symbol)
	}
	p.Status = Open
	p.Current = p.EntryPrice
	r.positions[p.Symbol] = &p
	return nil
}

// HasOpen reports whether the symbol has an open position.
func (r *Repository) HasOpen(symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.positions[symbol]
	return ok
}

// OpenCount returns the number of open positions.
func (r *Repository) OpenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.positions)
}

// Get returns a copy of the open position for symbol.
func (r *Repository) Get(symbol string) (Position, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// MarkPrice updates the current price and unrealized pnl of an open
// position.
func (r *Repository) MarkPrice(symbol string, price float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.positions[symbol]
	if !ok {
		return false
	}
	p.MarkPrice(price)
	return true
}

// Close transitions the position to Closed at the given price, adds the
// realized pnl to the daily aggregate, and removes it from the active set.
// The returned copy carries the final realized figure.
func (r *Repository) Close(symbol string, price float64) (Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.positions[symbol]
	if !ok {
		return Position{}, fmt.Errorf("portfolio: no open position for %s", symbol)
	}

	p.MarkPrice(price)
	p.Realized = p.Unrealized
	p.Unrealized = 0
	p.Status = Closed
	r.dailyPnL += p.Realized
	delete(r.positions, symbol)
	return *p, nil
}

// DailyPnL returns the aggregate realized pnl for the current day.
func (r *Repository) DailyPnL() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dailyPnL
}

// ResetDaily zeroes the daily aggregate at the start of a trading day.
func (r *Repository) ResetDaily() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dailyPnL = 0
}

// UnrealizedPnL sums the unrealized pnl across open positions.
func (r *Repository) UnrealizedPnL() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, p := range r.positions {
		total += p.Unrealized
	}
	return total
}

// Snapshot returns copies of the open positions, ordered by symbol so
// consumers see a deterministic listing.
func (r *Repository) Snapshot() []Position {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Position, 0, len(r.positions))
	for _, p := range r.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
