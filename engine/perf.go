package engine

import "sync"

// perfTracker follows the equity curve and reports drawdown from the running
// peak.
type perfTracker struct {
	mu   sync.Mutex
	peak float64
}

// Observe records an equity reading and returns the current drawdown as a
// percentage of the peak.
func (t *perfTracker) Observe(equity float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if equity > t.peak {
		t.peak = equity
	}
	if t.peak <= 0 {
		return 0
	}
	return (t.peak - equity) / t.peak * 100
}
