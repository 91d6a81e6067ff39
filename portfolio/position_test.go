package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckExit_Priority(t *testing.T) {
	t.Parallel()

	maxHold := 5 * 24 * time.Hour
	noFloor := math.Inf(-1)

	tests := []struct {
		name     string
		price    float64
		stop     float64
		target   float64
		held     time.Duration
		dailyPnL float64
		floor    float64
		want     ExitReason
		hit      bool
	}{
		{"stop hit", 95, 96, 110, time.Hour, 0, noFloor, ExitStopLoss, true},
		{"stop beats target", 95, 96, 90, time.Hour, 0, noFloor, ExitStopLoss, true},
		{"target hit", 111, 96, 110, time.Hour, 0, noFloor, ExitTarget, true},
		{"stop beats time", 95, 96, 110, 6 * 24 * time.Hour, 0, noFloor, ExitStopLoss, true},
		{"time exit", 100, 96, 110, 5 * 24 * time.Hour, 0, noFloor, ExitTime, true},
		{"just under hold limit", 100, 96, 110, 5*24*time.Hour - time.Minute, 0, noFloor, "", false},
		{"daily loss breaker", 100, 96, 110, time.Hour, -6000, -5000, ExitDailyLoss, true},
		{"target beats daily loss", 111, 96, 110, time.Hour, -6000, -5000, ExitTarget, true},
		{"no exit", 100, 96, 110, time.Hour, -1000, -5000, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reason, hit := CheckExit(tt.price, tt.stop, tt.target, tt.held, maxHold, tt.dailyPnL, tt.floor)
			assert.Equal(t, tt.hit, hit)
			assert.Equal(t, tt.want, reason)
		})
	}
}

func TestMarkPrice(t *testing.T) {
	t.Parallel()

	p := Position{Symbol: "TCS", Quantity: 10, EntryPrice: 100}
	p.MarkPrice(104)

	assert.InDelta(t, 104.0, p.Current, 1e-9)
	assert.InDelta(t, 40.0, p.Unrealized, 1e-9)

	p.MarkPrice(95)
	assert.InDelta(t, -50.0, p.Unrealized, 1e-9)
}
