package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/algotrader/strategies"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		entry, stop  float64
		capital      float64
		riskFraction float64
		want         int
	}{
		{"typical", 950, 931, 100000, 0.02, 105},
		{"exact division", 100, 90, 100000, 0.02, 200},
		{"rounds down", 100, 97, 100000, 0.02, 666},
		{"minimum one share", 5000, 4000, 10000, 0.01, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PositionSize(tt.entry, tt.stop, tt.capital, tt.riskFraction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionSize_ZeroRisk(t *testing.T) {
	t.Parallel()

	_, err := PositionSize(100, 100, 50000, 0.02)
	assert.ErrorIs(t, err, ErrInvalidRisk)
}

func TestRewardRisk(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RewardRisk(100, 95, 110), 1e-9)
	assert.InDelta(t, 3.0, RewardRisk(100, 98, 106), 1e-9)
	assert.InDelta(t, 0.0, RewardRisk(100, 100, 110), 1e-9)
}

func TestDefaultPolicy_Valid(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 5*24*time.Hour, p.MaxHold())
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"confidence out of range", func(p *Policy) { p.MinConfidence = 1.5 }},
		{"zero rr", func(p *Policy) { p.MinRewardRisk = 0 }},
		{"no positions", func(p *Policy) { p.MaxPositions = 0 }},
		{"positive daily loss", func(p *Policy) { p.MaxDailyLoss = 5000 }},
		{"drawdown over 100", func(p *Policy) { p.MaxDrawdownPct = 150 }},
		{"zero hold", func(p *Policy) { p.MaxHoldDays = 0 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultPolicy()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

// fakeView is a stub ledger for arbiter tests.
type fakeView struct {
	open  map[string]bool
	count int
}

func (v fakeView) HasOpen(symbol string) bool { return v.open[symbol] }
func (v fakeView) OpenCount() int             { return v.count }

func sig(strategy strategies.Name, confidence float64) *strategies.Signal {
	return &strategies.Signal{
		Symbol:     "RELIANCE",
		Confidence: confidence,
		Entry:      100,
		Stop:       96,
		Target:     112, // reward:risk 3.0
		Strategy:   strategy,
	}
}

func TestSelect_HighestConfidenceWins(t *testing.T) {
	t.Parallel()

	d := Select(DefaultPolicy(), []*strategies.Signal{
		sig(strategies.Momentum, 0.75),
		sig(strategies.Breakout, 0.85),
	}, fakeView{})

	require.True(t, d.Allowed)
	assert.Equal(t, strategies.Breakout, d.Signal.Strategy)
	assert.InDelta(t, 3.0, d.RewardRisk, 1e-9)
}

func TestSelect_TieBreaksOnPriority(t *testing.T) {
	t.Parallel()

	d := Select(DefaultPolicy(), []*strategies.Signal{
		sig(strategies.GapTrade, 0.8),
		sig(strategies.MeanReversion, 0.8),
		sig(strategies.Momentum, 0.8),
	}, fakeView{})

	require.True(t, d.Allowed)
	assert.Equal(t, strategies.Momentum, d.Signal.Strategy)
}

func TestSelect_ConfidenceFloor(t *testing.T) {
	t.Parallel()

	d := Select(DefaultPolicy(), []*strategies.Signal{
		sig(strategies.Breakout, 0.5),
		nil,
	}, fakeView{})

	assert.False(t, d.Allowed)
	assert.Nil(t, d.Signal)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, CodeLowConfidence, d.Violations[0].Code)
}

func TestSelect_RewardRiskFloor(t *testing.T) {
	t.Parallel()

	s := sig(strategies.Breakout, 0.9)
	s.Target = 104 // reward:risk 1.0

	d := Select(DefaultPolicy(), []*strategies.Signal{s}, fakeView{})

	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, CodeRRTooLow, d.Violations[0].Code)
}

func TestSelect_PositionExists(t *testing.T) {
	t.Parallel()

	view := fakeView{open: map[string]bool{"RELIANCE": true}, count: 1}
	d := Select(DefaultPolicy(), []*strategies.Signal{sig(strategies.Breakout, 0.9)}, view)

	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, CodePositionOpen, d.Violations[0].Code)
}

func TestSelect_MaxPositions(t *testing.T) {
	t.Parallel()

	d := Select(DefaultPolicy(), []*strategies.Signal{sig(strategies.Breakout, 0.9)}, fakeView{count: 5})

	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, CodeMaxPositions, d.Violations[0].Code)
}

func TestSelect_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	s := sig(strategies.Breakout, 0.9)
	s.Target = 104
	view := fakeView{open: map[string]bool{"RELIANCE": true}, count: 5}

	d := Select(DefaultPolicy(), []*strategies.Signal{s}, view)

	assert.False(t, d.Allowed)
	assert.Len(t, d.Violations, 3)
}
