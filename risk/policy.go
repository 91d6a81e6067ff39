// Package risk arbitrates among competing signals and sizes positions under
// the portfolio risk constraints.
package risk

import (
	"fmt"
	"time"
)

// Policy bundles every risk limit the engine enforces.
type Policy struct {
	// Signal gates
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"` // 0.7
	MinRewardRisk float64 `json:"min_reward_risk" yaml:"min_reward_risk"` // 2.5

	// Exposure limits
	MaxPositions    int     `json:"max_positions" yaml:"max_positions"`         // 5
	MaxRiskPerTrade float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"` // 0.02

	// Circuit breakers
	MaxDailyLoss        float64 `json:"max_daily_loss" yaml:"max_daily_loss"`               // -5000
	MaxDrawdownPct      float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`           // 10
	MaxConcentrationPct float64 `json:"max_concentration_pct" yaml:"max_concentration_pct"` // 25

	// Trade constraints
	MinCapital  float64 `json:"min_capital" yaml:"min_capital"`     // 10000
	MaxHoldDays int     `json:"max_hold_days" yaml:"max_hold_days"` // 5
}

// MaxHold converts the hold limit into a duration for exit checks.
func (p Policy) MaxHold() time.Duration {
	return time.Duration(p.MaxHoldDays) * 24 * time.Hour
}

// DefaultPolicy returns the stock policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		MinConfidence:       0.7,
		MinRewardRisk:       2.5,
		MaxPositions:        5,
		MaxRiskPerTrade:     0.02,
		MaxDailyLoss:        -5000,
		MaxDrawdownPct:      10,
		MaxConcentrationPct: 25,
		MinCapital:          10000,
		MaxHoldDays:         5,
	}
}

// Validate rejects policies that would make the arbiter reject everything or
// size positions at runaway leverage.
func (p Policy) Validate() error {
	if p.MinConfidence <= 0 || p.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in (0, 1]")
	}
	if p.MinRewardRisk <= 0 {
		return fmt.Errorf("min_reward_risk must be positive")
	}
	if p.MaxPositions <= 0 {
		return fmt.Errorf("max_positions must be positive")
	}
	if p.MaxRiskPerTrade <= 0 || p.MaxRiskPerTrade > 1 {
		return fmt.Errorf("max_risk_per_trade must be in (0, 1]")
	}
	if p.MaxDailyLoss >= 0 {
		return fmt.Errorf("max_daily_loss must be negative")
	}
	if p.MaxDrawdownPct <= 0 || p.MaxDrawdownPct > 100 {
		return fmt.Errorf("max_drawdown_pct must be in (0, 100]")
	}
	if p.MaxConcentrationPct <= 0 || p.MaxConcentrationPct > 100 {
		return fmt.Errorf("max_concentration_pct must be in (0, 100]")
	}
	if p.MinCapital < 0 {
		return fmt.Errorf("min_capital must not be negative")
	}
	if p.MaxHoldDays <= 0 {
		return fmt.Errorf("max_hold_days must be positive")
	}
	return nil
}
