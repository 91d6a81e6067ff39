// Package config holds the full runtime configuration of the trading engine,
// loadable from YAML or JSON.
package config

import (
	"fmt"
	"time"

	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/risk"
)

// Config is the complete engine configuration.
type Config struct {
	Broker   BrokerConfig        `json:"broker" yaml:"broker"`
	Risk     risk.Policy         `json:"risk" yaml:"risk"`
	Engine   EngineConfig        `json:"engine" yaml:"engine"`
	Universe []market.Instrument `json:"universe" yaml:"universe"`
	Journal  JournalConfig       `json:"journal" yaml:"journal"`
	Backtest BacktestConfig      `json:"backtest" yaml:"backtest"`
	Metrics  MetricsConfig       `json:"metrics" yaml:"metrics"`
}

// BrokerConfig selects the order gateway. Credentials are never stored here;
// they come from the environment (DHAN_CLIENT_ID, DHAN_ACCESS_TOKEN).
type BrokerConfig struct {
	Mode         string  `json:"mode" yaml:"mode"` // "live" or "paper"
	PaperCapital float64 `json:"paper_capital,omitempty" yaml:"paper_capital,omitempty"`
}

// EngineConfig controls tick cadence and the trading session window.
type EngineConfig struct {
	SignalInterval  Duration `json:"signal_interval" yaml:"signal_interval"`
	PricingInterval Duration `json:"pricing_interval" yaml:"pricing_interval"`
	AlertInterval   Duration `json:"alert_interval" yaml:"alert_interval"`
	LookbackDays    int      `json:"lookback_days" yaml:"lookback_days"`
	MarketOpen      string   `json:"market_open" yaml:"market_open"`   // "09:15"
	MarketClose     string   `json:"market_close" yaml:"market_close"` // "15:30"
	Timezone        string   `json:"timezone" yaml:"timezone"`
}

// JournalConfig selects the persistence backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// BacktestConfig parameterizes the historical replayer.
type BacktestConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	RiskPerTrade   float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	MaxPositionPct float64 `json:"max_position_pct" yaml:"max_position_pct"`
	Commission     float64 `json:"commission" yaml:"commission"`
	MaxHoldDays    int     `json:"max_hold_days" yaml:"max_hold_days"`
	LookaheadBars  int     `json:"lookahead_bars" yaml:"lookahead_bars"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Listen  string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// Default returns a configuration with sensible defaults for paper trading
// the NSE universe.
func Default() *Config {
	return &Config{
		Broker: BrokerConfig{
			Mode:         "paper",
			PaperCapital: 100000,
		},
		Risk: risk.DefaultPolicy(),
		Engine: EngineConfig{
			SignalInterval:  Duration(60 * time.Second),
			PricingInterval: Duration(30 * time.Second),
			AlertInterval:   Duration(120 * time.Second),
			LookbackDays:    100,
			MarketOpen:      "09:15",
			MarketClose:     "15:30",
			Timezone:        "Asia/Kolkata",
		},
		Universe: market.DefaultUniverse(),
		Journal: JournalConfig{
			Type:       "sqlite",
			DBPath:     "./trades.db",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Backtest: BacktestConfig{
			InitialCapital: 100000,
			RiskPerTrade:   0.02,
			MaxPositionPct: 0.20,
			Commission:     20,
			MaxHoldDays:    5,
			LookaheadBars:  120,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
		},
	}
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	if c.Broker.Mode != "live" && c.Broker.Mode != "paper" {
		return fmt.Errorf("broker.mode must be 'live' or 'paper'")
	}
	if c.Broker.Mode == "paper" && c.Broker.PaperCapital <= 0 {
		return fmt.Errorf("broker.paper_capital must be positive")
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if c.Engine.SignalInterval <= 0 || c.Engine.PricingInterval <= 0 || c.Engine.AlertInterval <= 0 {
		return fmt.Errorf("engine intervals must be positive")
	}
	if c.Engine.LookbackDays < 60 {
		return fmt.Errorf("engine.lookback_days must be at least 60 to warm up indicators")
	}
	if _, err := parseClock(c.Engine.MarketOpen); err != nil {
		return fmt.Errorf("engine.market_open: %w", err)
	}
	if _, err := parseClock(c.Engine.MarketClose); err != nil {
		return fmt.Errorf("engine.market_close: %w", err)
	}
	if _, err := time.LoadLocation(c.Engine.Timezone); err != nil {
		return fmt.Errorf("engine.timezone: %w", err)
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must list at least one instrument")
	}
	for _, inst := range c.Universe {
		if inst.Symbol == "" || inst.SecurityID == "" {
			return fmt.Errorf("universe entries need symbol and security_id")
		}
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Backtest.RiskPerTrade <= 0 || c.Backtest.RiskPerTrade > 1 {
		return fmt.Errorf("backtest.risk_per_trade must be in (0, 1]")
	}
	if c.Backtest.MaxPositionPct <= 0 || c.Backtest.MaxPositionPct > 1 {
		return fmt.Errorf("backtest.max_position_pct must be in (0, 1]")
	}
	if c.Backtest.Commission < 0 {
		return fmt.Errorf("backtest.commission must not be negative")
	}
	if c.Backtest.MaxHoldDays <= 0 {
		return fmt.Errorf("backtest.max_hold_days must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen required when metrics enabled")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionOpen returns the market open as minutes since midnight.
func (c *Config) SessionOpen() int {
	m, _ := parseClock(c.Engine.MarketOpen)
	return m
}

// SessionClose returns the market close as minutes since midnight.
func (c *Config) SessionClose() int {
	m, _ := parseClock(c.Engine.MarketClose)
	return m
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
