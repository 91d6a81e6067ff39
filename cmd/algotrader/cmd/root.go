package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "algotrader",
	Short: "An equity algo-trading engine for the NSE",
	Long: `Algotrader scans a configurable stock universe on a fixed cadence,
evaluates breakout, momentum, mean-reversion and gap strategies over daily
bars, arbitrates the signals under a portfolio risk policy, and manages the
resulting positions through stop, target, time and daily-loss exits.

It provides tools for:
  - Running a live or paper trading session against the Dhan API
  - Backtesting the strategy set over archived bar data
  - Managing configuration files and trade journals`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; credentials may come from the environment.
		_ = godotenv.Load()
	},
}

var logLevel string

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl)
}
