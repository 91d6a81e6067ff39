package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/algotrader/backtest"
	"github.com/rustyeddy/algotrader/config"
	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the strategy set over archived bar data",
	Long: `Backtest scans a directory of per-symbol CSV files (SYMBOL.csv with a
time,open,high,low,close,volume header), generates signals with the full
strategy set, and replays them through the same exit logic the live engine
uses.

Example:
  algotrader backtest --data ./bars --config trading.yaml`,
	RunE: runBacktest,
}

var (
	btDataDir    string
	btConfigPath string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataDir, "data", "d", "", "directory of per-symbol bar CSVs (required)")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "f", "", "path to config file (defaults apply when omitted)")
	backtestCmd.MarkFlagRequired("data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if btConfigPath != "" {
		loaded, err := config.LoadFromFile(btConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	series, err := loadSeries(btDataDir)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no CSV files found in %s", btDataDir)
	}

	signals := backtest.GenerateSignals(series, cfg.Risk)
	fmt.Printf("Loaded %d symbols, generated %d signals\n\n", len(series), len(signals))

	btCfg := backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		RiskPerTrade:   cfg.Backtest.RiskPerTrade,
		MaxPositionPct: cfg.Backtest.MaxPositionPct,
		Commission:     cfg.Backtest.Commission,
		MaxHold:        time.Duration(cfg.Backtest.MaxHoldDays) * 24 * time.Hour,
		LookaheadBars:  cfg.Backtest.LookaheadBars,
	}
	report := backtest.Run(btCfg, series, signals)
	printReport(report)
	return nil
}

func loadSeries(dir string) (map[string][]market.Bar, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	series := make(map[string][]market.Bar)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		symbol := strings.TrimSuffix(e.Name(), ".csv")
		bars, err := market.LoadBarsCSV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
		series[symbol] = bars
	}
	return series, nil
}

func printReport(r backtest.Report) {
	fmt.Println("Backtest Results")
	fmt.Println("================")
	fmt.Printf("  Initial Capital: %12.2f\n", r.InitialCapital)
	fmt.Printf("  Final Capital:   %12.2f\n", r.FinalCapital)
	fmt.Printf("  Total Return:    %11.2f%%\n", r.TotalReturnPct)
	fmt.Printf("  Trades:          %6d\n", r.TotalTrades)
	fmt.Printf("  Win Rate:        %11.2f%%\n", r.WinRatePct)
	fmt.Printf("  Profit Factor:   %12.2f\n", r.ProfitFactor)
	fmt.Printf("  Avg Return:      %11.2f%%\n", r.AvgReturnPct)
	fmt.Printf("  Avg Hold:        %9.1f days\n", r.AvgHoldDays)
	fmt.Println()

	if len(r.ByStrategy) == 0 {
		return
	}
	names := make([]string, 0, len(r.ByStrategy))
	for name := range r.ByStrategy {
		names = append(names, string(name))
	}
	sort.Strings(names)

	fmt.Println("By Strategy")
	for _, name := range names {
		s := r.ByStrategy[strategies.Name(name)]
		fmt.Printf("  %-15s trades=%-4d netPnL=%10.2f avgReturn=%6.2f%%\n",
			name, s.Trades, s.NetPnL, s.AvgReturnPct)
	}

	if len(r.ExitReasons) == 0 {
		return
	}
	reasons := make([]string, 0, len(r.ExitReasons))
	for reason := range r.ExitReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	fmt.Println("\nExit Reasons")
	for _, reason := range reasons {
		fmt.Printf("  %-18s %d\n", reason, r.ExitReasons[reason])
	}
}
