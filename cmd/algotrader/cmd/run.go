package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/algotrader/broker"
	"github.com/rustyeddy/algotrader/broker/dhan"
	"github.com/rustyeddy/algotrader/broker/paper"
	"github.com/rustyeddy/algotrader/config"
	"github.com/rustyeddy/algotrader/engine"
	"github.com/rustyeddy/algotrader/journal"
	"github.com/rustyeddy/algotrader/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a live or paper trading session",
	Long: `Start the trading engine with settings from a configuration file.

In paper mode orders fill instantly against a simulated account while market
data still comes from the broker. Live mode requires DHAN_CLIENT_ID and
DHAN_ACCESS_TOKEN in the environment.

Example:
  algotrader run --config trading.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger()

	clientID := os.Getenv("DHAN_CLIENT_ID")
	token := os.Getenv("DHAN_ACCESS_TOKEN")
	if cfg.Broker.Mode == "live" && (clientID == "" || token == "") {
		return fmt.Errorf("live mode requires DHAN_CLIENT_ID and DHAN_ACCESS_TOKEN")
	}

	feed := dhan.NewClient(clientID, token, log)

	var client broker.Client
	if cfg.Broker.Mode == "paper" {
		client = paper.New(feed, cfg.Broker.PaperCapital, log)
	} else {
		client = feed
	}

	jour, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	if cfg.Metrics.Enabled {
		srv := metrics.Serve(cfg.Metrics.Listen)
		defer srv.Close()
		log.Info().Str("listen", cfg.Metrics.Listen).Msg("metrics enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg, client, jour, log)
	return eng.Run(ctx)
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
