package cmd

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spotarb/spot-arb/internal/engine"
	"github.com/spotarb/spot-arb/internal/fetcher"
	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/internal/scanner"
	"github.com/spotarb/spot-arb/internal/store"
	"github.com/spotarb/spot-arb/internal/universe"
	"github.com/spotarb/spot-arb/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan tick and print the opportunities",
	Long: `Runs one scan tick over the first batch of the symbol universe and
prints the detected opportunities as JSON. Useful for smoke-testing venue
connectivity and threshold settings without starting the service.`,
	RunE: runScanOnce,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScanOnce(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	registry, err := newRegistry(cfg, logger)
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}

	marketsCache := markets.NewCache(registry, logger)
	uni := universe.New(marketsCache, cfg.ScanVenues, logger)
	pairFetcher := fetcher.New(registry, marketsCache, logger)
	eng := engine.New(engine.Config{
		TradeSizeUSDT:   cfg.TradeSizeUSDT,
		MinRawSpreadPct: cfg.MinRawSpreadPct,
		MinTradeUSDT:    cfg.MinTradeUSDT,
		Debug:           cfg.Debug,
		Logger:          logger,
	})

	loop := scanner.New(scanner.Config{
		Interval:  cfg.ScanInterval,
		BatchSize: cfg.ScanBatchSize,
		Venues:    cfg.ScanVenues,
		Logger:    logger,
	}, uni, pairFetcher, eng, store.New(logger), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AdapterTimeout*2)
	defer cancel()

	opportunities := loop.RunOnce(ctx)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(opportunities)
}
