package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spotarb/spot-arb/internal/exchange"
	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/internal/universe"
	"github.com/spotarb/spot-arb/pkg/config"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the cross-venue USDT symbol universe",
	Long: `Loads market listings from the configured venues and prints the
USDT-quoted spot symbols tradable on at least two of them.`,
	RunE: runSymbols,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AdapterTimeout*2)
	defer cancel()

	for _, symbol := range uni.CommonUSDTSymbols(ctx) {
		fmt.Println(symbol)
	}
	return nil
}

// newRegistry builds an adapter registry for one-shot CLI commands. No
// response cache: a single pass has nothing to reuse.
func newRegistry(cfg *config.Config, logger *zap.Logger) (*exchange.Registry, error) {
	return exchange.NewRegistry(&exchange.RegistryConfig{
		Venues:    cfg.ScanVenues,
		Timeout:   cfg.AdapterTimeout,
		RateRPS:   cfg.AdapterRateRPS,
		RateBurst: cfg.AdapterRateBurst,
		Logger:    logger,
	})
}
