package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "spot-arb",
	Short: "Cross-exchange spot arbitrage scanner",
	Long: `Continuously scans spot markets across centralized exchanges for
cross-venue arbitrage opportunities on USDT pairs.

The scanner loads each venue's market listing once, computes the set of
symbols tradable on at least two venues, and walks that universe in
batches: fetching tickers and order books, simulating a fixed-notional
buy/sell round trip including fees and slippage, and publishing ranked
opportunities over HTTP and WebSocket.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
