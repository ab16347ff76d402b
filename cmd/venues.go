package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spotarb/spot-arb/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List supported venues",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range types.Venues() {
			fmt.Println(v)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(venuesCmd)
}
