// Package cmd - seed command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fence-bom/internal/seed"
)

var seedDBPath string

// seedCmd loads the demo product catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo product catalog into the store",
	Long: `Populate the configuration store with a demo fence catalog:
a wood fence product type with privacy and shadowbox styles, a fully
bound SKU, formula parameters, labor rules, and a demo rate table
under business unit "` + seed.DemoBusinessUnit + `".`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDBPath, "db", "", "path to the configuration database")
}

func runSeed(cmd *cobra.Command, args []string) error {
	calcDBPath = seedDBPath
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	stats, err := seed.Run(context.Background(), st)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	fmt.Printf("Seeded %d product types, %d styles, %d components, %d SKUs,\n",
		stats.ProductTypes, stats.Styles, stats.Components, stats.SKUs)
	fmt.Printf("%d parameters, %d labor codes, %d labor rules, %d groups.\n",
		stats.Parameters, stats.LaborCodes, stats.LaborRules, stats.Groups)
	return nil
}
