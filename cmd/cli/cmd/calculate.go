// Package cmd - calculate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fence-bom/core/engine"
	"fence-bom/core/types"
	"fence-bom/internal/config"
	"fence-bom/store/sqlite"
)

var (
	calcSKU          string
	calcLength       float64
	calcLines        int
	calcGates        int
	calcBusinessUnit string
	calcFormat       string
	calcDBPath       string
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the bill of materials for a fence job",
	Long: `Calculate materials and labor for a product SKU and job dimensions.

The SKU flag accepts either the record ID or the SKU code. Results are
printed as a table by default, or as JSON with --format json.

Examples:
  fence-bom calculate --sku WF-PRV-6-CDR --length 120 --business-unit bu-demo
  fence-bom calculate --sku WF-PRV-6-CDR --length 250 --lines 4 --gates 2 --business-unit bu-demo --format json`,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVarP(&calcSKU, "sku", "s", "", "product SKU id or code (required)")
	calculateCmd.Flags().Float64VarP(&calcLength, "length", "l", 0, "net fence length in feet (required)")
	calculateCmd.Flags().IntVar(&calcLines, "lines", 2, "number of fence lines")
	calculateCmd.Flags().IntVarP(&calcGates, "gates", "g", 0, "number of gates")
	calculateCmd.Flags().StringVarP(&calcBusinessUnit, "business-unit", "b", "", "business unit for labor rates (required)")
	calculateCmd.Flags().StringVarP(&calcFormat, "format", "f", "table", "output format (table, json)")
	calculateCmd.Flags().StringVar(&calcDBPath, "db", "", "path to the configuration database")
	calculateCmd.MarkFlagRequired("sku")
	calculateCmd.MarkFlagRequired("length")
	calculateCmd.MarkFlagRequired("business-unit")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	skuID, err := resolveSKU(ctx, st, calcSKU)
	if err != nil {
		return err
	}

	eng := engine.New(st, nil)
	result, err := eng.CalculateSKU(ctx, skuID, types.CalculationInput{
		NetLength:      calcLength,
		Lines:          calcLines,
		Gates:          calcGates,
		BusinessUnitID: calcBusinessUnit,
	})
	if err != nil {
		return err
	}

	if calcFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printResultTable(result)
	return nil
}

// openStore opens the SQLite configuration store, preferring the --db
// flag over the configured database path.
func openStore() (*sqlite.Store, error) {
	path := calcDBPath
	if path == "" {
		path = config.Get().Store.DatabasePath
	}
	return sqlite.Open(path)
}

// resolveSKU accepts either a record ID or a SKU code.
func resolveSKU(ctx context.Context, st *sqlite.Store, ref string) (string, error) {
	if _, err := st.GetSKU(ctx, ref); err == nil {
		return ref, nil
	}
	skus, err := st.ListSKUs(ctx)
	if err != nil {
		return "", err
	}
	for _, sku := range skus {
		if sku.SKU == ref {
			return sku.ID, nil
		}
	}
	return "", fmt.Errorf("unknown SKU %q", ref)
}

func printResultTable(result *types.CalculationResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "MATERIALS")
	fmt.Fprintln(w, "SKU\tDESCRIPTION\tQTY\tUNIT\tCOST")
	for _, m := range result.Materials {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.MaterialSKU, m.Description, m.Quantity.String(), m.UnitType, m.TotalCost.StringFixed(2))
	}
	fmt.Fprintf(w, "\tMaterial total\t\t\t%s\n", result.TotalMaterialCost.StringFixed(2))

	fmt.Fprintln(w, "\nLABOR")
	fmt.Fprintln(w, "CODE\tDESCRIPTION\tQTY\tRATE\tCOST")
	for _, l := range result.Labor {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			l.LaborSKU, l.Description, l.Quantity.String(), l.Rate.StringFixed(2), l.TotalCost.StringFixed(2))
	}
	fmt.Fprintf(w, "\tLabor total\t\t\t%s\n", result.TotalLaborCost.StringFixed(2))

	fmt.Fprintf(w, "\nTOTAL\t\t\t\t%s\n", result.TotalCost.StringFixed(2))
	w.Flush()

	if len(result.Debug.Gaps) > 0 {
		fmt.Println("\nWarnings:")
		for _, gap := range result.Debug.Gaps {
			fmt.Printf("  - %s: %s (%s)\n", gap.Kind, gap.Code, gap.Detail)
		}
	}
}
