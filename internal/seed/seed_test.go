package seed

import (
	"context"
	"testing"

	"fence-bom/core/engine"
	"fence-bom/core/types"
	"fence-bom/store/memory"
)

func TestSeedProducesCalculableCatalog(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	stats, err := Run(ctx, s)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.ProductTypes != 1 || stats.SKUs != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	skus, err := s.ListSKUs(ctx)
	if err != nil || len(skus) != 1 {
		t.Fatalf("expected 1 seeded SKU, got %d (err %v)", len(skus), err)
	}

	result, err := engine.New(s, nil).CalculateSKU(ctx, skus[0].ID, types.CalculationInput{
		NetLength:      120,
		Lines:          2,
		Gates:          1,
		BusinessUnitID: DemoBusinessUnit,
	})
	if err != nil {
		t.Fatalf("seeded catalog must be calculable: %v", err)
	}

	if len(result.Materials) == 0 || len(result.Labor) == 0 {
		t.Error("expected material and labor lines from seeded catalog")
	}
	if !result.TotalCost.IsPositive() {
		t.Errorf("total cost = %s, want positive", result.TotalCost)
	}
	// Every component is bound in the seed; no gaps expected.
	if len(result.Debug.Gaps) != 0 {
		t.Errorf("unexpected gaps: %v", result.Debug.Gaps)
	}
}
