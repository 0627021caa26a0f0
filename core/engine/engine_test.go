package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"fence-bom/core/types"
	"fence-bom/internal/errors"
	"fence-bom/store/memory"
)

// seedStore builds a small fence catalog: one product type, one style,
// bound post/rail/picket components, a post-setting labor rule, and a
// rate table for one business unit.
func seedStore(t *testing.T) (*memory.Store, string) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()

	pt := &types.ProductType{Code: "FENCE", Name: "Wood Fence", DefaultPostSpacing: 8}
	if err := s.CreateProductType(ctx, pt); err != nil {
		t.Fatal(err)
	}

	style := &types.ProductStyle{ProductTypeID: pt.ID, Code: "PRIVACY", Name: "Privacy"}
	if err := s.CreateStyle(ctx, style); err != nil {
		t.Fatal(err)
	}

	sku := &types.ProductSKU{
		SKU:           "WF-PRV-6",
		Name:          "6ft Privacy Fence",
		ProductTypeID: pt.ID,
		StyleID:       &style.ID,
		Height:        6,
	}
	bindings := []types.MaterialBinding{
		{ComponentCode: "post", MaterialSKU: "PST-44-8", UnitType: "each",
			UnitCost: decimal.NewFromInt(10)},
		{ComponentCode: "rail", MaterialSKU: "RL-24-8", UnitType: "each",
			UnitCost: decimal.NewFromInt(4)},
		{ComponentCode: "picket", MaterialSKU: "PKT-16-6", UnitType: "each",
			UnitCost: decimal.NewFromFloat(2.5),
			Attributes: map[string]float64{"width_in": 6}},
	}
	if err := s.CreateSKU(ctx, sku, bindings); err != nil {
		t.Fatal(err)
	}

	code := &types.LaborCode{SKU: "LAB-POST-SET", Description: "Set posts", UnitType: "each"}
	if err := s.CreateLaborCode(ctx, code); err != nil {
		t.Fatal(err)
	}
	rule := &types.LaborRule{
		ProductTypeID:   pt.ID,
		LaborCodeID:     code.ID,
		QuantityFormula: "posts",
		Priority:        10,
		IsActive:        true,
	}
	if err := s.CreateLaborRule(ctx, rule); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLaborRate(ctx, "bu-1", code.ID, decimal.NewFromInt(12)); err != nil {
		t.Fatal(err)
	}

	return s, sku.ID
}

func TestCalculateEndToEnd(t *testing.T) {
	s, skuID := seedStore(t)
	eng := New(s, nil)

	input := types.CalculationInput{NetLength: 100, Lines: 2, Gates: 0, BusinessUnitID: "bu-1"}
	result, err := eng.CalculateSKU(context.Background(), skuID, input)
	if err != nil {
		t.Fatalf("CalculateSKU returned error: %v", err)
	}

	if result.Debug.PostCount != 14 {
		t.Errorf("post count = %d, want 14", result.Debug.PostCount)
	}
	if result.Debug.SectionCount != 13 {
		t.Errorf("section count = %d, want 13", result.Debug.SectionCount)
	}

	// Posts: 14 * 10 = 140. Labor: 14 posts * 12 = 168.
	if len(result.Labor) != 1 {
		t.Fatalf("expected 1 labor line, got %d", len(result.Labor))
	}
	if !result.Labor[0].TotalCost.Equal(decimal.NewFromInt(168)) {
		t.Errorf("labor total = %s, want 168", result.Labor[0].TotalCost)
	}
	if !result.TotalCost.Equal(result.TotalMaterialCost.Add(result.TotalLaborCost)) {
		t.Error("total must equal material plus labor")
	}

	// Concrete and gate hardware are unbound but gates=0, so only the
	// concrete gap is expected.
	for _, gap := range result.Debug.Gaps {
		if gap.Kind != types.GapMissingMaterial {
			t.Errorf("unexpected gap kind %q", gap.Kind)
		}
	}

	for _, m := range result.Materials {
		if m.Quantity.IsNegative() || m.TotalCost.IsNegative() {
			t.Errorf("negative quantity or cost on %s", m.ComponentCode)
		}
	}
}

func TestCalculateIdempotent(t *testing.T) {
	s, skuID := seedStore(t)
	eng := New(s, nil)
	input := types.CalculationInput{NetLength: 100, Lines: 4, Gates: 1, BusinessUnitID: "bu-1"}

	first, err := eng.CalculateSKU(context.Background(), skuID, input)
	if err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	second, err := eng.CalculateSKU(context.Background(), skuID, input)
	if err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("results differ between identical calls:\n%s\n%s", a, b)
	}
}

func TestCalculateExtraLinesScenario(t *testing.T) {
	s, skuID := seedStore(t)
	eng := New(s, nil)

	input := types.CalculationInput{NetLength: 100, Lines: 4, Gates: 0, BusinessUnitID: "bu-1"}
	result, err := eng.CalculateSKU(context.Background(), skuID, input)
	if err != nil {
		t.Fatalf("CalculateSKU returned error: %v", err)
	}
	if result.Debug.PostCount != 15 {
		t.Errorf("post count = %d, want 15 with lines=4", result.Debug.PostCount)
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	s, skuID := seedStore(t)
	eng := New(s, nil)

	bad := []types.CalculationInput{
		{NetLength: -1, BusinessUnitID: "bu-1"},
		{NetLength: 100, Gates: -1, BusinessUnitID: "bu-1"},
		{NetLength: 100},
	}
	for _, input := range bad {
		_, err := eng.CalculateSKU(context.Background(), skuID, input)
		if err == nil {
			t.Errorf("input %+v should be rejected", input)
			continue
		}
		if !errors.IsType(err, errors.TypeInput) {
			t.Errorf("input %+v: expected TypeInput, got %v", input, err)
		}
	}
}

func TestCalculateUnknownProductTypeIsConfigError(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	pt := &types.ProductType{Code: "PERGOLA", Name: "Pergola"}
	if err := s.CreateProductType(ctx, pt); err != nil {
		t.Fatal(err)
	}
	sku := &types.ProductSKU{SKU: "PG-1", ProductTypeID: pt.ID}
	if err := s.CreateSKU(ctx, sku, nil); err != nil {
		t.Fatal(err)
	}

	eng := New(s, nil)
	_, err := eng.CalculateSKU(ctx, sku.ID,
		types.CalculationInput{NetLength: 10, BusinessUnitID: "bu-1"})
	if err == nil {
		t.Fatal("expected configuration error for unregistered product type")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected TypeConfig, got %v", err)
	}
}

func TestCalculateUnknownSKU(t *testing.T) {
	eng := New(memory.New(), nil)
	_, err := eng.CalculateSKU(context.Background(), "missing",
		types.CalculationInput{NetLength: 10, BusinessUnitID: "bu-1"})
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected TypeNotFound, got %v", err)
	}
}
