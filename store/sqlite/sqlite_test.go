package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSKURoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pt := &types.ProductType{Code: "FENCE", Name: "Wood Fence", DefaultPostSpacing: 8}
	if err := s.CreateProductType(ctx, pt); err != nil {
		t.Fatal(err)
	}
	style := &types.ProductStyle{
		ProductTypeID:      pt.ID,
		Code:               "SHADOWBOX",
		Name:               "Shadowbox",
		FormulaAdjustments: map[string]float64{"picket_multiplier": 2},
	}
	if err := s.CreateStyle(ctx, style); err != nil {
		t.Fatal(err)
	}

	sku := &types.ProductSKU{
		SKU:           "WF-SB-6",
		Name:          "6ft Shadowbox",
		ProductTypeID: pt.ID,
		StyleID:       &style.ID,
		Height:        6,
	}
	bindings := []types.MaterialBinding{
		{ComponentCode: "post", MaterialSKU: "PST-44-8", UnitType: "each",
			UnitCost:   decimal.NewFromFloat(10.25),
			Attributes: map[string]float64{"length_ft": 8}},
	}
	if err := s.CreateSKU(ctx, sku, bindings); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSKU(ctx, sku.ID)
	if err != nil {
		t.Fatalf("GetSKU returned error: %v", err)
	}
	if got.ProductType.Code != "FENCE" {
		t.Errorf("product type code = %q, want FENCE", got.ProductType.Code)
	}
	if got.Style == nil || got.Style.FormulaAdjustments["picket_multiplier"] != 2 {
		t.Error("style adjustments not round-tripped")
	}
	if len(got.Bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(got.Bindings))
	}
	if !got.Bindings[0].UnitCost.Equal(decimal.NewFromFloat(10.25)) {
		t.Errorf("unit cost = %s, want 10.25", got.Bindings[0].UnitCost)
	}
	if got.Bindings[0].Attr("length_ft", 0) != 8 {
		t.Error("binding attributes not round-tripped")
	}
}

func TestGetSKUNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetSKU(context.Background(), "missing")
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected TypeNotFound, got %v", err)
	}
}

func TestLaborRuleConditionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pt := &types.ProductType{Code: "FENCE", Name: "Wood Fence"}
	if err := s.CreateProductType(ctx, pt); err != nil {
		t.Fatal(err)
	}
	code := &types.LaborCode{SKU: "LAB-TALL", Description: "Tall fence surcharge", UnitType: "lf"}
	if err := s.CreateLaborCode(ctx, code); err != nil {
		t.Fatal(err)
	}
	rule := &types.LaborRule{
		ProductTypeID: pt.ID,
		LaborCodeID:   code.ID,
		Condition: map[string]interface{}{
			"height": map[string]interface{}{"min": 7.0},
		},
		QuantityFormula: "net_length",
		Priority:        5,
		IsActive:        true,
	}
	if err := s.CreateLaborRule(ctx, rule); err != nil {
		t.Fatal(err)
	}

	rules, err := s.GetLaborRules(ctx, pt.ID, nil)
	if err != nil {
		t.Fatalf("GetLaborRules returned error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Code.SKU != "LAB-TALL" {
		t.Errorf("labor code = %q, want LAB-TALL", rules[0].Code.SKU)
	}
	spec, ok := rules[0].Condition["height"].(map[string]interface{})
	if !ok || spec["min"] != 7.0 {
		t.Errorf("condition not round-tripped: %v", rules[0].Condition)
	}
}

func TestStyleScopedRuleFiltering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pt := &types.ProductType{Code: "FENCE", Name: "Wood Fence"}
	if err := s.CreateProductType(ctx, pt); err != nil {
		t.Fatal(err)
	}
	styleA := &types.ProductStyle{ProductTypeID: pt.ID, Code: "A", Name: "A"}
	styleB := &types.ProductStyle{ProductTypeID: pt.ID, Code: "B", Name: "B"}
	for _, st := range []*types.ProductStyle{styleA, styleB} {
		if err := s.CreateStyle(ctx, st); err != nil {
			t.Fatal(err)
		}
	}
	code := &types.LaborCode{SKU: "LAB-X", UnitType: "lf"}
	if err := s.CreateLaborCode(ctx, code); err != nil {
		t.Fatal(err)
	}

	for _, styleID := range []*string{nil, &styleA.ID, &styleB.ID} {
		rule := &types.LaborRule{
			ProductTypeID:   pt.ID,
			StyleID:         styleID,
			LaborCodeID:     code.ID,
			QuantityFormula: "net_length",
			IsActive:        true,
		}
		if err := s.CreateLaborRule(ctx, rule); err != nil {
			t.Fatal(err)
		}
	}

	rules, err := s.GetLaborRules(ctx, pt.ID, &styleA.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Style-null plus style-A; the style-B rule is filtered out.
	if len(rules) != 2 {
		t.Errorf("expected 2 rules for style A, got %d", len(rules))
	}
}

func TestLaborRateUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	code := &types.LaborCode{SKU: "LAB-SET", UnitType: "each"}
	if err := s.CreateLaborCode(ctx, code); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLaborRate(ctx, "bu-1", code.ID, decimal.NewFromInt(10)); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLaborRate(ctx, "bu-1", code.ID, decimal.NewFromInt(12)); err != nil {
		t.Fatal(err)
	}

	rates, err := s.GetLaborRates(ctx, "bu-1")
	if err != nil {
		t.Fatal(err)
	}
	if !rates[code.ID].Equal(decimal.NewFromInt(12)) {
		t.Errorf("rate = %s, want 12 after upsert", rates[code.ID])
	}

	empty, err := s.GetLaborRates(ctx, "bu-unknown")
	if err != nil {
		t.Fatalf("unknown business unit must yield empty table, got %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty rate table, got %v", empty)
	}
}

func TestOptionalSingleGroupRejected(t *testing.T) {
	s := openTestStore(t)
	group := &types.LaborGroup{Name: "Extras", IsRequired: false, AllowMultiple: false}
	if err := s.CreateLaborGroup(context.Background(), group); err == nil {
		t.Fatal("optional+single group must be rejected at creation")
	}
}

func TestSetDefaultEligibilityInvariant(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pt := &types.ProductType{Code: "FENCE", Name: "Wood Fence"}
	if err := s.CreateProductType(ctx, pt); err != nil {
		t.Fatal(err)
	}
	group := &types.LaborGroup{Name: "Post Setting", IsRequired: true, AllowMultiple: false}
	if err := s.CreateLaborGroup(ctx, group); err != nil {
		t.Fatal(err)
	}

	var entries []*types.LaborGroupEligibility
	for _, sku := range []string{"LAB-HAND", "LAB-AUGER", "LAB-CORE"} {
		code := &types.LaborCode{SKU: sku, UnitType: "each"}
		if err := s.CreateLaborCode(ctx, code); err != nil {
			t.Fatal(err)
		}
		entry := &types.LaborGroupEligibility{
			GroupID:       group.ID,
			LaborCodeID:   code.ID,
			ProductTypeID: pt.ID,
			IsDefault:     sku == "LAB-HAND",
		}
		if err := s.CreateEligibility(ctx, entry); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, entry)
	}

	if err := s.SetDefaultEligibility(ctx, group.ID, entries[2].ID); err != nil {
		t.Fatalf("SetDefaultEligibility returned error: %v", err)
	}

	listed, err := s.ListEligibility(ctx, group.ID)
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, e := range listed {
		if e.IsDefault {
			defaults++
			if e.ID != entries[2].ID {
				t.Errorf("wrong default entry %q", e.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("expected exactly one default, got %d", defaults)
	}

	if err := s.SetDefaultEligibility(ctx, group.ID, "missing"); err == nil {
		t.Error("unknown entry must fail without clearing defaults")
	}
}
