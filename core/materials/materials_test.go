package materials

import (
	"testing"

	"github.com/shopspring/decimal"

	"fence-bom/core/types"
)

func fenceContext(netLength float64, lines, gates int, bindings ...types.MaterialBinding) *types.CalculationContext {
	componentMaterials := make(map[string]types.MaterialBinding, len(bindings))
	for _, b := range bindings {
		componentMaterials[b.ComponentCode] = b
	}
	return &types.CalculationContext{
		SKU: &types.ProductSKUWithDetails{
			ProductSKU:  types.ProductSKU{ID: "sku-1", Height: 6},
			ProductType: types.ProductType{Code: "FENCE", DefaultPostSpacing: 8},
			Bindings:    bindings,
		},
		Input: types.CalculationInput{
			NetLength:      netLength,
			Lines:          lines,
			Gates:          gates,
			BusinessUnitID: "bu-1",
		},
		Parameters:         map[string]float64{},
		ComponentMaterials: componentMaterials,
	}
}

func binding(code, sku string, unitCost float64) types.MaterialBinding {
	return types.MaterialBinding{
		ComponentCode: code,
		MaterialSKU:   sku,
		UnitType:      "each",
		UnitCost:      decimal.NewFromFloat(unitCost),
	}
}

func findLine(t *testing.T, lines []types.MaterialCalculation, code string) types.MaterialCalculation {
	t.Helper()
	for _, line := range lines {
		if line.ComponentCode == code {
			return line
		}
	}
	t.Fatalf("no line for component %q", code)
	return types.MaterialCalculation{}
}

func TestFencePostLine(t *testing.T) {
	ctx := fenceContext(100, 2, 0, binding(ComponentPost, "PST-44-8", 10))

	lines, _, err := NewFenceCalculator().CalculateMaterials(ctx)
	if err != nil {
		t.Fatalf("CalculateMaterials returned error: %v", err)
	}

	post := findLine(t, lines, ComponentPost)
	if !post.Quantity.Equal(decimal.NewFromInt(14)) {
		t.Errorf("post quantity = %s, want 14", post.Quantity)
	}
	if !post.TotalCost.Equal(decimal.NewFromInt(140)) {
		t.Errorf("post total = %s, want 140", post.TotalCost)
	}
}

func TestFenceUnboundPostOmittedNotFatal(t *testing.T) {
	// Posts are needed but unbound: no line, no error, one gap.
	ctx := fenceContext(100, 2, 0, binding(ComponentPicket, "PKT-16-6", 2.5))

	lines, gaps, err := NewFenceCalculator().CalculateMaterials(ctx)
	if err != nil {
		t.Fatalf("CalculateMaterials returned error: %v", err)
	}
	for _, line := range lines {
		if line.ComponentCode == ComponentPost {
			t.Fatal("unbound post must not produce a line")
		}
	}

	found := false
	for _, gap := range gaps {
		if gap.Kind == types.GapMissingMaterial && gap.Code == ComponentPost {
			found = true
		}
	}
	if !found {
		t.Error("expected a missing_material gap for post")
	}
}

func TestFencePicketWidthFromBindingAttribute(t *testing.T) {
	picket := binding(ComponentPicket, "PKT-16-6", 2.5)
	picket.Attributes = map[string]float64{"width_in": 6}
	ctx := fenceContext(10, 1, 0, picket)

	lines, _, err := NewFenceCalculator().CalculateMaterials(ctx)
	if err != nil {
		t.Fatalf("CalculateMaterials returned error: %v", err)
	}

	// 10 ft * 12 in / 6 in = 20 pickets.
	line := findLine(t, lines, ComponentPicket)
	if !line.Quantity.Equal(decimal.NewFromInt(20)) {
		t.Errorf("picket quantity = %s, want 20", line.Quantity)
	}
}

func TestFenceStyleMultiplierDoublesPickets(t *testing.T) {
	picket := binding(ComponentPicket, "PKT-16-6", 2.5)
	picket.Attributes = map[string]float64{"width_in": 6}
	ctx := fenceContext(10, 1, 0, picket)
	ctx.SKU.Style = &types.ProductStyle{
		Code:               "SHADOWBOX",
		FormulaAdjustments: map[string]float64{"picket_multiplier": 2},
	}

	lines, _, err := NewFenceCalculator().CalculateMaterials(ctx)
	if err != nil {
		t.Fatalf("CalculateMaterials returned error: %v", err)
	}

	line := findLine(t, lines, ComponentPicket)
	if !line.Quantity.Equal(decimal.NewFromInt(40)) {
		t.Errorf("picket quantity = %s, want 40 with shadowbox multiplier", line.Quantity)
	}
}

func TestFenceGateHardwareOnlyWithGates(t *testing.T) {
	hw := binding(ComponentGateHardware, "GH-KIT", 45)

	noGates := fenceContext(100, 2, 0, hw)
	lines, gaps, _ := NewFenceCalculator().CalculateMaterials(noGates)
	for _, line := range lines {
		if line.ComponentCode == ComponentGateHardware {
			t.Error("no gate hardware line expected with zero gates")
		}
	}
	for _, gap := range gaps {
		if gap.Code == ComponentGateHardware {
			t.Error("zero-quantity component must not be reported as a gap")
		}
	}

	twoGates := fenceContext(100, 2, 2, hw)
	lines, _, _ = NewFenceCalculator().CalculateMaterials(twoGates)
	line := findLine(t, lines, ComponentGateHardware)
	if !line.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("gate hardware quantity = %s, want 2", line.Quantity)
	}
}

func TestFenceQuantitiesNeverNegative(t *testing.T) {
	ctx := fenceContext(0, 0, 0,
		binding(ComponentPost, "PST-44-8", 10),
		binding(ComponentRail, "RL-28-8", 4),
		binding(ComponentPicket, "PKT-16-6", 2.5),
	)

	lines, _, err := NewFenceCalculator().CalculateMaterials(ctx)
	if err != nil {
		t.Fatalf("CalculateMaterials returned error: %v", err)
	}
	for _, line := range lines {
		if line.Quantity.IsNegative() || line.TotalCost.IsNegative() {
			t.Errorf("line %s has negative quantity or cost", line.ComponentCode)
		}
	}
}

func TestRailingBalusters(t *testing.T) {
	ctx := fenceContext(8, 1, 0,
		binding(ComponentPost, "RP-33", 20),
		binding(ComponentBaluster, "BAL-1", 3),
	)
	ctx.SKU.ProductType.Code = "RAILING"

	lines, _, err := NewRailingCalculator().CalculateMaterials(ctx)
	if err != nil {
		t.Fatalf("CalculateMaterials returned error: %v", err)
	}

	// 8 ft * 12 in / 4 in default spacing = 24 balusters.
	line := findLine(t, lines, ComponentBaluster)
	if !line.Quantity.Equal(decimal.NewFromInt(24)) {
		t.Errorf("baluster quantity = %s, want 24", line.Quantity)
	}
}

func TestRegistryUnknownCodeIsConfigError(t *testing.T) {
	registry := DefaultRegistry()

	if _, err := registry.Get("FENCE"); err != nil {
		t.Fatalf("expected FENCE calculator, got error: %v", err)
	}
	if _, err := registry.Get("PERGOLA"); err == nil {
		t.Fatal("unknown product type code must be a configuration error")
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(NewFenceCalculator()); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if err := registry.Register(NewFenceCalculator()); err == nil {
		t.Fatal("duplicate Register must fail")
	}
}
