// Package materials - fence family calculator
package materials

import (
	"math"

	"github.com/shopspring/decimal"

	"fence-bom/core/calc"
	"fence-bom/core/types"
)

// Fence component codes
const (
	ComponentPost         = "post"
	ComponentRail         = "rail"
	ComponentPicket       = "picket"
	ComponentConcrete     = "concrete"
	ComponentGateHardware = "gate_hardware"
)

// FenceCalculator computes materials for the fence product family
type FenceCalculator struct{}

// NewFenceCalculator creates a fence calculator
func NewFenceCalculator() *FenceCalculator {
	return &FenceCalculator{}
}

// ProductTypeCode returns the family code
func (c *FenceCalculator) ProductTypeCode() string {
	return "FENCE"
}

// CalculateMaterials computes the fence bill of materials:
// posts from the shared post formula, rails per section, pickets from
// picket width and gap, concrete bags per post, and gate hardware per
// gate. Style formula adjustments apply as per-component quantity
// multipliers.
func (c *FenceCalculator) CalculateMaterials(ctx *types.CalculationContext) ([]types.MaterialCalculation, []types.DataGap, error) {
	posts := float64(calc.PostCount(ctx))
	sections := float64(calc.SectionCount(ctx))

	lines := newLineBuilder(ctx)
	lines.addWhole(ComponentPost, posts)
	lines.addWhole(ComponentRail, sections*ctx.ParamOr("rails_per_section", 2))
	lines.addWhole(ComponentPicket, c.picketCount(ctx))
	lines.addWhole(ComponentConcrete, posts*ctx.ParamOr("concrete_bags_per_post", 1))
	lines.addWhole(ComponentGateHardware, float64(ctx.Input.Gates))
	return lines.build()
}

// picketCount derives pickets from the run length and picket geometry.
// Picket width prefers the bound material's physical attribute, then the
// resolved parameter, then a 1x6 nominal width.
func (c *FenceCalculator) picketCount(ctx *types.CalculationContext) float64 {
	width := ctx.ParamOr("picket_width", 5.5)
	if binding, ok := ctx.Binding(ComponentPicket); ok {
		width = binding.Attr("width_in", width)
	}
	gap := ctx.ParamOr("picket_gap", 0)
	pitch := width + gap
	if pitch <= 0 {
		return 0
	}
	return math.Ceil(ctx.Input.NetLength * 12 / pitch)
}

// lineBuilder accumulates material lines and data gaps for one family
type lineBuilder struct {
	ctx   *types.CalculationContext
	lines []types.MaterialCalculation
	gaps  []types.DataGap
}

func newLineBuilder(ctx *types.CalculationContext) *lineBuilder {
	return &lineBuilder{ctx: ctx}
}

// addWhole adds a line for a component with a whole-unit quantity.
// Negative quantities clamp to zero; zero quantities emit nothing. An
// unbound component with a positive quantity is a data gap, not a line
// and not an error.
func (b *lineBuilder) addWhole(code string, quantity float64) {
	quantity *= b.ctx.Adjustment(code+"_multiplier", 1)
	quantity = math.Ceil(math.Max(quantity, 0))
	if quantity <= 0 {
		return
	}

	binding, ok := b.ctx.Binding(code)
	if !ok {
		b.gaps = append(b.gaps, types.DataGap{
			Kind:   types.GapMissingMaterial,
			Code:   code,
			Detail: "component has no bound material; line omitted",
		})
		return
	}

	qty := decimal.NewFromFloat(quantity)
	b.lines = append(b.lines, types.MaterialCalculation{
		ComponentCode: code,
		MaterialSKU:   binding.MaterialSKU,
		Description:   binding.Description,
		Quantity:      qty,
		UnitType:      binding.UnitType,
		UnitCost:      binding.UnitCost,
		TotalCost:     qty.Mul(binding.UnitCost),
	})
}

// addLinear adds a line billed in linear feet of run
func (b *lineBuilder) addLinear(code string, lengthFt float64) {
	lengthFt = math.Max(lengthFt, 0)
	lengthFt *= b.ctx.Adjustment(code+"_multiplier", 1)
	if lengthFt <= 0 {
		return
	}

	binding, ok := b.ctx.Binding(code)
	if !ok {
		b.gaps = append(b.gaps, types.DataGap{
			Kind:   types.GapMissingMaterial,
			Code:   code,
			Detail: "component has no bound material; line omitted",
		})
		return
	}

	qty := decimal.NewFromFloat(lengthFt)
	b.lines = append(b.lines, types.MaterialCalculation{
		ComponentCode: code,
		MaterialSKU:   binding.MaterialSKU,
		Description:   binding.Description,
		Quantity:      qty,
		UnitType:      binding.UnitType,
		UnitCost:      binding.UnitCost,
		TotalCost:     qty.Mul(binding.UnitCost),
	})
}

func (b *lineBuilder) build() ([]types.MaterialCalculation, []types.DataGap, error) {
	return b.lines, b.gaps, nil
}
