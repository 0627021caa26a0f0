// Package materials - railing family calculator
package materials

import (
	"math"

	"fence-bom/core/calc"
	"fence-bom/core/types"
)

// Railing component codes
const (
	ComponentTopRail    = "top_rail"
	ComponentBottomRail = "bottom_rail"
	ComponentBaluster   = "baluster"
)

// RailingCalculator computes materials for the railing product family.
// Simpler geometry than fence: posts by spacing, continuous top rail by
// run length, balusters by on-center spacing.
type RailingCalculator struct{}

// NewRailingCalculator creates a railing calculator
func NewRailingCalculator() *RailingCalculator {
	return &RailingCalculator{}
}

// ProductTypeCode returns the family code
func (c *RailingCalculator) ProductTypeCode() string {
	return "RAILING"
}

// CalculateMaterials computes the railing bill of materials
func (c *RailingCalculator) CalculateMaterials(ctx *types.CalculationContext) ([]types.MaterialCalculation, []types.DataGap, error) {
	posts := float64(calc.PostCount(ctx))

	lines := newLineBuilder(ctx)
	lines.addWhole(ComponentPost, posts)
	lines.addLinear(ComponentTopRail, ctx.Input.NetLength)
	lines.addLinear(ComponentBottomRail, ctx.Input.NetLength)
	lines.addWhole(ComponentBaluster, c.balusterCount(ctx))
	return lines.build()
}

// balusterCount derives balusters from on-center spacing in inches
func (c *RailingCalculator) balusterCount(ctx *types.CalculationContext) float64 {
	spacing := ctx.ParamOr("baluster_spacing", 4)
	if spacing <= 0 {
		return 0
	}
	return math.Ceil(ctx.Input.NetLength * 12 / spacing)
}
