// Package calc - result aggregation
package calc

import (
	"github.com/shopspring/decimal"

	"fence-bom/core/types"
)

// Aggregate sums material and labor line items into a CalculationResult
// and attaches the audit snapshot. gaps are the data gaps recorded by the
// material and labor stages.
func Aggregate(materials []types.MaterialCalculation, labor []types.LaborCalculation, ctx *types.CalculationContext, gaps []types.DataGap) *types.CalculationResult {
	totalMaterial := decimal.Zero
	for _, m := range materials {
		totalMaterial = totalMaterial.Add(m.TotalCost)
	}

	totalLabor := decimal.Zero
	for _, l := range labor {
		totalLabor = totalLabor.Add(l.TotalCost)
	}

	return &types.CalculationResult{
		Materials:         materials,
		Labor:             labor,
		TotalMaterialCost: totalMaterial,
		TotalLaborCost:    totalLabor,
		TotalCost:         totalMaterial.Add(totalLabor),
		Debug: types.DebugSnapshot{
			PostCount:    PostCount(ctx),
			SectionCount: SectionCount(ctx),
			PostSpacing:  ctx.PostSpacing(),
			Parameters:   ctx.Parameters,
			Gaps:         gaps,
		},
	}
}
