// Package labor provides labor rule evaluation and labor group
// eligibility policies.
package labor

import (
	"sort"

	"github.com/shopspring/decimal"

	"fence-bom/core/calc"
	"fence-bom/core/condition"
	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

// Evaluator computes labor line items from the active labor rules
type Evaluator struct{}

// NewEvaluator creates a labor evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// CalculateLabor evaluates each rule's condition against the context and
// produces a line item for every eligible rule with a resolvable rate and
// a positive quantity. A missing rate records a data gap and skips the
// line; the calculation still completes. A malformed condition or an
// unrecognized quantity formula aborts the calculation.
func (e *Evaluator) CalculateLabor(ctx *types.CalculationContext, rules []types.LaborRuleWithDetails, rates types.LaborRates) ([]types.LaborCalculation, []types.DataGap, error) {
	applicable := make([]types.LaborRuleWithDetails, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		if !styleMatches(ctx.SKU, rule.StyleID) {
			continue
		}
		applicable = append(applicable, rule)
	}

	// Descending priority; ties break on ID so output order is stable.
	sort.Slice(applicable, func(i, j int) bool {
		if applicable[i].Priority != applicable[j].Priority {
			return applicable[i].Priority > applicable[j].Priority
		}
		return applicable[i].ID < applicable[j].ID
	})

	var (
		lines []types.LaborCalculation
		gaps  []types.DataGap
	)
	for _, rule := range applicable {
		cond, err := condition.Parse(rule.Condition)
		if err != nil {
			return nil, nil, errors.Wrap(errors.TypeConfig,
				"labor rule "+rule.ID+" has a malformed condition", err)
		}
		if !cond.Eval(ctx) {
			continue
		}

		quantity, err := Quantity(ctx, rule.QuantityFormula)
		if err != nil {
			return nil, nil, err
		}
		if !quantity.IsPositive() {
			continue
		}

		rate, ok := rates[rule.LaborCodeID]
		if !ok {
			gaps = append(gaps, types.DataGap{
				Kind:   types.GapMissingRate,
				Code:   rule.Code.SKU,
				Detail: "no rate for business unit " + ctx.Input.BusinessUnitID + "; line omitted",
			})
			continue
		}

		lines = append(lines, types.LaborCalculation{
			RuleID:      rule.ID,
			LaborSKU:    rule.Code.SKU,
			Description: rule.Code.Description,
			Quantity:    quantity,
			UnitType:    rule.Code.UnitType,
			Rate:        rate,
			TotalCost:   quantity.Mul(rate),
		})
	}
	return lines, gaps, nil
}

// styleMatches reports whether a rule's style scope covers the SKU.
// Style-null rules apply to every style of the type.
func styleMatches(sku *types.ProductSKUWithDetails, ruleStyleID *string) bool {
	if ruleStyleID == nil {
		return true
	}
	return sku.StyleID != nil && *sku.StyleID == *ruleStyleID
}

// Quantity resolves a symbolic quantity formula against the context.
// "posts" and "sections" delegate to the same geometry the material
// calculators use. An unrecognized formula name is a configuration
// error: defaulting silently would mis-price the line.
func Quantity(ctx *types.CalculationContext, formula string) (decimal.Decimal, error) {
	switch formula {
	case "net_length":
		return decimal.NewFromFloat(ctx.Input.NetLength), nil
	case "gates":
		return decimal.NewFromInt(int64(ctx.Input.Gates)), nil
	case "lines":
		return decimal.NewFromInt(int64(ctx.Input.Lines)), nil
	case "posts":
		return decimal.NewFromInt(int64(calc.PostCount(ctx))), nil
	case "sections":
		return decimal.NewFromInt(int64(calc.SectionCount(ctx))), nil
	}
	return decimal.Zero, errors.Configf("unrecognized labor quantity formula %q", formula)
}
