// Package engine orchestrates the calculation pipeline: resolve
// parameters, build the context, compute materials and labor, aggregate.
// The engine is the sole entry point; the HTTP API and CLI are thin
// wrappers around it.
package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fence-bom/core/calc"
	"fence-bom/core/labor"
	"fence-bom/core/materials"
	"fence-bom/core/params"
	"fence-bom/core/types"
	"fence-bom/internal/logging"
	"fence-bom/store"
)

// Engine runs BOM calculations against a configuration store
type Engine struct {
	store       store.Store
	calculators *materials.Registry
	labor       *labor.Evaluator
}

// New creates an engine. A nil registry gets the built-in families.
func New(s store.Store, calculators *materials.Registry) *Engine {
	if calculators == nil {
		calculators = materials.DefaultRegistry()
	}
	return &Engine{
		store:       s,
		calculators: calculators,
		labor:       labor.NewEvaluator(),
	}
}

// CalculateSKU loads a SKU by ID and calculates it
func (e *Engine) CalculateSKU(ctx context.Context, skuID string, input types.CalculationInput) (*types.CalculationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	sku, err := e.store.GetSKU(ctx, skuID)
	if err != nil {
		return nil, err
	}
	return e.Calculate(ctx, sku, input)
}

// Calculate computes the bill of materials and labor for one SKU.
// Each call builds its own private context; calculations for different
// SKUs may run fully in parallel. On cancellation the in-flight fetches
// are abandoned and no partial result is returned.
func (e *Engine) Calculate(ctx context.Context, sku *types.ProductSKUWithDetails, input types.CalculationInput) (*types.CalculationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// The calculator lookup is cheap and its failure mode is a fatal
	// configuration error, so check it before any store round trips.
	calculator, err := e.calculators.Get(sku.ProductType.Code)
	if err != nil {
		return nil, err
	}

	// Parameter, rule, and rate fetches are independent reads; issue
	// them concurrently and join before anything touches the results.
	var (
		parameters []types.FormulaParameter
		rules      []types.LaborRuleWithDetails
		rates      types.LaborRates
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		parameters, err = e.store.GetParameters(gctx, sku.ProductTypeID)
		return err
	})
	g.Go(func() error {
		var err error
		rules, err = e.store.GetLaborRules(gctx, sku.ProductTypeID, sku.StyleID)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = e.store.GetLaborRates(gctx, input.BusinessUnitID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := params.Resolve(sku, parameters)
	calcCtx, err := calc.BuildContext(sku, input, resolved)
	if err != nil {
		return nil, err
	}

	materialLines, materialGaps, err := calculator.CalculateMaterials(calcCtx)
	if err != nil {
		return nil, err
	}

	laborLines, laborGaps, err := e.labor.CalculateLabor(calcCtx, rules, rates)
	if err != nil {
		return nil, err
	}

	result := calc.Aggregate(materialLines, laborLines, calcCtx, append(materialGaps, laborGaps...))

	logging.Debug("calculation complete",
		zap.String("sku", sku.SKU),
		zap.String("product_type", sku.ProductType.Code),
		zap.Int("material_lines", len(result.Materials)),
		zap.Int("labor_lines", len(result.Labor)),
		zap.Int("gaps", len(result.Debug.Gaps)),
		zap.String("total", result.TotalCost.String()),
	)
	return result, nil
}
