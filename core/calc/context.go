// Package calc provides calculation context assembly, the shared fence
// geometry formulas, and result aggregation.
package calc

import (
	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

// BuildContext assembles the immutable calculation snapshot from
// already-resolved data. It is pure: no I/O occurs here, and every
// downstream stage treats the returned context as read-only.
func BuildContext(sku *types.ProductSKUWithDetails, input types.CalculationInput, parameters map[string]float64) (*types.CalculationContext, error) {
	if sku == nil {
		return nil, errors.Config("cannot build calculation context without a SKU")
	}

	componentMaterials := make(map[string]types.MaterialBinding, len(sku.Bindings))
	for _, binding := range sku.Bindings {
		componentMaterials[binding.ComponentCode] = binding
	}

	if parameters == nil {
		parameters = map[string]float64{}
	}

	return &types.CalculationContext{
		SKU:                sku,
		Input:              input,
		Parameters:         parameters,
		ComponentMaterials: componentMaterials,
	}, nil
}
