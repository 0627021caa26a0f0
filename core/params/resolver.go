// Package params provides formula parameter resolution.
// Parameters are scoped overrides; resolution flattens the four scopes
// into one map with narrower scopes winning.
package params

import (
	"sort"

	"fence-bom/core/types"
)

// Resolve builds the flat parameter map for a SKU by applying matching
// parameters in order global, type, style, component, so a narrower scope
// silently overwrites a broader one for the same key. A parameter scoped
// to a style other than the SKU's, or to a component the SKU does not
// reference, is excluded entirely. An empty result is valid; calculators
// carry their own fallbacks.
func Resolve(sku *types.ProductSKUWithDetails, parameters []types.FormulaParameter) map[string]float64 {
	applicable := make([]types.FormulaParameter, 0, len(parameters))
	for _, p := range parameters {
		if matches(sku, p) {
			applicable = append(applicable, p)
		}
	}

	// Broad to narrow; equal scopes tie-break on ID so resolution is
	// independent of fetch order.
	sort.Slice(applicable, func(i, j int) bool {
		si, sj := applicable[i].Scope.Specificity(), applicable[j].Scope.Specificity()
		if si != sj {
			return si < sj
		}
		return applicable[i].ID < applicable[j].ID
	})

	resolved := make(map[string]float64, len(applicable))
	for _, p := range applicable {
		resolved[p.ParameterKey] = p.ParameterValue
	}
	return resolved
}

// Value returns the resolved value for key, reporting whether it exists.
func Value(resolved map[string]float64, key string) (float64, bool) {
	v, ok := resolved[key]
	return v, ok
}

// ValueOrDefault returns the resolved value for key, or def when absent.
func ValueOrDefault(resolved map[string]float64, key string, def float64) float64 {
	if v, ok := resolved[key]; ok {
		return v
	}
	return def
}

// matches reports whether a parameter applies to the SKU at all
func matches(sku *types.ProductSKUWithDetails, p types.FormulaParameter) bool {
	switch p.Scope {
	case types.ScopeGlobal:
		return true

	case types.ScopeType:
		return p.ProductTypeID == sku.ProductTypeID

	case types.ScopeStyle:
		if p.StyleID == nil {
			return p.ProductTypeID == sku.ProductTypeID
		}
		return sku.StyleID != nil && *p.StyleID == *sku.StyleID

	case types.ScopeComponent:
		if p.ComponentID == nil {
			return false
		}
		for _, b := range sku.Bindings {
			if b.ComponentID == *p.ComponentID {
				return true
			}
		}
		return false
	}
	return false
}
