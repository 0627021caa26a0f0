// Package materials provides per-family material calculators.
// Each product family registers one calculator; dispatch is by product
// type code. Families encode their own geometry, but all share the post
// and section formulas in core/calc.
package materials

import (
	"sync"

	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

// Calculator computes material line items for one product family
type Calculator interface {
	// ProductTypeCode returns the family code this calculator handles
	ProductTypeCode() string

	// CalculateMaterials computes material lines from the context.
	// Unbound components yield no line; they are returned as data gaps.
	CalculateMaterials(ctx *types.CalculationContext) ([]types.MaterialCalculation, []types.DataGap, error)
}

// Registry manages calculator registration and dispatch
type Registry struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// NewRegistry creates an empty calculator registry
func NewRegistry() *Registry {
	return &Registry{
		calculators: make(map[string]Calculator),
	}
}

// Register adds a calculator to the registry
func (r *Registry) Register(c Calculator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := c.ProductTypeCode()
	if _, exists := r.calculators[code]; exists {
		return errors.Configf("calculator already registered for product type %q", code)
	}
	r.calculators[code] = c
	return nil
}

// Get returns the calculator for a product type code. An unknown code is
// a fatal configuration error, never a silent no-op.
func (r *Registry) Get(code string) (Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.calculators[code]
	if !ok {
		return nil, errors.Configf("no material calculator registered for product type %q", code)
	}
	return c, nil
}

// Codes returns all registered product type codes
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.calculators))
	for code := range r.calculators {
		codes = append(codes, code)
	}
	return codes
}

// DefaultRegistry returns a registry with all built-in families registered
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(NewFenceCalculator())
	_ = r.Register(NewRailingCalculator())
	return r
}
