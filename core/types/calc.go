// Package types - Calculation input, context, and output types
package types

import (
	"math"

	"github.com/shopspring/decimal"

	"fence-bom/internal/errors"
)

// DefaultPostSpacing is the last-resort post spacing in feet, used when
// neither parameters, the SKU, nor the product type define one.
const DefaultPostSpacing = 8.0

// CalculationInput contains the caller-supplied dimensions for one calculation
type CalculationInput struct {
	// NetLength is the total run length in feet
	NetLength float64 `json:"net_length"`

	// Lines is the number of straight-line segments
	Lines int `json:"lines"`

	// Gates is the number of gates
	Gates int `json:"gates"`

	// BusinessUnitID selects the labor rate table
	BusinessUnitID string `json:"business_unit_id"`
}

// Validate rejects negative or non-finite dimensions before any
// resolution work begins.
func (in CalculationInput) Validate() error {
	if math.IsNaN(in.NetLength) || math.IsInf(in.NetLength, 0) {
		return errors.Input("net_length must be finite")
	}
	if in.NetLength < 0 {
		return errors.Inputf("net_length must be >= 0, got %v", in.NetLength)
	}
	if in.Lines < 0 {
		return errors.Inputf("lines must be >= 0, got %d", in.Lines)
	}
	if in.Gates < 0 {
		return errors.Inputf("gates must be >= 0, got %d", in.Gates)
	}
	if in.BusinessUnitID == "" {
		return errors.Input("business_unit_id is required")
	}
	return nil
}

// CalculationContext is the immutable snapshot every pipeline stage reads.
// It is built once per calculation and never mutated afterward.
type CalculationContext struct {
	// SKU is the product configuration being calculated
	SKU *ProductSKUWithDetails `json:"sku"`

	// Input is the caller-supplied dimensions
	Input CalculationInput `json:"input"`

	// Parameters is the fully resolved parameter map
	Parameters map[string]float64 `json:"parameters"`

	// ComponentMaterials maps component codes to their bound materials
	ComponentMaterials map[string]MaterialBinding `json:"component_materials"`
}

// Param returns a resolved parameter value
func (c *CalculationContext) Param(key string) (float64, bool) {
	v, ok := c.Parameters[key]
	return v, ok
}

// ParamOr returns a resolved parameter value, or def when absent
func (c *CalculationContext) ParamOr(key string, def float64) float64 {
	if v, ok := c.Parameters[key]; ok {
		return v
	}
	return def
}

// HasComponent reports whether a component code has a bound material
func (c *CalculationContext) HasComponent(code string) bool {
	_, ok := c.ComponentMaterials[code]
	return ok
}

// Binding returns the material bound to a component code
func (c *CalculationContext) Binding(code string) (MaterialBinding, bool) {
	b, ok := c.ComponentMaterials[code]
	return b, ok
}

// PostSpacing resolves the effective post spacing in feet:
// resolved parameter, then SKU override, then product type default,
// then the hardcoded constant.
func (c *CalculationContext) PostSpacing() float64 {
	if v, ok := c.Parameters["post_spacing"]; ok && v > 0 {
		return v
	}
	if c.SKU.PostSpacing > 0 {
		return c.SKU.PostSpacing
	}
	if c.SKU.ProductType.DefaultPostSpacing > 0 {
		return c.SKU.ProductType.DefaultPostSpacing
	}
	return DefaultPostSpacing
}

// Adjustment returns a style formula adjustment, or def when the SKU has
// no style or the style does not define the key.
func (c *CalculationContext) Adjustment(key string, def float64) float64 {
	if c.SKU.Style == nil {
		return def
	}
	if v, ok := c.SKU.Style.FormulaAdjustments[key]; ok {
		return v
	}
	return def
}

// Numeric resolves a condition key to a numeric value from the context.
// Dimension keys come from the input and SKU; anything else falls through
// to the resolved parameter map.
func (c *CalculationContext) Numeric(key string) (float64, bool) {
	switch key {
	case "height":
		return c.SKU.Height, true
	case "net_length":
		return c.Input.NetLength, true
	case "lines":
		return float64(c.Input.Lines), true
	case "gates":
		return float64(c.Input.Gates), true
	case "post_spacing":
		return c.PostSpacing(), true
	}
	v, ok := c.Parameters[key]
	return v, ok
}

// MaterialCalculation is one material line item
type MaterialCalculation struct {
	// ComponentCode is the component slot the line fills
	ComponentCode string `json:"component_code"`

	// MaterialSKU is the bound material's SKU
	MaterialSKU string `json:"material_sku"`

	// Description describes the material
	Description string `json:"description,omitempty"`

	// Quantity is the computed quantity (always >= 0)
	Quantity decimal.Decimal `json:"quantity"`

	// UnitType is the billing unit
	UnitType string `json:"unit_type"`

	// UnitCost is the material's cost per unit
	UnitCost decimal.Decimal `json:"unit_cost"`

	// TotalCost is Quantity * UnitCost
	TotalCost decimal.Decimal `json:"total_cost"`
}

// LaborCalculation is one labor line item
type LaborCalculation struct {
	// RuleID is the labor rule that produced the line
	RuleID string `json:"rule_id"`

	// LaborSKU is the billed labor code's SKU
	LaborSKU string `json:"labor_sku"`

	// Description describes the operation
	Description string `json:"description,omitempty"`

	// Quantity is the computed quantity (always > 0)
	Quantity decimal.Decimal `json:"quantity"`

	// UnitType is the billing unit
	UnitType string `json:"unit_type"`

	// Rate is the business unit's rate for the code
	Rate decimal.Decimal `json:"rate"`

	// TotalCost is Quantity * Rate
	TotalCost decimal.Decimal `json:"total_cost"`
}

// GapKind categorizes a data gap recorded during calculation
type GapKind string

const (
	// GapMissingMaterial means a component slot had no bound material
	GapMissingMaterial GapKind = "missing_material"

	// GapMissingRate means an eligible labor code had no rate for the
	// business unit
	GapMissingRate GapKind = "missing_rate"
)

// DataGap records a non-fatal configuration gap for reconciliation
type DataGap struct {
	// Kind categorizes the gap
	Kind GapKind `json:"kind"`

	// Code is the component code or labor SKU involved
	Code string `json:"code"`

	// Detail explains the gap
	Detail string `json:"detail,omitempty"`
}

// DebugSnapshot makes a calculation independently auditable
type DebugSnapshot struct {
	// PostCount is the computed number of posts
	PostCount int `json:"post_count"`

	// SectionCount is ceil(net_length / effective post spacing)
	SectionCount int `json:"section_count"`

	// PostSpacing is the effective post spacing used
	PostSpacing float64 `json:"post_spacing"`

	// Parameters is the fully resolved parameter map
	Parameters map[string]float64 `json:"parameters"`

	// Gaps lists data gaps recorded during the calculation
	Gaps []DataGap `json:"gaps,omitempty"`
}

// CalculationResult is the output of one calculation
type CalculationResult struct {
	// Materials are the material line items
	Materials []MaterialCalculation `json:"materials"`

	// Labor are the labor line items
	Labor []LaborCalculation `json:"labor"`

	// TotalMaterialCost is the sum of material line totals
	TotalMaterialCost decimal.Decimal `json:"total_material_cost"`

	// TotalLaborCost is the sum of labor line totals
	TotalLaborCost decimal.Decimal `json:"total_labor_cost"`

	// TotalCost is TotalMaterialCost + TotalLaborCost
	TotalCost decimal.Decimal `json:"total_cost"`

	// Debug is the audit snapshot
	Debug DebugSnapshot `json:"debug"`
}
