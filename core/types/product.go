// Package types - Product configuration records
package types

import "github.com/shopspring/decimal"

// ProductType identifies a product family (e.g. wood fence, vinyl railing)
type ProductType struct {
	// ID uniquely identifies this product type
	ID string `json:"id"`

	// Code is the family code used for calculator dispatch (e.g. "WOOD_FENCE")
	Code string `json:"code"`

	// Name is a human-readable name
	Name string `json:"name"`

	// DefaultPostSpacing is the fallback post spacing in feet
	DefaultPostSpacing float64 `json:"default_post_spacing"`
}

// ProductStyle is a named variant within a product type
type ProductStyle struct {
	// ID uniquely identifies this style
	ID string `json:"id"`

	// ProductTypeID is the owning product type
	ProductTypeID string `json:"product_type_id"`

	// Code is the style code (e.g. "PRIVACY", "SHADOWBOX")
	Code string `json:"code"`

	// Name is a human-readable name
	Name string `json:"name"`

	// FormulaAdjustments maps adjustment keys to numeric multipliers/offsets
	FormulaAdjustments map[string]float64 `json:"formula_adjustments,omitempty"`
}

// Component is a named material slot on a product type (e.g. "post", "picket")
type Component struct {
	// ID uniquely identifies this component
	ID string `json:"id"`

	// ProductTypeID is the owning product type
	ProductTypeID string `json:"product_type_id"`

	// Code is the component code referenced by calculators and conditions
	Code string `json:"code"`

	// Name is a human-readable name
	Name string `json:"name"`

	// UnitType is the unit the component is measured in (e.g. "each", "lf")
	UnitType string `json:"unit_type"`
}

// MaterialBinding binds a component slot to a concrete material on a SKU
type MaterialBinding struct {
	// ComponentID references the component slot
	ComponentID string `json:"component_id"`

	// ComponentCode is the bound component's code
	ComponentCode string `json:"component_code"`

	// MaterialID identifies the bound material
	MaterialID string `json:"material_id"`

	// MaterialSKU is the material's stock keeping unit
	MaterialSKU string `json:"material_sku"`

	// Description describes the material
	Description string `json:"description,omitempty"`

	// UnitType is the billing unit for the material
	UnitType string `json:"unit_type"`

	// UnitCost is the material's cost per unit
	UnitCost decimal.Decimal `json:"unit_cost"`

	// Attributes contains physical attributes (e.g. "width_in", "length_ft")
	Attributes map[string]float64 `json:"attributes,omitempty"`
}

// Attr returns a physical attribute, or def when absent
func (b MaterialBinding) Attr(key string, def float64) float64 {
	if v, ok := b.Attributes[key]; ok {
		return v
	}
	return def
}

// ProductSKU is a concrete product configuration
type ProductSKU struct {
	// ID uniquely identifies this SKU
	ID string `json:"id"`

	// SKU is the configured product's stock keeping unit
	SKU string `json:"sku"`

	// Name is a human-readable name
	Name string `json:"name"`

	// ProductTypeID references the product family
	ProductTypeID string `json:"product_type_id"`

	// StyleID references the style variant, if any
	StyleID *string `json:"style_id,omitempty"`

	// Height is the product height in feet
	Height float64 `json:"height"`

	// PostType is the post variant for this configuration
	PostType string `json:"post_type,omitempty"`

	// PostSpacing is an instance-level post spacing override in feet (0 = unset)
	PostSpacing float64 `json:"post_spacing,omitempty"`
}

// ProductSKUWithDetails is a SKU joined with its type, style, and bindings
type ProductSKUWithDetails struct {
	ProductSKU

	// ProductType is the resolved product family
	ProductType ProductType `json:"product_type"`

	// Style is the resolved style variant (nil when the SKU has none)
	Style *ProductStyle `json:"style,omitempty"`

	// Bindings are the SKU's component/material bindings
	Bindings []MaterialBinding `json:"bindings"`
}

// ParameterScope is the specificity level at which a parameter applies
type ParameterScope string

const (
	// ScopeGlobal applies to every product type
	ScopeGlobal ParameterScope = "global"

	// ScopeType applies to one product type
	ScopeType ParameterScope = "type"

	// ScopeStyle applies to one style within a type
	ScopeStyle ParameterScope = "style"

	// ScopeComponent applies to one component slot
	ScopeComponent ParameterScope = "component"
)

// Specificity returns the override rank of the scope; narrower scopes rank higher
func (s ParameterScope) Specificity() int {
	switch s {
	case ScopeGlobal:
		return 0
	case ScopeType:
		return 1
	case ScopeStyle:
		return 2
	case ScopeComponent:
		return 3
	}
	return -1
}

// FormulaParameter is a scoped numeric override
type FormulaParameter struct {
	// ID uniquely identifies this parameter
	ID string `json:"id"`

	// ParameterKey is the formula key being overridden (e.g. "post_spacing")
	ParameterKey string `json:"parameter_key"`

	// ParameterValue is the override value
	ParameterValue float64 `json:"parameter_value"`

	// Scope is the specificity level of the override
	Scope ParameterScope `json:"scope"`

	// ProductTypeID scopes the parameter to a type (empty for global)
	ProductTypeID string `json:"product_type_id,omitempty"`

	// StyleID scopes the parameter to a style
	StyleID *string `json:"style_id,omitempty"`

	// ComponentID scopes the parameter to a component slot
	ComponentID *string `json:"component_id,omitempty"`
}
