// Package types - Labor configuration records
package types

import "github.com/shopspring/decimal"

// LaborCode is a billable labor operation
type LaborCode struct {
	// ID uniquely identifies this labor code
	ID string `json:"id"`

	// SKU is the billing code
	SKU string `json:"sku"`

	// Description describes the operation
	Description string `json:"description"`

	// UnitType is the billing unit (e.g. "lf", "each")
	UnitType string `json:"unit_type"`
}

// LaborRule ties a labor code to a product type with an eligibility condition
type LaborRule struct {
	// ID uniquely identifies this rule
	ID string `json:"id"`

	// ProductTypeID is the product type the rule applies to
	ProductTypeID string `json:"product_type_id"`

	// StyleID narrows the rule to one style; nil applies to all styles
	StyleID *string `json:"style_id,omitempty"`

	// LaborCodeID references the labor code to bill
	LaborCodeID string `json:"labor_code_id"`

	// Condition maps condition keys to numeric-range or set-membership specs.
	// Persisted as a free-form map; parsed into a typed condition at load time.
	Condition map[string]interface{} `json:"condition,omitempty"`

	// QuantityFormula names the symbolic quantity formula
	// ("net_length", "gates", "posts", "sections", "lines")
	QuantityFormula string `json:"quantity_formula"`

	// Priority orders evaluation; higher evaluates first
	Priority int `json:"priority"`

	// IsActive gates the rule; inactive rules never produce output
	IsActive bool `json:"is_active"`
}

// LaborRuleWithDetails is a rule joined with its labor code
type LaborRuleWithDetails struct {
	LaborRule

	// Code is the resolved labor code
	Code LaborCode `json:"code"`
}

// LaborGroup is a named bucket of labor codes sharing a selection policy
type LaborGroup struct {
	// ID uniquely identifies this group
	ID string `json:"id"`

	// Name is the group name (e.g. "Post Setting")
	Name string `json:"name"`

	// IsRequired means at least one code in the group must apply
	IsRequired bool `json:"is_required"`

	// AllowMultiple permits more than one code to be selected
	AllowMultiple bool `json:"allow_multiple"`
}

// LaborGroupEligibility is one labor code's membership in one group
// for one product type
type LaborGroupEligibility struct {
	// ID uniquely identifies this entry
	ID string `json:"id"`

	// GroupID references the labor group
	GroupID string `json:"group_id"`

	// LaborCodeID references the member labor code
	LaborCodeID string `json:"labor_code_id"`

	// ProductTypeID scopes the membership to a product type
	ProductTypeID string `json:"product_type_id"`

	// ConditionFormula optionally gates when the code is offered
	// (e.g. "height >= 6 && gates > 0")
	ConditionFormula string `json:"condition_formula,omitempty"`

	// IsDefault marks the pre-selected code for single-select groups.
	// At most one entry per group may carry it.
	IsDefault bool `json:"is_default"`

	// Priority breaks ties when no default is flagged; higher wins
	Priority int `json:"priority"`
}

// LaborRates maps labor code IDs to the rate a business unit pays
type LaborRates map[string]decimal.Decimal
