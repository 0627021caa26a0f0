// Package store defines the configuration store boundary.
// The engine only reads; administrators create and edit configuration
// records through the same interface.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"fence-bom/core/types"
)

// Store is the configuration store the engine and admin surface share.
// Engine reads need only GetSKU, GetParameters, GetLaborRules, and
// GetLaborRates; the rest serves the administrative configuration UI.
type Store interface {
	// Product catalog
	CreateProductType(ctx context.Context, pt *types.ProductType) error
	ListProductTypes(ctx context.Context) ([]types.ProductType, error)
	CreateStyle(ctx context.Context, style *types.ProductStyle) error
	ListStyles(ctx context.Context, productTypeID string) ([]types.ProductStyle, error)
	CreateComponent(ctx context.Context, component *types.Component) error
	ListComponents(ctx context.Context, productTypeID string) ([]types.Component, error)

	// SKUs
	CreateSKU(ctx context.Context, sku *types.ProductSKU, bindings []types.MaterialBinding) error
	GetSKU(ctx context.Context, skuID string) (*types.ProductSKUWithDetails, error)
	ListSKUs(ctx context.Context) ([]types.ProductSKU, error)

	// Formula parameters. GetParameters returns global parameters plus
	// every parameter scoped to the product type, its styles, and its
	// components; the resolver narrows from there.
	CreateParameter(ctx context.Context, p *types.FormulaParameter) error
	GetParameters(ctx context.Context, productTypeID string) ([]types.FormulaParameter, error)

	// Labor configuration
	CreateLaborCode(ctx context.Context, code *types.LaborCode) error
	ListLaborCodes(ctx context.Context) ([]types.LaborCode, error)
	CreateLaborRule(ctx context.Context, rule *types.LaborRule) error
	GetLaborRules(ctx context.Context, productTypeID string, styleID *string) ([]types.LaborRuleWithDetails, error)

	// Labor rates per business unit
	SetLaborRate(ctx context.Context, businessUnitID, laborCodeID string, rate decimal.Decimal) error
	GetLaborRates(ctx context.Context, businessUnitID string) (types.LaborRates, error)

	// Labor groups. CreateLaborGroup rejects the optional+single policy;
	// SetDefaultEligibility clears the default flag on every sibling in
	// the group and sets it on one entry, atomically.
	CreateLaborGroup(ctx context.Context, group *types.LaborGroup) error
	ListLaborGroups(ctx context.Context) ([]types.LaborGroup, error)
	CreateEligibility(ctx context.Context, entry *types.LaborGroupEligibility) error
	ListEligibility(ctx context.Context, groupID string) ([]types.LaborGroupEligibility, error)
	SetDefaultEligibility(ctx context.Context, groupID, entryID string) error

	// Close releases the underlying storage
	Close() error
}
