// Package memory provides an in-memory configuration store, used by
// tests and the seed command before a database exists.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fence-bom/core/labor"
	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

// Store is an in-memory store.Store implementation
type Store struct {
	mu sync.RWMutex

	productTypes map[string]types.ProductType
	styles       map[string]types.ProductStyle
	components   map[string]types.Component
	skus         map[string]types.ProductSKU
	bindings     map[string][]types.MaterialBinding
	parameters   map[string]types.FormulaParameter
	laborCodes   map[string]types.LaborCode
	laborRules   map[string]types.LaborRule
	rates        map[string]types.LaborRates
	groups       map[string]types.LaborGroup
	eligibility  map[string]types.LaborGroupEligibility
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		productTypes: make(map[string]types.ProductType),
		styles:       make(map[string]types.ProductStyle),
		components:   make(map[string]types.Component),
		skus:         make(map[string]types.ProductSKU),
		bindings:     make(map[string][]types.MaterialBinding),
		parameters:   make(map[string]types.FormulaParameter),
		laborCodes:   make(map[string]types.LaborCode),
		laborRules:   make(map[string]types.LaborRule),
		rates:        make(map[string]types.LaborRates),
		groups:       make(map[string]types.LaborGroup),
		eligibility:  make(map[string]types.LaborGroupEligibility),
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// CreateProductType adds a product type
func (s *Store) CreateProductType(_ context.Context, pt *types.ProductType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&pt.ID)
	s.productTypes[pt.ID] = *pt
	return nil
}

// ListProductTypes returns all product types sorted by code
func (s *Store) ListProductTypes(_ context.Context) ([]types.ProductType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ProductType, 0, len(s.productTypes))
	for _, pt := range s.productTypes {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// CreateStyle adds a style
func (s *Store) CreateStyle(_ context.Context, style *types.ProductStyle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.productTypes[style.ProductTypeID]; !ok {
		return errors.NotFound("product type", style.ProductTypeID)
	}
	ensureID(&style.ID)
	s.styles[style.ID] = *style
	return nil
}

// ListStyles returns the styles of a product type sorted by code
func (s *Store) ListStyles(_ context.Context, productTypeID string) ([]types.ProductStyle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.ProductStyle
	for _, style := range s.styles {
		if style.ProductTypeID == productTypeID {
			out = append(out, style)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// CreateComponent adds a component slot
func (s *Store) CreateComponent(_ context.Context, component *types.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.productTypes[component.ProductTypeID]; !ok {
		return errors.NotFound("product type", component.ProductTypeID)
	}
	ensureID(&component.ID)
	s.components[component.ID] = *component
	return nil
}

// ListComponents returns the components of a product type sorted by code
func (s *Store) ListComponents(_ context.Context, productTypeID string) ([]types.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Component
	for _, c := range s.components {
		if c.ProductTypeID == productTypeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// CreateSKU adds a SKU with its component bindings
func (s *Store) CreateSKU(_ context.Context, sku *types.ProductSKU, bindings []types.MaterialBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.productTypes[sku.ProductTypeID]; !ok {
		return errors.NotFound("product type", sku.ProductTypeID)
	}
	ensureID(&sku.ID)
	s.skus[sku.ID] = *sku
	s.bindings[sku.ID] = append([]types.MaterialBinding(nil), bindings...)
	return nil
}

// GetSKU returns a SKU joined with its type, style, and bindings
func (s *Store) GetSKU(_ context.Context, skuID string) (*types.ProductSKUWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sku, ok := s.skus[skuID]
	if !ok {
		return nil, errors.NotFound("product SKU", skuID)
	}
	pt, ok := s.productTypes[sku.ProductTypeID]
	if !ok {
		return nil, errors.NotFound("product type", sku.ProductTypeID)
	}

	details := &types.ProductSKUWithDetails{
		ProductSKU:  sku,
		ProductType: pt,
		Bindings:    append([]types.MaterialBinding(nil), s.bindings[skuID]...),
	}
	if sku.StyleID != nil {
		if style, ok := s.styles[*sku.StyleID]; ok {
			details.Style = &style
		}
	}
	return details, nil
}

// ListSKUs returns all SKUs sorted by SKU code
func (s *Store) ListSKUs(_ context.Context) ([]types.ProductSKU, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ProductSKU, 0, len(s.skus))
	for _, sku := range s.skus {
		out = append(out, sku)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// CreateParameter adds a formula parameter
func (s *Store) CreateParameter(_ context.Context, p *types.FormulaParameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Scope.Specificity() < 0 {
		return errors.Configf("unknown parameter scope %q", p.Scope)
	}
	ensureID(&p.ID)
	s.parameters[p.ID] = *p
	return nil
}

// GetParameters returns global parameters plus every parameter scoped to
// the product type, sorted by ID for deterministic resolution input.
func (s *Store) GetParameters(_ context.Context, productTypeID string) ([]types.FormulaParameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.FormulaParameter
	for _, p := range s.parameters {
		if p.Scope == types.ScopeGlobal || p.ProductTypeID == productTypeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateLaborCode adds a labor code
func (s *Store) CreateLaborCode(_ context.Context, code *types.LaborCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&code.ID)
	s.laborCodes[code.ID] = *code
	return nil
}

// ListLaborCodes returns all labor codes sorted by SKU
func (s *Store) ListLaborCodes(_ context.Context) ([]types.LaborCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.LaborCode, 0, len(s.laborCodes))
	for _, code := range s.laborCodes {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// CreateLaborRule adds a labor rule
func (s *Store) CreateLaborRule(_ context.Context, rule *types.LaborRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.laborCodes[rule.LaborCodeID]; !ok {
		return errors.NotFound("labor code", rule.LaborCodeID)
	}
	ensureID(&rule.ID)
	s.laborRules[rule.ID] = *rule
	return nil
}

// GetLaborRules returns the rules for a product type, optionally
// narrowed by style. Style-null rules are always included.
func (s *Store) GetLaborRules(_ context.Context, productTypeID string, styleID *string) ([]types.LaborRuleWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.LaborRuleWithDetails
	for _, rule := range s.laborRules {
		if rule.ProductTypeID != productTypeID {
			continue
		}
		if rule.StyleID != nil && (styleID == nil || *rule.StyleID != *styleID) {
			continue
		}
		out = append(out, types.LaborRuleWithDetails{
			LaborRule: rule,
			Code:      s.laborCodes[rule.LaborCodeID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SetLaborRate sets one business unit's rate for a labor code
func (s *Store) SetLaborRate(_ context.Context, businessUnitID, laborCodeID string, rate decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.laborCodes[laborCodeID]; !ok {
		return errors.NotFound("labor code", laborCodeID)
	}
	if s.rates[businessUnitID] == nil {
		s.rates[businessUnitID] = types.LaborRates{}
	}
	s.rates[businessUnitID][laborCodeID] = rate
	return nil
}

// GetLaborRates returns a business unit's rate table. A business unit
// with no rates yields an empty table, not an error.
func (s *Store) GetLaborRates(_ context.Context, businessUnitID string) (types.LaborRates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rates := types.LaborRates{}
	for codeID, rate := range s.rates[businessUnitID] {
		rates[codeID] = rate
	}
	return rates, nil
}

// CreateLaborGroup adds a labor group, rejecting the optional+single policy
func (s *Store) CreateLaborGroup(_ context.Context, group *types.LaborGroup) error {
	if err := labor.ValidateGroupPolicy(*group); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&group.ID)
	s.groups[group.ID] = *group
	return nil
}

// ListLaborGroups returns all labor groups sorted by name
func (s *Store) ListLaborGroups(_ context.Context) ([]types.LaborGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.LaborGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateEligibility adds a group membership entry
func (s *Store) CreateEligibility(_ context.Context, entry *types.LaborGroupEligibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[entry.GroupID]; !ok {
		return errors.NotFound("labor group", entry.GroupID)
	}
	if _, ok := s.laborCodes[entry.LaborCodeID]; !ok {
		return errors.NotFound("labor code", entry.LaborCodeID)
	}
	ensureID(&entry.ID)
	s.eligibility[entry.ID] = *entry
	return nil
}

// ListEligibility returns a group's membership entries sorted by ID
func (s *Store) ListEligibility(_ context.Context, groupID string) ([]types.LaborGroupEligibility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEligibilityLocked(groupID), nil
}

func (s *Store) listEligibilityLocked(groupID string) []types.LaborGroupEligibility {
	var out []types.LaborGroupEligibility
	for _, e := range s.eligibility {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetDefaultEligibility sets the default flag on one entry and clears it
// on every sibling in the group, under one lock.
func (s *Store) SetDefaultEligibility(_ context.Context, groupID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return errors.NotFound("labor group", groupID)
	}
	updated, err := labor.ApplyDefault(s.listEligibilityLocked(groupID), entryID)
	if err != nil {
		return err
	}
	for _, e := range updated {
		s.eligibility[e.ID] = e
	}
	return nil
}

// Close is a no-op for the in-memory store
func (s *Store) Close() error {
	return nil
}
