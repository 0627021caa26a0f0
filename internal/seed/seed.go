// Package seed populates a configuration store with a demo fence
// product catalog for local development and evaluation.
package seed

import (
	"context"

	"github.com/shopspring/decimal"

	"fence-bom/core/types"
	"fence-bom/store"
)

// DemoBusinessUnit is the business unit the demo rate table belongs to
const DemoBusinessUnit = "bu-demo"

// Stats contains seed operation counters
type Stats struct {
	ProductTypes int
	Styles       int
	Components   int
	SKUs         int
	Parameters   int
	LaborCodes   int
	LaborRules   int
	Groups       int
}

// Run seeds a demo wood fence catalog: product type, privacy and
// shadowbox styles, component slots, one fully bound SKU, formula
// parameters, labor codes with rules, one labor group, and a rate table.
func Run(ctx context.Context, s store.Store) (Stats, error) {
	var stats Stats

	fence := &types.ProductType{Code: "FENCE", Name: "Wood Fence", DefaultPostSpacing: 8}
	if err := s.CreateProductType(ctx, fence); err != nil {
		return stats, err
	}
	stats.ProductTypes++

	privacy := &types.ProductStyle{ProductTypeID: fence.ID, Code: "PRIVACY", Name: "Privacy"}
	shadowbox := &types.ProductStyle{
		ProductTypeID:      fence.ID,
		Code:               "SHADOWBOX",
		Name:               "Shadowbox",
		FormulaAdjustments: map[string]float64{"picket_multiplier": 2},
	}
	for _, style := range []*types.ProductStyle{privacy, shadowbox} {
		if err := s.CreateStyle(ctx, style); err != nil {
			return stats, err
		}
		stats.Styles++
	}

	componentIDs := map[string]string{}
	for _, c := range []struct {
		code, name, unit string
	}{
		{"post", "Post", "each"},
		{"rail", "Rail", "each"},
		{"picket", "Picket", "each"},
		{"concrete", "Concrete Bag", "each"},
		{"gate_hardware", "Gate Hardware Kit", "each"},
	} {
		component := &types.Component{
			ProductTypeID: fence.ID,
			Code:          c.code,
			Name:          c.name,
			UnitType:      c.unit,
		}
		if err := s.CreateComponent(ctx, component); err != nil {
			return stats, err
		}
		componentIDs[c.code] = component.ID
		stats.Components++
	}

	sku := &types.ProductSKU{
		SKU:           "WF-PRV-6-CDR",
		Name:          "6ft Cedar Privacy Fence",
		ProductTypeID: fence.ID,
		StyleID:       &privacy.ID,
		Height:        6,
		PostType:      "4x4",
	}
	bindings := []types.MaterialBinding{
		{ComponentID: componentIDs["post"], ComponentCode: "post",
			MaterialSKU: "PST-44-8-CDR", Description: "4x4x8 cedar post",
			UnitType: "each", UnitCost: decimal.NewFromFloat(14.50),
			Attributes: map[string]float64{"length_ft": 8}},
		{ComponentID: componentIDs["rail"], ComponentCode: "rail",
			MaterialSKU: "RL-24-8-CDR", Description: "2x4x8 cedar rail",
			UnitType: "each", UnitCost: decimal.NewFromFloat(6.25)},
		{ComponentID: componentIDs["picket"], ComponentCode: "picket",
			MaterialSKU: "PKT-16-6-CDR", Description: "1x6x6 cedar picket",
			UnitType: "each", UnitCost: decimal.NewFromFloat(3.10),
			Attributes: map[string]float64{"width_in": 5.5}},
		{ComponentID: componentIDs["concrete"], ComponentCode: "concrete",
			MaterialSKU: "CON-50", Description: "50lb concrete bag",
			UnitType: "each", UnitCost: decimal.NewFromFloat(5.75)},
		{ComponentID: componentIDs["gate_hardware"], ComponentCode: "gate_hardware",
			MaterialSKU: "GH-STD", Description: "Standard gate hardware kit",
			UnitType: "each", UnitCost: decimal.NewFromFloat(42.00)},
	}
	if err := s.CreateSKU(ctx, sku, bindings); err != nil {
		return stats, err
	}
	stats.SKUs++

	parameters := []*types.FormulaParameter{
		{ParameterKey: "concrete_bags_per_post", ParameterValue: 1.5, Scope: types.ScopeGlobal},
		{ParameterKey: "rails_per_section", ParameterValue: 2, Scope: types.ScopeType, ProductTypeID: fence.ID},
		{ParameterKey: "rails_per_section", ParameterValue: 3, Scope: types.ScopeStyle, ProductTypeID: fence.ID, StyleID: &shadowbox.ID},
		{ParameterKey: "picket_gap", ParameterValue: 0, Scope: types.ScopeType, ProductTypeID: fence.ID},
	}
	for _, p := range parameters {
		if err := s.CreateParameter(ctx, p); err != nil {
			return stats, err
		}
		stats.Parameters++
	}

	codes := map[string]*types.LaborCode{}
	for _, c := range []struct {
		key, sku, description, unit string
	}{
		{"install", "LAB-INSTALL-LF", "Fence installation", "lf"},
		{"post_set", "LAB-POST-SET", "Set post in concrete", "each"},
		{"gate_hang", "LAB-GATE-HANG", "Hang and adjust gate", "each"},
		{"tall_surcharge", "LAB-TALL-LF", "Tall fence surcharge", "lf"},
	} {
		code := &types.LaborCode{SKU: c.sku, Description: c.description, UnitType: c.unit}
		if err := s.CreateLaborCode(ctx, code); err != nil {
			return stats, err
		}
		codes[c.key] = code
		stats.LaborCodes++
	}

	rules := []*types.LaborRule{
		{ProductTypeID: fence.ID, LaborCodeID: codes["install"].ID,
			QuantityFormula: "net_length", Priority: 100, IsActive: true},
		{ProductTypeID: fence.ID, LaborCodeID: codes["post_set"].ID,
			QuantityFormula: "posts", Priority: 90, IsActive: true},
		{ProductTypeID: fence.ID, LaborCodeID: codes["gate_hang"].ID,
			Condition:       map[string]interface{}{"gates": map[string]interface{}{">": 0.0}},
			QuantityFormula: "gates", Priority: 80, IsActive: true},
		{ProductTypeID: fence.ID, LaborCodeID: codes["tall_surcharge"].ID,
			Condition:       map[string]interface{}{"height": map[string]interface{}{"min": 7.0}},
			QuantityFormula: "net_length", Priority: 70, IsActive: true},
	}
	for _, rule := range rules {
		if err := s.CreateLaborRule(ctx, rule); err != nil {
			return stats, err
		}
		stats.LaborRules++
	}

	for key, rate := range map[string]float64{
		"install":        4.50,
		"post_set":       11.00,
		"gate_hang":      65.00,
		"tall_surcharge": 1.25,
	} {
		if err := s.SetLaborRate(ctx, DemoBusinessUnit, codes[key].ID, decimal.NewFromFloat(rate)); err != nil {
			return stats, err
		}
	}

	group := &types.LaborGroup{Name: "Post Setting", IsRequired: true, AllowMultiple: false}
	if err := s.CreateLaborGroup(ctx, group); err != nil {
		return stats, err
	}
	stats.Groups++

	entries := []*types.LaborGroupEligibility{
		{GroupID: group.ID, LaborCodeID: codes["post_set"].ID, ProductTypeID: fence.ID,
			IsDefault: true, Priority: 10},
		{GroupID: group.ID, LaborCodeID: codes["install"].ID, ProductTypeID: fence.ID,
			ConditionFormula: "height >= 7", Priority: 5},
	}
	for _, entry := range entries {
		if err := s.CreateEligibility(ctx, entry); err != nil {
			return stats, err
		}
	}

	return stats, nil
}
