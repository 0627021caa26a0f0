// Package sqlite - store.Store implementation
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fence-bom/core/labor"
	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func marshalMap[V any](m map[string]V) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func unmarshalMap[V any](raw string) map[string]V {
	if raw == "" || raw == "{}" {
		return nil
	}
	var m map[string]V
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func parseDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CreateProductType inserts a product type
func (s *Store) CreateProductType(ctx context.Context, pt *types.ProductType) error {
	ensureID(&pt.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO product_types (id, code, name, default_post_spacing)
			VALUES (?, ?, ?, ?)`,
			pt.ID, pt.Code, pt.Name, pt.DefaultPostSpacing)
		if err != nil {
			return errors.Storage("insert product type", err)
		}
		return nil
	})
}

// ListProductTypes returns all product types ordered by code
func (s *Store) ListProductTypes(ctx context.Context) ([]types.ProductType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, default_post_spacing
		FROM product_types ORDER BY code`)
	if err != nil {
		return nil, errors.Storage("list product types", err)
	}
	defer rows.Close()

	var out []types.ProductType
	for rows.Next() {
		var pt types.ProductType
		if err := rows.Scan(&pt.ID, &pt.Code, &pt.Name, &pt.DefaultPostSpacing); err != nil {
			return nil, errors.Storage("scan product type", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// CreateStyle inserts a style
func (s *Store) CreateStyle(ctx context.Context, style *types.ProductStyle) error {
	ensureID(&style.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO product_styles (id, product_type_id, code, name, formula_adjustments)
			VALUES (?, ?, ?, ?, ?)`,
			style.ID, style.ProductTypeID, style.Code, style.Name,
			marshalMap(style.FormulaAdjustments))
		if err != nil {
			return errors.Storage("insert product style", err)
		}
		return nil
	})
}

// ListStyles returns the styles of a product type ordered by code
func (s *Store) ListStyles(ctx context.Context, productTypeID string) ([]types.ProductStyle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_type_id, code, name, formula_adjustments
		FROM product_styles WHERE product_type_id = ? ORDER BY code`, productTypeID)
	if err != nil {
		return nil, errors.Storage("list product styles", err)
	}
	defer rows.Close()

	var out []types.ProductStyle
	for rows.Next() {
		var style types.ProductStyle
		var adjustments string
		if err := rows.Scan(&style.ID, &style.ProductTypeID, &style.Code,
			&style.Name, &adjustments); err != nil {
			return nil, errors.Storage("scan product style", err)
		}
		style.FormulaAdjustments = unmarshalMap[float64](adjustments)
		out = append(out, style)
	}
	return out, rows.Err()
}

// CreateComponent inserts a component slot
func (s *Store) CreateComponent(ctx context.Context, component *types.Component) error {
	ensureID(&component.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO components (id, product_type_id, code, name, unit_type)
			VALUES (?, ?, ?, ?, ?)`,
			component.ID, component.ProductTypeID, component.Code,
			component.Name, component.UnitType)
		if err != nil {
			return errors.Storage("insert component", err)
		}
		return nil
	})
}

// ListComponents returns the components of a product type ordered by code
func (s *Store) ListComponents(ctx context.Context, productTypeID string) ([]types.Component, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_type_id, code, name, unit_type
		FROM components WHERE product_type_id = ? ORDER BY code`, productTypeID)
	if err != nil {
		return nil, errors.Storage("list components", err)
	}
	defer rows.Close()

	var out []types.Component
	for rows.Next() {
		var c types.Component
		if err := rows.Scan(&c.ID, &c.ProductTypeID, &c.Code, &c.Name, &c.UnitType); err != nil {
			return nil, errors.Storage("scan component", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateSKU inserts a SKU and its bindings in one transaction
func (s *Store) CreateSKU(ctx context.Context, sku *types.ProductSKU, bindings []types.MaterialBinding) error {
	ensureID(&sku.ID)
	return withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Storage("begin transaction", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_skus (id, sku, name, product_type_id, style_id, height, post_type, post_spacing)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sku.ID, sku.SKU, sku.Name, sku.ProductTypeID, sku.StyleID,
			sku.Height, sku.PostType, sku.PostSpacing); err != nil {
			return errors.Storage("insert product sku", err)
		}

		for _, b := range bindings {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sku_bindings (sku_id, component_id, component_code, material_id, material_sku, description, unit_type, unit_cost, attributes)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sku.ID, b.ComponentID, b.ComponentCode, b.MaterialID,
				b.MaterialSKU, b.Description, b.UnitType,
				b.UnitCost.String(), marshalMap(b.Attributes)); err != nil {
				return errors.Storage("insert sku binding", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return errors.Storage("commit sku", err)
		}
		return nil
	})
}

// GetSKU returns a SKU joined with its type, style, and bindings
func (s *Store) GetSKU(ctx context.Context, skuID string) (*types.ProductSKUWithDetails, error) {
	details := &types.ProductSKUWithDetails{}
	var styleID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT ps.id, ps.sku, ps.name, ps.product_type_id, ps.style_id,
		       ps.height, ps.post_type, ps.post_spacing,
		       pt.id, pt.code, pt.name, pt.default_post_spacing
		FROM product_skus ps
		JOIN product_types pt ON pt.id = ps.product_type_id
		WHERE ps.id = ?`, skuID).Scan(
		&details.ID, &details.SKU, &details.Name, &details.ProductTypeID,
		&styleID, &details.Height, &details.PostType, &details.PostSpacing,
		&details.ProductType.ID, &details.ProductType.Code,
		&details.ProductType.Name, &details.ProductType.DefaultPostSpacing)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("product SKU", skuID)
	}
	if err != nil {
		return nil, errors.Storage("get product sku", err)
	}

	if styleID.Valid {
		details.StyleID = &styleID.String
		var style types.ProductStyle
		var adjustments string
		err := s.db.QueryRowContext(ctx, `
			SELECT id, product_type_id, code, name, formula_adjustments
			FROM product_styles WHERE id = ?`, styleID.String).Scan(
			&style.ID, &style.ProductTypeID, &style.Code, &style.Name, &adjustments)
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.Storage("get product style", err)
		}
		if err == nil {
			style.FormulaAdjustments = unmarshalMap[float64](adjustments)
			details.Style = &style
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT component_id, component_code, material_id, material_sku,
		       description, unit_type, unit_cost, attributes
		FROM sku_bindings WHERE sku_id = ? ORDER BY component_code`, skuID)
	if err != nil {
		return nil, errors.Storage("list sku bindings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b types.MaterialBinding
		var unitCost, attributes string
		if err := rows.Scan(&b.ComponentID, &b.ComponentCode, &b.MaterialID,
			&b.MaterialSKU, &b.Description, &b.UnitType, &unitCost, &attributes); err != nil {
			return nil, errors.Storage("scan sku binding", err)
		}
		b.UnitCost = parseDecimal(unitCost)
		b.Attributes = unmarshalMap[float64](attributes)
		details.Bindings = append(details.Bindings, b)
	}
	return details, rows.Err()
}

// ListSKUs returns all SKUs ordered by SKU code
func (s *Store) ListSKUs(ctx context.Context) ([]types.ProductSKU, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, product_type_id, style_id, height, post_type, post_spacing
		FROM product_skus ORDER BY sku`)
	if err != nil {
		return nil, errors.Storage("list product skus", err)
	}
	defer rows.Close()

	var out []types.ProductSKU
	for rows.Next() {
		var sku types.ProductSKU
		var styleID sql.NullString
		if err := rows.Scan(&sku.ID, &sku.SKU, &sku.Name, &sku.ProductTypeID,
			&styleID, &sku.Height, &sku.PostType, &sku.PostSpacing); err != nil {
			return nil, errors.Storage("scan product sku", err)
		}
		if styleID.Valid {
			sku.StyleID = &styleID.String
		}
		out = append(out, sku)
	}
	return out, rows.Err()
}

// CreateParameter inserts a formula parameter
func (s *Store) CreateParameter(ctx context.Context, p *types.FormulaParameter) error {
	if p.Scope.Specificity() < 0 {
		return errors.Configf("unknown parameter scope %q", p.Scope)
	}
	ensureID(&p.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO formula_parameters (id, parameter_key, parameter_value, scope, product_type_id, style_id, component_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.ParameterKey, p.ParameterValue, string(p.Scope),
			p.ProductTypeID, p.StyleID, p.ComponentID)
		if err != nil {
			return errors.Storage("insert formula parameter", err)
		}
		return nil
	})
}

// GetParameters returns global parameters plus every parameter scoped to
// the product type, ordered by ID for deterministic resolution input.
func (s *Store) GetParameters(ctx context.Context, productTypeID string) ([]types.FormulaParameter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parameter_key, parameter_value, scope, product_type_id, style_id, component_id
		FROM formula_parameters
		WHERE scope = 'global' OR product_type_id = ?
		ORDER BY id`, productTypeID)
	if err != nil {
		return nil, errors.Storage("list formula parameters", err)
	}
	defer rows.Close()

	var out []types.FormulaParameter
	for rows.Next() {
		var p types.FormulaParameter
		var scope string
		var styleID, componentID sql.NullString
		if err := rows.Scan(&p.ID, &p.ParameterKey, &p.ParameterValue,
			&scope, &p.ProductTypeID, &styleID, &componentID); err != nil {
			return nil, errors.Storage("scan formula parameter", err)
		}
		p.Scope = types.ParameterScope(scope)
		if styleID.Valid {
			p.StyleID = &styleID.String
		}
		if componentID.Valid {
			p.ComponentID = &componentID.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateLaborCode inserts a labor code
func (s *Store) CreateLaborCode(ctx context.Context, code *types.LaborCode) error {
	ensureID(&code.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO labor_codes (id, sku, description, unit_type)
			VALUES (?, ?, ?, ?)`,
			code.ID, code.SKU, code.Description, code.UnitType)
		if err != nil {
			return errors.Storage("insert labor code", err)
		}
		return nil
	})
}

// ListLaborCodes returns all labor codes ordered by SKU
func (s *Store) ListLaborCodes(ctx context.Context) ([]types.LaborCode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, description, unit_type FROM labor_codes ORDER BY sku`)
	if err != nil {
		return nil, errors.Storage("list labor codes", err)
	}
	defer rows.Close()

	var out []types.LaborCode
	for rows.Next() {
		var code types.LaborCode
		if err := rows.Scan(&code.ID, &code.SKU, &code.Description, &code.UnitType); err != nil {
			return nil, errors.Storage("scan labor code", err)
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

// CreateLaborRule inserts a labor rule
func (s *Store) CreateLaborRule(ctx context.Context, rule *types.LaborRule) error {
	ensureID(&rule.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO labor_rules (id, product_type_id, style_id, labor_code_id, condition, quantity_formula, priority, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rule.ID, rule.ProductTypeID, rule.StyleID, rule.LaborCodeID,
			marshalMap(rule.Condition), rule.QuantityFormula,
			rule.Priority, rule.IsActive)
		if err != nil {
			return errors.Storage("insert labor rule", err)
		}
		return nil
	})
}

// GetLaborRules returns the active and inactive rules for a product
// type, optionally narrowed by style; style-null rules always match.
func (s *Store) GetLaborRules(ctx context.Context, productTypeID string, styleID *string) ([]types.LaborRuleWithDetails, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lr.id, lr.product_type_id, lr.style_id, lr.labor_code_id,
		       lr.condition, lr.quantity_formula, lr.priority, lr.is_active,
		       lc.id, lc.sku, lc.description, lc.unit_type
		FROM labor_rules lr
		JOIN labor_codes lc ON lc.id = lr.labor_code_id
		WHERE lr.product_type_id = ?
		  AND (lr.style_id IS NULL OR lr.style_id = ?)
		ORDER BY lr.priority DESC, lr.id`, productTypeID, styleID)
	if err != nil {
		return nil, errors.Storage("list labor rules", err)
	}
	defer rows.Close()

	var out []types.LaborRuleWithDetails
	for rows.Next() {
		var rule types.LaborRuleWithDetails
		var ruleStyleID sql.NullString
		var cond string
		if err := rows.Scan(&rule.ID, &rule.ProductTypeID, &ruleStyleID,
			&rule.LaborCodeID, &cond, &rule.QuantityFormula,
			&rule.Priority, &rule.IsActive,
			&rule.Code.ID, &rule.Code.SKU, &rule.Code.Description,
			&rule.Code.UnitType); err != nil {
			return nil, errors.Storage("scan labor rule", err)
		}
		if ruleStyleID.Valid {
			rule.StyleID = &ruleStyleID.String
		}
		rule.Condition = unmarshalMap[interface{}](cond)
		out = append(out, rule)
	}
	return out, rows.Err()
}

// SetLaborRate upserts one business unit's rate for a labor code
func (s *Store) SetLaborRate(ctx context.Context, businessUnitID, laborCodeID string, rate decimal.Decimal) error {
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO labor_rates (business_unit_id, labor_code_id, rate)
			VALUES (?, ?, ?)
			ON CONFLICT (business_unit_id, labor_code_id) DO UPDATE SET rate = excluded.rate`,
			businessUnitID, laborCodeID, rate.String())
		if err != nil {
			return errors.Storage("set labor rate", err)
		}
		return nil
	})
}

// GetLaborRates returns a business unit's rate table; empty is valid
func (s *Store) GetLaborRates(ctx context.Context, businessUnitID string) (types.LaborRates, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT labor_code_id, rate FROM labor_rates WHERE business_unit_id = ?`,
		businessUnitID)
	if err != nil {
		return nil, errors.Storage("list labor rates", err)
	}
	defer rows.Close()

	rates := types.LaborRates{}
	for rows.Next() {
		var codeID, rate string
		if err := rows.Scan(&codeID, &rate); err != nil {
			return nil, errors.Storage("scan labor rate", err)
		}
		rates[codeID] = parseDecimal(rate)
	}
	return rates, rows.Err()
}

// CreateLaborGroup inserts a labor group, rejecting optional+single
func (s *Store) CreateLaborGroup(ctx context.Context, group *types.LaborGroup) error {
	if err := labor.ValidateGroupPolicy(*group); err != nil {
		return err
	}
	ensureID(&group.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO labor_groups (id, name, is_required, allow_multiple)
			VALUES (?, ?, ?, ?)`,
			group.ID, group.Name, group.IsRequired, group.AllowMultiple)
		if err != nil {
			return errors.Storage("insert labor group", err)
		}
		return nil
	})
}

// ListLaborGroups returns all labor groups ordered by name
func (s *Store) ListLaborGroups(ctx context.Context) ([]types.LaborGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, is_required, allow_multiple FROM labor_groups ORDER BY name`)
	if err != nil {
		return nil, errors.Storage("list labor groups", err)
	}
	defer rows.Close()

	var out []types.LaborGroup
	for rows.Next() {
		var g types.LaborGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.IsRequired, &g.AllowMultiple); err != nil {
			return nil, errors.Storage("scan labor group", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CreateEligibility inserts a group membership entry
func (s *Store) CreateEligibility(ctx context.Context, entry *types.LaborGroupEligibility) error {
	ensureID(&entry.ID)
	return withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO labor_group_eligibility (id, group_id, labor_code_id, product_type_id, condition_formula, is_default, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.GroupID, entry.LaborCodeID, entry.ProductTypeID,
			entry.ConditionFormula, entry.IsDefault, entry.Priority)
		if err != nil {
			return errors.Storage("insert eligibility entry", err)
		}
		return nil
	})
}

// ListEligibility returns a group's membership entries
func (s *Store) ListEligibility(ctx context.Context, groupID string) ([]types.LaborGroupEligibility, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, labor_code_id, product_type_id, condition_formula, is_default, priority
		FROM labor_group_eligibility WHERE group_id = ? ORDER BY id`, groupID)
	if err != nil {
		return nil, errors.Storage("list eligibility entries", err)
	}
	defer rows.Close()

	var out []types.LaborGroupEligibility
	for rows.Next() {
		var e types.LaborGroupEligibility
		if err := rows.Scan(&e.ID, &e.GroupID, &e.LaborCodeID, &e.ProductTypeID,
			&e.ConditionFormula, &e.IsDefault, &e.Priority); err != nil {
			return nil, errors.Storage("scan eligibility entry", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetDefaultEligibility clears the default flag on every entry in the
// group and sets it on one, in a single transaction. The single-default
// invariant is enforced here, not in callers.
func (s *Store) SetDefaultEligibility(ctx context.Context, groupID, entryID string) error {
	return withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Storage("begin transaction", err)
		}
		defer tx.Rollback()

		result, err := tx.ExecContext(ctx, `
			UPDATE labor_group_eligibility
			SET is_default = CASE WHEN id = ? THEN 1 ELSE 0 END
			WHERE group_id = ?`, entryID, groupID)
		if err != nil {
			return errors.Storage("toggle default eligibility", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Storage("toggle default eligibility", err)
		}
		if affected == 0 {
			return errors.NotFound("labor group", groupID)
		}

		var isDefault bool
		err = tx.QueryRowContext(ctx, `
			SELECT is_default FROM labor_group_eligibility
			WHERE id = ? AND group_id = ?`, entryID, groupID).Scan(&isDefault)
		if err == sql.ErrNoRows || (err == nil && !isDefault) {
			return errors.NotFound("labor group eligibility entry", entryID)
		}
		if err != nil {
			return errors.Storage("verify default eligibility", err)
		}

		if err := tx.Commit(); err != nil {
			return errors.Storage("commit default eligibility", err)
		}
		return nil
	})
}
