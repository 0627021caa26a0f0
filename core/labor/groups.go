// Package labor - labor group selection policies
package labor

import (
	"sort"

	"fence-bom/core/condition"
	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

// ValidateGroupPolicy rejects the disallowed policy combination.
// optional+single is not a meaningful selection state and is refused
// when a group is created or edited.
func ValidateGroupPolicy(group types.LaborGroup) error {
	if !group.IsRequired && !group.AllowMultiple {
		return errors.Configf(
			"labor group %q: optional single-select is not an allowed policy", group.Name)
	}
	return nil
}

// Eligible filters a group's membership entries by their condition
// formulas. Entries with no formula are always offered. A formula that
// fails to parse is a configuration error.
func Eligible(entries []types.LaborGroupEligibility, ctx condition.Context) ([]types.LaborGroupEligibility, error) {
	eligible := make([]types.LaborGroupEligibility, 0, len(entries))
	for _, entry := range entries {
		cond, err := condition.ParseFormula(entry.ConditionFormula)
		if err != nil {
			return nil, errors.Wrap(errors.TypeConfig,
				"eligibility entry "+entry.ID+" has a malformed condition formula", err)
		}
		if cond.Eval(ctx) {
			eligible = append(eligible, entry)
		}
	}
	return eligible, nil
}

// Selected applies the group's selection policy to its eligible entries:
//   - required+single: exactly one, the default if flagged, else the
//     first eligible by descending priority
//   - required+multiple: all eligible, at least one
//   - optional+multiple: all eligible, possibly none
//
// A required group with no eligible entry is a configuration error.
func Selected(group types.LaborGroup, eligible []types.LaborGroupEligibility) ([]types.LaborGroupEligibility, error) {
	if err := ValidateGroupPolicy(group); err != nil {
		return nil, err
	}

	if group.IsRequired && len(eligible) == 0 {
		return nil, errors.Configf(
			"labor group %q requires at least one eligible labor code", group.Name)
	}

	if group.AllowMultiple {
		return eligible, nil
	}

	// Single-select: at most one entry is treated as selected.
	if len(eligible) == 0 {
		return nil, nil
	}
	for _, entry := range eligible {
		if entry.IsDefault {
			return []types.LaborGroupEligibility{entry}, nil
		}
	}

	byPriority := make([]types.LaborGroupEligibility, len(eligible))
	copy(byPriority, eligible)
	sort.Slice(byPriority, func(i, j int) bool {
		if byPriority[i].Priority != byPriority[j].Priority {
			return byPriority[i].Priority > byPriority[j].Priority
		}
		return byPriority[i].ID < byPriority[j].ID
	})
	return byPriority[:1], nil
}

// ApplyDefault toggles the default flag onto one entry and clears it on
// every sibling in the same group, in one pass. Stores enforce the same
// invariant transactionally; this is the shared in-memory form.
func ApplyDefault(entries []types.LaborGroupEligibility, entryID string) ([]types.LaborGroupEligibility, error) {
	found := false
	updated := make([]types.LaborGroupEligibility, len(entries))
	for i, entry := range entries {
		entry.IsDefault = entry.ID == entryID
		if entry.IsDefault {
			found = true
		}
		updated[i] = entry
	}
	if !found {
		return nil, errors.NotFound("labor group eligibility entry", entryID)
	}
	return updated, nil
}
