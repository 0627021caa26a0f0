package labor

import (
	"testing"

	"fence-bom/core/types"
)

func entry(id string, priority int, formula string, isDefault bool) types.LaborGroupEligibility {
	return types.LaborGroupEligibility{
		ID:               id,
		GroupID:          "group-1",
		LaborCodeID:      "code-" + id,
		ProductTypeID:    "type-fence",
		ConditionFormula: formula,
		IsDefault:        isDefault,
		Priority:         priority,
	}
}

func TestOptionalSingleSelectRejected(t *testing.T) {
	group := types.LaborGroup{Name: "Post Setting", IsRequired: false, AllowMultiple: false}
	if err := ValidateGroupPolicy(group); err == nil {
		t.Fatal("optional+single must be rejected as a configuration state")
	}

	for _, g := range []types.LaborGroup{
		{Name: "a", IsRequired: true, AllowMultiple: false},
		{Name: "b", IsRequired: true, AllowMultiple: true},
		{Name: "c", IsRequired: false, AllowMultiple: true},
	} {
		if err := ValidateGroupPolicy(g); err != nil {
			t.Errorf("policy %+v should be allowed, got %v", g, err)
		}
	}
}

func TestEligibleFiltersByFormula(t *testing.T) {
	entries := []types.LaborGroupEligibility{
		entry("always", 1, "", false),
		entry("tall", 2, "height >= 6", false),
		entry("gated", 3, "gates > 0", false),
	}

	ctx := laborContext(6, 100, 0)
	eligible, err := Eligible(entries, ctx)
	if err != nil {
		t.Fatalf("Eligible returned error: %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible entries, got %d", len(eligible))
	}
	for _, e := range eligible {
		if e.ID == "gated" {
			t.Error("gated entry must not be eligible with zero gates")
		}
	}
}

func TestSelectedSingleSelectPrefersDefault(t *testing.T) {
	group := types.LaborGroup{Name: "Post Setting", IsRequired: true, AllowMultiple: false}
	eligible := []types.LaborGroupEligibility{
		entry("hand-dig", 5, "", false),
		entry("auger", 1, "", true),
	}

	selected, err := Selected(group, eligible)
	if err != nil {
		t.Fatalf("Selected returned error: %v", err)
	}
	if len(selected) != 1 || selected[0].ID != "auger" {
		t.Errorf("expected default entry auger, got %v", selected)
	}
}

func TestSelectedSingleSelectFallsBackToPriority(t *testing.T) {
	group := types.LaborGroup{Name: "Post Setting", IsRequired: true, AllowMultiple: false}
	eligible := []types.LaborGroupEligibility{
		entry("hand-dig", 5, "", false),
		entry("auger", 9, "", false),
	}

	selected, err := Selected(group, eligible)
	if err != nil {
		t.Fatalf("Selected returned error: %v", err)
	}
	if len(selected) != 1 || selected[0].ID != "auger" {
		t.Errorf("expected highest-priority entry auger, got %v", selected)
	}
}

func TestSelectedRequiredGroupNeedsEligibleEntry(t *testing.T) {
	group := types.LaborGroup{Name: "Post Setting", IsRequired: true, AllowMultiple: true}
	if _, err := Selected(group, nil); err == nil {
		t.Fatal("required group with no eligible entries must error")
	}
}

func TestSelectedOptionalMultipleAllowsNone(t *testing.T) {
	group := types.LaborGroup{Name: "Extras", IsRequired: false, AllowMultiple: true}
	selected, err := Selected(group, nil)
	if err != nil {
		t.Fatalf("Selected returned error: %v", err)
	}
	if len(selected) != 0 {
		t.Errorf("expected no selection, got %v", selected)
	}
}

func TestApplyDefaultClearsSiblings(t *testing.T) {
	entries := []types.LaborGroupEligibility{
		entry("hand-dig", 5, "", true),
		entry("auger", 1, "", false),
		entry("core-drill", 2, "", false),
	}

	updated, err := ApplyDefault(entries, "core-drill")
	if err != nil {
		t.Fatalf("ApplyDefault returned error: %v", err)
	}

	defaults := 0
	for _, e := range updated {
		if e.IsDefault {
			defaults++
			if e.ID != "core-drill" {
				t.Errorf("wrong default entry %q", e.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("expected exactly one default after toggle, got %d", defaults)
	}
}

func TestApplyDefaultUnknownEntry(t *testing.T) {
	entries := []types.LaborGroupEligibility{entry("hand-dig", 5, "", false)}
	if _, err := ApplyDefault(entries, "nope"); err == nil {
		t.Fatal("expected not-found error")
	}
}
