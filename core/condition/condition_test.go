package condition

import (
	"testing"

	"fence-bom/internal/errors"
)

// fakeContext is a minimal evaluation context for condition tests
type fakeContext struct {
	numbers    map[string]float64
	components map[string]bool
}

func (f *fakeContext) Numeric(key string) (float64, bool) {
	v, ok := f.numbers[key]
	return v, ok
}

func (f *fakeContext) HasComponent(code string) bool {
	return f.components[code]
}

func TestParseEmptyConditionAlwaysTrue(t *testing.T) {
	cond, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) returned error: %v", err)
	}
	if !cond.IsEmpty() {
		t.Fatal("expected empty condition")
	}
	if !cond.Eval(&fakeContext{}) {
		t.Error("empty condition must always evaluate true")
	}
}

func TestEvalConjunction(t *testing.T) {
	cond, err := Parse(map[string]interface{}{
		"height": map[string]interface{}{"min": 7.0},
		"gates":  map[string]interface{}{">": 0.0},
	})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	cases := []struct {
		name   string
		height float64
		gates  float64
		want   bool
	}{
		{"both hold", 7, 1, true},
		{"height at bound", 7, 2, true},
		{"height below", 6.5, 1, false},
		{"no gates", 8, 0, false},
		{"both fail", 6, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &fakeContext{numbers: map[string]float64{
				"height": tc.height,
				"gates":  tc.gates,
			}}
			if got := cond.Eval(ctx); got != tc.want {
				t.Errorf("Eval(height=%v, gates=%v) = %v, want %v",
					tc.height, tc.gates, got, tc.want)
			}
		})
	}
}

func TestExactMatchFromBareNumber(t *testing.T) {
	cond, err := Parse(map[string]interface{}{"lines": 2.0})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ctx := &fakeContext{numbers: map[string]float64{"lines": 2}}
	if !cond.Eval(ctx) {
		t.Error("exact match should hold for equal value")
	}

	ctx.numbers["lines"] = 3
	if cond.Eval(ctx) {
		t.Error("exact match should fail for unequal value")
	}
}

func TestComponentPresenceAndAbsence(t *testing.T) {
	cond, err := Parse(map[string]interface{}{
		"has_component":     []interface{}{"post", "picket"},
		"not_has_component": "barbed_wire",
	})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ctx := &fakeContext{components: map[string]bool{"post": true, "picket": true}}
	if !cond.Eval(ctx) {
		t.Error("expected eligible: both required present, excluded absent")
	}

	ctx.components["barbed_wire"] = true
	if cond.Eval(ctx) {
		t.Error("expected ineligible: excluded component present")
	}

	delete(ctx.components, "barbed_wire")
	delete(ctx.components, "picket")
	if cond.Eval(ctx) {
		t.Error("expected ineligible: required component missing")
	}
}

func TestUnresolvableKeyIsIgnored(t *testing.T) {
	cond, err := Parse(map[string]interface{}{
		"frost_depth": map[string]interface{}{"min": 42.0},
	})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !cond.Eval(&fakeContext{}) {
		t.Error("clause with unresolvable key must be ignored, not fail")
	}
}

func TestParseRejectsNonNumericValue(t *testing.T) {
	_, err := Parse(map[string]interface{}{"height": "tall"})
	if err == nil {
		t.Fatal("expected parsing error for non-numeric value")
	}
	if !errors.IsType(err, errors.TypeParsing) {
		t.Errorf("expected TypeParsing, got %v", err)
	}
}

func TestParseRejectsUnknownRangeOperator(t *testing.T) {
	_, err := Parse(map[string]interface{}{
		"height": map[string]interface{}{"between": 5.0},
	})
	if err == nil {
		t.Fatal("expected parsing error for unknown range operator")
	}
}

func TestParseFormulaComparisons(t *testing.T) {
	cond, err := ParseFormula("height >= 6 && gates > 0")
	if err != nil {
		t.Fatalf("ParseFormula returned error: %v", err)
	}
	if len(cond.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(cond.Clauses))
	}

	eligible := &fakeContext{numbers: map[string]float64{"height": 6, "gates": 1}}
	if !cond.Eval(eligible) {
		t.Error("expected eligible at height=6, gates=1")
	}

	ineligible := &fakeContext{numbers: map[string]float64{"height": 6, "gates": 0}}
	if cond.Eval(ineligible) {
		t.Error("expected ineligible at gates=0")
	}
}

func TestParseFormulaComponentCheck(t *testing.T) {
	cond, err := ParseFormula("has_component(gate_hardware) && height < 8")
	if err != nil {
		t.Fatalf("ParseFormula returned error: %v", err)
	}

	ctx := &fakeContext{
		numbers:    map[string]float64{"height": 6},
		components: map[string]bool{"gate_hardware": true},
	}
	if !cond.Eval(ctx) {
		t.Error("expected eligible")
	}

	delete(ctx.components, "gate_hardware")
	if cond.Eval(ctx) {
		t.Error("expected ineligible without gate_hardware")
	}
}

func TestParseFormulaBlankIsAlwaysTrue(t *testing.T) {
	cond, err := ParseFormula("   ")
	if err != nil {
		t.Fatalf("ParseFormula returned error: %v", err)
	}
	if !cond.Eval(&fakeContext{}) {
		t.Error("blank formula must always evaluate true")
	}
}

func TestParseFormulaRejectsGarbage(t *testing.T) {
	for _, formula := range []string{"height", "height >", ">= 6", "height between 1 and 2"} {
		if _, err := ParseFormula(formula); err == nil {
			t.Errorf("ParseFormula(%q) should fail", formula)
		}
	}
}
