// Package condition - textual predicate parsing
package condition

import (
	"strconv"
	"strings"

	"fence-bom/internal/errors"
)

// ParseFormula parses the one-line predicate of a group eligibility entry
// into the same structure Parse produces, so both shapes share one
// evaluator. Grammar: clauses joined by "&&", each clause either a
// comparison ("height >= 6", "gates == 0") or a component check
// ("has_component(barbed_wire)", "not_has_component(gate, gate_hardware)").
// An empty or blank formula parses to the empty (always true) condition.
func ParseFormula(formula string) (Condition, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return Condition{}, nil
	}

	var cond Condition
	for _, part := range strings.Split(formula, "&&") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Condition{}, errors.Newf(errors.TypeParsing,
				"condition formula %q: empty clause", formula)
		}
		clause, err := parseFormulaClause(part)
		if err != nil {
			return Condition{}, err
		}
		cond.Clauses = append(cond.Clauses, clause)
	}
	return cond, nil
}

// formulaOps in match order; two-character operators before their
// one-character prefixes.
var formulaOps = []struct {
	token string
	op    Op
	exact bool
}{
	{">=", OpGTE, false},
	{"<=", OpLTE, false},
	{"==", "", true},
	{">", OpGT, false},
	{"<", OpLT, false},
	{"=", "", true},
}

func parseFormulaClause(clause string) (Clause, error) {
	if codes, ok := parseCall(clause, "not_has_component"); ok {
		return Clause{Kind: KindNotHasComponent, Components: codes}, nil
	}
	if codes, ok := parseCall(clause, "has_component"); ok {
		return Clause{Kind: KindHasComponent, Components: codes}, nil
	}

	for _, candidate := range formulaOps {
		idx := strings.Index(clause, candidate.token)
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(clause[:idx])
		rhs := strings.TrimSpace(clause[idx+len(candidate.token):])
		if !isIdentifier(key) || rhs == "" {
			break
		}
		value, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return Clause{}, errors.Newf(errors.TypeParsing,
				"condition formula clause %q: %q is not a number", clause, rhs)
		}
		if candidate.exact {
			return Clause{Key: key, Kind: KindExact, Exact: value}, nil
		}
		return Clause{
			Key:    key,
			Kind:   KindRange,
			Bounds: []Bound{{Op: candidate.op, Value: value}},
		}, nil
	}

	return Clause{}, errors.Newf(errors.TypeParsing,
		"condition formula clause %q: not a comparison or component check", clause)
}

// isIdentifier reports whether s is a valid condition key name
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// parseCall matches "name(a, b, c)" and returns the arguments
func parseCall(clause, name string) ([]string, bool) {
	if !strings.HasPrefix(clause, name) {
		return nil, false
	}
	rest := strings.TrimSpace(clause[len(name):])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return nil, false
	}
	inner := rest[1 : len(rest)-1]
	var codes []string
	for _, arg := range strings.Split(inner, ",") {
		arg = strings.TrimSpace(arg)
		if arg != "" {
			codes = append(codes, arg)
		}
	}
	return codes, true
}
