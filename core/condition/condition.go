// Package condition provides the typed eligibility condition model.
// Conditions are persisted as free-form key/value maps (labor rules) or
// one-line textual predicates (group eligibility); both parse into the
// same structure and share one evaluator.
package condition

import (
	"encoding/json"
	"sort"

	"fence-bom/internal/errors"
)

// Context supplies the values conditions are evaluated against
type Context interface {
	// Numeric resolves a condition key to a numeric value
	Numeric(key string) (float64, bool)

	// HasComponent reports whether a component code has a bound material
	HasComponent(code string) bool
}

// Kind is the closed set of clause kinds
type Kind int

const (
	// KindExact requires a numeric key to equal a value
	KindExact Kind = iota

	// KindRange requires a numeric key to satisfy every bound
	KindRange

	// KindHasComponent requires all listed components to be bound
	KindHasComponent

	// KindNotHasComponent requires none of the listed components to be bound
	KindNotHasComponent
)

// Op is a comparison operator in a range bound
type Op string

const (
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
)

// Bound is one comparison within a range clause
type Bound struct {
	// Op is the comparison operator
	Op Op `json:"op"`

	// Value is the comparison operand
	Value float64 `json:"value"`
}

// Holds reports whether v satisfies the bound
func (b Bound) Holds(v float64) bool {
	switch b.Op {
	case OpGT:
		return v > b.Value
	case OpGTE:
		return v >= b.Value
	case OpLT:
		return v < b.Value
	case OpLTE:
		return v <= b.Value
	}
	return false
}

// Clause is a single parsed condition clause
type Clause struct {
	// Key is the condition key (empty for component clauses)
	Key string `json:"key,omitempty"`

	// Kind selects the clause semantics
	Kind Kind `json:"kind"`

	// Exact is the required value for KindExact
	Exact float64 `json:"exact,omitempty"`

	// Bounds are the conjunctive comparisons for KindRange
	Bounds []Bound `json:"bounds,omitempty"`

	// Components are the component codes for presence/absence clauses
	Components []string `json:"components,omitempty"`
}

// Condition is a conjunction of clauses. An empty condition is always true.
type Condition struct {
	Clauses []Clause `json:"clauses,omitempty"`
}

// IsEmpty reports whether the condition has no clauses
func (c Condition) IsEmpty() bool {
	return len(c.Clauses) == 0
}

// Eval evaluates the condition against a context. All clauses must hold.
// A numeric clause whose key the context cannot resolve is ignored,
// keeping conditions forward compatible with keys this engine does not
// yet understand.
func (c Condition) Eval(ctx Context) bool {
	for _, clause := range c.Clauses {
		switch clause.Kind {
		case KindExact:
			v, ok := ctx.Numeric(clause.Key)
			if !ok {
				continue
			}
			if v != clause.Exact {
				return false
			}

		case KindRange:
			v, ok := ctx.Numeric(clause.Key)
			if !ok {
				continue
			}
			for _, b := range clause.Bounds {
				if !b.Holds(v) {
					return false
				}
			}

		case KindHasComponent:
			for _, code := range clause.Components {
				if !ctx.HasComponent(code) {
					return false
				}
			}

		case KindNotHasComponent:
			for _, code := range clause.Components {
				if ctx.HasComponent(code) {
					return false
				}
			}
		}
	}
	return true
}

// rangeOps maps the persisted spec keys of a range map onto operators.
// "min" and "max" are inclusive.
var rangeOps = map[string]Op{
	"min": OpGTE,
	"max": OpLTE,
	">":   OpGT,
	">=":  OpGTE,
	"<":   OpLT,
	"<=":  OpLTE,
}

// Parse builds a condition from the persisted key/value map of a labor
// rule. Numeric keys accept a bare number (exact match) or a range spec
// map; has_component/not_has_component accept a list of component codes.
// Non-numeric values for numeric keys are rejected; unknown range
// operators are rejected. A nil or empty map parses to the empty
// (always true) condition.
func Parse(raw map[string]interface{}) (Condition, error) {
	if len(raw) == 0 {
		return Condition{}, nil
	}

	// Sorted iteration keeps parse errors and clause order deterministic.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var cond Condition
	for _, key := range keys {
		value := raw[key]
		switch key {
		case "has_component", "not_has_component":
			codes, err := parseComponentList(key, value)
			if err != nil {
				return Condition{}, err
			}
			kind := KindHasComponent
			if key == "not_has_component" {
				kind = KindNotHasComponent
			}
			cond.Clauses = append(cond.Clauses, Clause{Kind: kind, Components: codes})

		default:
			clause, err := parseNumericClause(key, value)
			if err != nil {
				return Condition{}, err
			}
			cond.Clauses = append(cond.Clauses, clause)
		}
	}
	return cond, nil
}

func parseNumericClause(key string, value interface{}) (Clause, error) {
	if n, ok := asFloat(value); ok {
		return Clause{Key: key, Kind: KindExact, Exact: n}, nil
	}

	spec, ok := value.(map[string]interface{})
	if !ok {
		return Clause{}, errors.Newf(errors.TypeParsing,
			"condition key %q: expected number or range spec, got %T", key, value)
	}

	ops := make([]string, 0, len(spec))
	for op := range spec {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	clause := Clause{Key: key, Kind: KindRange}
	for _, op := range ops {
		bop, known := rangeOps[op]
		if !known {
			return Clause{}, errors.Newf(errors.TypeParsing,
				"condition key %q: unknown range operator %q", key, op)
		}
		n, ok := asFloat(spec[op])
		if !ok {
			return Clause{}, errors.Newf(errors.TypeParsing,
				"condition key %q: operator %q requires a number, got %T", key, op, spec[op])
		}
		clause.Bounds = append(clause.Bounds, Bound{Op: bop, Value: n})
	}
	if len(clause.Bounds) == 0 {
		return Clause{}, errors.Newf(errors.TypeParsing,
			"condition key %q: empty range spec", key)
	}
	return clause, nil
}

func parseComponentList(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []interface{}:
		codes := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf(errors.TypeParsing,
					"condition key %q: expected component code string, got %T", key, item)
			}
			codes = append(codes, s)
		}
		return codes, nil
	}
	return nil, errors.Newf(errors.TypeParsing,
		"condition key %q: expected list of component codes, got %T", key, value)
}

// asFloat coerces the numeric shapes JSON decoding can produce
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
