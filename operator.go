package rowset

import "fmt"

// Comparator decides whether a row's field value matches a rule value.
// Implemented by Operator and MatchFunc.
type Comparator interface {
	Match(field, value any) bool
}

// MatchFunc is a custom filter comparator. It must be pure: filter evaluation
// short-circuits, so side effects would depend on rule order.
type MatchFunc func(field, value any) bool

// Match - implements Comparator.
func (f MatchFunc) Match(field, value any) bool {
	return f(field, value)
}

// Operator is one of the built-in filter comparators.
type Operator string

const (
	OperatorGT          Operator = ">"
	OperatorGTE         Operator = ">="
	OperatorLT          Operator = "<"
	OperatorLTE         Operator = "<="
	OperatorEq          Operator = "=="
	OperatorStrictEq    Operator = "==="
	OperatorNotEq       Operator = "!="
	OperatorStrictNotEq Operator = "!=="
)

var _operators = []Operator{
	OperatorGT, OperatorGTE, OperatorLT, OperatorLTE,
	OperatorEq, OperatorStrictEq, OperatorNotEq, OperatorStrictNotEq,
}

func (o Operator) Valid() bool {
	switch o {
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE,
		OperatorEq, OperatorStrictEq, OperatorNotEq, OperatorStrictNotEq:
		return true
	default:
		return false
	}
}

// Match - implements Comparator.
//
// Relational operators compare strings lexicographically and everything else
// numerically after coercion; incomparable pairs never match. "==" and "!="
// coerce between strings, numbers and booleans, "===" and "!==" do not.
func (o Operator) Match(field, value any) bool {
	switch o {
	case OperatorGT:
		c, ok := looseCompare(field, value)
		return ok && c > 0
	case OperatorGTE:
		c, ok := looseCompare(field, value)
		return ok && c >= 0
	case OperatorLT:
		c, ok := looseCompare(field, value)
		return ok && c < 0
	case OperatorLTE:
		c, ok := looseCompare(field, value)
		return ok && c <= 0
	case OperatorEq:
		return looseEqual(field, value)
	case OperatorStrictEq:
		return strictEqual(field, value)
	case OperatorNotEq:
		return !looseEqual(field, value)
	case OperatorStrictNotEq:
		return !strictEqual(field, value)
	default:
		return false
	}
}

// ForSQL maps the operator onto its SQL spelling.
func (o Operator) ForSQL() string {
	switch o {
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE:
		return string(o)
	case OperatorEq, OperatorStrictEq:
		return "="
	case OperatorNotEq, OperatorStrictNotEq:
		return "<>"
	default:
		panic(fmt.Errorf("cannot map operator '%s' to SQL", o))
	}
}

// ParseOperator validates s as an Operator.
func ParseOperator(s string) (Operator, error) {
	o := Operator(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown operator '%s', expected one of %v", s, _operators)
	}

	return o, nil
}

var (
	_ Comparator = Operator("")
	_ Comparator = MatchFunc(nil)
)
