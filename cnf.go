package rowset

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	tPredicate struct {
		Column   string
		Value    any
		Operator Operator
	}

	tClause []tPredicate

	// tCNF represents the conjunctive normal form (CNF) of a logical
	// expression. Clauses are joined by AND, and each clause consists of a
	// list of predicates which are joined by OR. A predicate is the value of
	// Operator(Column, Value).
	//
	// Thus:
	//
	//	CNF = X1 AND X2 ... AND Xn, where Xi = Pi1 OR Pi2 ... OR Pim.
	//
	// FilterRules map onto it directly: every rule is one clause, and every
	// (field, operator, value) combination of the rule is one predicate.
	tCNF []tClause
)

// toGORMExpression converts a predicate of the form Operator(Column, Value)
// into an SQL condition "Column Operator ?" represented as a clause.Expression.
func (p tPredicate) toGORMExpression() clause.Expression {
	sqlClause, args := p.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: lo.Map(args, func(v driver.Value, _ int) any { return v }),
	}
}

// toSQLClause converts a predicate to an SQL condition with its placeholder
// values. nil compares with IS [NOT] NULL and takes no placeholder.
//
// Example:
//
//	tPredicate = { Column: "id", Operator: "===", Value: 123}
//
// Result:
//
//	("id = ?", [123])
func (p tPredicate) toSQLClause() (string, []driver.Value) {
	if p.Value == nil {
		switch p.Operator {
		case OperatorNotEq, OperatorStrictNotEq:
			return fmt.Sprintf("%s IS NOT NULL", p.Column), nil
		default:
			return fmt.Sprintf("%s IS NULL", p.Column), nil
		}
	}

	return fmt.Sprintf("%s %s ?", p.Column, p.Operator.ForSQL()), []driver.Value{parseAnyValue(p.Value)}
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// toGORMExpression converts a clause (P1, P2, P3) into a gorm expression
// "P1 OR P2 OR P3".
func (c tClause) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(c))
	for _, predicate := range c {
		orExpressions = append(orExpressions, predicate.toGORMExpression())
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause converts a clause (P1, P2, P3) into an SQL condition
// "(P1 OR P2 OR P3)" with corresponding values.
//
// Example:
//
//	tClause = {
//		{Column: "status", Operator: "==", Value: "new"},
//		{Column: "status", Operator: "==", Value: "open"}
//	}
//
// Result:
//
//	("(status = ? OR status = ?)", ["new", "open"])
func (c tClause) toSQLClause() (string, []driver.Value) {
	orClauses := make([]string, 0, len(c))
	orValues := make([]driver.Value, 0, len(c))

	for _, predicate := range c {
		orClause, values := predicate.toSQLClause()
		orClauses = append(orClauses, orClause)
		orValues = append(orValues, values...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), orValues
	}

	return "", nil
}

// toGORMExpression converts a CNF into a clause.Expression joining the
// clauses with AND. Returns nil for an empty CNF.
func (c tCNF) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(c))

	for _, cl := range c {
		orExpression := cl.toGORMExpression()
		if orExpression == nil {
			continue
		}

		andExpressions = append(andExpressions, orExpression)
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a CNF into an SQL condition joining the clauses with
// AND. An empty CNF is "TRUE".
//
// Example:
//
//	tCNF = {
//		{{Column: "age", Operator: ">", Value: 18}},
//		{{Column: "status", Operator: "==", Value: "new"}, {Column: "status", Operator: "==", Value: "open"}},
//	}
//
// Result:
//
//	("((age > ?) AND (status = ? OR status = ?))", [18, "new", "open"])
func (c tCNF) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(c))
	values := make([]driver.Value, 0, len(c))

	for _, cl := range c {
		andClause, orValues := cl.toSQLClause()
		if andClause == "" {
			continue
		}

		andClauses = append(andClauses, andClause)
		values = append(values, orValues...)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), values
	}

	return "TRUE", nil
}

// toCNF pushes the rules down into SQL terms. Only built-in operators can
// be pushed down, and field names are restricted to a safe character set.
func (rs FilterRules) toCNF() (tCNF, error) {
	if err := rs.validate(); err != nil {
		return nil, err
	}

	cnf := make(tCNF, 0, len(rs))
	for _, rule := range rs {
		cl := make(tClause, 0, len(rule.Fields)*len(rule.Comparators)*len(rule.Values))
		for _, field := range rule.Fields {
			// Guard against SQL injection by restricting allowed characters in column names.
			if !lo.Every(_availableColumnNameSymbols, []rune(field)) {
				return nil, ruleErrorf(RuleKindFilter, "field name contains forbidden symbols '%s'", field)
			}

			for _, comparator := range rule.Comparators {
				operator, ok := comparator.(Operator)
				if !ok {
					return nil, ruleErrorf(RuleKindFilter, "custom comparators cannot be expressed in SQL")
				}

				for _, value := range rule.Values {
					if value == nil && !lo.Contains(_nullableOperators, operator) {
						return nil, ruleErrorf(RuleKindFilter, "operator '%s' cannot compare with null", operator)
					}

					cl = append(cl, tPredicate{Column: field, Value: value, Operator: operator})
				}
			}
		}
		cnf = append(cnf, cl)
	}

	return cnf, nil
}

var _nullableOperators = []Operator{OperatorEq, OperatorStrictEq, OperatorNotEq, OperatorStrictNotEq}

// ToSQL converts the rules into an SQL condition with "?" placeholders and
// the values for them. Every rule becomes a parenthesized OR group; groups
// are joined with AND.
//
// SQL equality has no loose variant, so "==" and "===" both become "=".
//
// Usage:
//
//	where, args, err := rules.ToSQL()
//	rows, err := db.Query("SELECT * FROM items WHERE "+where, args...)
func (rs FilterRules) ToSQL() (string, []driver.Value, error) {
	cnf, err := rs.toCNF()
	if err != nil {
		return "", nil, fmt.Errorf("cannot convert filter rules to SQL: %w", err)
	}

	sql, values := cnf.toSQLClause()

	return sql, values, nil
}

// ToGORMExpression converts the rules into a gorm condition. Returns nil for
// empty rules.
//
// Usage:
//
//	expr, err := rules.ToGORMExpression()
//	db = db.Where(expr)
func (rs FilterRules) ToGORMExpression() (clause.Expression, error) {
	cnf, err := rs.toCNF()
	if err != nil {
		return nil, fmt.Errorf("cannot convert filter rules to gorm expression: %w", err)
	}

	return cnf.toGORMExpression(), nil
}
