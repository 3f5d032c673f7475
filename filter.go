package rowset

import "github.com/samber/lo"

type (
	// FilterRule matches a row if ANY combination drawn from
	// Fields x Comparators x Values evaluates true.
	//
	// Evaluation order is fields (outer), comparators, values (inner); the
	// first true combination wins. A field absent from the row never matches.
	FilterRule struct {
		Fields      []string
		Comparators []Comparator
		Values      []any
	}

	// FilterRules are combined with AND: a row must match every rule.
	FilterRules []FilterRule
)

// NewFilterRule builds a single-field, single-comparator rule matching any of
// values.
func NewFilterRule(field string, comparator Comparator, values ...any) FilterRule {
	return FilterRule{
		Fields:      []string{field},
		Comparators: []Comparator{comparator},
		Values:      values,
	}
}

func (r FilterRule) validate() error {
	if len(r.Fields) == 0 {
		return ruleErrorf(RuleKindFilter, "fields are required")
	}
	if len(r.Comparators) == 0 {
		return ruleErrorf(RuleKindFilter, "comparators are required")
	}
	if len(r.Values) == 0 {
		return ruleErrorf(RuleKindFilter, "values are required")
	}

	if lo.Contains(r.Fields, "") {
		return ruleErrorf(RuleKindFilter, "empty field name")
	}

	for _, c := range r.Comparators {
		switch ct := c.(type) {
		case nil:
			return ruleErrorf(RuleKindFilter, "nil comparator")
		case Operator:
			if !ct.Valid() {
				return ruleErrorf(RuleKindFilter, "unknown operator '%s'", ct)
			}
		case MatchFunc:
			if ct == nil {
				return ruleErrorf(RuleKindFilter, "nil match function")
			}
		}
	}

	return nil
}

// Matches reports whether row satisfies the rule.
func (r FilterRule) Matches(row Row) bool {
	for _, field := range r.Fields {
		data, ok := row[field]
		if !ok {
			continue
		}

		for _, comparator := range r.Comparators {
			for _, value := range r.Values {
				if comparator.Match(data, value) {
					return true
				}
			}
		}
	}

	return false
}

// Matches reports whether row satisfies every rule. An empty rule set
// matches all rows.
func (rs FilterRules) Matches(row Row) bool {
	for _, rule := range rs {
		if !rule.Matches(row) {
			return false
		}
	}

	return true
}

func (rs FilterRules) validate() error {
	for _, rule := range rs {
		if err := rule.validate(); err != nil {
			return err
		}
	}

	return nil
}
