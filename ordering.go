package rowset

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction of a SortRule.
type Direction string

const (
	// DirectionNone leaves the direction to the column's schema hint, or
	// toggles the current order when the column is already the sorted one.
	DirectionNone Direction = ""
	DirectionASC  Direction = "asc"
	DirectionDESC Direction = "desc"
)

// Valid reports whether o is a direction a SortRule accepts. DirectionNone
// is valid.
func (o Direction) Valid() bool {
	return o == DirectionNone || o == DirectionASC || o == DirectionDESC
}

// Reverse returns the opposite direction. DirectionNone reverses to itself.
func (o Direction) Reverse() Direction {
	switch o {
	case DirectionASC:
		return DirectionDESC
	case DirectionDESC:
		return DirectionASC
	default:
		return o
	}
}

// ForSQL returns the ORDER BY keyword for the direction. DirectionNone sorts
// ascending, as it does in memory.
func (o Direction) ForSQL() string {
	if o == DirectionDESC {
		return "DESC"
	}

	return "ASC"
}

// ParseDirection parses "asc" or "desc" in any case. An empty string yields
// DirectionNone.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return DirectionNone, fmt.Errorf("invalid sort direction '%s'", s)
	}

	return d, nil
}

type (
	// SortRule sorts the store by one column. Comparator and Transformer are
	// optional.
	SortRule struct {
		Column      string
		Direction   Direction
		Comparator  SortComparator
		Transformer Transformer
	}

	// SortRules are applied in order; the last rule is the primary key of
	// the resulting order.
	SortRules []SortRule

	ColumnAlias = string

	// ColumnMapping maps external column aliases to row field names.
	// Key is an external alias, value is an internal field name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o SortRule) validate() error {
	if o.Column == "" {
		return ruleErrorf(RuleKindSort, "column is required")
	}

	if !o.Direction.Valid() {
		return ruleErrorf(RuleKindSort, "invalid sort direction '%s'", o.Direction)
	}

	return nil
}

// validateSQL is validate plus the restrictions on pushing the rule down
// into a query: column names are limited to a safe character set and custom
// functions cannot be expressed in SQL.
func (o SortRule) validateSQL() error {
	if err := o.validate(); err != nil {
		return err
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return ruleErrorf(RuleKindSort, "column name contains forbidden symbols '%s'", o.Column)
	}

	if o.Comparator != nil || o.Transformer != nil {
		return ruleErrorf(RuleKindSort, "column '%s' uses a custom function", o.Column)
	}

	return nil
}

func (o SortRules) validate() error {
	for _, rule := range o {
		if err := rule.validate(); err != nil {
			return err
		}
	}

	return nil
}

// ToSQLSlice converts SortRules to a slice of strings in the form
// "<column> <ASC|DESC>" suitable for SQL query builders.
//
// The in-memory store applies rules one after another, so the last rule is
// the primary key. The slice lists the columns in ORDER BY precedence, i.e.
// reversed, and drops repeated columns after their first (most significant)
// occurrence.
//
// Example: for SortRules [{"a", "asc"}, {"b", "desc"}] returns ["b DESC", "a ASC"].
func (o SortRules) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	seen := make(map[string]struct{}, len(o))
	for i := len(o) - 1; i >= 0; i-- {
		if _, ok := seen[o[i].Column]; ok {
			continue
		}
		seen[o[i].Column] = struct{}{}

		ret = append(ret, fmt.Sprintf("%s %s", o[i].Column, o[i].Direction.ForSQL()))
	}

	return ret
}

// ToSQL converts SortRules to a single string
// "<column_1> <direction_1>, <column_2> <direction_2>" suitable for embedding
// into an SQL query. See ToSQLSlice for the column order.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", rules.ToSQL())
func (o SortRules) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query. Empty rules leave db as is.
func (o SortRules) Apply(db *gorm.DB) *gorm.DB {
	if len(o) == 0 {
		return db
	}

	return db.Order(o.ToSQL())
}

func (o SortRules) validateSQL() error {
	for _, rule := range o {
		if err := rule.validateSQL(); err != nil {
			return err
		}
	}

	return nil
}

// ParseSort builds SortRules from a list of strings in the format
// "column [asc|desc]". Column aliases are resolved via ColumnMapping; a nil
// mapping accepts every column name as is.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (SortRules, error) {
	ret := make(SortRules, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Fields(stringOrdering)
		if len(cutStringOrdering) < 1 || len(cutStringOrdering) > 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
		}

		columnAlias := cutStringOrdering[0]
		direction := DirectionNone
		if len(cutStringOrdering) == 2 {
			var err error
			direction, err = ParseDirection(cutStringOrdering[1])
			if err != nil {
				return nil, err
			}
		}

		columnName := columnAlias
		if columnMapping != nil {
			columnName = columnMapping[columnAlias]
			if columnName == "" {
				return nil, fmt.Errorf("invalid column alias. closest: '%s'", closestAlias(columnAlias, aliases))
			}
		}

		ret = append(ret, SortRule{
			Column:    columnName,
			Direction: direction,
		})
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
