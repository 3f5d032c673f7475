package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alp4ka/rowset"
)

func Test_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rowset.FilterRules
	}{
		{
			name:  "single",
			input: "age >= 18",
			want:  rowset.FilterRules{rowset.NewFilterRule("age", rowset.OperatorGTE, int64(18))},
		},
		{
			name:  "alternatives",
			input: `status|state == 'open'|"new"`,
			want: rowset.FilterRules{{
				Fields:      []string{"status", "state"},
				Comparators: []rowset.Comparator{rowset.OperatorEq},
				Values:      []any{"open", "new"},
			}},
		},
		{
			name:  "conjunction",
			input: "score < 2.5 and active === true AND deleted !== null",
			want: rowset.FilterRules{
				rowset.NewFilterRule("score", rowset.OperatorLT, 2.5),
				rowset.NewFilterRule("active", rowset.OperatorStrictEq, true),
				rowset.NewFilterRule("deleted", rowset.OperatorStrictNotEq, nil),
			},
		},
		{
			name:  "several comparators",
			input: "n <|> -1|10",
			want: rowset.FilterRules{{
				Fields:      []string{"n"},
				Comparators: []rowset.Comparator{rowset.OperatorLT, rowset.OperatorGT},
				Values:      []any{int64(-1), int64(10)},
			}},
		},
		{
			name:  "dotted path led by a keyword",
			input: "cel.x == 1 AND null.flag|and.or !== null",
			want: rowset.FilterRules{
				rowset.NewFilterRule("cel.x", rowset.OperatorEq, int64(1)),
				{
					Fields:      []string{"null.flag", "and.or"},
					Comparators: []rowset.Comparator{rowset.OperatorStrictNotEq},
					Values:      []any{nil},
				},
			},
		},
		{
			name:  "quoted fields",
			input: "`true`|`cel` == true AND `first name` == 'Ann'",
			want: rowset.FilterRules{
				{
					Fields:      []string{"true", "cel"},
					Comparators: []rowset.Comparator{rowset.OperatorEq},
					Values:      []any{true},
				},
				rowset.NewFilterRule("first name", rowset.OperatorEq, "Ann"),
			},
		},
		{
			name:  "keyword prefix is an identifier",
			input: "android == 'x'",
			want:  rowset.FilterRules{rowset.NewFilterRule("android", rowset.OperatorEq, "x")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Parse_Errors(t *testing.T) {
	for _, input := range []string{"", "age", "age >=", ">= 3", "a == 1 AND", "a = 1", "a == 'x' OR b == 1", "null == 1", "`` == 1"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input, nil)
			assert.Error(t, err)
		})
	}
}

func Test_Parse_CustomComparator(t *testing.T) {
	var compiled []string
	resolve := func(expr string) (rowset.MatchFunc, error) {
		compiled = append(compiled, expr)
		if expr == "bad" {
			return nil, errors.New("does not compile")
		}
		return func(field, value any) bool { return field == value }, nil
	}

	rules, err := Parse(`name CEL('a == b') 'x'`, resolve)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules.Matches(rowset.Row{"name": "x"}))
	assert.False(t, rules.Matches(rowset.Row{"name": "y"}))
	assert.Equal(t, []string{"a == b"}, compiled)

	_, err = Parse(`name cel('bad') 'x'`, resolve)
	assert.Error(t, err)

	_, err = Parse(`name cel('a == b') 'x'`, nil)
	assert.ErrorIs(t, err, ErrNoResolver)
}

func Test_ParseAll(t *testing.T) {
	rules, err := ParseAll([]string{"a == 1", "b == 2 AND c == 3"}, nil)
	require.NoError(t, err)
	assert.Len(t, rules, 3)

	_, err = ParseAll([]string{"a == 1", "broken"}, nil)
	assert.Error(t, err)
}
