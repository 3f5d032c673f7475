package rowset

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Operator_Valid_And_ForSQL(t *testing.T) {
	tests := []struct {
		name  string
		in    Operator
		valid bool
		sql   string
	}{
		{"GT maps to itself", OperatorGT, true, ">"},
		{"LTE maps to itself", OperatorLTE, true, "<="},
		{"loose equality maps to =", OperatorEq, true, "="},
		{"strict equality maps to =", OperatorStrictEq, true, "="},
		{"loose inequality maps to <>", OperatorNotEq, true, "<>"},
		{"strict inequality maps to <>", OperatorStrictNotEq, true, "<>"},
		{"unknown operator", "<>", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.in.Valid())
			if !tt.valid {
				assert.Panics(t, func() { _ = tt.in.ForSQL() })
				return
			}

			assert.Equal(t, tt.sql, tt.in.ForSQL())
		})
	}
}

func Test_ParseOperator(t *testing.T) {
	for _, op := range _operators {
		got, err := ParseOperator(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	_, err := ParseOperator("=~")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "===")
}

func Test_Operator_Match(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		op    Operator
		field any
		value any
		want  bool
	}{
		{OperatorGT, 5, 3, true},
		{OperatorGT, 3, 3, false},
		{OperatorGTE, 3, 3.0, true},
		{OperatorLT, "apple", "banana", true},
		{OperatorLT, "10", "9", true},
		{OperatorGT, "10", 9, true},
		{OperatorLTE, day, day.Add(time.Hour), true},
		{OperatorGT, "a", 1, false},
		{OperatorLT, "a", 1, false},
		{OperatorGT, nil, 0, false},
		{OperatorGT, []any{1}, 0, false},
		{OperatorGT, "Infinity", 5, true},
		{OperatorLT, " -Infinity ", 5, true},
		{OperatorGT, "inf", 5, false},
		{OperatorGT, "INFINITY", 5, false},
		{OperatorLT, "-inf", 5, false},
		{OperatorGT, math.Inf(1), 5, true},
		{OperatorEq, "inf", math.Inf(1), false},

		{OperatorEq, 1, 1.0, true},
		{OperatorEq, "1", 1, true},
		{OperatorEq, true, 1, true},
		{OperatorEq, "abc", "ABC", false},
		{OperatorEq, "1.0", "1", false},
		{OperatorEq, nil, nil, true},
		{OperatorEq, nil, 0, false},
		{OperatorEq, day, day, true},

		{OperatorStrictEq, 1, int64(1), true},
		{OperatorStrictEq, "1", 1, false},
		{OperatorStrictEq, true, 1, false},
		{OperatorStrictEq, []any{"a"}, []any{"a"}, true},

		{OperatorNotEq, "1", 1, false},
		{OperatorNotEq, "a", "b", true},
		{OperatorStrictNotEq, "1", 1, true},
		{OperatorStrictNotEq, 2, 2, false},

		{Operator("~"), 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %s %v", tt.field, tt.op, tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Match(tt.field, tt.value))
		})
	}
}

func Test_MatchFunc_Match(t *testing.T) {
	prefix := MatchFunc(func(field, value any) bool {
		s, ok := field.(string)
		p, _ := value.(string)
		return ok && strings.HasPrefix(s, p)
	})

	assert.True(t, prefix.Match("rowset", "row"))
	assert.False(t, prefix.Match("rowset", "set"))
	assert.False(t, prefix.Match(42, "4"))
}

func Test_DefaultSortComparator(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil first", nil, 1, -1},
		{"nil second", 1, nil, 1},
		{"numbers", 2, 10, -1},
		{"numeric strings compare as text", "2", "10", 1},
		{"mixed number and numeric string", "2", 10, -1},
		{"incomparable", "a", 1, 0},
		{"equal", "x", "x", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultSortComparator(tt.a, tt.b))
		})
	}
}
