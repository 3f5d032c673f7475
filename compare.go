package rowset

import (
	"cmp"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// SortComparator orders two (transformed) column values, returning -1, 0 or 1.
type SortComparator func(a, b any) int

// Transformer rewrites a column value before it is compared, e.g. to strip
// markup or change its type.
type Transformer func(v any) any

// DefaultSortComparator is the comparator used when a sort rule supplies none.
//
// Strings compare lexicographically, times chronologically and everything
// else numerically after coercion. Values that cannot be coerced to a common
// type (e.g. "a" and 1) are neither less nor greater and compare as 0.
func DefaultSortComparator(a, b any) int {
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	c, ok := looseCompare(a, b)
	if !ok {
		return 0
	}

	return c
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	default:
		return false
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	default:
		return isNumber(v)
	}
}

// toNumber coerces v to a float64. Non-numeric strings, NaN, nil and
// composite values do not convert. Text spells infinity only as
// "Infinity", optionally signed.
func toNumber(v any) (float64, bool) {
	var text string
	switch vt := v.(type) {
	case nil, time.Time:
		return 0, false
	case string:
		text = strings.TrimSpace(vt)
		v = text
	case json.Number:
		text = vt.String()
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	if math.IsInf(f, 0) && text != "" && strings.TrimLeft(text, "+-") != "Infinity" {
		return 0, false
	}

	return f, true
}

// looseCompare orders a and b. ok is false when the two values have no
// common ordering, in which case every relational comparison is false.
func looseCompare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString && bIsString {
		return strings.Compare(as, bs), true
	}

	at, aIsTime := a.(time.Time)
	bt, bIsTime := b.(time.Time)
	if aIsTime && bIsTime {
		return at.Compare(bt), true
	}

	fa, ok := toNumber(a)
	if !ok {
		return 0, false
	}
	fb, ok := toNumber(b)
	if !ok {
		return 0, false
	}

	return cmp.Compare(fa, fb), true
}

// strictEqual compares without coercion. All numeric kinds form a single
// number type, so int(1) and float64(1) are equal while "1" and 1 are not.
// Composite values are compared structurally.
func strictEqual(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		fa, aok := toNumber(a)
		fb, bok := toNumber(b)
		return aok && bok && fa == fb
	}

	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}

	return reflect.DeepEqual(a, b)
}

// looseEqual is strictEqual plus coercion between strings, numbers and
// booleans. nil only equals nil.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if strictEqual(a, b) {
		return true
	}
	if !isScalar(a) || !isScalar(b) {
		return false
	}

	_, aIsString := a.(string)
	_, bIsString := b.(string)
	if aIsString && bIsString {
		return false
	}

	fa, aok := toNumber(a)
	fb, bok := toNumber(b)

	return aok && bok && fa == fb
}
