package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/Alp4ka/rowset"
)

// FieldType is the value type a Column accepts.
type FieldType string

const (
	TypeAny     FieldType = ""
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBool    FieldType = "bool"
	TypeTime    FieldType = "time"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

var _fieldTypes = []FieldType{
	TypeAny,
	TypeString,
	TypeNumber,
	TypeInteger,
	TypeBool,
	TypeTime,
	TypeArray,
	TypeObject,
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	for _, ft := range _fieldTypes {
		if t == ft {
			return true
		}
	}

	return false
}

// Column is the definition of a single schema column.
type Column struct {
	Type FieldType
	// Nullable defaults to true when unset.
	Nullable *bool

	SortDirection   rowset.Direction
	SortComparator  rowset.SortComparator
	SortTransformer rowset.Transformer
}

// Nullable is a helper for Column.Nullable.
func Nullable(b bool) *bool {
	return &b
}

// IsNullable reports whether null-equivalent values are accepted.
func (c Column) IsNullable() bool {
	return c.Nullable == nil || *c.Nullable
}

// Accepts reports whether v satisfies the column: the null check first, then
// the type check, which null-equivalent values skip.
func (c Column) Accepts(v any) bool {
	if isNull(v) {
		return c.IsNullable()
	}

	return c.Type.matches(v)
}

func (c Column) validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("unknown type '%s'", c.Type)
	}
	if !c.SortDirection.Valid() {
		return fmt.Errorf("invalid sort direction '%s'", c.SortDirection)
	}

	return nil
}

func (c Column) sortHints() (rowset.SortHints, bool) {
	hints := rowset.SortHints{
		Direction:   c.SortDirection,
		Comparator:  c.SortComparator,
		Transformer: c.SortTransformer,
	}
	ok := hints.Direction != rowset.DirectionNone || hints.Comparator != nil || hints.Transformer != nil

	return hints, ok
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)

	return ok && s == ""
}

func (t FieldType) matches(v any) bool {
	switch t {
	case TypeAny:
		return true
	case TypeTime:
		_, ok := v.(time.Time)
		return ok
	}

	// json.Number has a string kind but is a number.
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return false
		}
		return t == TypeNumber || (t == TypeInteger && isWhole(f))
	}

	rv := reflect.ValueOf(v)
	switch t {
	case TypeString:
		return rv.Kind() == reflect.String
	case TypeBool:
		return rv.Kind() == reflect.Bool
	case TypeNumber:
		return rv.CanInt() || rv.CanUint() || rv.CanFloat()
	case TypeInteger:
		if rv.CanInt() || rv.CanUint() {
			return true
		}
		return rv.CanFloat() && isWhole(rv.Float())
	case TypeArray:
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	case TypeObject:
		return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
	default:
		return false
	}
}

func isWhole(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}
