package schema

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// FromType builds a Schema from the JSON shape of struct T.
//
// JSON field names become columns in declaration order. Fields the JSON
// Schema reflector marks as required (no omitempty) are not nullable.
func FromType[T any]() (*Schema, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
	}

	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	js := r.ReflectFromType(t)

	required := make(map[string]bool, len(js.Required))
	for _, name := range js.Required {
		required[name] = true
	}

	s := &Schema{columns: make(map[string]Column)}
	if js.Properties == nil {
		return s, nil
	}

	for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		col := Column{Type: fieldTypeOf(pair.Value)}
		if required[pair.Key] {
			col.Nullable = Nullable(false)
		}
		if err := s.Set(pair.Key, col); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func fieldTypeOf(prop *jsonschema.Schema) FieldType {
	switch prop.Type {
	case "string":
		if prop.Format == "date-time" {
			return TypeTime
		}
		return TypeString
	case "number":
		return TypeNumber
	case "integer":
		return TypeInteger
	case "boolean":
		return TypeBool
	case "array":
		return TypeArray
	case "object":
		return TypeObject
	default:
		return TypeAny
	}
}
