package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Alp4ka/rowset"
)

var _ rowset.SchemaValidator = (*JSONSchema)(nil)

// JSONSchema validates rows against a JSON Schema document.
type JSONSchema struct {
	schema     *gojsonschema.Schema
	properties map[string]*gojsonschema.Schema
}

// NewJSONSchema compiles doc. Each entry of the top-level "properties"
// object is also compiled on its own for IsValidField.
func NewJSONSchema(doc string) (*JSONSchema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid json schema: %w", err)
	}

	var raw struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("invalid json schema: %w", err)
	}

	properties := make(map[string]*gojsonschema.Schema, len(raw.Properties))
	for name, sub := range raw.Properties {
		ps, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(sub))
		if err != nil {
			return nil, fmt.Errorf("invalid json schema for property '%s': %w", name, err)
		}
		properties[name] = ps
	}

	return &JSONSchema{schema: schema, properties: properties}, nil
}

// Validate reports every schema violation of row.
func (s *JSONSchema) Validate(row rowset.Row) error {
	return validateDocument(s.schema, map[string]any(row))
}

func (s *JSONSchema) IsValidRow(row rowset.Row) bool {
	return s.Validate(row) == nil
}

// IsValidField validates value against the subschema of column. Columns
// without a subschema accept anything.
func (s *JSONSchema) IsValidField(column string, value any) bool {
	ps, ok := s.properties[column]
	if !ok {
		return true
	}

	return validateDocument(ps, value) == nil
}

func validateDocument(schema *gojsonschema.Schema, doc any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return errors.New("row invalid against schema: " + strings.Join(errs, "; "))
	}

	return nil
}
