// Package schema provides row validators for rowset stores: an ordered column
// schema built by hand, from YAML or from a Go struct, and a JSON Schema
// backed validator.
package schema

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/Alp4ka/rowset"
)

var (
	_ rowset.SchemaValidator = (*Schema)(nil)
	_ rowset.SortHinter      = (*Schema)(nil)
)

// Def names a column for New.
type Def struct {
	Name string
	Column
}

// Schema is an ordered set of column definitions. The order is the export
// order of the columns.
type Schema struct {
	names   []string
	columns map[string]Column
}

// New creates a schema with the given columns, in order.
func New(defs ...Def) (*Schema, error) {
	s := &Schema{columns: make(map[string]Column, len(defs))}
	for _, d := range defs {
		if err := s.Set(d.Name, d.Column); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Set adds or replaces a column. A new column goes last.
func (s *Schema) Set(name string, col Column) error {
	if name == "" {
		return errors.New("column name is empty")
	}
	if err := col.validate(); err != nil {
		return fmt.Errorf("column '%s': %w", name, err)
	}

	if s.columns == nil {
		s.columns = make(map[string]Column)
	}
	if _, ok := s.columns[name]; !ok {
		s.names = append(s.names, name)
	}
	s.columns[name] = col

	return nil
}

// Column returns the definition of name.
func (s *Schema) Column(name string) (Column, bool) {
	col, ok := s.columns[name]
	return col, ok
}

// Delete removes name. Unknown names are ignored.
func (s *Schema) Delete(name string) {
	if _, ok := s.columns[name]; !ok {
		return
	}
	delete(s.columns, name)
	s.names = lo.Without(s.names, name)
}

// Columns returns the column names in order.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.names)
}

// IsValidRow checks every column against row. Absent fields read as nil.
// Fields the schema does not name are not checked.
func (s *Schema) IsValidRow(row rowset.Row) bool {
	return s.Validate(row) == nil
}

// Validate is IsValidRow reporting the first column that failed.
func (s *Schema) Validate(row rowset.Row) error {
	for _, name := range s.names {
		if !s.columns[name].Accepts(row[name]) {
			return fmt.Errorf("column '%s': invalid value %v", name, row[name])
		}
	}

	return nil
}

// IsValidField checks a single value. Columns the schema does not name accept
// anything.
func (s *Schema) IsValidField(column string, value any) bool {
	col, ok := s.columns[column]
	if !ok {
		return true
	}

	return col.Accepts(value)
}

// SortHints returns the sort defaults declared for column.
func (s *Schema) SortHints(column string) (rowset.SortHints, bool) {
	col, ok := s.columns[column]
	if !ok {
		return rowset.SortHints{}, false
	}

	return col.sortHints()
}
