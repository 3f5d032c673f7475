package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Alp4ka/rowset"
)

// File is the YAML form of a Schema.
//
//	columns:
//	  - name: id
//	    type: integer
//	    nullable: false
//	    sort: desc
type File struct {
	Columns []ColumnConfig `yaml:"columns"`
}

// ColumnConfig is one column of a schema file.
type ColumnConfig struct {
	Name     string    `yaml:"name"`
	Type     FieldType `yaml:"type,omitempty"`
	Nullable *bool     `yaml:"nullable,omitempty"` // nil means nullable
	Sort     string    `yaml:"sort,omitempty"`     // "asc" or "desc"
}

// LoadYAML reads a schema file from r.
func LoadYAML(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema file is empty")
		}
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	return f.Schema()
}

// LoadYAMLFile reads a schema file from path.
func LoadYAMLFile(path string) (*Schema, error) {
	f, err := os.Open(path) //nolint:gosec // User-specified schema path
	if err != nil {
		return nil, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()

	return LoadYAML(f)
}

// Schema converts the file into a Schema. Duplicate column names are an
// error.
func (f File) Schema() (*Schema, error) {
	s := &Schema{columns: make(map[string]Column, len(f.Columns))}
	for i, cc := range f.Columns {
		if _, ok := s.columns[cc.Name]; ok {
			return nil, fmt.Errorf("column %d: duplicate name '%s'", i, cc.Name)
		}

		dir, err := rowset.ParseDirection(cc.Sort)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}

		col := Column{Type: cc.Type, Nullable: cc.Nullable, SortDirection: dir}
		if err := s.Set(cc.Name, col); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
	}

	return s, nil
}
