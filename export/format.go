// Package export writes rows as delimited text: every cell double-quoted,
// one line per row, a header line first.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/samber/lo"

	"github.com/Alp4ka/rowset"
)

// Format is a delimited text format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatTSV Format = "tsv"
)

var _formatAliases = map[string]Format{
	"csv": FormatCSV,
	"tsv": FormatTSV,
	"tdt": FormatTSV,
	"txt": FormatTSV,
}

// ParseFormat accepts csv, tsv, tdt and txt in any case.
func ParseFormat(s string) (Format, error) {
	f, ok := _formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown export format '%s'", s)
	}

	return f, nil
}

// Separator returns the cell separator.
func (f Format) Separator() string {
	if f == FormatTSV {
		return "\t"
	}

	return ","
}

// Extension returns the default file extension.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatTSV {
		return "text/tab-separated-values"
	}

	return "text/csv"
}

// ErrNoColumns is returned by Write when no columns are given.
var ErrNoColumns = errors.New("at least one column is required for export")

// Write writes a header line with columns and then one line per row.
// Lines are separated by a newline with none after the last one.
func Write(w io.Writer, format Format, columns []string, rows []rowset.Row) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	if _, ok := _formatAliases[string(format)]; !ok {
		return fmt.Errorf("unknown export format '%s'", format)
	}

	if err := writeLine(w, format, columns); err != nil {
		return err
	}

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = format.escape(cellText(row[col]))
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := writeLine(w, format, cells); err != nil {
			return err
		}
	}

	return nil
}

// Cursor writes the rows of c in view order.
func Cursor(w io.Writer, format Format, columns []string, c *rowset.Cursor) error {
	return Write(w, format, columns, c.Rows())
}

func writeLine(w io.Writer, format Format, cells []string) error {
	_, err := io.WriteString(w, `"`+strings.Join(cells, `"`+format.Separator()+`"`)+`"`)
	return err
}

// escape keeps cells from breaking the separator. CSV cells have commas
// replaced with semicolons, TSV cells have tabs written as \t.
func (f Format) escape(s string) string {
	if f == FormatTSV {
		return strings.ReplaceAll(s, "\t", `\t`)
	}

	return strings.ReplaceAll(s, ",", ";")
}

// cellText renders a value: slices joined with commas, maps as JSON and nil
// as an empty cell.
func cellText(v any) string {
	if v == nil {
		return ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
		parts := lo.Times(rv.Len(), func(i int) string {
			return cellText(rv.Index(i).Interface())
		})
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}
