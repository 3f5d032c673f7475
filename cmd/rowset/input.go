package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Alp4ka/rowset"
	"github.com/Alp4ka/rowset/schema"
)

// readRows decodes a JSON array of objects or a stream of JSON objects such
// as JSON Lines. Numbers are kept as json.Number.
func readRows(r io.Reader) ([]rowset.Row, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		var rows []rowset.Row
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode json array: %w", err)
		}
		return rows, nil
	}

	var rows []rowset.Row
	for line := 1; ; line++ {
		var row rowset.Row
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", line, err)
		}
		rows = append(rows, row)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !strings.ContainsRune(" \t\r\n", rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

// openInput opens path, or returns stdin for "-".
func (a *app) openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(a.stdin), nil
	}

	f, err := os.Open(path) //nolint:gosec // User-specified input path
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	return f, nil
}

func (a *app) loadRows(path string) ([]rowset.Row, error) {
	in, err := a.openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return readRows(in)
}

// loadValidator reads a schema file. JSON files are JSON Schema documents,
// everything else is a YAML column schema.
func loadValidator(path string) (rowset.SchemaValidator, error) {
	if path == "" {
		return nil, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := os.ReadFile(path) //nolint:gosec // User-specified schema path
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		js, err := schema.NewJSONSchema(string(doc))
		if err != nil {
			return nil, err
		}
		return js, nil
	}

	s, err := schema.LoadYAMLFile(path)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// outputColumns picks the export columns: the explicit list, the schema's
// column order, or every field seen in rows in sorted order per row.
func outputColumns(explicit []string, validator rowset.SchemaValidator, rows []rowset.Row) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if s, ok := validator.(*schema.Schema); ok && s.Len() > 0 {
		return s.Columns()
	}

	var columns []string
	for _, row := range rows {
		columns = append(columns, slices.Sorted(maps.Keys(row))...)
	}

	return lo.Uniq(columns)
}
