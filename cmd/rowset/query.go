package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Alp4ka/rowset"
	"github.com/Alp4ka/rowset/celmatch"
	"github.com/Alp4ka/rowset/export"
	"github.com/Alp4ka/rowset/internal/config"
	"github.com/Alp4ka/rowset/internal/expr"
)

type queryOptions struct {
	where       []string
	sort        []string
	page        int
	rowsPerPage int
	pageToken   string
	schemaPath  string
	format      string
	compression string
	columns     []string
}

func newQueryCmd(a *app) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query [file|-]",
		Short: "Filter, sort and page rows, then print them",
		Long: `Load rows from a JSON array or JSON Lines file (or stdin) and print the
rows matching the filters in sort order.

Filters combine with AND. Inside one filter, '|' separates alternative
fields, comparators and values:

  --where "status|state == 'open'|'new' AND age >= 18"
  --where "name cel('a.startsWith(b)') 'al'"
  --where "` + "`null`" + ` == 1"

Sort keys are "column [asc|desc]"; the first --sort is the primary key.`,
		Example: `  rowset query people.json --where "age > 30" --sort "name asc" --format csv
  cat people.jsonl | rowset query --rows-per-page 10 --page 2
  rowset query people.json --page-token MgE --compress gzip > page.json.gz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			return a.runQuery(cmd, path, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.where, "where", "w", nil, "Filter expression, repeatable")
	f.StringArrayVarP(&opts.sort, "sort", "s", nil, `Sort key "column [asc|desc]", repeatable`)
	f.IntVar(&opts.page, "page", 1, "Page number, enables pagination")
	f.IntVar(&opts.rowsPerPage, "rows-per-page", 0, "Rows per page, enables pagination (default from config)")
	f.StringVar(&opts.pageToken, "page-token", "", "Page token from a previous query, enables pagination")
	f.StringVar(&opts.schemaPath, "schema", "", "Schema file: YAML columns or a .json JSON Schema")
	f.StringVarP(&opts.format, "format", "f", "", "Output format: json, csv or tsv (default from config)")
	f.StringVar(&opts.compression, "compress", "", "Output compression: none, gzip, zstd or lz4 (default from config)")
	f.StringSliceVarP(&opts.columns, "columns", "c", nil, "Columns to print, in order")

	cmd.MarkFlagsMutuallyExclusive("page", "page-token")

	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, path string, opts queryOptions) error {
	validator, err := loadValidator(opts.schemaPath)
	if err != nil {
		return err
	}

	rows, err := a.loadRows(path)
	if err != nil {
		return err
	}

	store := rowset.NewRowStore(
		rowset.WithValidator(validator),
		rowset.WithLogger(a.logger),
		rowset.WithRows(rows),
	)

	cursor, err := a.buildCursor(cmd, store, opts)
	if err != nil {
		return err
	}

	page := cursor.FetchPage()
	a.logger.Debug("query executed",
		"total", page.Total,
		"page", page.Page,
		"rows", len(page.Rows),
	)
	if page.NextPageToken != nil {
		a.logger.Info("more rows available", "next_page_token", page.NextPageToken.String())
	}

	return a.writeRows(opts, outputColumns(opts.columns, validator, page.Rows), page.Rows)
}

func (a *app) buildCursor(cmd *cobra.Command, store *rowset.RowStore, opts queryOptions) (*rowset.Cursor, error) {
	cursor := store.NewCursor()

	compiler, err := celmatch.New()
	if err != nil {
		return nil, err
	}
	filters, err := expr.ParseAll(opts.where, compiler.Compile)
	if err != nil {
		return nil, err
	}
	if err := cursor.SetFilterRules(filters...); err != nil {
		return nil, err
	}

	sorts, err := rowset.ParseSort(opts.sort, nil)
	if err != nil {
		return nil, err
	}
	// Rules apply in order, so the primary key goes last.
	slices.Reverse(sorts)
	if err := cursor.SetSortRules(sorts...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if !flags.Changed("page") && !flags.Changed("rows-per-page") && !flags.Changed("page-token") {
		return cursor, nil
	}

	rule, err := rowset.RawPagination{
		RowsPerPage: lo.Ternary(flags.Changed("rows-per-page"), opts.rowsPerPage, a.cfg.Page.Size),
		PageToken:   opts.pageToken,
	}.Decode()
	if err != nil {
		return nil, err
	}
	if flags.Changed("page") {
		rule.CurrentPage = rowset.NormalizePage(opts.page)
	}
	if err := cursor.SetPaginationRule(rule); err != nil {
		return nil, err
	}

	return cursor, nil
}

func (a *app) writeRows(opts queryOptions, columns []string, rows []rowset.Row) (err error) {
	format := lo.Ternary(opts.format != "", opts.format, a.cfg.Export.Format)
	compression, err := export.ParseCompression(lo.Ternary(opts.compression != "", opts.compression, a.cfg.Export.Compression))
	if err != nil {
		return err
	}

	w, err := export.NewWriter(a.stdout, compression)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	if format == config.FormatJSON {
		return writeJSONLines(w, opts.columns, rows)
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if err := export.Write(w, f, columns, rows); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")

	return err
}

// writeJSONLines writes one object per row, restricted to columns when any
// are given.
func writeJSONLines(w io.Writer, columns []string, rows []rowset.Row) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		out := row
		if len(columns) > 0 {
			out = lo.PickByKeys(row, columns)
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}

	return nil
}
