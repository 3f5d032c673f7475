package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alp4ka/rowset"
)

// rowValidator is implemented by validators that can explain a rejection.
type rowValidator interface {
	Validate(row rowset.Row) error
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file|-] --schema FILE",
		Short: "Check rows against a schema",
		Long: `Load rows and report how many of them the schema accepts. Every rejected
row is listed with the reason when the schema can tell.`,
		Example: `  rowset validate people.json --schema people.yaml
  rowset validate people.jsonl --schema people.schema.json --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}

			validator, err := loadValidator(schemaPath)
			if err != nil {
				return err
			}

			rows, err := a.loadRows(path)
			if err != nil {
				return err
			}

			if rv, ok := validator.(rowValidator); ok {
				for i, row := range rows {
					if row == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "row %d: not an object\n", i+1)
						continue
					}
					if err := rv.Validate(row); err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "row %d: %v\n", i+1, err)
					}
				}
			}

			store := rowset.NewRowStore(rowset.WithValidator(validator), rowset.WithLogger(a.logger))
			result := store.ReplaceAll(rows)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows valid\n", result.Accepted, result.Accepted+result.Rejected)

			if strict && result.Rejected > 0 {
				return errors.New("some rows are invalid")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Schema file: YAML columns or a .json JSON Schema")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any row is invalid")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
