package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Alp4ka/rowset"
	"github.com/Alp4ka/rowset/internal/config"
)

// app is the state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg    config.Config
	logger *rowset.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "rowset",
		Short: "Filter, sort, page and export JSON rows",
		Long: `rowset loads a JSON array or JSON Lines file into an in-memory row store
and runs filter, sort and pagination rules over it.

Defaults are read from an optional config file and ROWSET_* environment
variables (ROWSET_LOG_LEVEL, ROWSET_PAGE_SIZE, ROWSET_EXPORT_FORMAT,
ROWSET_EXPORT_COMPRESSION).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error or off")

	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newValidateCmd(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.LogLevel())

	return nil
}

// newLogger renders through tint. Colours are used only when w is a
// terminal.
func newLogger(w io.Writer, level rowset.LogLevel) *rowset.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}

	return rowset.NewLogger(tint.NewHandler(w, &tint.Options{
		Level:      level.SlogLevel(),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	}))
}
