package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetrecon/internal/cli"
	"github.com/JonMunkholm/sheetrecon/internal/config"
	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/export"
	"github.com/JonMunkholm/sheetrecon/internal/ingest"
	"github.com/JonMunkholm/sheetrecon/internal/logging"
)

// errDifferences is returned by compare --fail-on-diff when some document
// is missing from either side.
var errDifferences = errors.New("sources differ")

// app holds the state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	format   string
	logLevel string
	verbose  bool

	cfg     *config.Config
	logger  *slog.Logger
	reader  *ingest.Reader
	service *core.Service
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare ALTERDATA and SANTRI accounting exports",
		Long: `reconcile loads an ALTERDATA export and a SANTRI export (CSV, XLSX, XLS or
ODS), matches their rows on document number, counterparty and amount, and
lists the documents present in one report but missing from the other.

Configuration is read from the environment and an optional .env file
(CSV_ENCODINGS, CSV_SNIFF_LINES, LOG_LEVEL, LOG_FORMAT).`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVarP(&a.format, "output", "o", "", "output format: table, json, yaml (default: table on a terminal, json otherwise)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL, or warn)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")

	root.AddCommand(a.compareCommand(), a.inspectCommand())
	return root
}

// setup loads configuration and builds the reader and service.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := a.logLevel
	switch {
	case a.verbose:
		level = "debug"
	case level == "" && os.Getenv("LOG_LEVEL") != "":
		level = cfg.Logging.Level
	case level == "":
		level = "warn"
	}
	a.logger = logging.New(a.stderr, level, cfg.Logging.Format)

	a.reader, err = ingest.NewReader(ingest.Options{
		Encodings:  cfg.Ingest.Encodings,
		SniffLines: cfg.Ingest.SniffLines,
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}
	a.service = core.NewService(a.reader,
		core.WithLogger(a.logger),
		core.WithOperationWait(cfg.Operation.MaxWait),
	)
	return nil
}

// describe renders err for the terminal: the coded user message when there
// is one, followed by the technical detail.
func (a *app) describe(err error) string {
	if !core.IsUserFacing(err) {
		return err.Error()
	}
	msg := core.FormatUserError(err)
	if a.verbose {
		msg += "\n  " + err.Error()
	}
	return msg
}

func (a *app) compareCommand() *cobra.Command {
	var (
		alterdata    string
		santri       string
		exportDir    string
		exportFormat string
		failOnDiff   bool
	)

	cmd := &cobra.Command{
		Use:   "compare --alterdata FILE --santri FILE",
		Short: "Compare two exports and list missing documents",
		Example: `  reconcile compare --alterdata notas_alterdata.xlsx --santri relatorio_santri.xls
  reconcile compare -a a.csv -b b.ods -o json --fail-on-diff
  reconcile compare -a a.csv -b b.csv --export-dir ./faltantes --export-format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cli.ParseFormat(a.format)
			if err != nil {
				return err
			}
			exportFormat = strings.ToLower(strings.TrimPrefix(exportFormat, "."))
			if exportFormat != "csv" && exportFormat != "xlsx" {
				return fmt.Errorf("invalid export format %q (want csv or xlsx)", exportFormat)
			}

			ctx := cmd.Context()
			if _, err := a.service.Load(ctx, core.KindAlterdata, alterdata); err != nil {
				return err
			}
			if _, err := a.service.Load(ctx, core.KindSantri, santri); err != nil {
				return err
			}
			result, err := a.service.Compare(ctx)
			if err != nil {
				return err
			}

			if exportDir != "" {
				if err := a.exportResult(exportDir, exportFormat, result); err != nil {
					return err
				}
			}

			if err := cli.Write(a.stdout, format, cli.NewReport(a.service.Status(), result)); err != nil {
				return err
			}
			if failOnDiff && !result.Reconciled() {
				return errDifferences
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&alterdata, "alterdata", "a", "", "ALTERDATA export file")
	cmd.Flags().StringVarP(&santri, "santri", "b", "", "SANTRI export file")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "write the missing documents of each side to this directory")
	cmd.Flags().StringVar(&exportFormat, "export-format", "xlsx", "export file format: xlsx or csv")
	cmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false, "exit with status 2 when any document is missing")
	_ = cmd.MarkFlagRequired("alterdata")
	_ = cmd.MarkFlagRequired("santri")
	return cmd
}

// exportResult writes one file per side into dir.
func (a *app) exportResult(dir, ext string, result *core.ComparisonResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	for _, kind := range core.Kinds {
		path := filepath.Join(dir, export.FileName(kind, result.ComparedAt, ext))
		if err := export.WriteFile(path, kind, result.Side(kind)); err != nil {
			return err
		}
		a.logger.Info("export written", "path", path, "rows", len(result.Side(kind)))
	}
	return nil
}

func (a *app) inspectCommand() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "inspect --kind a|b FILE...",
		Short: "Show how files decode and whether they carry the required columns",
		Example: `  reconcile inspect --kind b relatorio_santri.xls
  reconcile inspect -k a exports/*.csv -o yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			format, err := cli.ParseFormat(a.format)
			if err != nil {
				return err
			}
			kind, err := core.ParseKind(kindFlag)
			if err != nil {
				return err
			}

			list := make(cli.Inspections, 0, len(paths))
			failed := 0
			for _, path := range paths {
				in := a.inspect(path, kind)
				if !in.OK() {
					failed++
				}
				list = append(list, in)
			}

			if err := cli.Write(a.stdout, format, list); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) cannot be loaded as %s", failed, len(paths), kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "source kind: a (ALTERDATA) or b (SANTRI)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func (a *app) inspect(path string, kind core.SourceKind) cli.Inspection {
	in := cli.Inspection{File: path, Source: kind.String()}

	table, format, err := a.reader.Decode(path, kind)
	in.Format = format
	if err != nil {
		in.Error = core.FormatUserError(err)
		a.logger.Debug("inspect failed", "path", path, "error", err)
		return in
	}

	in.Columns = table.Columns
	in.Rows = len(table.Rows)
	if missing := core.ValidateColumns(table.Columns, kind); missing != nil {
		in.Missing = missing.Missing
	}
	return in
}
