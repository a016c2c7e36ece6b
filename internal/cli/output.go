// Package cli renders reconciliation results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates s. Empty selects DetectFormat.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return DetectFormat(os.Stdout), nil
	default:
		return "", fmt.Errorf("invalid output format %q (want table, json or yaml)", s)
	}
}

// DetectFormat picks table output for terminals and JSON for pipes.
func DetectFormat(f *os.File) Format {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Tabular is implemented by values that know how to print themselves as
// tables.
type Tabular interface {
	WriteTable(w io.Writer) error
}

// Write renders v in format. Table output requires v to be Tabular.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatTable:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T cannot be printed as a table", v)
		}
		return t.WriteTable(w)
	default:
		return fmt.Errorf("invalid output format %q", format)
	}
}

// Align is a column alignment for renderTable.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// renderTable writes headers and rows with tablewriter.
func renderTable(w io.Writer, headers []string, align []Align, rows [][]string) error {
	cfg := tablewriter.Config{}
	if len(align) > 0 {
		perCol := make([]tw.Align, len(align))
		for i, a := range align {
			perCol[i] = tw.AlignLeft
			if a == AlignRight {
				perCol[i] = tw.AlignRight
			}
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: perCol}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: perCol}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	table.Header(hdr...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
