package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/export"
)

// SourceSummary describes one loaded file.
type SourceSummary struct {
	Source string      `json:"source" yaml:"source"`
	File   string      `json:"file" yaml:"file"`
	Format core.Format `json:"format" yaml:"format"`
	Rows   int         `json:"rows" yaml:"rows"`
}

// Report is the printable form of a comparison.
type Report struct {
	ID         string           `json:"id" yaml:"id"`
	ComparedAt string           `json:"compared_at" yaml:"compared_at"`
	Sources    []SourceSummary  `json:"sources" yaml:"sources"`
	Matched    int              `json:"matched" yaml:"matched"`
	Reconciled bool             `json:"reconciled" yaml:"reconciled"`
	OnlyInA    []export.RowView `json:"only_in_a" yaml:"only_in_a"`
	OnlyInB    []export.RowView `json:"only_in_b" yaml:"only_in_b"`
}

// NewReport builds a Report from the service status and a result.
func NewReport(st core.Status, result *core.ComparisonResult) Report {
	r := Report{
		ID:         result.ID.String(),
		ComparedAt: result.ComparedAt.Format(time.RFC3339),
		Matched:    result.Matched,
		Reconciled: result.Reconciled(),
		OnlyInA:    export.Views(result.OnlyInA),
		OnlyInB:    export.Views(result.OnlyInB),
	}
	for _, kind := range core.Kinds {
		if src := st.Source(kind); src != nil {
			r.Sources = append(r.Sources, SourceSummary{
				Source: kind.String(),
				File:   src.FileName,
				Format: src.Format,
				Rows:   src.Rows(),
			})
		}
	}
	return r
}

var rowHeaders = []string{"Número", "Fornecedor/Cliente", "Valor"}

// WriteTable prints a summary followed by one table per side.
func (r Report) WriteTable(w io.Writer) error {
	for _, s := range r.Sources {
		if _, err := fmt.Fprintf(w, "%-9s %s (%s, %d linhas)\n", s.Source, s.File, s.Format, s.Rows); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Notas conferidas: %d\n", r.Matched); err != nil {
		return err
	}

	sides := []struct {
		title string
		rows  []export.RowView
	}{
		{"Faltando no SANTRI", r.OnlyInA},
		{"Faltando no ALTERDATA", r.OnlyInB},
	}
	for _, side := range sides {
		if _, err := fmt.Fprintf(w, "\n%s (%d)\n", side.title, len(side.rows)); err != nil {
			return err
		}
		if len(side.rows) == 0 {
			if _, err := io.WriteString(w, "Todas as notas estão presentes.\n"); err != nil {
				return err
			}
			continue
		}
		rows := make([][]string, len(side.rows))
		for i, v := range side.rows {
			rows[i] = []string{v.DocumentID, v.Counterparty, v.Display}
		}
		if err := renderTable(w, rowHeaders, []Align{AlignLeft, AlignLeft, AlignRight}, rows); err != nil {
			return err
		}
	}
	return nil
}

// Inspection describes how a file decodes for a source kind.
type Inspection struct {
	File    string      `json:"file" yaml:"file"`
	Source  string      `json:"source" yaml:"source"`
	Format  core.Format `json:"format,omitempty" yaml:"format,omitempty"`
	Columns []string    `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows    int         `json:"rows" yaml:"rows"`
	Missing []string    `json:"missing,omitempty" yaml:"missing,omitempty"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the file would load.
func (in Inspection) OK() bool {
	return in.Error == "" && len(in.Missing) == 0
}

// Inspections is a list of Inspection printable as one table.
type Inspections []Inspection

// WriteTable prints one line per file.
func (list Inspections) WriteTable(w io.Writer) error {
	rows := make([][]string, len(list))
	for i, in := range list {
		status := "ok"
		switch {
		case in.Error != "":
			status = in.Error
		case len(in.Missing) > 0:
			status = "faltam: " + strings.Join(in.Missing, ", ")
		}
		rows[i] = []string{in.File, string(in.Format), strconv.Itoa(in.Rows), strings.Join(in.Columns, " | "), status}
	}
	return renderTable(w,
		[]string{"Arquivo", "Formato", "Linhas", "Colunas", "Situação"},
		[]Align{AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
		rows,
	)
}
