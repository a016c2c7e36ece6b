// Package export writes the unmatched rows of a comparison for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

// Header is the column row of every export.
var Header = []string{core.FieldDocumentID, core.FieldCounterparty, core.FieldAmount}

// RowView is a canonical row with its amount rendered as text, for JSON,
// YAML and table output. Amount is the plain decimal ("" for null) and
// Display the Brazilian currency form.
type RowView struct {
	DocumentID   string `json:"document_id" yaml:"document_id"`
	Counterparty string `json:"counterparty" yaml:"counterparty"`
	Amount       string `json:"amount" yaml:"amount"`
	Display      string `json:"display" yaml:"display"`
}

// Views converts rows for display.
func Views(rows []core.CanonicalRow) []RowView {
	out := make([]RowView, len(rows))
	for i, r := range rows {
		out[i] = RowView{
			DocumentID:   r.DocumentID,
			Counterparty: r.Counterparty,
			Amount:       PlainAmount(r.Amount),
			Display:      FormatAmount(r.Amount),
		}
	}
	return out
}

// PlainAmount renders an amount as a plain decimal, "" for null.
func PlainAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// FormatAmount renders an amount as Brazilian currency: "R$ 1.234,56",
// "-R$ 0,50". Null renders as "-".
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	fixed := d.Decimal.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Decimal.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("R$ ")
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FileName names the download of the rows from kind, e.g.
// "faltantes-santri-20240131-1504.csv" for ALTERDATA rows missing from SANTRI.
func FileName(kind core.SourceKind, at time.Time, ext string) string {
	return "faltantes-" + strings.ToLower(kind.Other().String()) + "-" + at.Format("20060102-1504") + "." + ext
}

// SheetName is the worksheet title for the rows from kind.
func SheetName(kind core.SourceKind) string {
	return "Faltantes no " + kind.Other().String()
}

// WriteFile writes rows to path as CSV or XLSX, chosen by the extension.
func WriteFile(path string, kind core.SourceKind, rows []core.CanonicalRow) (err error) {
	var write func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = func(w io.Writer) error { return WriteCSV(w, rows) }
	case ".xlsx":
		write = func(w io.Writer) error { return WriteXLSX(w, SheetName(kind), rows) }
	default:
		return fmt.Errorf("unsupported export extension %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// WriteCSV writes rows as UTF-8 CSV with a header line. Null amounts are
// left empty.
func WriteCSV(w io.Writer, rows []core.CanonicalRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write([]string{r.DocumentID, r.Counterparty, PlainAmount(r.Amount)}); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes rows to a single-sheet workbook. Amounts are numeric
// cells with a two-decimal format; null amounts are empty cells.
func WriteXLSX(w io.Writer, sheet string, rows []core.CanonicalRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.DocumentID, r.Counterparty, nil}
		if r.Amount.Valid {
			values[2] = r.Amount.Decimal.InexactFloat64()
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
		if err != nil {
			return fmt.Errorf("amount style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(3, len(rows)+1)
		if err := f.SetCellStyle(sheet, "C2", last, style); err != nil {
			return fmt.Errorf("amount style: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
