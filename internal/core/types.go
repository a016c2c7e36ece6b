package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Format is the tabular container a file was decoded from.
type Format string

const (
	FormatCSV         Format = "csv"         // delimited text
	FormatSpreadsheet Format = "spreadsheet" // xlsx / xls
	FormatODS         Format = "ods"         // open-document spreadsheet
)

// Cell is a raw, untyped value as read from the file.
// Valid is false for cells that were absent or empty.
type Cell struct {
	Value string
	Valid bool
}

// TextCell builds a Cell, treating the empty string as absent.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Value: s, Valid: true}
}

// RawRow holds one row of cells aligned to RawTable.Columns.
// Rows may be shorter than the header; missing trailing cells are absent.
type RawRow []Cell

// At returns the cell at position i, or an absent cell when out of range.
func (r RawRow) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// RawTable is the reader's output: ordered columns and ordered rows.
// It is not modified after the reader returns it.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// ColumnIndex maps column names to their position.
type ColumnIndex map[string]int

// Index builds a name -> position lookup for the table's columns.
func (t *RawTable) Index() ColumnIndex {
	idx := make(ColumnIndex, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

// Get returns the cell for the named column in row, or an absent cell.
func (idx ColumnIndex) Get(row RawRow, column string) Cell {
	pos, ok := idx[column]
	if !ok {
		return Cell{}
	}
	return row.At(pos)
}

// CanonicalRow is one normalized record. Amount is null when the source
// value was missing or could not be parsed as a number.
type CanonicalRow struct {
	DocumentID   string              `json:"document_id" yaml:"document_id"`
	Counterparty string              `json:"counterparty" yaml:"counterparty"`
	Amount       decimal.NullDecimal `json:"amount" yaml:"amount"`
}

// Equal reports whether both rows carry the same reconciliation key.
// Amounts compare numerically (10 == 10.00) and null only equals null.
func (r CanonicalRow) Equal(o CanonicalRow) bool {
	if r.DocumentID != o.DocumentID || r.Counterparty != o.Counterparty {
		return false
	}
	if r.Amount.Valid != o.Amount.Valid {
		return false
	}
	return !r.Amount.Valid || r.Amount.Decimal.Equal(o.Amount.Decimal)
}

// CanonicalTable is the normalized form of one source.
type CanonicalTable struct {
	Kind SourceKind     `json:"kind"`
	Rows []CanonicalRow `json:"rows"`
}

// Len returns the number of rows.
func (t CanonicalTable) Len() int { return len(t.Rows) }

// ComparisonResult partitions the unmatched rows of both sources.
// OnlyInA rows come from the ALTERDATA table, OnlyInB rows from SANTRI,
// each in its source order.
type ComparisonResult struct {
	ID         uuid.UUID      `json:"id"`
	ComparedAt time.Time      `json:"compared_at"`
	OnlyInA    []CanonicalRow `json:"only_in_a"`
	OnlyInB    []CanonicalRow `json:"only_in_b"`
	Matched    int            `json:"matched"`
}

// Side returns the unmatched rows originating from kind.
func (r *ComparisonResult) Side(kind SourceKind) []CanonicalRow {
	if kind == KindSantri {
		return r.OnlyInB
	}
	return r.OnlyInA
}

// Reconciled reports whether every row found a counterpart.
func (r *ComparisonResult) Reconciled() bool {
	return len(r.OnlyInA) == 0 && len(r.OnlyInB) == 0
}

// LoadedSource is what the controller keeps for one source slot.
type LoadedSource struct {
	ID       uuid.UUID      `json:"id"`
	Kind     SourceKind     `json:"kind"`
	FileName string         `json:"file_name"`
	Format   Format         `json:"format"`
	LoadedAt time.Time      `json:"loaded_at"`
	Columns  []string       `json:"columns"`
	RowCount int            `json:"rows"`
	Table    CanonicalTable `json:"-"`
}

// Rows returns the number of normalized rows.
func (l *LoadedSource) Rows() int {
	if l == nil {
		return 0
	}
	return l.Table.Len()
}
