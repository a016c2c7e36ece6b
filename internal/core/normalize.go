package core

import "github.com/shopspring/decimal"

// Normalize maps a validated RawTable to the canonical schema of kind.
//
// Mapped columns are renamed to document_id, counterparty and amount; every
// other column is dropped. Text fields are cleaned with CleanCell and become
// "" when the cell is absent. Amounts go through ParseAmount, so an absent
// or unparseable amount is null. Row count and order are preserved.
//
// The table is expected to have passed ValidateColumns; a missing mapped
// column simply yields empty values.
func Normalize(table *RawTable, kind SourceKind) CanonicalTable {
	out := CanonicalTable{Kind: kind}
	if table == nil {
		return out
	}

	pos := canonicalPositions(table.Columns, kind)
	out.Rows = make([]CanonicalRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		out.Rows = append(out.Rows, normalizeRow(row, pos))
	}
	return out
}

// fieldPositions holds the column index of each canonical field, -1 if absent.
type fieldPositions struct {
	documentID   int
	counterparty int
	amount       int
}

func canonicalPositions(columns []string, kind SourceKind) fieldPositions {
	pos := fieldPositions{documentID: -1, counterparty: -1, amount: -1}
	mapping := kind.Profile().Mapping

	for i, c := range columns {
		field, ok := mapping[CleanHeader(c)]
		if !ok {
			continue
		}
		switch field {
		case FieldDocumentID:
			if pos.documentID < 0 {
				pos.documentID = i
			}
		case FieldCounterparty:
			if pos.counterparty < 0 {
				pos.counterparty = i
			}
		case FieldAmount:
			if pos.amount < 0 {
				pos.amount = i
			}
		}
	}
	return pos
}

func normalizeRow(row RawRow, pos fieldPositions) CanonicalRow {
	return CanonicalRow{
		DocumentID:   textValue(row.At(pos.documentID)),
		Counterparty: textValue(row.At(pos.counterparty)),
		Amount:       amountValue(row.At(pos.amount)),
	}
}

func textValue(c Cell) string {
	if !c.Valid {
		return ""
	}
	return CleanCell(c.Value)
}

func amountValue(c Cell) decimal.NullDecimal {
	if !c.Valid {
		return decimal.NullDecimal{}
	}
	return ParseAmount(c.Value)
}
