package core

import (
	"time"

	"github.com/google/uuid"
)

// rowKey is the reconciliation key of a row. Amounts are keyed by their
// canonical decimal text so 10 and 10.00 collide; null has its own key.
type rowKey struct {
	documentID   string
	counterparty string
	amount       string
}

const nullAmountKey = "null"

func keyOf(r CanonicalRow) rowKey {
	k := rowKey{documentID: r.DocumentID, counterparty: r.Counterparty, amount: nullAmountKey}
	if r.Amount.Valid {
		k.amount = r.Amount.Decimal.String()
	}
	return k
}

// Compare reconciles two canonical tables.
//
// Rows match on exact (document_id, counterparty, amount) equality with null
// amounts matching each other. Matching is one-to-one: a key present twice in
// a and once in b leaves one row in OnlyInA. Within each side the earliest
// occurrences are the ones matched, and unmatched rows keep source order.
func Compare(a, b CanonicalTable) ComparisonResult {
	return compareAt(a, b, time.Now())
}

func compareAt(a, b CanonicalTable, now time.Time) ComparisonResult {
	result := ComparisonResult{
		ID:         uuid.New(),
		ComparedAt: now,
		OnlyInA:    []CanonicalRow{},
		OnlyInB:    []CanonicalRow{},
	}

	inA := countKeys(a.Rows)
	inB := countKeys(b.Rows)

	for _, r := range a.Rows {
		k := keyOf(r)
		if inB[k] > 0 {
			inB[k]--
			result.Matched++
			continue
		}
		result.OnlyInA = append(result.OnlyInA, r)
	}

	for _, r := range b.Rows {
		k := keyOf(r)
		if inA[k] > 0 {
			inA[k]--
			continue
		}
		result.OnlyInB = append(result.OnlyInB, r)
	}

	return result
}

func countKeys(rows []CanonicalRow) map[rowKey]int {
	counts := make(map[rowKey]int, len(rows))
	for _, r := range rows {
		counts[keyOf(r)]++
	}
	return counts
}
