package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(doc, party, amt string) CanonicalRow {
	r := CanonicalRow{DocumentID: doc, Counterparty: party}
	if amt != "" {
		r.Amount = amount(amt)
	}
	return r
}

func table(kind SourceKind, rows ...CanonicalRow) CanonicalTable {
	return CanonicalTable{Kind: kind, Rows: rows}
}

func TestCompare_DisjointKeys(t *testing.T) {
	a := table(KindAlterdata, row("1", "X", "10"), row("2", "Y", "20"))
	b := table(KindSantri, row("3", "Z", "30"))

	got := Compare(a, b)

	assert.Equal(t, a.Rows, got.OnlyInA)
	assert.Equal(t, b.Rows, got.OnlyInB)
	assert.Zero(t, got.Matched)
	assert.False(t, got.Reconciled())
}

func TestCompare_IdenticalBags(t *testing.T) {
	a := table(KindAlterdata, row("1", "X", "10"), row("2", "Y", "20"), row("1", "X", "10"))
	b := table(KindSantri, row("2", "Y", "20"), row("1", "X", "10"), row("1", "X", "10"))

	got := Compare(a, b)

	assert.Empty(t, got.OnlyInA)
	assert.Empty(t, got.OnlyInB)
	assert.Equal(t, 3, got.Matched)
	assert.True(t, got.Reconciled())
}

func TestCompare_DuplicateKeysBagSemantics(t *testing.T) {
	dup := row("1", "X", "10")
	a := table(KindAlterdata, dup, dup)
	b := table(KindSantri, dup)

	got := Compare(a, b)

	require.Len(t, got.OnlyInA, 1)
	assert.True(t, got.OnlyInA[0].Equal(dup))
	assert.Empty(t, got.OnlyInB)
	assert.Equal(t, 1, got.Matched)
}

func TestCompare_AmountEquality(t *testing.T) {
	a := table(KindAlterdata, row("1", "X", "10.00"), row("2", "Y", ""))
	b := table(KindSantri, row("1", "X", "10"), row("2", "Y", ""))

	got := Compare(a, b)

	assert.Empty(t, got.OnlyInA, "10.00 matches 10 and null matches null")
	assert.Empty(t, got.OnlyInB)
}

func TestCompare_NullDoesNotMatchZero(t *testing.T) {
	a := table(KindAlterdata, row("1", "X", ""))
	b := table(KindSantri, row("1", "X", "0"))

	got := Compare(a, b)

	assert.Len(t, got.OnlyInA, 1)
	assert.Len(t, got.OnlyInB, 1)
}

func TestCompare_AnyFieldDifferenceUnmatched(t *testing.T) {
	a := table(KindAlterdata, row("1", "X", "10"), row("2", "Y", "20"), row("3", "Z", "30"))
	b := table(KindSantri, row("1", "X ", "10"), row("2", "Y", "20.01"), row("03", "Z", "30"))

	got := Compare(a, b)

	assert.Len(t, got.OnlyInA, 3)
	assert.Len(t, got.OnlyInB, 3)
}

func TestCompare_PreservesSourceOrder(t *testing.T) {
	a := table(KindAlterdata, row("5", "E", "1"), row("1", "A", "1"), row("3", "C", "1"), row("2", "B", "1"))
	b := table(KindSantri, row("9", "I", "1"), row("3", "C", "1"), row("7", "G", "1"))

	got := Compare(a, b)

	wantA := []CanonicalRow{row("5", "E", "1"), row("1", "A", "1"), row("2", "B", "1")}
	wantB := []CanonicalRow{row("9", "I", "1"), row("7", "G", "1")}
	assert.Equal(t, wantA, got.OnlyInA)
	assert.Equal(t, wantB, got.OnlyInB)
}

func TestCompare_EmptyTables(t *testing.T) {
	got := Compare(table(KindAlterdata), table(KindSantri))

	assert.NotNil(t, got.OnlyInA)
	assert.NotNil(t, got.OnlyInB)
	assert.True(t, got.Reconciled())
	assert.NotEqual(t, [16]byte{}, [16]byte(got.ID))
}

func TestComparisonResult_Side(t *testing.T) {
	r := &ComparisonResult{
		OnlyInA: []CanonicalRow{row("1", "A", "1")},
		OnlyInB: []CanonicalRow{row("2", "B", "2"), row("3", "C", "3")},
	}

	assert.Len(t, r.Side(KindAlterdata), 1)
	assert.Len(t, r.Side(KindSantri), 2)
}
