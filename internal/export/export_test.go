package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

var sampleRows = []core.CanonicalRow{
	{DocumentID: "1001", Counterparty: "ACME, LTDA", Amount: amount("1234.56")},
	{DocumentID: "1002", Counterparty: "Beta \"SA\""},
	{DocumentID: "", Counterparty: "Gama", Amount: amount("-20")},
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   decimal.NullDecimal
		want string
	}{
		{"null", decimal.NullDecimal{}, "-"},
		{"zero", amount("0"), "R$ 0,00"},
		{"cents", amount("0.5"), "R$ 0,50"},
		{"hundreds", amount("999.99"), "R$ 999,99"},
		{"thousands", amount("1234.56"), "R$ 1.234,56"},
		{"millions", amount("1234567.8"), "R$ 1.234.567,80"},
		{"negative", amount("-1234.5"), "-R$ 1.234,50"},
		{"rounds", amount("10.005"), "R$ 10,01"},
		{"tiny negative rounds to zero", amount("-0.001"), "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.in); got != tt.want {
				t.Errorf("FormatAmount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestViews(t *testing.T) {
	got := Views(sampleRows)

	require.Len(t, got, 3)
	assert.Equal(t, RowView{DocumentID: "1001", Counterparty: "ACME, LTDA", Amount: "1234.56", Display: "R$ 1.234,56"}, got[0])
	assert.Equal(t, "", got[1].Amount)
	assert.Equal(t, "-", got[1].Display)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"document_id", "counterparty", "amount"},
		{"1001", "ACME, LTDA", "1234.56"},
		{"1002", "Beta \"SA\"", ""},
		{"", "Gama", "-20"},
	}, records)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "document_id,counterparty,amount\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Faltando no SANTRI", sampleRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Faltando no SANTRI"}, f.GetSheetList())

	rows, err := f.GetRows("Faltando no SANTRI", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"document_id", "counterparty", "amount"}, rows[0])
	assert.Equal(t, []string{"1001", "ACME, LTDA", "1234.56"}, rows[1])
	assert.Equal(t, "1002", rows[2][0])
	if len(rows[2]) > 2 {
		assert.Empty(t, rows[2][2], "null amount is an empty cell")
	}
	assert.Equal(t, "-20", rows[3][2])
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 1, 31, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		kind core.SourceKind
		ext  string
		want string
	}{
		{core.KindAlterdata, "csv", "faltantes-santri-20240131-1504.csv"},
		{core.KindSantri, "xlsx", "faltantes-alterdata-20240131-1504.xlsx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.kind, at, tt.ext); got != tt.want {
			t.Errorf("FileName(%v, %q) = %q, want %q", tt.kind, tt.ext, got, tt.want)
		}
	}

	if got := SheetName(core.KindSantri); got != "Faltantes no ALTERDATA" {
		t.Errorf("SheetName(SANTRI) = %q, want %q", got, "Faltantes no ALTERDATA")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "a.csv")
	require.NoError(t, WriteFile(csvPath, core.KindAlterdata, sampleRows[:1]))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "document_id,counterparty,amount\n1001,\"ACME, LTDA\",1234.56\n", string(data))

	xlsxPath := filepath.Join(dir, "b.XLSX")
	require.NoError(t, WriteFile(xlsxPath, core.KindSantri, sampleRows))
	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Faltantes no ALTERDATA"}, f.GetSheetList())

	err = WriteFile(filepath.Join(dir, "c.pdf"), core.KindSantri, sampleRows)
	assert.ErrorContains(t, err, "unsupported export extension")
}
