package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func writeXLSX(t *testing.T, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

// writeODSArchive builds a minimal zipped ODS around content.
func writeODSArchive(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(out)

	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("mimetype entry: %v", err)
	}
	if _, err := mt.Write([]byte(odsMimeType)); err != nil {
		t.Fatalf("write mimetype: %v", err)
	}
	cw, err := zw.Create("content.xml")
	if err != nil {
		t.Fatalf("content entry: %v", err)
	}
	if _, err := cw.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

const odsDocument = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
    xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
    xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
    xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body>
    <office:spreadsheet>
      <table:table table:name="Plan1">
        <table:table-row>
          <table:table-cell office:value-type="string"><text:p>Número</text:p></table:table-cell>
          <table:table-cell office:value-type="string"><text:p>Nome Forn/Cliente</text:p></table:table-cell>
          <table:table-cell office:value-type="string"><text:p>Valor Contábil</text:p></table:table-cell>
          <table:table-cell table:number-columns-repeated="1020"/>
        </table:table-row>
        <table:table-row>
          <table:table-cell office:value-type="float" office:value="101"><text:p>101</text:p></table:table-cell>
          <table:table-cell office:value-type="string"><text:p>ACME<text:s text:c="2"/>LTDA</text:p></table:table-cell>
          <table:table-cell office:value-type="currency" office:value="1234.5"><text:p>R$ 1.234,50</text:p></table:table-cell>
        </table:table-row>
        <table:table-row table:number-rows-repeated="3">
          <table:table-cell table:number-columns-repeated="1024"/>
        </table:table-row>
        <table:table-row>
          <table:table-cell table:number-columns-repeated="2" office:value-type="string"><text:p>7</text:p></table:table-cell>
          <table:table-cell/>
        </table:table-row>
        <table:table-row table:number-rows-repeated="1048570">
          <table:table-cell table:number-columns-repeated="1024"/>
        </table:table-row>
      </table:table>
      <table:table table:name="Plan2">
        <table:table-row>
          <table:table-cell office:value-type="string"><text:p>ignored</text:p></table:table-cell>
        </table:table-row>
      </table:table>
    </office:spreadsheet>
  </office:body>
</office:document-content>
`
