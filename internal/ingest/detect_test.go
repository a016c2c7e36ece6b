package ingest

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		want    core.Format
		wantErr bool
	}{
		{name: "xlsx extension", file: "a.XLSX", content: []byte("anything"), want: core.FormatSpreadsheet},
		{name: "xls extension", file: "a.xls", content: []byte("anything"), want: core.FormatSpreadsheet},
		{name: "csv extension", file: "a.csv", content: []byte{0x00, 0x01}, want: core.FormatCSV},
		{name: "ods extension", file: "a.ods", content: []byte("x"), want: core.FormatODS},
		{name: "zip signature", file: "report", content: []byte("PK\x03\x04rest-of-zip"), want: core.FormatSpreadsheet},
		{name: "ole2 signature", file: "report.dat", content: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}, want: core.FormatSpreadsheet},
		{name: "xml prolog", file: "report.xml", content: []byte(`<?xml version="1.0"?><doc/>`), want: core.FormatODS},
		{name: "xml prolog after BOM", file: "report", content: []byte("\xEF\xBB\xBF<?xml version=\"1.0\"?>"), want: core.FormatODS},
		{name: "plain text", file: "report.txt", content: []byte("Número;Cadastro\n"), want: core.FormatCSV},
		{name: "short text", file: "r", content: []byte("a"), want: core.FormatCSV},
		{name: "empty file", file: "r", content: nil, want: core.FormatCSV},
		{name: "binary with NUL", file: "r.bin", content: []byte("ab\x00cdefgh"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				var unsupported *core.UnsupportedFormatError
				if !errors.As(err, &unsupported) {
					t.Fatalf("Detect() error = %v, want UnsupportedFormatError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetect_ZippedODSWithoutExtension(t *testing.T) {
	path := writeODSArchive(t, "download", odsDocument)

	got, err := Detect(path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got != core.FormatODS {
		t.Errorf("Detect() = %q, want %q", got, core.FormatODS)
	}
}

func TestDetect_MissingFile(t *testing.T) {
	if _, err := Detect("/nonexistent/report"); err == nil {
		t.Error("Detect() on missing file returned nil error")
	}
}
