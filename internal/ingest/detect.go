package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	xmlMagic = []byte("<?xml")
)

const odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"

// sniffSize is how many leading bytes Detect inspects.
const sniffSize = 8

// Detect decides which decoder handles path.
//
// Known extensions win. Otherwise the leading bytes decide: a ZIP archive is
// a binary spreadsheet unless it declares the ODF spreadsheet mimetype, an
// OLE2 compound file is a legacy xls, an XML prolog is a flat ODS, and any
// other content is delimited text unless it contains NUL bytes.
func Detect(path string) (core.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return core.FormatSpreadsheet, nil
	case ".csv":
		return core.FormatCSV, nil
	case ".ods":
		return core.FormatODS, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipMagic):
		if isODSArchive(path) {
			return core.FormatODS, nil
		}
		return core.FormatSpreadsheet, nil
	case bytes.HasPrefix(head, oleMagic):
		return core.FormatSpreadsheet, nil
	case bytes.HasPrefix(bytes.TrimPrefix(head, utf8BOM), xmlMagic):
		return core.FormatODS, nil
	case bytes.IndexByte(head, 0) >= 0:
		return "", &core.UnsupportedFormatError{Path: path, Reason: "binary content with no known signature"}
	}
	return core.FormatCSV, nil
}

// isODSArchive reports whether the ZIP at path carries the ODF spreadsheet
// mimetype entry.
func isODSArchive(path string) bool {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return false
		}
		defer rc.Close()
		mt, err := io.ReadAll(io.LimitReader(rc, 128))
		if err != nil {
			return false
		}
		return strings.TrimSpace(string(mt)) == odsMimeType
	}
	return false
}
