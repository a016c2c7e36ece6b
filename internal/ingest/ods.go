package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

const (
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

// maxODSColumns and maxODSRows bound number-columns-repeated and
// number-rows-repeated expansion.
const (
	maxODSColumns = 16384
	maxODSRows    = 1 << 20
)

// readODS decodes the first table of an open-document spreadsheet, either a
// zipped .ods (content.xml) or a flat .fods XML file. Empty rows are dropped
// and trailing empty cells trimmed, since writers pad sheets with huge
// repeated blank ranges.
func readODS(path string) ([][]string, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	content := data
	if bytes.HasPrefix(data, zipMagic) {
		content, err = odsContent(data)
		if err != nil {
			return nil, &core.DecodeFailureError{Path: path, Format: core.FormatODS, Attempts: []string{"ods"}, Err: err}
		}
	}

	rows, err := parseODSTable(bytes.NewReader(content))
	if err != nil {
		return nil, &core.DecodeFailureError{Path: path, Format: core.FormatODS, Attempts: []string{"ods"}, Err: err}
	}
	return rows, nil
}

func odsContent(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "content.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open content.xml: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errors.New("archive has no content.xml")
}

// odsCell accumulates one table:table-cell.
type odsCell struct {
	value  string
	text   strings.Builder
	paras  int
	repeat int
	inPara bool
}

func (c *odsCell) String() string {
	if c.value != "" {
		return c.value
	}
	return c.text.String()
}

func parseODSTable(r io.Reader) ([][]string, error) {
	dec := xml.NewDecoder(r)

	var (
		rows      [][]string
		row       []string
		rowRepeat int
		pendEmpty int // blank cells not yet known to precede a value
		cell      *odsCell
		inTable   bool
		depth     int // table nesting, so sub-tables do not end the scan
		found     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsTable && t.Name.Local == "table":
				if inTable {
					depth++
					continue
				}
				if found {
					return rows, nil
				}
				inTable, found = true, true
			case !inTable || depth > 0:
				continue
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				row, pendEmpty, rowRepeat = nil, 0, 1
				if n := attrInt(t, nsTable, "number-rows-repeated"); n > 1 {
					rowRepeat = n
				}
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				cell = &odsCell{repeat: 1, value: cellValue(t)}
				if n := attrInt(t, nsTable, "number-columns-repeated"); n > 1 {
					cell.repeat = n
				}
			case cell != nil && t.Name.Space == nsText && t.Name.Local == "p":
				if cell.paras > 0 {
					cell.text.WriteByte('\n')
				}
				cell.paras++
				cell.inPara = true
			case cell != nil && t.Name.Space == nsText && t.Name.Local == "s":
				n := attrInt(t, nsText, "c")
				if n < 1 {
					n = 1
				}
				cell.text.WriteString(strings.Repeat(" ", n))
			case cell != nil && t.Name.Space == nsText && t.Name.Local == "tab":
				cell.text.WriteByte('\t')
			case cell != nil && t.Name.Space == nsText && t.Name.Local == "line-break":
				cell.text.WriteByte('\n')
			}

		case xml.CharData:
			if cell != nil && cell.inPara && depth == 0 {
				cell.text.Write(t)
			}

		case xml.EndElement:
			switch {
			case t.Name.Space == nsTable && t.Name.Local == "table":
				if depth > 0 {
					depth--
					continue
				}
				return rows, nil
			case !inTable || depth > 0:
				continue
			case cell != nil && t.Name.Space == nsText && t.Name.Local == "p":
				cell.inPara = false
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				if cell == nil {
					continue
				}
				v := cell.String()
				if strings.TrimSpace(v) == "" {
					pendEmpty += cell.repeat
				} else {
					for ; pendEmpty > 0 && len(row) < maxODSColumns; pendEmpty-- {
						row = append(row, "")
					}
					pendEmpty = 0
					for i := 0; i < cell.repeat && len(row) < maxODSColumns; i++ {
						row = append(row, v)
					}
				}
				cell = nil
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				for i := 0; i < rowRepeat && len(row) > 0 && len(rows) < maxODSRows; i++ {
					rows = append(rows, slices.Clone(row))
				}
				row = nil
			}
		}
	}

	if !found {
		return nil, errors.New("document has no table")
	}
	return rows, nil
}

// cellValue returns the typed value attribute of a cell, or "" for text cells.
func cellValue(el xml.StartElement) string {
	switch attr(el, nsOffice, "value-type") {
	case "float", "currency", "percentage":
		return attr(el, nsOffice, "value")
	case "date":
		return attr(el, nsOffice, "date-value")
	case "time":
		return attr(el, nsOffice, "time-value")
	case "boolean":
		return attr(el, nsOffice, "boolean-value")
	}
	return ""
}

func attr(el xml.StartElement, space, local string) string {
	for _, a := range el.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func attrInt(el xml.StartElement, space, local string) int {
	n, err := strconv.Atoi(attr(el, space, local))
	if err != nil {
		return 0
	}
	return n
}
