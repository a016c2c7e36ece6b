// Package ingest reads accounting exports from disk into core.RawTable.
//
// Files are routed by extension or leading bytes to one of three decoders:
// delimited text, binary spreadsheet (xlsx, legacy xls) and open-document
// spreadsheet. Each decoder produces a grid of strings which is then turned
// into a RawTable the same way: optional banner rows skipped, header cleaned
// and deduplicated, fully empty rows dropped.
package ingest

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

// DefaultEncodings is the fallback order for delimited text.
var DefaultEncodings = []string{"utf-8", "latin-1", "iso-8859-1", "windows-1252"}

// DefaultSniffLines is how many non-empty lines delimiter detection samples.
const DefaultSniffLines = 20

// Options configures a Reader. Zero values select the defaults.
type Options struct {
	Encodings  []string
	SniffLines int
	Logger     *slog.Logger
}

// Reader decodes files for both source kinds. It is stateless and safe for
// concurrent use.
type Reader struct {
	encodings  []textEncoding
	sniffLines int
	logger     *slog.Logger
}

// NewReader builds a Reader. It fails on unknown encoding names.
func NewReader(opts Options) (*Reader, error) {
	names := opts.Encodings
	if len(names) == 0 {
		names = DefaultEncodings
	}
	encs := make([]textEncoding, 0, len(names))
	for _, name := range names {
		enc, err := lookupEncoding(name)
		if err != nil {
			return nil, err
		}
		encs = append(encs, enc)
	}

	r := &Reader{
		encodings:  encs,
		sniffLines: opts.SniffLines,
		logger:     opts.Logger,
	}
	if r.sniffLines <= 0 {
		r.sniffLines = DefaultSniffLines
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Read decodes path as kind. See ReadFile.
func (r *Reader) Read(path string, kind core.SourceKind) (*core.RawTable, error) {
	t, _, err := r.ReadFile(path, kind)
	return t, err
}

// ReadFile detects the format of path, decodes its first table and checks
// the required columns of kind. It returns the detected format alongside.
//
// Errors are *core.UnsupportedFormatError, *core.DecodeFailureError or
// *core.MissingColumnsError, or a plain error when the file cannot be opened.
func (r *Reader) ReadFile(path string, kind core.SourceKind) (*core.RawTable, core.Format, error) {
	table, format, err := r.Decode(path, kind)
	if err != nil {
		return nil, format, err
	}
	if missing := core.ValidateColumns(table.Columns, kind); missing != nil {
		return nil, format, missing
	}
	return table, format, nil
}

// Decode is ReadFile without the required-column check. kind still selects
// the banner rows skipped in spreadsheet files.
func (r *Reader) Decode(path string, kind core.SourceKind) (*core.RawTable, core.Format, error) {
	if !kind.Valid() {
		return nil, "", fmt.Errorf("%w: %d", core.ErrUnknownKind, int(kind))
	}

	format, err := Detect(path)
	if err != nil {
		return nil, "", err
	}

	var grid [][]string
	skip := 0
	switch format {
	case core.FormatCSV:
		grid, err = r.readDelimited(path)
	case core.FormatSpreadsheet:
		grid, err = r.readSpreadsheet(path)
		skip = kind.Profile().SheetHeaderSkip
	case core.FormatODS:
		grid, err = readODS(path)
	default:
		err = &core.UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("no decoder for %q", format)}
	}
	if err != nil {
		return nil, format, err
	}

	table, err := buildTable(grid, skip)
	if err != nil {
		return nil, format, &core.DecodeFailureError{Path: path, Format: format, Err: err}
	}

	r.logger.Debug("file decoded",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.String("kind", kind.String()),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)),
	)
	return table, format, nil
}

func readAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
