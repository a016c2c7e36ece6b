package ingest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

// readSpreadsheet decodes the first sheet of a binary workbook. excelize is
// tried first; legacy BIFF files it cannot open go to the xls decoder.
func (r *Reader) readSpreadsheet(path string) ([][]string, error) {
	rows, xlsxErr := readXLSX(path)
	if xlsxErr == nil {
		return rows, nil
	}

	r.logger.Debug("xlsx decoder failed, trying legacy xls",
		slog.String("path", path),
		slog.String("error", xlsxErr.Error()),
	)

	rows, xlsErr := readXLS(path)
	if xlsErr == nil {
		return rows, nil
	}

	return nil, &core.DecodeFailureError{
		Path:     path,
		Format:   core.FormatSpreadsheet,
		Attempts: []string{"xlsx", "xls"},
		Err:      errors.Join(fmt.Errorf("xlsx: %w", xlsxErr), fmt.Errorf("xls: %w", xlsErr)),
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	// Raw values keep amounts free of display formatting ("1,234.50").
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(path string) (rows [][]string, err error) {
	// The BIFF decoder panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("malformed xls: %v", p)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, errors.New("first sheet unreadable")
	}

	rows = make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
