package ingest

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

// buildTable turns a decoded grid into a RawTable.
//
// The first skip rows are dropped unconditionally (report banners); the
// first non-empty row after them is the header. Header names are cleaned
// with core.CleanHeader, blank names become "Unnamed: N" and repeated names
// get ".1", ".2" suffixes. Rows whose cells are all blank are dropped and
// cells beyond the header width are ignored.
func buildTable(grid [][]string, skip int) (*core.RawTable, error) {
	if skip > len(grid) {
		skip = len(grid)
	}
	grid = grid[skip:]

	h := 0
	for h < len(grid) && isEmptyRow(grid[h]) {
		h++
	}
	if h == len(grid) {
		return nil, core.ErrEmptyFile
	}

	columns := headerNames(grid[h])
	table := &core.RawTable{Columns: columns}

	for _, rec := range grid[h+1:] {
		if isEmptyRow(rec) {
			continue
		}
		n := min(len(rec), len(columns))
		row := make(core.RawRow, len(columns))
		for i := 0; i < n; i++ {
			row[i] = core.TextCell(rec[i])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func headerNames(raw []string) []string {
	// Trailing blank header cells are padding, not columns.
	end := len(raw)
	for end > 0 && core.CleanHeader(raw[end-1]) == "" {
		end--
	}

	names := make([]string, end)
	seen := make(map[string]int, end) // name -> last suffix used
	for i := 0; i < end; i++ {
		base := core.CleanHeader(raw[i])
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		if last, dup := seen[base]; dup {
			for k := last + 1; ; k++ {
				candidate := fmt.Sprintf("%s.%d", base, k)
				if _, taken := seen[candidate]; !taken {
					seen[base] = k
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
