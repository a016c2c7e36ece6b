package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JonMunkholm/sheetrecon/internal/core"
)

// delimiterCandidates in tie-break order.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

func (r *Reader) readDelimited(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(NewBOMSkippingReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &core.DecodeFailureError{Path: path, Format: core.FormatCSV, Err: core.ErrEmptyFile}
	}

	text, used, attempts, ok := decodeText(data, r.encodings)
	if !ok {
		return nil, &core.DecodeFailureError{
			Path:     path,
			Format:   core.FormatCSV,
			Attempts: attempts,
			Err:      fmt.Errorf("no candidate encoding accepted the content"),
		}
	}

	delim := sniffDelimiter(text, r.sniffLines)
	r.logger.Debug("delimited text decoded",
		slog.String("path", path),
		slog.String("encoding", used),
		slog.String("delimiter", string(delim)),
	)

	records, err := parseDelimited(text, delim)
	if err != nil {
		return nil, &core.DecodeFailureError{
			Path:     path,
			Format:   core.FormatCSV,
			Attempts: []string{used},
			Err:      err,
		}
	}
	return records, nil
}

func parseDelimited(text string, delim rune) ([][]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

// sniffDelimiter picks the field delimiter from a sample of lines.
//
// The header line fixes the expected field count for each candidate; the
// candidate matching that count on the most lines wins. When no candidate
// occurs in the header, the most common non-zero count across the sample is
// used instead. Ties go to the earlier candidate and the comma is the
// default when nothing occurs at all.
func sniffDelimiter(text string, maxLines int) rune {
	lines := sampleLines(text, maxLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', 0
	for _, c := range delimiterCandidates {
		if score := headerConsistency(lines, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore > 0 {
		return best
	}

	for _, c := range delimiterCandidates {
		if score := modeConsistency(lines, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// headerConsistency counts the lines splitting into as many fields as the
// header does. Zero when delim is absent from the header.
func headerConsistency(lines []string, delim rune) int {
	want := countOutsideQuotes(lines[0], delim)
	if want == 0 {
		return 0
	}
	score := 0
	for _, line := range lines {
		if countOutsideQuotes(line, delim) == want {
			score++
		}
	}
	return score
}

// modeConsistency returns how many lines share the most common non-zero
// count of delim.
func modeConsistency(lines []string, delim rune) int {
	freq := map[int]int{}
	for _, line := range lines {
		if n := countOutsideQuotes(line, delim); n > 0 {
			freq[n]++
		}
	}
	top := 0
	for _, count := range freq {
		if count > top {
			top = count
		}
	}
	return top
}

func countOutsideQuotes(line string, delim rune) int {
	n, quoted := 0, false
	for _, ch := range line {
		switch {
		case ch == '"':
			quoted = !quoted
		case ch == delim && !quoted:
			n++
		}
	}
	return n
}

func sampleLines(text string, maxLines int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxLines {
			break
		}
	}
	return out
}
