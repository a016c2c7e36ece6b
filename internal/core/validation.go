package core

// validation.go checks that a file carries the columns its source kind needs.
//
// Only the header is validated. Cell values are never rejected: text is kept
// as-is and amounts that do not parse become null during normalization.

// ValidateColumns reports the required columns of kind absent from columns.
// Column names are compared after CleanHeader, so BOMs, padding and
// decomposed accents do not cause false misses. Extra columns are ignored.
// Returns nil when every required column is present.
func ValidateColumns(columns []string, kind SourceKind) *MissingColumnsError {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[CleanHeader(c)] = struct{}{}
	}

	var missing []string
	for _, name := range kind.Profile().Required {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	found := make([]string, len(columns))
	copy(found, columns)
	return &MissingColumnsError{
		Kind:    kind,
		Missing: missing,
		Found:   found,
	}
}
