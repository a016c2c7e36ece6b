package core

import (
	"fmt"
	"strings"
)

// SourceKind identifies which accounting export a file comes from.
type SourceKind int

const (
	KindAlterdata SourceKind = iota // source A
	KindSantri                      // source B
)

// Kinds lists every supported source kind in display order.
var Kinds = []SourceKind{KindAlterdata, KindSantri}

// Canonical field names shared by both sources.
const (
	FieldDocumentID   = "document_id"
	FieldCounterparty = "counterparty"
	FieldAmount       = "amount"
)

// SourceProfile holds everything that differs between the two exports:
// which columns must exist, how they map to the canonical fields, and how
// many banner rows precede the header in spreadsheet files.
type SourceProfile struct {
	Kind            SourceKind
	Key             string            // Short key used in URLs and flags: "a", "b"
	Label           string            // Display name: "ALTERDATA"
	Required        []string          // Original column names, in report order
	Mapping         map[string]string // Original column name -> canonical field
	SheetHeaderSkip int               // Rows skipped before the header (spreadsheet-binary only)
}

var profiles = [...]SourceProfile{
	KindAlterdata: {
		Kind:     KindAlterdata,
		Key:      "a",
		Label:    "ALTERDATA",
		Required: []string{"Número", "Nome Forn/Cliente", "Valor Contábil"},
		Mapping: map[string]string{
			"Número":            FieldDocumentID,
			"Nome Forn/Cliente": FieldCounterparty,
			"Valor Contábil":    FieldAmount,
		},
		SheetHeaderSkip: 0,
	},
	KindSantri: {
		Kind:     KindSantri,
		Key:      "b",
		Label:    "SANTRI",
		Required: []string{"Número", "Cadastro", "Valor contábil"},
		Mapping: map[string]string{
			"Número":         FieldDocumentID,
			"Cadastro":       FieldCounterparty,
			"Valor contábil": FieldAmount,
		},
		// SANTRI reports open with a fixed four-row banner.
		SheetHeaderSkip: 4,
	},
}

// Profile returns the static profile for k.
// Panics on an out-of-range kind; use ParseKind for untrusted input.
func (k SourceKind) Profile() SourceProfile {
	return profiles[k]
}

// Valid reports whether k is one of the known kinds.
func (k SourceKind) Valid() bool {
	return k >= 0 && int(k) < len(profiles)
}

// String returns the display label.
func (k SourceKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
	return profiles[k].Label
}

// Key returns the short key ("a" or "b").
func (k SourceKind) Key() string {
	if !k.Valid() {
		return ""
	}
	return profiles[k].Key
}

// Other returns the opposite source.
func (k SourceKind) Other() SourceKind {
	if k == KindAlterdata {
		return KindSantri
	}
	return KindAlterdata
}

// ParseKind accepts "a", "b", "alterdata" or "santri" in any case.
func ParseKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "alterdata":
		return KindAlterdata, nil
	case "b", "santri", "santri adm":
		return KindSantri, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler so kinds render as labels in JSON/YAML.
func (k SourceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SourceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
