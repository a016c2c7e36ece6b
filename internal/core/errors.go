package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrComparisonPrecondition is returned by Compare when either source slot is empty.
	ErrComparisonPrecondition = errors.New("comparison requires both sources to be loaded")

	// ErrOperationBusy is returned when another load or compare holds the gate
	// for longer than the configured wait.
	ErrOperationBusy = errors.New("another operation is in progress, please try again later")

	// ErrUnknownKind is returned for source kinds other than ALTERDATA and SANTRI.
	ErrUnknownKind = errors.New("unknown source kind")

	// ErrNoResult is returned when a result is requested before any comparison.
	ErrNoResult = errors.New("no comparison result")

	// ErrEmptyFile is wrapped by DecodeFailureError when the file has no bytes
	// or no non-empty rows.
	ErrEmptyFile = errors.New("empty file")
)

// UnsupportedFormatError means neither the extension nor the leading bytes
// identify a format the reader can decode.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s: %s", e.Path, e.Reason)
}

// DecodeFailureError means every engine or encoding in the fallback chain failed.
// Attempts lists what was tried, in order.
type DecodeFailureError struct {
	Path     string
	Format   Format
	Attempts []string
	Err      error
}

func (e *DecodeFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "decode failure: %s (%s)", e.Path, e.Format)
	if len(e.Attempts) > 0 {
		fmt.Fprintf(&b, ", tried %s", strings.Join(e.Attempts, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DecodeFailureError) Unwrap() error { return e.Err }

// MissingColumnsError lists the required columns absent from a file together
// with every column that was found, so the user can spot near-misses.
type MissingColumnsError struct {
	Kind    SourceKind
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns for %s: %s (found: %s)",
		e.Kind, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}
