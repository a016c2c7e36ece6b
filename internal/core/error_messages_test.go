package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{
			name:     "unsupported format",
			err:      &UnsupportedFormatError{Path: "x.bin", Reason: "binary content"},
			wantCode: "FMT001",
		},
		{
			name:     "decode failure",
			err:      &DecodeFailureError{Path: "x.csv", Format: FormatCSV, Attempts: []string{"utf-8"}},
			wantCode: "FILE003",
		},
		{
			name:     "empty file decode failure",
			err:      &DecodeFailureError{Path: "x.csv", Format: FormatCSV, Err: ErrEmptyFile},
			wantCode: "FILE005",
		},
		{
			name:     "missing columns",
			err:      &MissingColumnsError{Kind: KindSantri, Missing: []string{"Cadastro"}},
			wantCode: "VAL004",
		},
		{
			name:     "wrapped missing columns",
			err:      fmt.Errorf("load: %w", &MissingColumnsError{Kind: KindAlterdata, Missing: []string{"Número"}}),
			wantCode: "VAL004",
		},
		{name: "comparison precondition", err: ErrComparisonPrecondition, wantCode: "CMP001"},
		{name: "no result", err: ErrNoResult, wantCode: "CMP002"},
		{name: "operation busy", err: ErrOperationBusy, wantCode: "OP001"},
		{name: "unknown kind", err: fmt.Errorf("%w: %q", ErrUnknownKind, "c"), wantCode: "KIND001"},
		{name: "file too large", err: errors.New("file too large: 200MB exceeds limit"), wantCode: "FILE001"},
		{name: "body too large", err: errors.New("http: request body too large"), wantCode: "FILE001"},
		{name: "no file", err: errors.New("no file provided"), wantCode: "FILE004"},
		{name: "deadline", err: errors.New("context deadline exceeded"), wantCode: "OP002"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "case insensitive pattern", err: errors.New("RATE LIMIT exceeded"), wantCode: "RATE001"},
		{name: "unknown error", err: errors.New("something odd"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError() = %+v, want message and action", got)
			}
		})
	}
}

func TestMapError_MissingColumnsListsColumns(t *testing.T) {
	err := &MissingColumnsError{
		Kind:    KindSantri,
		Missing: []string{"Cadastro", "Valor contábil"},
		Found:   []string{"Número", "Nome"},
	}

	msg := MapError(err).Message
	for _, want := range []string{"SANTRI", "Cadastro", "Valor contábil", "Número", "Nome"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %q", msg, want)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrOperationBusy)
	want := "Another load or comparison is still running (Code: OP001). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", ErrComparisonPrecondition, true},
		{"pattern", errors.New("no file provided"), true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Error("NewUserError(nil) should return nil")
	}

	tech := &DecodeFailureError{Path: "a.xls", Format: FormatSpreadsheet}
	ue := NewUserError(tech)

	if ue.Error() != msgDecodeFailure.Message {
		t.Errorf("Error() = %q, want %q", ue.Error(), msgDecodeFailure.Message)
	}

	var target *DecodeFailureError
	if !errors.As(ue, &target) {
		t.Error("UserError should unwrap to the technical error")
	}
}
