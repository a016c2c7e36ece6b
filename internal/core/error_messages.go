package core

// error_messages.go maps technical errors to user-facing messages.
//
// Errors shown to users carry a short code so a report can be matched to the
// log entry holding the technical detail.
//
// # Format and File Errors
//
//	FMT001  - Unsupported format: the file is not CSV, XLSX/XLS or ODS
//	          Action: Export the report again as .xlsx or .csv
//	FILE001 - File too large
//	          Action: Export a shorter period or split the report
//	FILE003 - Decode failure: no decoder or character encoding could read the file
//	          Action: Open the file and save it again as .xlsx or UTF-8 CSV
//	FILE004 - No file was selected
//	FILE005 - Empty file
//
// # Validation Errors
//
//	VAL004  - Missing columns: required columns absent for the declared source
//	          Action: Check that the file is the right report for the source
//	KIND001 - Unknown source kind
//
// # Operation Errors
//
//	CMP001  - Both sources must be loaded before comparing
//	CMP002  - No comparison result to show or export
//	OP001   - Another load or comparison is still running
//	OP002   - Request timed out or was cancelled
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when nothing matches; the technical error is in the logs.
//
// Typed errors are matched first with errors.As / errors.Is. Plain errors
// coming from the transport layer are matched by case-insensitive substring,
// first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgUnsupportedFormat = UserMessage{
		Message: "The file format is not supported",
		Action:  "Export the report again as .xlsx, .xls, .ods or .csv",
		Code:    "FMT001",
	}
	msgDecodeFailure = UserMessage{
		Message: "The file could not be read",
		Action:  "Check the file is not corrupted, or save it again as .xlsx or UTF-8 CSV",
		Code:    "FILE003",
	}
	msgMissingColumns = UserMessage{
		Message: "Required columns are missing from the file",
		Action:  "Check that the file is the correct report for this source",
		Code:    "VAL004",
	}
	msgPrecondition = UserMessage{
		Message: "Load both spreadsheets before comparing",
		Action:  "Load the ALTERDATA and SANTRI files, then compare again",
		Code:    "CMP001",
	}
	msgBusy = UserMessage{
		Message: "Another load or comparison is still running",
		Action:  "Please wait a moment and try again",
		Code:    "OP001",
	}
	msgNoResult = UserMessage{
		Message: "There is no comparison result yet",
		Action:  "Run a comparison first",
		Code:    "CMP002",
	}
	msgUnknownKind = UserMessage{
		Message: "Unknown spreadsheet source",
		Action:  "Choose ALTERDATA or SANTRI",
		Code:    "KIND001",
	}
)

// errorPatterns covers errors that do not have a type of their own.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Export a shorter period or split the report",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Export a shorter period or split the report",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a spreadsheet file to load",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Choose a report that contains data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try again; very large files may take longer",
			Code:    "OP002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "OP002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// MissingColumnsError messages list the missing and found columns.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		unsupported *UnsupportedFormatError
		decode      *DecodeFailureError
		missing     *MissingColumnsError
	)
	switch {
	case errors.As(err, &missing):
		msg := msgMissingColumns
		msg.Message = fmt.Sprintf("Missing columns in the %s spreadsheet: %s. Columns found: %s",
			missing.Kind, strings.Join(missing.Missing, ", "), foundList(missing.Found))
		return msg
	case errors.As(err, &unsupported):
		return msgUnsupportedFormat
	case errors.As(err, &decode):
		if errors.Is(decode.Err, ErrEmptyFile) {
			break
		}
		return msgDecodeFailure
	case errors.Is(err, ErrComparisonPrecondition):
		return msgPrecondition
	case errors.Is(err, ErrOperationBusy):
		return msgBusy
	case errors.Is(err, ErrNoResult):
		return msgNoResult
	case errors.Is(err, ErrUnknownKind):
		return msgUnknownKind
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func foundList(found []string) string {
	if len(found) == 0 {
		return "(none)"
	}
	return strings.Join(found, ", ")
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message (for display).
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped user message. Returns nil for nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
