package web

// errors.go turns errors into responses.
//
// Every failure is logged with its technical detail and request ID, mapped
// through core.MapError, and rendered in the shape the client asked for:
// an HTML fragment for HTMX, JSON for API calls, plain text otherwise.
// The dashboard form handlers instead re-render the whole page with the
// message, see renderDashboard.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/logging"
	"github.com/JonMunkholm/sheetrecon/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var (
		missing     *core.MissingColumnsError
		unsupported *core.UnsupportedFormatError
		decode      *core.DecodeFailureError
		tooLarge    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &missing), errors.As(err, &unsupported), errors.As(err, &decode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrComparisonPrecondition):
		return http.StatusConflict
	case errors.Is(err, core.ErrOperationBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrUnknownKind), errors.Is(err, core.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, errNoFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	ue := logError(r, err, statusCode)

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, ue.User, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, ue.User, statusCode)
	default:
		respondErrorHTML(w, ue.User, statusCode)
	}
}

// logError records the technical error and returns it paired with its
// user message.
func logError(r *http.Request, err error, statusCode int) *core.UserError {
	ue := core.NewUserError(err)

	log := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", ue.Technical.Error(),
		"code", ue.User.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error("request error", args...)
	} else {
		log.Warn("request error", args...)
	}
	return ue
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" (Code: "+msg.Code+"). "+msg.Action, statusCode)
}

func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
