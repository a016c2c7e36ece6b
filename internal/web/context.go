package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/logging"
)

// requestLogger returns the request-scoped logger with client metadata.
// RemoteAddr has already been resolved by TrustedRealIP.
func requestLogger(r *http.Request, args ...any) *slog.Logger {
	args = append(args, "ip", r.RemoteAddr, "user_agent", r.UserAgent())
	return logging.WithFields(r.Context(), args...)
}

// kindParam parses the {kind} URL parameter.
func kindParam(r *http.Request) (core.SourceKind, error) {
	return core.ParseKind(chi.URLParam(r, "kind"))
}
