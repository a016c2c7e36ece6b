package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/export"
	"github.com/JonMunkholm/sheetrecon/internal/web/templates"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDashboard renders the main page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, http.StatusOK, nil, nil)
}

// renderDashboard writes the dashboard with an optional error. When kind is
// set the error is shown on that source's card.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, err error, kind *core.SourceKind) {
	data := templates.DashboardData{
		Status:    s.service.Status(),
		Result:    s.service.LastResult(),
		ErrorKind: kind,
	}
	if err != nil {
		msg := logError(r, err, status)
		data.Error = &msg.User
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if rerr := templates.Dashboard(data).Render(r.Context(), w); rerr != nil {
		requestLogger(r).Error("render dashboard", "error", rerr)
	}
}

// formError answers a failed form post: a fragment for HTMX, the whole page
// otherwise.
func (s *Server) formError(w http.ResponseWriter, r *http.Request, err error, kind *core.SourceKind) {
	status := statusFor(err)
	if isHTMX(r) {
		respondError(w, r, err, status)
		return
	}
	s.renderDashboard(w, r, status, err, kind)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLoad spools the uploaded file and loads it into the slot for kind.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		s.formError(w, r, err, nil)
		return
	}

	if _, err := s.load(w, r, kind); err != nil {
		s.formError(w, r, err, &kind)
		return
	}
	redirectHome(w, r)
}

// load spools the request's file and hands it to the service.
func (s *Server) load(w http.ResponseWriter, r *http.Request, kind core.SourceKind) (*core.LoadedSource, error) {
	up, err := s.spoolUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer up.Remove()

	log := requestLogger(r, "kind", kind.String(), "file", up.Name)
	log.Info("upload spooled", "bytes", up.Size)

	start := time.Now()
	src, err := s.service.LoadNamed(r.Context(), kind, up.Path, up.Name)
	if err != nil {
		return nil, err
	}
	log.Info("upload loaded", "rows", src.Rows(), "duration_ms", time.Since(start).Milliseconds())
	return src, nil
}

// handleCompare runs the comparison and returns to the dashboard.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.Compare(r.Context()); err != nil {
		s.formError(w, r, err, nil)
		return
	}
	redirectHome(w, r)
}

// handleClear empties the slot for kind.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err == nil {
		err = s.service.Clear(kind)
	}
	if err != nil {
		s.formError(w, r, err, nil)
		return
	}
	redirectHome(w, r)
}

// handleExport downloads one side of the last result as CSV or XLSX.
// side "a" is ALTERDATA rows missing from SANTRI, "b" the reverse.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(chi.URLParam(r, "side"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	ext := chi.URLParam(r, "ext")
	if ext != "csv" && ext != "xlsx" {
		http.NotFound(w, r)
		return
	}

	result := s.service.LastResult()
	if result == nil {
		respondError(w, r, core.ErrNoResult, http.StatusNotFound)
		return
	}
	rows := result.Side(kind)

	filename := export.FileName(kind, result.ComparedAt, ext)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	switch ext {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = export.WriteCSV(w, rows)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteXLSX(w, export.SheetName(kind), rows)
	}
	if err != nil {
		// Headers are gone; all that is left is the log.
		requestLogger(r).Error("export failed", "error", err)
	}
}
