package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/export"
)

// ResultResponse is the JSON form of a comparison result. Amounts are
// rendered as text so no precision is lost in transit.
type ResultResponse struct {
	ID         uuid.UUID        `json:"id"`
	ComparedAt time.Time        `json:"compared_at"`
	Matched    int              `json:"matched"`
	Reconciled bool             `json:"reconciled"`
	OnlyInA    []export.RowView `json:"only_in_a"`
	OnlyInB    []export.RowView `json:"only_in_b"`
}

func toResultResponse(r *core.ComparisonResult) ResultResponse {
	return ResultResponse{
		ID:         r.ID,
		ComparedAt: r.ComparedAt,
		Matched:    r.Matched,
		Reconciled: r.Reconciled(),
		OnlyInA:    export.Views(r.OnlyInA),
		OnlyInB:    export.Views(r.OnlyInB),
	}
}

// handleAPIStatus returns both slots and the gate state.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

// handleAPILoad loads the uploaded file and returns the new slot.
func (s *Server) handleAPILoad(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	src, err := s.load(w, r, kind)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, src)
}

// handleAPICompare runs the comparison and returns its result.
func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Compare(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(result))
}

// handleAPIResult returns the last comparison result.
func (s *Server) handleAPIResult(w http.ResponseWriter, r *http.Request) {
	result := s.service.LastResult()
	if result == nil {
		respondError(w, r, core.ErrNoResult, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(result))
}
