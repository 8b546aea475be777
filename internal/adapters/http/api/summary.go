package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/skipperlabs/skipper/internal/domain/scoring"
)

// SummaryHandler handles summary queries.
type SummaryHandler struct {
	deps Dependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps Dependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /summary/{batch_id} requests.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/summary/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	summary, err := h.deps.Summary(r.Context(), id)
	if err != nil {
		if errors.Is(err, scoring.ErrEmptyBatch) {
			writeError(w, http.StatusUnprocessableEntity, "empty_batch", err)
			return
		}
		writeBatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
