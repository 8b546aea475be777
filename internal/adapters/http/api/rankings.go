package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	repository "github.com/skipperlabs/skipper/internal/adapters/repository"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
)

// RankingsHandler handles ranking queries.
type RankingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /rankings/{batch_id} requests with
// optional limit, min_matches and sort query parameters.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/rankings/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	q := r.URL.Query()

	limit, err := parseLimit(q, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit_exceeded", err)
		return
	}
	minMatches, err := parseMinMatches(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sortField := q.Get("sort")
	if sortField == "" {
		sortField = scoring.SortByCaptaincyScore
	}
	if !scoring.ValidSortField(sortField) {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: unknown sort field %q", ErrBadRequest, sortField))
		return
	}

	entries, err := h.deps.Rankings(r.Context(), id, minMatches, sortField, limit)
	if err != nil {
		writeBatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// parseLimit reads the limit parameter, defaulting to the configured
// maximum when absent.
func parseLimit(q url.Values, maxLimit int) (int, error) {
	raw := q.Get("limit")
	if raw == "" {
		return maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)
	}
	if n > maxLimit {
		return 0, fmt.Errorf("%w: limit must not exceed %d", ErrBadRequest, maxLimit)
	}
	return n, nil
}

func parseMinMatches(q url.Values) (int, error) {
	raw := q.Get("min_matches")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: min_matches must be a non-negative integer", ErrBadRequest)
	}
	return n, nil
}

// writeBatchError translates batch read failures to status codes.
// Unknown batches map to 404 and failed batches to 422.
func writeBatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrEmpty) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	var processing *scoring.ProcessingError
	if errors.As(err, &processing) {
		writeError(w, http.StatusUnprocessableEntity, "batch_failed", err)
		return
	}
	if errors.Is(err, scoring.ErrUnknownSortField) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
