package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/skipperlabs/skipper/internal/app"
	"github.com/skipperlabs/skipper/internal/domain/dataset"
	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
)

// idempotencyHeader carries the client-chosen key for duplicate detection.
const idempotencyHeader = "Idempotency-Key"

// weightParams are the query parameters overriding the default weights.
var weightParams = []string{"w_win", "w_close", "w_player", "w_strategy"}

// DatasetsHandler handles dataset upload requests.
type DatasetsHandler struct {
	deps Dependencies
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps Dependencies) *DatasetsHandler {
	return &DatasetsHandler{deps: deps}
}

// HandlePostDataset handles POST /datasets requests. The body is either
// a CSV document or a JSON array of records, chosen by Content-Type.
func (h *DatasetsHandler) HandlePostDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	records, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, decodeErrorCode(err), err)
		return
	}

	weights, err := parseWeights(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_weights", err)
		return
	}

	sub := Submission{
		Label:          r.URL.Query().Get("label"),
		IdempotencyKey: r.Header.Get(idempotencyHeader),
		Records:        records,
		Weights:        weights,
	}

	batchID, duplicate, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{BatchID: batchID, Status: "accepted"})
}

func decodeBody(r *http.Request) ([]model.CaptainRecord, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "json") {
		return decodeJSON(r.Body)
	}
	return dataset.Decode(r.Body)
}

// jsonRecord shadows model.CaptainRecord with pointer fields so that
// absent keys are distinguishable from zero values.
type jsonRecord struct {
	Name                   *string  `json:"captain"`
	MatchesPlayed          *int     `json:"matches_played"`
	MatchesWon             *int     `json:"matches_won"`
	CloseMatchesPlayed     *int     `json:"close_matches_played"`
	CloseMatchesWon        *int     `json:"close_matches_won"`
	PlayerImprovementScore *float64 `json:"player_improvement_score"`
	SuccessfulStrategies   *int     `json:"successful_strategies"`
	TotalStrategies        *int     `json:"total_strategies"`
}

// missing returns the keys absent from the record, in column order.
func (j jsonRecord) missing() []string {
	var fields []string
	if j.Name == nil {
		fields = append(fields, "captain")
	}
	if j.MatchesPlayed == nil {
		fields = append(fields, "matches_played")
	}
	if j.MatchesWon == nil {
		fields = append(fields, "matches_won")
	}
	if j.CloseMatchesPlayed == nil {
		fields = append(fields, "close_matches_played")
	}
	if j.CloseMatchesWon == nil {
		fields = append(fields, "close_matches_won")
	}
	if j.PlayerImprovementScore == nil {
		fields = append(fields, "player_improvement_score")
	}
	if j.SuccessfulStrategies == nil {
		fields = append(fields, "successful_strategies")
	}
	if j.TotalStrategies == nil {
		fields = append(fields, "total_strategies")
	}
	return fields
}

// decodeJSON decodes a JSON array of records, requiring every key of
// the tabular contract on every record. All absent keys are reported
// together, matching the CSV boundary.
func decodeJSON(body io.Reader) ([]model.CaptainRecord, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	seen := make(map[string]bool)
	var missing []string
	for _, rec := range raw {
		for _, field := range rec.missing() {
			if !seen[field] {
				seen[field] = true
				missing = append(missing, field)
			}
		}
	}
	if len(missing) > 0 {
		return nil, scoring.NewMissingField(missing...)
	}

	records := make([]model.CaptainRecord, 0, len(raw))
	for _, rec := range raw {
		records = append(records, model.CaptainRecord{
			Name:                   *rec.Name,
			MatchesPlayed:          *rec.MatchesPlayed,
			MatchesWon:             *rec.MatchesWon,
			CloseMatchesPlayed:     *rec.CloseMatchesPlayed,
			CloseMatchesWon:        *rec.CloseMatchesWon,
			PlayerImprovementScore: *rec.PlayerImprovementScore,
			SuccessfulStrategies:   *rec.SuccessfulStrategies,
			TotalStrategies:        *rec.TotalStrategies,
		})
	}
	return records, nil
}

// decodeErrorCode maps decode failures to a stable error code.
func decodeErrorCode(err error) string {
	var missing *scoring.MissingFieldError
	if errors.As(err, &missing) {
		return "missing_field"
	}
	var processing *scoring.ProcessingError
	if errors.As(err, &processing) {
		return "processing_error"
	}
	return "bad_request"
}

// parseWeights reads the weight override parameters. Either all four are
// present, each a float in [0,1], or none of them.
func parseWeights(q url.Values) (*model.Weights, error) {
	provided := 0
	for _, name := range weightParams {
		if q.Has(name) {
			provided++
		}
	}
	if provided == 0 {
		return nil, nil
	}
	if provided != len(weightParams) {
		return nil, fmt.Errorf("%w: all of %s must be provided together", ErrBadRequest, strings.Join(weightParams, ", "))
	}

	values := make([]float64, len(weightParams))
	for i, name := range weightParams {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: %s must be a number in [0,1]", ErrBadRequest, name)
		}
		values[i] = v
	}
	return &model.Weights{
		Win:      values[0],
		Close:    values[1],
		Player:   values[2],
		Strategy: values[3],
	}, nil
}
