// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/skipperlabs/skipper/internal/app"
	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit queues a dataset for async scoring. It returns the new
	// batch id, or duplicate=true when the idempotency key was seen.
	Submit(ctx context.Context, sub Submission) (batchID string, duplicate bool, err error)

	// Read operations expose scored batches.
	Batch(ctx context.Context, id string) (model.Batch, error)
	Rankings(ctx context.Context, id string, minMatches int, sortField string, limit int) ([]model.ScoredRecord, error)
	Summary(ctx context.Context, id string) (model.Summary, error)
}

// Submission mirrors the write shape accepted by dataset uploads.
type Submission = service.Submission

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	datasetsHandler *DatasetsHandler
	rankingsHandler *RankingsHandler
	summaryHandler  *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		datasetsHandler: NewDatasetsHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxLimit),
		summaryHandler:  NewSummaryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/datasets", MetricsMiddleware(s.datasetsHandler.HandlePostDataset, "datasets"))
	mux.HandleFunc("/rankings/", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/summary/", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
}

type ackResponse struct {
	BatchID   string `json:"batch_id,omitempty"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
