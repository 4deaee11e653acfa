// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmissionDependencies
	SummaryDependencies
}

// SubmissionDependencies runs one upload through the pipeline.
type SubmissionDependencies interface {
	Submit(ctx context.Context, raw []byte, text string) model.SubmissionResult
}

// SummaryDependencies exposes the aggregated views.
type SummaryDependencies interface {
	Summaries(ctx context.Context) (service.Summary, error)
	GroupDetail(ctx context.Context, label string) (service.GroupDetail, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	metricsHandler     *MetricsHandler
	statsHandler       *StatsHandler
	submissionsHandler *SubmissionsHandler
	summariesHandler   *SummariesHandler
	recordsHandler     *RecordsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		metricsHandler:     NewMetricsHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		submissionsHandler: NewSubmissionsHandler(deps, maxUploadBytes),
		summariesHandler:   NewSummariesHandler(deps),
		recordsHandler:     NewRecordsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/summaries/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "summary_records"))
	mux.HandleFunc("/summaries", MetricsMiddleware(s.summariesHandler.HandleGetSummaries, "summaries"))
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
