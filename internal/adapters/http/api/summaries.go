package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/domain/types"
)

// SummariesHandler lists groups in display order.
type SummariesHandler struct {
	deps SummaryDependencies
}

// NewSummariesHandler creates a new summaries handler.
func NewSummariesHandler(deps SummaryDependencies) *SummariesHandler {
	return &SummariesHandler{deps: deps}
}

// HandleGetSummaries handles GET /summaries requests.
func (h *SummariesHandler) HandleGetSummaries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summaries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sum, err := h.deps.Summaries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, service.Reason(err), Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewGroups(sum.Groups))
}

// RecordsHandler returns one group's records.
type RecordsHandler struct {
	deps SummaryDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps SummaryDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandleGetRecords handles GET /summaries/records?label=... requests.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_records"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	label := r.URL.Query().Get("label")
	if strings.TrimSpace(label) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing label")))
		return
	}

	detail, err := h.deps.GroupDetail(r.Context(), label)
	switch {
	case errors.Is(err, service.ErrUnknownGroup):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, service.Reason(err), Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.GroupDetail{
		Label:        detail.Label,
		Records:      types.NewRecords(detail.Records),
		Distribution: detail.Distribution,
	})
}
