package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/domain/types"
)

// submissionRequest is the body of POST /submissions.
type submissionRequest struct {
	// Content is the base64 document, optionally as a data URL.
	Content string `json:"content"`
	// Text is the already extracted document text, if the client has it.
	Text string `json:"text"`
}

// SubmissionsHandler handles document uploads.
type SubmissionsHandler struct {
	deps           SubmissionDependencies
	maxUploadBytes int64
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps SubmissionDependencies, maxUploadBytes int64) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandlePostSubmission handles POST /submissions requests.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	raw, err := decodeContent(req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res := h.deps.Submit(r.Context(), raw, req.Text)
	writeJSON(w, statusForReason(res.Reason), types.NewSubmission(res))
}

// decodeContent strips an optional data URL header and decodes base64.
func decodeContent(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("missing content")
	}
	if strings.HasPrefix(content, "data:") {
		header, payload, ok := strings.Cut(content, ",")
		if !ok {
			return nil, errors.New("malformed data url")
		}
		if !strings.HasSuffix(header, ";base64") {
			return nil, errors.New("data url must be base64 encoded")
		}
		content = payload
	}
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, errors.New("content is not valid base64")
	}
	if len(raw) == 0 {
		return nil, errors.New("missing content")
	}
	return raw, nil
}

// statusForReason maps a submission reason to its HTTP status.
func statusForReason(reason string) int {
	switch reason {
	case "":
		return http.StatusCreated
	case service.ReasonDuplicate:
		return http.StatusConflict
	case service.ReasonUnknownFormat, service.ReasonNoRecords, service.ReasonUnreadable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
