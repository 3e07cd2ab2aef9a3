package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	apperrors "github.com/yutawtr1214/youtube-samalizer/internal/errors"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/summarizer"
)

// Processor is the part of summarizer.Processor the handler needs.
type Processor interface {
	Process(ctx context.Context, req summarizer.Request) (*summarizer.Result, error)
}

// Defaults fill in request fields the client left empty.
type Defaults struct {
	Model  string
	Length models.Length
	Format models.OutputFormat
	Lang   string
}

type ProcessHandler struct {
	processor Processor
	defaults  Defaults
	timeout   time.Duration
	log       logrus.FieldLogger
}

func NewProcessHandler(processor Processor, defaults Defaults, timeout time.Duration, log logrus.FieldLogger) *ProcessHandler {
	return &ProcessHandler{
		processor: processor,
		defaults:  defaults,
		timeout:   timeout,
		log:       log,
	}
}

func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	var body models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if body.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "url is required", r))
		return
	}

	req := summarizer.Request{
		URL:         body.URL,
		Mode:        models.Mode(body.Mode),
		Model:       firstNonEmpty(body.Model, h.defaults.Model),
		Length:      models.Length(firstNonEmpty(body.Length, string(h.defaults.Length))),
		Format:      models.OutputFormat(firstNonEmpty(body.Format, string(h.defaults.Format))),
		Lang:        firstNonEmpty(body.Lang, h.defaults.Lang),
		ExtraPrompt: body.Prompt,
	}
	if req.Mode == "" {
		req.Mode = models.ModeSummary
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.processor.Process(ctx, req)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"request_id": chimiddleware.GetReqID(r.Context()),
			"kind":       apperrors.KindOf(err).String(),
		}).Warn("process request failed")
		handleProcessError(w, r, err)
		return
	}

	if res.IsStructured() {
		writeJSON(w, http.StatusOK, res.Structured)
		return
	}
	writeJSON(w, http.StatusOK, models.TextResponse{Text: res.Text})
}

func (h *ProcessHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleProcessError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidURL:
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_URL", err.Error(), r))
	case apperrors.KindInvalidMode:
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_MODE", err.Error(), r))
	case apperrors.KindInvalidOption:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	case apperrors.KindMetadataFetch:
		writeJSON(w, http.StatusBadGateway, errorResp("METADATA_FETCH_FAILED", err.Error(), r))
	case apperrors.KindModelCall:
		writeJSON(w, http.StatusBadGateway, errorResp("MODEL_CALL_FAILED", err.Error(), r))
	case apperrors.KindResponseParse:
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("RESPONSE_PARSE_FAILED", err.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	requestID := chimiddleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = r.Header.Get("X-Request-ID")
	}
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
