package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/analysis"
	"github.com/suretydesk/suretydesk/internal/importer"
	"github.com/suretydesk/suretydesk/internal/llm"
	"github.com/suretydesk/suretydesk/internal/logging"
	"github.com/suretydesk/suretydesk/internal/reconcile"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/service"
	"github.com/suretydesk/suretydesk/internal/session"
)

// errBadRequest marks malformed client input.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, service.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrInvalidReport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrUnknownItem),
		errors.Is(err, report.ErrUnknownPath),
		errors.Is(err, report.ErrInvalidPath),
		errors.Is(err, report.ErrIndexOutOfRange),
		errors.Is(err, report.ErrUnknownFieldName):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrIncomplete),
		errors.Is(err, session.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoFiles),
		errors.Is(err, analysis.ErrNoDocuments):
		return http.StatusUnprocessableEntity
	case errors.Is(err, llm.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, reconcile.ErrBatchFailed),
		errors.Is(err, analysis.ErrExtractionFailed),
		errors.Is(err, analysis.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	body := errorBody{Error: err.Error()}
	var inc *session.IncompleteError
	if errors.As(err, &inc) {
		body.Missing = inc.Missing
	}
	log := logging.FromContext(r.Context())
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", code), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Int("status", code), zap.Error(err))
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
