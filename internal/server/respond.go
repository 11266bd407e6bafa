package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/observability"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to an HTTP status and writes the JSON error
// body. Unknown codes are reported as internal errors.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeScoreNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeDuplicateEvent:
		status = http.StatusConflict
	case errors.ErrCodeInvalidScore, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat, errors.ErrCodeConstraintViolation:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{
		Error:   errors.GetCode(err),
		Message: errors.UserMessage(err),
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

// requestLogger logs each request with its status and emits server
// hooks around the handler.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
