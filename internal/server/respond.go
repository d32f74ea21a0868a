package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/simplescore/simplescore-backend/internal/shared"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// StatusFor maps an error from the domain taxonomy onto an HTTP status code.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, shared.ErrParse),
		errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateFingerprint),
		errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError replies with the status for err. Internal errors are logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	body := ErrorResponse{Detail: err.Error()}
	var fe *shared.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
	}

	if status == http.StatusInternalServerError {
		if logger := loggerFrom(r); logger != nil {
			logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		}
		body = ErrorResponse{Detail: http.StatusText(status)}
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="simplescore"`)
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type loggerKey struct{}

func loggerFrom(r *http.Request) *log.Logger {
	logger, _ := r.Context().Value(loggerKey{}).(*log.Logger)
	return logger
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return shared.NewFieldError(shared.ErrValidation, "", "malformed JSON body: %v", err)
	}
	return nil
}
