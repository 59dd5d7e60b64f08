package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	secureurl "github.com/Choreogrifi/cgf-secure-url-service"
)

// Error codes carried in the ErrorResponse body.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeFileNotFound = "FILE_NOT_FOUND"
	CodeAuthFailed   = "STORAGE_AUTH_FAILED"
	CodeUnavailable  = "STORAGE_UNAVAILABLE"
	CodeUnexpected   = "UNEXPECTED_ERROR"
)

// Fault categories carried in ErrorResponse details.
const (
	errorTypeValidation  = "validation_error"
	errorTypeNotFound    = "object_not_found"
	errorTypeAuth        = "authentication_failure"
	errorTypeUnavailable = "backend_unavailable"
	errorTypeUnexpected  = "unexpected"
)

// SignedURLResponse is the success body for GET /v1/url/.
type SignedURLResponse struct {
	URL string `json:"url"`
}

// ErrorDetails carries the fault category and request context of a failure.
type ErrorDetails struct {
	ErrorType   string `json:"error_type"`
	Message     string `json:"message"`
	RequestPath string `json:"request_path"`
}

// ErrorResponse is the fixed JSON shape used for every non-2xx response.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details ErrorDetails `json:"details"`
}

// WriteError writes the fixed JSON error shape with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message, errorType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
		Details: ErrorDetails{
			ErrorType:   errorType,
			Message:     message,
			RequestPath: r.URL.Path,
		},
	})
	if err != nil {
		slog.Error("failed to encode error response", "err", err)
	}
}

// HandleError translates an issuer failure into the wire-level error shape.
// Matching is exhaustive over the secureurl sentinel errors; anything else
// becomes a sanitized unexpected-error response. The raw error is only
// logged, never serialized.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, secureurl.ErrInvalidInput):
		slog.Warn("request rejected", "path", r.URL.Path, "err", err)
		WriteError(w, r, http.StatusUnprocessableEntity, CodeValidation,
			"Invalid request parameters.", errorTypeValidation)

	case errors.Is(err, secureurl.ErrObjectNotFound):
		slog.Warn("object not found", "path", r.URL.Path, "err", err)
		WriteError(w, r, http.StatusNotFound, CodeFileNotFound,
			"File not found in the storage bucket.", errorTypeNotFound)

	case errors.Is(err, secureurl.ErrAuthFailed):
		slog.Error("storage authentication failed", "path", r.URL.Path, "err", err)
		WriteError(w, r, http.StatusInternalServerError, CodeAuthFailed,
			"Authentication to the storage backend failed. Check the service account configuration.",
			errorTypeAuth)

	case errors.Is(err, secureurl.ErrBackendUnavailable):
		slog.Error("storage backend unavailable", "path", r.URL.Path, "err", err)
		WriteError(w, r, http.StatusInternalServerError, CodeUnavailable,
			"The storage backend is currently unavailable. Please try again later.",
			errorTypeUnavailable)

	default:
		slog.Error("unexpected error", "path", r.URL.Path, "err", err)
		WriteError(w, r, http.StatusInternalServerError, CodeUnexpected,
			"An unexpected server error occurred. Please try again later.",
			errorTypeUnexpected)
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
