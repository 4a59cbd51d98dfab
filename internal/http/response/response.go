package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error sources carried in the fail envelope. Clients switch on these
// rather than on message text.
const (
	SourceValidation      = "VALIDATION_ERROR"
	SourceBadRequest      = "BAD_REQUEST_ERROR"
	SourceUnauthorized    = "UNAUTHORIZED_ERROR"
	SourceForbidden       = "FORBIDDEN_ERROR"
	SourceDocumentMissing = "DOCUMENT_MISSING_ERROR"
	SourceNotFound        = "404_NOT_FOUND_ERROR"
	SourceInternal        = "INTERNAL_SERVER_ERROR"
)

type errorBody struct {
	ErrorSource string `json:"errorSource"`
}

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// Success writes a success envelope with the given payload.
func Success(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	write(w, r, status, Envelope{Status: "success", Message: message, Data: data})
}

// Fail writes a fail envelope carrying an error source.
func Fail(w http.ResponseWriter, r *http.Request, status int, source, message string) {
	write(w, r, status, Envelope{Status: "fail", Message: message, Error: &errorBody{ErrorSource: source}})
}

func write(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
