package httputil

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorBody is the wire shape for every non-2xx response. Only the fields
// relevant to the failure kind are populated; internal detail never leaves
// the process.
type ErrorBody struct {
	Error     string `json:"error"`
	Warning   bool   `json:"warning,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
	ResetAt   string `json:"reset_at,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeBody(w http.ResponseWriter, requestID string, statusCode int, body ErrorBody) {
	body.RequestID = requestID
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func WriteError(w http.ResponseWriter, requestID string, statusCode int, message string) {
	writeBody(w, requestID, statusCode, ErrorBody{Error: message})
}

func WriteAuthError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusUnauthorized, message)
}

func WriteBadRequestError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusBadRequest, message)
}

// WriteContentBlockedError rejects a request tripped by the safety filter.
// The warning flag tells the client UI to surface a safety notice.
func WriteContentBlockedError(w http.ResponseWriter, requestID, message string) {
	writeBody(w, requestID, http.StatusBadRequest, ErrorBody{Error: message, Warning: true})
}

// WriteQuotaExceededError rejects a request over the daily allowance, carrying
// the remaining count and the time the allowance resets.
func WriteQuotaExceededError(w http.ResponseWriter, requestID, message string, remaining int, resetAt time.Time) {
	writeBody(w, requestID, http.StatusTooManyRequests, ErrorBody{
		Error:     message,
		Remaining: &remaining,
		ResetAt:   resetAt.UTC().Format(time.RFC3339),
	})
}

func WriteUpstreamBusyError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusTooManyRequests, message)
}

func WriteBillingExhaustedError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusPaymentRequired, message)
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusInternalServerError, message)
}
