package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// errorEnvelope is the error response shape, shared with the upstream
// service so clients see one format end to end.
type errorEnvelope struct {
	Status string      `json:"status"`
	Error  errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writePayload serves a cached or freshly fetched payload verbatim.
func writePayload(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

// writeError responds with the error envelope. The envelope keeps the
// original code; the HTTP status is coerced into the valid range.
func writeError(w http.ResponseWriter, code int, message string) {
	body, err := json.Marshal(errorEnvelope{
		Status: "error",
		Error:  errorDetail{Code: code, Message: message},
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(coerceStatus(code))
	if _, err := w.Write(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write error response")
	}
}

// coerceStatus maps an upstream error code onto an HTTP status,
// defaulting to 500 when the code is not a valid HTTP error status.
func coerceStatus(code int) int {
	if code >= 400 && code <= 599 {
		return code
	}
	return http.StatusInternalServerError
}
