package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body returned on any non-2xx status.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// RespondErrorList sends an error response carrying per-row error strings.
func RespondErrorList(w http.ResponseWriter, status int, message string, errs []string) {
	RespondJSON(w, status, ErrorResponse{Success: false, Message: message, Errors: errs})
}

// ParseJSONBody parses a JSON request body with a size limit.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
