package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the client-facing error shape. It deliberately carries
// only a generic error string, the status, a timestamp, and the request
// path; handler failure details stay in the server-side log.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the generic error envelope for the given status
func WriteError(w http.ResponseWriter, r *http.Request, message string, status int) {
	WriteJSON(w, ErrorResponse{
		Error:     message,
		Status:    status,
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
	}, status)
}

// NotFound writes a 404 Not Found error
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, "Not Found", http.StatusNotFound)
}

// MethodNotAllowed writes a 405 error with the Allow header set
func MethodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	WriteError(w, r, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// InternalError writes the generic 500 envelope. The underlying error is
// never included; callers are expected to have logged it already.
func InternalError(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, "Internal Server Error", http.StatusInternalServerError)
}
