package api

import (
	"net/http"

	"hellod/internal/version"
)

// helloBody is the exact response body for GET /hello: no trailing
// newline, no surrounding whitespace.
const helloBody = "Hello world"

// helloContentType is the documented Content-Type for /hello. The service
// commits to text/plain rather than leaving it to framework inference.
const helloContentType = "text/plain; charset=utf-8"

// handleHello produces the canonical greeting. The request is ignored
// entirely: query parameters, headers, and body have no effect, so the
// response is byte-identical on every invocation.
func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	w.Header().Set("Content-Type", helloContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(helloBody))
}

// handleRoot serves a service banner on the exact root path; every other
// unmatched path falls through here and gets the JSON 404 envelope.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	response := map[string]interface{}{
		"name":    "hellod HTTP API",
		"version": version.Version,
		"endpoints": []string{
			"GET /hello - The greeting",
			"GET /health - Health check",
			"GET /metrics - Prometheus metrics",
		},
	}

	WriteJSON(w, response, http.StatusOK)
}
