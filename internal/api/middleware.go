package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"hellod/internal/logging"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey contextKey = "requestID"
)

// maxLoggedBodyBytes caps how much of a request body the logger reads.
// The rest of the body is still delivered to the handler untouched.
const maxLoggedBodyBytes = 8 * 1024

// emptyBodySentinel is logged when a request carries no body
const emptyBodySentinel = "{}"

// unloggableBodyPlaceholder is logged when the body cannot be serialized;
// the request pipeline continues regardless.
const unloggableBodyPlaceholder = "<unserializable body>"

// RequestIDMiddleware tags each request with a unique ID, honoring an
// inbound X-Request-ID header when present.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", reqID)

			next.ServeHTTP(w, r)
		})
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// LoggingMiddleware logs every request before dispatch (method, path, and
// a serialized body) and again after the handler returns (status, duration).
// It never fails the pipeline: an unreadable body is logged as a placeholder.
func LoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := GetRequestID(r.Context())

			logger.Info("HTTP request", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"query":      r.URL.RawQuery,
				"body":       serializeBody(r),
				"remoteAddr": r.RemoteAddr,
				"requestID":  reqID,
			})

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.Info("HTTP response", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     wrapped.statusCode,
				"duration":   duration.String(),
				"durationMs": duration.Milliseconds(),
				"requestID":  reqID,
			})
		})
	}
}

// serializeBody returns a loggable representation of the request body and
// restores r.Body so downstream handlers can still read it.
func serializeBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return emptyBodySentinel
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	if err != nil {
		// Can't trust the stream anymore; hand the handler what we have
		r.Body = io.NopCloser(bytes.NewReader(data))
		return unloggableBodyPlaceholder
	}

	truncated := false
	logged := data
	if len(logged) > maxLoggedBodyBytes {
		logged = logged[:maxLoggedBodyBytes]
		truncated = true
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), r.Body))

	if len(data) == 0 {
		return emptyBodySentinel
	}

	if json.Valid(logged) {
		var compact bytes.Buffer
		if err := json.Compact(&compact, logged); err == nil {
			if truncated {
				return compact.String() + "..."
			}
			return compact.String()
		}
	}

	if !utf8.Valid(logged) {
		return unloggableBodyPlaceholder
	}
	if truncated {
		return string(logged) + "..."
	}
	return string(logged)
}

// RecoveryMiddleware is the terminal error handler: any panic raised in the
// handler chain is logged with full detail server-side and converted into
// the generic 500 envelope. Nothing from the original error crosses the
// process boundary, and no further handlers run for the request.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered", map[string]interface{}{
						"error":     fmt.Sprintf("%v", err),
						"stack":     string(debug.Stack()),
						"method":    r.Method,
						"path":      r.URL.Path,
						"headers":   headerFields(r.Header),
						"timestamp": time.Now().UTC().Format(time.RFC3339),
						"requestID": GetRequestID(r.Context()),
					})

					// If the handler already committed a response there is
					// nothing safe left to write.
					if !wrapped.wroteHeader {
						InternalError(wrapped, r)
					}
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

func headerFields(h http.Header) map[string]interface{} {
	fields := make(map[string]interface{}, len(h))
	for name, values := range h {
		if len(values) == 1 {
			fields[name] = values[0]
		} else {
			fields[name] = values
		}
	}
	return fields
}

// GzipMiddleware compresses responses for clients that accept gzip
func GzipMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	}
}

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware(m *MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			m.RecordRequest(r.Method, r.URL.Path, strconv.Itoa(wrapped.statusCode), time.Since(start))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code and
// whether a response has been committed
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = statusCode
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write marks the response committed if WriteHeader wasn't called
func (rw *responseWriter) Write(data []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(data)
}
