package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agent-board/backend/internal/logging"
)

// requestLogMiddleware logs each request's method, path, status, and
// duration when AGENT_BOARD_DEBUG has enabled verbose logging (spec §6,
// "AGENT_BOARD_DEBUG"). It is a no-op in normal operation, matching the
// spec's "no behavioral effect" besides the extra logging.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !logging.DebugEnabled() {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "status", sw.status, "took", time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE streaming keeps working when
// request logging is enabled.
func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
