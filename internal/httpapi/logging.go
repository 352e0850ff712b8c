package httpapi

import (
	"expvar"
	"log"
	"net/http"
	"time"
)

var (
	queueRequests = expvar.NewInt("queue_requests_total")
	queueErrors   = expvar.NewInt("queue_request_errors_total")
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware records per-request status and latency and keeps the
// expvar counters current.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)

		queueRequests.Add(1)
		if writer.status >= http.StatusBadRequest {
			queueErrors.Add(1)
		}
		log.Printf("request method=%s path=%s status=%d duration_ms=%d",
			r.Method, r.URL.Path, writer.status, time.Since(start).Milliseconds())
	})
}
