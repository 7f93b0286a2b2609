package middleware

import (
	"net/http"

	"jta.service/pkg/logger"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext tags each request with a request id (taken from the
// X-Request-ID header or generated) and a logger carrying it plus trace ids.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, rid)

		ctx := logger.EnrichContextWithLogger(r.Context(), rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccessLog writes one line per request with status and latency. It must run
// inside RequestContext to pick up the request logger.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		log.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Dur("duration", m.Duration).
			Int64("bytes", m.Written).
			Msg("Request handled")
	})
}
