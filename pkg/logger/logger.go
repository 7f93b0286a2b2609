package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures the global zerolog logger.
func Setup(isLocalDev bool) {
	SetupWithWriter(isLocalDev, os.Stderr)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(isLocalDev bool, w io.Writer) {
	// Use Unix timestamps for performance and consistency
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if isLocalDev {
		// Pretty printing for local development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		// Default to JSON output for production
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// log.Ctx falls back to the global logger when a context carries none.
	zerolog.DefaultContextLogger = &log.Logger
}

// EnrichContextWithLogger adds a zerolog logger to the context carrying the
// request id and, when a span is recording, the trace and span ids.
func EnrichContextWithLogger(ctx context.Context, requestID string) context.Context {
	lc := log.With()
	if requestID != "" {
		lc = lc.Str("request_id", requestID)
	}

	span := trace.SpanFromContext(ctx)
	if sCtx := span.SpanContext(); span.IsRecording() && sCtx.HasTraceID() {
		lc = lc.
			Str("trace_id", sCtx.TraceID().String()).
			Str("span_id", sCtx.SpanID().String())
	}

	l := lc.Logger()
	return l.WithContext(ctx)
}
