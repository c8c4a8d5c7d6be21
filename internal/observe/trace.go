package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope for all fonema spans: the
// evaluate/decks handlers, practice socket frames, and STT calls.
const tracerName = "github.com/fonema/fonema"

// Tracer returns the fonema [trace.Tracer] from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan opens a span on the fonema tracer. The caller owns span.End().
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// CorrelationID returns the active trace ID as a hex string, or "" when ctx
// carries no valid span. The trace ID doubles as the X-Correlation-ID value
// clients see, so one practice attempt can be followed from the response
// header through the logs.
func CorrelationID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// Logger returns the default slog logger with trace_id and span_id attached
// when ctx carries an active span, so attempt and STT log lines correlate
// with their spans. Without a span it is just [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return slog.Default()
	}
	return slog.Default().With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

// SessionLogger is [Logger] plus the practice session ID. Everything a
// session logs (attempts, skips, history failures) should go through this so
// a learner's whole run can be filtered with one attribute.
func SessionLogger(ctx context.Context, sessionID string) *slog.Logger {
	return Logger(ctx).With(slog.String("session_id", sessionID))
}
