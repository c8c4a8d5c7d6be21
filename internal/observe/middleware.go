package observe

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// knownRoutes is the fixed fonema API surface. Metric and span names use
// these labels so a scanner probing random paths cannot blow up metric
// cardinality.
var knownRoutes = map[string]string{
	"/v1/evaluate": "/v1/evaluate",
	"/v1/decks":    "/v1/decks",
	"/v1/practice": "/v1/practice",
	"/metrics":     "/metrics",
	"/healthz":     "/healthz",
	"/readyz":      "/readyz",
}

// routeLabel maps a request path to its route label, collapsing everything
// outside the API surface to "other".
func routeLabel(path string) string {
	if r, ok := knownRoutes[path]; ok {
		return r
	}
	return "other"
}

// quietRoute reports whether completions on this route should log at Debug.
// Probe and scrape traffic arrives every few seconds and would drown out the
// evaluate/practice lines an operator actually reads.
func quietRoute(route string) bool {
	switch route {
	case "/metrics", "/healthz", "/readyz":
		return true
	}
	return false
}

// responseTap captures what the downstream handler wrote. For the practice
// route the tapped status is the WebSocket handshake result (101 on a
// successful upgrade), not a per-attempt outcome.
type responseTap struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *responseTap) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *responseTap) Write(p []byte) (int, error) {
	n, err := t.ResponseWriter.Write(p)
	t.bytes += n
	return n, err
}

// Unwrap exposes the wrapped writer so http.ResponseController (and the
// WebSocket library's hijack path) can reach the underlying http.Hijacker;
// without it the practice upgrade fails with 501.
func (t *responseTap) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}

// Middleware instruments the fonema mux: it extracts W3C trace context from
// the request (or starts a new trace), opens a server span named
// "METHOD route", mirrors the trace ID into the X-Correlation-ID response
// header, records [Metrics.HTTPRequestDuration] under the bounded route
// label, and logs the completion.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeLabel(r.URL.Path)

			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := StartSpan(ctx, r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRoute(route),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			cid := CorrelationID(ctx)
			if cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			tap := &responseTap{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(tap, r.WithContext(ctx))

			elapsed := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(),
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("route", route),
				),
			)
			span.SetAttributes(semconv.HTTPResponseStatusCode(tap.status))

			level := slog.LevelInfo
			if quietRoute(route) {
				level = slog.LevelDebug
			}
			slog.LogAttrs(ctx, level, "request completed",
				slog.String("trace_id", cid),
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.String("path", r.URL.Path),
				slog.Int("status", tap.status),
				slog.Int("bytes", tap.bytes),
				slog.Duration("duration", elapsed),
			)
		})
	}
}
