package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// TraceIDFromContext returns the trace id assigned to the request, or ""
// when called outside TraceMiddleware.
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// TraceMiddleware assigns each request a trace id and a span id, stores the
// trace id in the request context, echoes both in the X-Trace-ID and
// X-Span-ID response headers together with an X-Process-Time header, and
// logs request start and completion. An inbound X-Trace-ID header is honored
// so traces survive proxies; the span id is always freshly generated for
// this hop.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		spanID := uuid.NewString()

		tw := &traceWriter{ResponseWriter: w, start: time.Now()}
		tw.Header().Set("X-Trace-ID", traceID)
		tw.Header().Set("X-Span-ID", spanID)

		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)

		slog.Debug("request started",
			"trace_id", traceID,
			"span_id", spanID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(tw, r.WithContext(ctx))

		slog.Info("request completed",
			"trace_id", traceID,
			"span_id", spanID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", tw.Status(),
			"duration", time.Since(tw.start),
		)
	})
}

// traceWriter injects the X-Process-Time header just before the first byte
// of the response is written, since headers cannot change afterwards.
type traceWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (tw *traceWriter) WriteHeader(status int) {
	if !tw.wroteHeader {
		seconds := time.Since(tw.start).Seconds()
		tw.Header().Set("X-Process-Time", strconv.FormatFloat(seconds, 'f', 6, 64))
		tw.status = status
		tw.wroteHeader = true
	}
	tw.ResponseWriter.WriteHeader(status)
}

func (tw *traceWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

// Status returns the status code written to the response, defaulting to 200.
func (tw *traceWriter) Status() int {
	if !tw.wroteHeader {
		return http.StatusOK
	}
	return tw.status
}

// Recoverer converts panics into the sanitized unexpected-error response so
// a single failing request never takes the process down or leaks a raw
// fault to the client.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("panic recovered",
					"trace_id", TraceIDFromContext(r.Context()),
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				WriteError(w, r, http.StatusInternalServerError, CodeUnexpected,
					"An unexpected server error occurred. Please try again later.",
					errorTypeUnexpected)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
