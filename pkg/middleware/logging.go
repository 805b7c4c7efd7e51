package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantops/plantops/pkg/constants"
	"github.com/plantops/plantops/pkg/httpapi"
)

type LoggerOptions struct {
	RequestIDHeader string
	RealIPHeader    string

	// LogRequestBody logs JSON bodies of mutating requests, with
	// RedactFields replaced and the dump cut at MaxBodyLength bytes.
	LogRequestBody bool
	MaxBodyLength  int
	RedactFields   []string

	Repanic bool
}

func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		RequestIDHeader: "X-Request-ID",
		RealIPHeader:    "X-Real-IP",
		LogRequestBody:  true,
		MaxBodyLength:   512,
		RedactFields:    []string{"password", "token"},
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}

func headerOr(r *http.Request, header string, fallback func() string) string {
	if header != "" {
		if v := r.Header.Get(header); v != "" {
			return v
		}
	}
	return fallback()
}

var tracer = otel.Tracer("plantops-middleware")

func TracedMiddleware(name string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(
				r.Context(),
				"middleware."+name,
				trace.WithAttributes(
					attribute.String("middleware.name", name),
					attribute.String("http.method", r.Method),
					attribute.String("http.route", r.URL.Path),
				),
			)
			defer span.End()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// redactJSON masks the named keys at any depth of a decoded JSON value.
func redactJSON(v any, fields map[string]struct{}) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if _, ok := fields[strings.ToLower(k)]; ok {
				t[k] = "[redacted]"
				continue
			}
			t[k] = redactJSON(child, fields)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = redactJSON(child, fields)
		}
		return t
	default:
		return v
	}
}

func requestBodyField(r *http.Request, opts LoggerOptions, redact map[string]struct{}) (string, bool) {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return "", false
	}
	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return "", false
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "<invalid json>", true
	}
	out, err := json.Marshal(redactJSON(parsed, redact))
	if err != nil {
		return "", false
	}
	if opts.MaxBodyLength > 0 && len(out) > opts.MaxBodyLength {
		out = append(out[:opts.MaxBodyLength], "..."...)
	}
	return string(out), true
}

// WithLogger assigns a request id, opens the request span, stores a request
// scoped logger in the context and turns handler panics into a JSON 500.
func WithLogger(logger *logrus.Logger, opts LoggerOptions) mux.MiddlewareFunc {
	redact := make(map[string]struct{}, len(opts.RedactFields))
	for _, f := range opts.RedactFields {
		redact[strings.ToLower(f)] = struct{}{}
	}
	requestIDHeader := opts.RequestIDHeader
	if requestIDHeader == "" {
		requestIDHeader = "X-Request-ID"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := headerOr(r, requestIDHeader, func() string { return uuid.New().String() })
			ip := headerOr(r, opts.RealIPHeader, func() string { return r.RemoteAddr })
			r.Header.Set(requestIDHeader, requestID)

			entry := logger.WithFields(logrus.Fields{
				"request-id": requestID,
				"path":       r.URL.Path,
				"method":     r.Method,
			})

			startFields := logrus.Fields{
				"ip":         ip,
				"user-agent": r.UserAgent(),
			}
			if r.URL.RawQuery != "" {
				startFields["query"] = r.URL.RawQuery
			}
			mutating := r.Method == http.MethodPost || r.Method == http.MethodPut ||
				r.Method == http.MethodPatch || r.Method == http.MethodDelete
			if opts.LogRequestBody && mutating {
				if body, ok := requestBodyField(r, opts, redact); ok {
					startFields["request-body"] = body
				}
			}
			entry.WithFields(startFields).Info("request started")

			propagator := propagation.TraceContext{}
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(
				ctx,
				"http.request",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", r.URL.Path),
					attribute.String("http.request_id", requestID),
					attribute.String("net.peer.ip", ip),
				),
			)
			defer span.End()

			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set("X-Trace-Id", sc.TraceID().String())
				entry = entry.WithField("trace-id", sc.TraceID().String())
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx = context.WithValue(ctx, constants.LoggerKey, entry)
			ctx = context.WithValue(ctx, constants.RequestStart, start)

			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				span.SetStatus(codes.Error, "panic")
				entry.WithFields(logrus.Fields{
					"panic":    recovered,
					"stack":    string(debug.Stack()),
					"duration": time.Since(start),
				}).Error("panic recovered in request handler")

				if rec.status == 0 {
					_ = httpapi.WriteError(rec, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", map[string]string{
						"request_id": requestID,
						"path":       r.URL.Path,
					})
				}
				if opts.Repanic {
					panic(recovered)
				}
			}()

			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.Status()
			duration := time.Since(start)
			span.SetAttributes(
				attribute.Int("http.status_code", status),
				attribute.Int64("http.request_duration_ms", duration.Milliseconds()),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			completed := entry.WithFields(logrus.Fields{
				"duration":      duration,
				"status-code":   status,
				"response-size": rec.bytes,
			})
			if status >= http.StatusInternalServerError {
				completed.Warn("request completed")
				return
			}
			completed.Info("request completed")
		})
	}
}
