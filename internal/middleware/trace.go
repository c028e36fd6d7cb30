package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fluidcalc/http"

// Trace starts one server span per request, named after the matched route.
func Trace(tp trace.TracerProvider) mux.MiddlewareFunc {
	tracer := tp.Tracer(tracerName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			ctx, span := tracer.Start(r.Context(), fmt.Sprintf("%s %s", r.Method, route),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.HTTPTargetKey.String(r.URL.RequestURI()),
				),
			)
			defer span.End()

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))
			span.SetAttributes(semconv.HTTPStatusCodeKey.Int(rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}
		})
	}
}
