package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	tracer   = otel.Tracer("github.com/riskibarqy/futgol/internal/interfaces/httpapi")
	noopSpan = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span for handler entry points only. Middleware and
// response helpers keep whatever span is already on ctx, and requests that
// RequestTracing filtered out (health, metrics) get no spans at all.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noopSpan
	}
	return tracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix) && len(name) > len(handlerSpanPrefix)
}

// annotateError tags the active span with the mapped error. Only server
// errors mark the span as failed.
func annotateError(ctx context.Context, mapped mappedError, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("futgol.error.reason", mapped.Reason),
		attribute.Int("http.response.status_code", mapped.HTTPStatus),
	)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Status)
	}
}
