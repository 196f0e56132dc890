package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "atlas"

// SpanContext pairs a span with the context that carries it.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan starts a child of whatever span ctx carries.
//
//	sc := logger.StartSpan(ctx, "graph.refresh")
//	defer sc.End()
//	ctx = sc.Context()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

// StartSpanFromTraceID continues a trace that crossed the redis stream.
// The producer only ships the trace id, so the new span is parented on a
// synthetic remote span context and linked to it. An empty or malformed id
// starts a fresh trace.
func StartSpanFromTraceID(ctx context.Context, traceIDStr string, name string, opts ...trace.SpanStartOption) *SpanContext {
	if remote, ok := remoteSpanContext(traceIDStr); ok {
		opts = append(opts, trace.WithLinks(trace.Link{SpanContext: remote}))
		ctx = trace.ContextWithRemoteSpanContext(ctx, remote)
	}
	return StartSpan(ctx, name, opts...)
}

func remoteSpanContext(traceIDStr string) (trace.SpanContext, bool) {
	if traceIDStr == "" {
		return trace.SpanContext{}, false
	}
	traceID, err := trace.TraceIDFromHex(traceIDStr)
	if err != nil {
		return trace.SpanContext{}, false
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}), true
}

// TraceIDFromContext returns the hex trace id of the active span, or "".
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

// End is safe to call more than once.
func (sc *SpanContext) End() {
	if sc.span != nil {
		sc.span.End()
	}
}

// RecordError records err and marks the span failed.
func (sc *SpanContext) RecordError(err error) {
	if sc.span == nil || err == nil {
		return
	}
	sc.span.RecordError(err)
	sc.span.SetStatus(codes.Error, err.Error())
}

func (sc *SpanContext) Span() trace.Span {
	return sc.span
}
