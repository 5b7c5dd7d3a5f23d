// Package grtrace emits tracing spans around graceful restart lifecycle
// events: helper entry and exit, the restarting instance's exit task, and
// adjacency consistency checks. It is the GR-specific analogue of the
// teacher's lookup-path span wrapping, generalized from gRPC method
// interception to direct span scoping around state-machine entry points.
package grtrace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ospfgracerestart/grtrace"

var tracer = otel.Tracer(tracerName)

// Span starts a span named name with the given attributes and returns a
// func to end it. Callers that don't need to thread a context (the
// single-threaded core never does; spec.md §5) can pass
// context.Background().
func Span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func()) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func() { span.End() }
}

// HelperEntry traces a helper-mode entry attempt for one neighbor.
func HelperEntry(neighbor string, accepted bool) func() {
	_, end := Span(context.Background(), "helper.entry",
		attribute.String("neighbor", neighbor),
		attribute.Bool("accepted", accepted),
	)
	return end
}

// HelperExit traces a helper-mode exit for one neighbor.
func HelperExit(neighbor, reason string) func() {
	_, end := Span(context.Background(), "helper.exit",
		attribute.String("neighbor", neighbor),
		attribute.String("reason", reason),
	)
	return end
}

// RestartingExitTask traces the instance exit task.
func RestartingExitTask(router, reason string) func() {
	_, end := Span(context.Background(), "restarting.exit_task",
		attribute.String("router_id", router),
		attribute.String("reason", reason),
	)
	return end
}

// ConsistencyCheck traces one adjacency consistency check outcome.
func ConsistencyCheck(neighbor, result string) func() {
	_, end := Span(context.Background(), "consistency.check",
		attribute.String("neighbor", neighbor),
		attribute.String("result", result),
	)
	return end
}
