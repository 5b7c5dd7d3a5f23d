// Package telemetry sets up tracing for the graceful restart subsystem.
// Only the stdout exporter is wired (SPEC_FULL.md C9.1): packet
// transport and any network-facing collector are out of scope
// (spec.md §1), so there is nothing for a network exporter to reach.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"OSPFGraceRestart/internal/config"
	"OSPFGraceRestart/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// InitTracer wires the process-wide tracer provider for router, returning
// a shutdown function to flush and close the exporter. If tracing is
// disabled, the returned shutdown is a no-op.
func InitTracer(cfg config.TelemetryConfig, serviceName string, router domain.RouterID) func(context.Context) error {
	if !cfg.Tracing.Enabled {
		log.Println("tracing disabled")
		return func(context.Context) error { return nil }
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("ospf.router_id", router.String()),
		),
	)
	if err != nil {
		log.Fatalf("failed to create tracer resource: %v", err)
	}

	var tp *sdktrace.TracerProvider
	switch cfg.Tracing.Exporter {
	case "none":
		log.Println("tracing enabled but exporter is \"none\"; spans are created and dropped")
		tp = sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	case "", "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Fatalf("failed to initialize stdout exporter: %v", err)
		}
		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
	default:
		panic(fmt.Sprintf("unsupported tracing exporter: %s", cfg.Tracing.Exporter))
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return tp.Shutdown
}
