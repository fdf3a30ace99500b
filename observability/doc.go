// Package observability wires OpenTelemetry tracing and metrics for formkit.
//
// When tracing is enabled Setup installs OTLP/HTTP exporters as the global
// tracer and meter providers. Instruments and tracers obtained before Setup
// runs are delegated to the installed providers by the otel global package.
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanFileSave)
//	defer span.End()
package observability
