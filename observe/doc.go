// Package observe provides telemetry for the readiness service: structured
// JSON logging, OpenTelemetry tracing, and metrics for readiness requests
// and background computation tasks.
//
// The Observer bundles the three concerns behind one handle:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//		ServiceName: "usarops",
//		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.1},
//		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//
// Exporters are selected by name (otlp, prometheus, stdout, none) via the
// exporters subpackage. NewNoop returns an Observer that discards
// everything, for tests and for callers that opt out of telemetry.
package observe
