// Package instrumentation provides OpenTelemetry instrumentation for
// transferowner runs.
//
// Instrumentation is off by default; a single operator run rarely needs it.
// When enabled it offers:
//   - OpenTelemetry metrics for OAuth authorization and Google API calls
//   - Tracing spans around the Drive permission request
//   - A node_exporter textfile dump of the run's metrics (prometheus exporter)
//   - Audit records of every ownership transfer attempt
//
// # Metrics
//
//   - google_api_operations_total: Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Google API operation durations
//   - oauth_auth_total: how the authorized client was obtained (cached, success, failure)
//   - oauth_token_refresh_total: token refreshes by result
//   - ownership_transfers_total: transfer requests by status and consent_required
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - PROMETHEUS_TEXTFILE: target file for the prometheus exporter
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII: audit record settings
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultCached)
package instrumentation
