// Package observability provides logging and metrics support for the
// publication service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for imports, staging, and review approvals
//   - Context helpers for propagating request correlation data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("source", "bibtex_import").Msg("import started")
//
// Add import context to a logger:
//
//	logger = observability.WithImportContext(logger, "yaml_import", fileName)
//
// # Metrics
//
// Initialize metrics once at startup:
//
//	metrics := observability.NewMetrics("publication_service")
//
// Record metrics through the typed helpers:
//
//	metrics.RecordImportStarted("bibtex_import")
//	metrics.RecordApprovalCompleted(resolved, unresolved, duration.Seconds())
package observability
