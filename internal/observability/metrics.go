package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the publication service.
// Metrics are organized by subsystem: imports, staging, and review. All
// counters and histograms are registered via promauto for automatic
// registration with the default Prometheus registry.
type Metrics struct {
	// ImportsStarted counts import operations initiated, labeled by source format.
	ImportsStarted *prometheus.CounterVec

	// ImportsCompleted counts import operations that finished successfully, labeled by source format.
	ImportsCompleted *prometheus.CounterVec

	// ImportsFailed counts import operations that ended in failure, labeled by source format.
	ImportsFailed *prometheus.CounterVec

	// ImportDuration observes end-to-end import duration in seconds, labeled by source format.
	ImportDuration *prometheus.HistogramVec

	// EntriesParsed counts raw entries successfully parsed, labeled by source format.
	EntriesParsed *prometheus.CounterVec

	// ParseErrors counts entries skipped due to parse failures, labeled by source format.
	ParseErrors *prometheus.CounterVec

	// PublicationsStaged counts publications inserted with pending_review status, labeled by source format.
	PublicationsStaged *prometheus.CounterVec

	// PublicationsDuplicate counts incoming entries rejected as duplicates, labeled by source format.
	PublicationsDuplicate *prometheus.CounterVec

	// StagingFailures counts per-row insert failures absorbed during staging, labeled by source format.
	StagingFailures *prometheus.CounterVec

	// EntriesPerImport observes the distribution of parsed entries per import, labeled by source format.
	EntriesPerImport *prometheus.HistogramVec

	// ApprovalsStarted counts review approvals initiated.
	ApprovalsStarted prometheus.Counter

	// ApprovalsCompleted counts approvals that committed successfully.
	ApprovalsCompleted prometheus.Counter

	// ApprovalsFailed counts approvals that aborted.
	ApprovalsFailed prometheus.Counter

	// ApprovalDuration observes approval duration in seconds.
	ApprovalDuration prometheus.Histogram

	// AuthorsResolved counts author names matched to a member during approval.
	AuthorsResolved prometheus.Counter

	// AuthorsUnresolved counts author names that matched no member.
	AuthorsUnresolved prometheus.Counter

	// PendingDeleted counts pending publications removed by clear operations.
	PendingDeleted prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ImportsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_started_total",
			Help:      "Total number of import operations started",
		}, []string{"source"}),
		ImportsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_completed_total",
			Help:      "Total number of import operations completed successfully",
		}, []string{"source"}),
		ImportsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_failed_total",
			Help:      "Total number of import operations that failed",
		}, []string{"source"}),
		ImportDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of import operations in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		EntriesParsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_parsed_total",
			Help:      "Total number of raw entries parsed from import files",
		}, []string{"source"}),
		ParseErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Total number of entries skipped due to parse failures",
		}, []string{"source"}),
		PublicationsStaged: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publications_staged_total",
			Help:      "Total number of publications staged for review",
		}, []string{"source"}),
		PublicationsDuplicate: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publications_duplicate_total",
			Help:      "Total number of entries rejected as duplicates",
		}, []string{"source"}),
		StagingFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staging_failures_total",
			Help:      "Total number of per-row insert failures during staging",
		}, []string{"source"}),
		EntriesPerImport: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entries_per_import",
			Help:      "Distribution of parsed entries per import operation",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"source"}),
		ApprovalsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_started_total",
			Help:      "Total number of review approvals started",
		}),
		ApprovalsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_completed_total",
			Help:      "Total number of review approvals completed successfully",
		}),
		ApprovalsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_failed_total",
			Help:      "Total number of review approvals that aborted",
		}),
		ApprovalDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "approval_duration_seconds",
			Help:      "Duration of review approvals in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		AuthorsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authors_resolved_total",
			Help:      "Total number of author names resolved to members",
		}),
		AuthorsUnresolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authors_unresolved_total",
			Help:      "Total number of author names that matched no member",
		}),
		PendingDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pending_deleted_total",
			Help:      "Total number of pending publications removed by clear operations",
		}),
	}
}

// RecordImportStarted records that an import operation has started.
func (m *Metrics) RecordImportStarted(source string) {
	m.ImportsStarted.WithLabelValues(source).Inc()
}

// RecordImportCompleted records a finished import operation and its outcome
// counts.
func (m *Metrics) RecordImportCompleted(source string, parsed, staged, duplicates int, durationSeconds float64) {
	m.ImportsCompleted.WithLabelValues(source).Inc()
	m.ImportDuration.WithLabelValues(source).Observe(durationSeconds)
	m.EntriesParsed.WithLabelValues(source).Add(float64(parsed))
	m.EntriesPerImport.WithLabelValues(source).Observe(float64(parsed))
	m.PublicationsStaged.WithLabelValues(source).Add(float64(staged))
	m.PublicationsDuplicate.WithLabelValues(source).Add(float64(duplicates))
}

// RecordImportFailed records that an import operation has failed.
func (m *Metrics) RecordImportFailed(source string, durationSeconds float64) {
	m.ImportsFailed.WithLabelValues(source).Inc()
	m.ImportDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordParseErrors records entries skipped due to parse failures.
func (m *Metrics) RecordParseErrors(source string, count int) {
	if count > 0 {
		m.ParseErrors.WithLabelValues(source).Add(float64(count))
	}
}

// RecordStagingFailure records one absorbed per-row insert failure.
func (m *Metrics) RecordStagingFailure(source string) {
	m.StagingFailures.WithLabelValues(source).Inc()
}

// RecordApprovalStarted records that an approval has started.
func (m *Metrics) RecordApprovalStarted() {
	m.ApprovalsStarted.Inc()
}

// RecordApprovalCompleted records a committed approval and its author
// resolution outcome.
func (m *Metrics) RecordApprovalCompleted(resolved, unresolved int, durationSeconds float64) {
	m.ApprovalsCompleted.Inc()
	m.ApprovalDuration.Observe(durationSeconds)
	m.AuthorsResolved.Add(float64(resolved))
	m.AuthorsUnresolved.Add(float64(unresolved))
}

// RecordApprovalFailed records an aborted approval.
func (m *Metrics) RecordApprovalFailed(durationSeconds float64) {
	m.ApprovalsFailed.Inc()
	m.ApprovalDuration.Observe(durationSeconds)
}

// RecordPendingDeleted records pending publications removed by a clear
// operation.
func (m *Metrics) RecordPendingDeleted(count int64) {
	m.PendingDeleted.Add(float64(count))
}
