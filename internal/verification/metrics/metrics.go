// Package metrics defines Prometheus collectors for the verification module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for verification operations.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec
	VerifyDurationMs   prometheus.Histogram
	CredentialsIssued  *prometheus.CounterVec
	RegistryRecords    prometheus.Gauge
	AuditWriteFailures prometheus.Counter
}

// New registers and returns verification metrics collectors.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "batchtrace_verifications_total",
			Help: "Total verification attempts by outcome",
		}, []string{"outcome"}),
		VerifyDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "batchtrace_verify_duration_ms",
			Help:    "End-to-end verification latency in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		CredentialsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "batchtrace_credentials_issued_total",
			Help: "Report credentials issued by kind (signed, external, folder)",
		}, []string{"kind"}),
		RegistryRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "batchtrace_registry_records",
			Help: "Number of batch records in the current registry snapshot",
		}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "batchtrace_audit_write_failures_total",
			Help: "Audit entries that could not be persisted",
		}),
	}
}
