package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CreditsIssuedTotal    prometheus.Counter
	IssuanceRejectedTotal *prometheus.CounterVec
	CustomersCreatedTotal prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CreditsIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_credits_issued_total",
				Help: "Total number of credits successfully issued.",
			},
		),
		IssuanceRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_issuance_rejected_total",
				Help: "Total number of credit issuance attempts rejected, by reason.",
			},
			[]string{"reason"},
		),
		CustomersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_customers_created_total",
				Help: "Total number of customers successfully created.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCreditIssued() {
	Business.CreditsIssuedTotal.Inc()
}

func RecordIssuanceRejected(reason string) {
	Business.IssuanceRejectedTotal.WithLabelValues(reason).Inc()
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}
