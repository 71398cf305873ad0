package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the application metrics exposed on /metrics.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	transactionsCreated *prometheus.CounterVec
	transactionDecision *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec

	exports         *prometheus.CounterVec
	settingsReloads prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	return &Collector{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transactionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_created_total",
				Help:      "Transactions submitted by treasurers, per type",
			},
			[]string{"type"},
		),
		transactionDecision: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_decisions_total",
				Help:      "Approval decisions applied, per resulting status",
			},
			[]string{"statut"},
		),
		rejectedTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_invalid_transitions_total",
				Help:      "Decisions refused because the transaction was no longer pending",
			},
			[]string{"action"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_exports_total",
				Help:      "Report exports generated, per format",
			},
			[]string{"format"},
		),
		settingsReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settings_reloads_total",
				Help:      "Times the process-wide settings were reloaded",
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (c *Collector) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.httpRequests,
		c.httpDuration,
		c.transactionsCreated,
		c.transactionDecision,
		c.rejectedTransitions,
		c.exports,
		c.settingsReloads,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) TransactionCreated(txType string) {
	c.transactionsCreated.WithLabelValues(txType).Inc()
}

func (c *Collector) TransactionDecided(statut string) {
	c.transactionDecision.WithLabelValues(statut).Inc()
}

func (c *Collector) TransitionRejected(action string) {
	c.rejectedTransitions.WithLabelValues(action).Inc()
}

func (c *Collector) ReportExported(format string) {
	c.exports.WithLabelValues(format).Inc()
}

func (c *Collector) SettingsReloaded() {
	c.settingsReloads.Inc()
}
