package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - счетчики Prometheus для HTTP и бизнес-операций.
// Методы безопасно вызывать на nil.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	InvitesTotal       *prometheus.CounterVec
	InvalidationsTotal *prometheus.CounterVec
	CheckoutsTotal     *prometheus.CounterVec
	WebhookEventsTotal *prometheus.CounterVec
	CreditsPurchased   prometheus.Counter
	CompensationsTotal *prometheus.CounterVec
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_credits_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "team_credits_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		InvitesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_credits_invites_total",
				Help: "Invite attempts by outcome",
			},
			[]string{"outcome"},
		),
		InvalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_credits_invalidations_total",
				Help: "Credit invalidation attempts by outcome",
			},
			[]string{"outcome"},
		),
		CheckoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_credits_checkouts_total",
				Help: "Checkout sessions by outcome",
			},
			[]string{"outcome"},
		),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_credits_webhook_events_total",
				Help: "Payment webhook deliveries by result",
			},
			[]string{"result"},
		),
		CreditsPurchased: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "team_credits_credits_purchased_total",
				Help: "Credits granted by confirmed payments",
			},
		),
		CompensationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_credits_compensations_total",
				Help: "Compensating ledger writes after a failed second store write",
			},
			[]string{"workflow", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.InvitesTotal,
		m.InvalidationsTotal,
		m.CheckoutsTotal,
		m.WebhookEventsTotal,
		m.CreditsPurchased,
		m.CompensationsTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordInvite(outcome string) {
	if m == nil {
		return
	}
	m.InvitesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordInvalidation(outcome string) {
	if m == nil {
		return
	}
	m.InvalidationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCheckout(outcome string) {
	if m == nil {
		return
	}
	m.CheckoutsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordWebhook(result string, credits int) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(result).Inc()
	if credits > 0 {
		m.CreditsPurchased.Add(float64(credits))
	}
}

func (m *Metrics) RecordCompensation(workflow, outcome string) {
	if m == nil {
		return
	}
	m.CompensationsTotal.WithLabelValues(workflow, outcome).Inc()
}
