package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// outcome: created, invalid, not_found, storage_error, persistence_error
	SubmissionsTotal   *prometheus.CounterVec
	CompensationsTotal *prometheus.CounterVec
	AttachmentSize     prometheus.Histogram

	// role and status (sent|failed)
	EmailsTotal   *prometheus.CounterVec
	EmailAttempts *prometheus.HistogramVec

	RateLimitBlocks *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orientation_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		SubmissionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_applications_submitted_total",
			Help: "Application submissions by outcome",
		}, []string{"outcome"}),

		CompensationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_application_rollbacks_total",
			Help: "Compensating deletes after a failed attachment flow",
		}, []string{"target", "result"}),

		AttachmentSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "orientation_attachment_size_bytes",
			Help:    "Size of uploaded application letters",
			Buckets: prometheus.ExponentialBuckets(16<<10, 2, 9),
		}),

		EmailsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_emails_total",
			Help: "Notification e-mails by recipient role and final status",
		}, []string{"role", "status"}),

		EmailAttempts: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orientation_email_attempts",
			Help:    "Send attempts per notification e-mail",
			Buckets: []float64{1, 2, 3, 5},
		}, []string{"role"}),

		RateLimitBlocks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_rate_limit_blocks_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"route"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
