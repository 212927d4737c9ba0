package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the assistant gateway.
type Metrics struct {
	RequestTotal         *prometheus.CounterVec
	RequestDurationMs    *prometheus.HistogramVec
	FilterBlockTotal     *prometheus.CounterVec
	RateLimitHitTotal    *prometheus.CounterVec
	QuotaCheckErrorTotal prometheus.Counter
	UpstreamErrorTotal   *prometheus.CounterVec
	UncertainReplyTotal  prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yaar_request_total",
			Help: "Total number of assistant requests processed by the gateway.",
		}, []string{"mode", "model", "status"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yaar_request_duration_ms",
			Help:    "Total request duration in milliseconds (including upstream latency).",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"mode"}),

		FilterBlockTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yaar_filter_block_total",
			Help: "Total requests blocked by the content safety filter.",
		}, []string{"category"}),

		RateLimitHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yaar_rate_limit_hit_total",
			Help: "Total requests rejected by a rate limit dimension.",
		}, []string{"dimension"}),

		QuotaCheckErrorTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yaar_quota_check_error_total",
			Help: "Total quota store infrastructure failures.",
		}),

		UpstreamErrorTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yaar_upstream_error_total",
			Help: "Total upstream chat-completion failures by kind.",
		}, []string{"kind"}),

		UncertainReplyTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yaar_uncertain_reply_total",
			Help: "Total completed responses flagged with an uncertainty phrase.",
		}),
	}
}

// RecordRequest records a completed (or rejected) request.
func (m *Metrics) RecordRequest(mode, model, status string, durationMs float64) {
	m.RequestTotal.WithLabelValues(mode, model, status).Inc()
	m.RequestDurationMs.WithLabelValues(mode).Observe(durationMs)
}

func (m *Metrics) RecordFilterBlock(category string) {
	m.FilterBlockTotal.WithLabelValues(category).Inc()
}

func (m *Metrics) RecordRateLimitHit(dimension string) {
	m.RateLimitHitTotal.WithLabelValues(dimension).Inc()
}

func (m *Metrics) RecordQuotaCheckError() {
	m.QuotaCheckErrorTotal.Inc()
}

func (m *Metrics) RecordUpstreamError(kind string) {
	m.UpstreamErrorTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordUncertainReply() {
	m.UncertainReplyTotal.Inc()
}
