package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PriceFeedMetrics records spot-price polling outcomes.
type PriceFeedMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	quotes   *prometheus.GaugeVec
}

// NewPriceFeedMetrics registers the poller metrics on the provided registerer.
func NewPriceFeedMetrics(reg prometheus.Registerer) *PriceFeedMetrics {
	if reg == nil {
		return &PriceFeedMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricefeed_fetch_duration_seconds",
		Help:    "Duration of spot-price fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricefeed_fetch_success",
		Help: "Successful spot-price fetches.",
	}, []string{"feed"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricefeed_fetch_failure",
		Help: "Failed spot-price fetches.",
	}, []string{"feed"})
	quotes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pricefeed_quote_usd",
		Help: "Last observed USD spot price per asset.",
	}, []string{"price_id"})
	reg.MustRegister(duration, success, failure, quotes)
	return &PriceFeedMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		quotes:   quotes,
	}
}

// ObserveDuration records the duration of a fetch against the named feed.
func (p *PriceFeedMetrics) ObserveDuration(feed string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(feed)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named feed.
func (p *PriceFeedMetrics) IncSuccess(feed string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(feed)).Inc()
}

// IncFailure increments the failure counter for the named feed.
func (p *PriceFeedMetrics) IncFailure(feed string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(feed)).Inc()
}

// SetQuote records the latest USD quote for an asset.
func (p *PriceFeedMetrics) SetQuote(priceID string, usd float64) {
	if p == nil || p.quotes == nil {
		return
	}
	p.quotes.WithLabelValues(normalizeLabel(priceID)).Set(usd)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
