package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPriceFeedMetricsRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPriceFeedMetrics(reg)

	m.IncSuccess("coingecko")
	m.IncSuccess("coingecko")
	m.IncFailure("coingecko")
	m.ObserveDuration("coingecko", 120*time.Millisecond)
	m.SetQuote("btc", 60000)

	if got := testutil.ToFloat64(m.success.WithLabelValues("coingecko")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("coingecko")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.quotes.WithLabelValues("btc")); got != 60000 {
		t.Fatalf("expected quote gauge 60000, got %v", got)
	}
}

func TestPriceFeedMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *PriceFeedMetrics
	m.IncSuccess("x")
	m.IncFailure("x")
	m.ObserveDuration("x", time.Second)
	m.SetQuote("x", 1)

	empty := NewPriceFeedMetrics(nil)
	empty.IncSuccess("x")
}
