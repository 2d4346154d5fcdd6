package pricefeed

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLookupMissingID(t *testing.T) {
	t.Parallel()

	quotes := NewQuotes(30 * time.Second)

	if _, ok := quotes.Lookup("bitcoin"); ok {
		t.Fatal("expected miss before any refresh")
	}
}

func TestReplaceDropsNonPositiveQuotes(t *testing.T) {
	t.Parallel()

	quotes := NewQuotes(30 * time.Second)
	quotes.Replace(map[string]float64{
		"bitcoin":  60000,
		"broken":   0,
		"negative": -5,
	}, time.Now())

	if price, ok := quotes.Lookup("bitcoin"); !ok || !price.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("expected bitcoin at 60000, got %v ok=%v", price, ok)
	}
	if _, ok := quotes.Lookup("broken"); ok {
		t.Fatal("zero quotes must not be served")
	}
	if _, ok := quotes.Lookup("negative"); ok {
		t.Fatal("negative quotes must not be served")
	}
}

func TestNextRefreshCountdown(t *testing.T) {
	t.Parallel()

	quotes := NewQuotes(30 * time.Second)
	now := time.Now()

	if got := quotes.NextRefreshIn(now); got != 0 {
		t.Fatalf("countdown before first fetch must be 0, got %v", got)
	}

	quotes.Replace(map[string]float64{"bitcoin": 60000}, now)

	if got := quotes.NextRefreshIn(now.Add(10 * time.Second)); got != 20*time.Second {
		t.Fatalf("expected 20s remaining, got %v", got)
	}
	if got := quotes.NextRefreshIn(now.Add(45 * time.Second)); got != 0 {
		t.Fatalf("expired countdown must clamp at 0, got %v", got)
	}
}
