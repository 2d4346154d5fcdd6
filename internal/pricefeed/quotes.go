package pricefeed

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Quotes is the shared spot-price cache. The poller replaces its contents on
// every successful fetch; readers see either the latest complete set or the
// previous one, never a partial update. Entries survive failed refreshes, so
// a transient feed outage degrades to stale-but-usable pricing.
type Quotes struct {
	mu          sync.RWMutex
	prices      map[string]decimal.Decimal
	refreshedAt time.Time
	interval    time.Duration
}

// NewQuotes builds an empty cache with the given refresh cadence.
func NewQuotes(interval time.Duration) *Quotes {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Quotes{
		prices:   map[string]decimal.Decimal{},
		interval: interval,
	}
}

// Replace swaps in a fresh quote set and stamps the refresh time.
// Non-positive quotes are dropped so Lookup never hands out a value that
// would produce a nonsensical amount downstream.
func (q *Quotes) Replace(prices map[string]float64, now time.Time) {
	fresh := make(map[string]decimal.Decimal, len(prices))
	for id, usd := range prices {
		if usd <= 0 {
			continue
		}
		fresh[id] = decimal.NewFromFloat(usd)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.prices = fresh
	q.refreshedAt = now
}

// Lookup returns the USD quote for a feed id. The second return is false when
// the feed has not delivered a usable price for the id yet.
func (q *Quotes) Lookup(priceID string) (decimal.Decimal, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	price, ok := q.prices[priceID]
	return price, ok
}

// RefreshedAt returns the time of the last successful refresh; zero when no
// fetch has succeeded yet.
func (q *Quotes) RefreshedAt() time.Time {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.refreshedAt
}

// Interval exposes the refresh cadence.
func (q *Quotes) Interval() time.Duration {
	return q.interval
}

// NextRefreshIn reports the countdown until the next scheduled refresh,
// clamped at zero once the interval has elapsed.
func (q *Quotes) NextRefreshIn(now time.Time) time.Duration {
	q.mu.RLock()
	refreshedAt := q.refreshedAt
	q.mu.RUnlock()

	if refreshedAt.IsZero() {
		return 0
	}
	remaining := q.interval - now.Sub(refreshedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
