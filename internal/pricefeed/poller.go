package pricefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/argentum-atelier/storefront-backend/pkg/metrics"
)

const feedLabel = "spot-price"

type feedClient interface {
	SimplePrice(ctx context.Context, priceIDs []string) (map[string]float64, error)
}

// PriceIDSource supplies the feed identifiers to poll, typically the enabled
// asset list's distinct price ids.
type PriceIDSource func(ctx context.Context) ([]string, error)

// PollerParams configure the poller.
type PollerParams struct {
	Logger   *logger.Logger
	Client   feedClient
	Quotes   *Quotes
	PriceIDs PriceIDSource
	Metrics  *metrics.PriceFeedMetrics
}

// Poller refreshes the quote cache on a fixed cadence. A failed cycle leaves
// the previous quotes in place so an in-progress payment flow is never
// blocked by a transient feed outage.
type Poller struct {
	logg     *logger.Logger
	client   feedClient
	quotes   *Quotes
	priceIDs PriceIDSource
	metrics  *metrics.PriceFeedMetrics
}

// NewPoller builds a poller.
func NewPoller(params PollerParams) (*Poller, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Client == nil {
		return nil, fmt.Errorf("feed client required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quote cache required")
	}
	if params.PriceIDs == nil {
		return nil, fmt.Errorf("price id source required")
	}
	return &Poller{
		logg:     params.Logger,
		client:   params.Client,
		quotes:   params.Quotes,
		priceIDs: params.PriceIDs,
		metrics:  params.Metrics,
	}, nil
}

// Run fetches immediately, then on every tick until the context is canceled.
// Cancellation is the teardown hook: once ctx is done no further cache
// mutation happens.
func (p *Poller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p.runCycle(ctx)

	ticker := time.NewTicker(p.quotes.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logg.Info(ctx, "price poller context canceled")
			return ctx.Err()
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// RunOnce performs a single fetch cycle. Used by the standalone worker and by
// tests.
func (p *Poller) RunOnce(ctx context.Context) {
	p.runCycle(ctx)
}

func (p *Poller) runCycle(ctx context.Context) {
	ids, err := p.priceIDs(ctx)
	if err != nil {
		p.recordFailure(ctx, err, "resolve price ids")
		return
	}
	if len(ids) == 0 {
		p.logg.Info(ctx, "no enabled assets; skipping price fetch")
		return
	}

	start := time.Now()
	prices, err := p.client.SimplePrice(ctx, ids)
	p.metrics.ObserveDuration(feedLabel, time.Since(start))
	if err != nil {
		p.recordFailure(ctx, err, "fetch spot prices")
		return
	}

	if ctx.Err() != nil {
		// Torn down while the fetch was in flight; drop the result.
		return
	}

	p.quotes.Replace(prices, time.Now())
	for id, usd := range prices {
		p.metrics.SetQuote(id, usd)
	}
	p.metrics.IncSuccess(feedLabel)

	cycleCtx := p.logg.WithFields(ctx, map[string]any{
		"event":  "pricefeed.refresh",
		"quotes": len(prices),
	})
	p.logg.Info(cycleCtx, "spot prices refreshed")
}

func (p *Poller) recordFailure(ctx context.Context, err error, msg string) {
	p.metrics.IncFailure(feedLabel)
	p.logg.Error(p.logg.WithField(ctx, "event", "pricefeed.failure"), msg, err)
}
