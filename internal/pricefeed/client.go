package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL            = "https://api.coingecko.com/api/v3"
	responseBodyReadLimit     = 1 << 20
	defaultRequestTimeout     = 10 * time.Second
	simplePriceEndpoint       = "/simple/price"
	simplePriceTargetCurrency = "usd"
)

var errNoPriceIDs = errors.New("at least one price id is required")

// Client wraps the external spot-price service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured feed base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a spot-price client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// SimplePrice fetches USD spot prices for the given feed identifiers. The
// response maps each id to its USD quote; ids the feed does not know are
// simply absent from the result.
func (c *Client) SimplePrice(ctx context.Context, priceIDs []string) (map[string]float64, error) {
	if len(priceIDs) == 0 {
		return nil, errNoPriceIDs
	}

	endpoint, err := url.Parse(c.baseURL + simplePriceEndpoint)
	if err != nil {
		return nil, fmt.Errorf("building feed url: %w", err)
	}
	query := endpoint.Query()
	query.Set("ids", strings.Join(priceIDs, ","))
	query.Set("vs_currencies", simplePriceTargetCurrency)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching spot prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, fmt.Errorf("reading feed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding feed response: %w", err)
	}

	prices := make(map[string]float64, len(payload))
	for id, entry := range payload {
		prices[id] = entry.USD
	}
	return prices, nil
}
