// Package pricing fetches item prices from the remote exchange API and loads the item catalog.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lootlens/lootlens/internal/contract"
)

// Client talks to the remote price endpoints.
type Client struct {
	client      *resty.Client
	pricesURL   string
	exchangeURL string
}

var _ contract.PriceClient = &Client{} // Compile-time check

// NewClient creates a price client. Empty URLs fall back to the public endpoints.
func NewClient(pricesURL, exchangeURL string) *Client {
	if pricesURL == "" {
		pricesURL = contract.DefaultPricesURL
	}
	if exchangeURL == "" {
		exchangeURL = contract.DefaultExchangeURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "lootlens")

	return &Client{
		client:      client,
		pricesURL:   pricesURL,
		exchangeURL: exchangeURL,
	}
}

// exchangeStatus is the body of the exchange endpoint.
type exchangeStatus struct {
	RS string `json:"rs"`
}

// LatestUpdate implements the PriceClient interface.
func (c *Client) LatestUpdate(ctx context.Context) (time.Time, error) {
	body, err := c.get(ctx, c.exchangeURL)
	if err != nil {
		return time.Time{}, err
	}

	var status exchangeStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode exchange status: %w", err)
	}
	if status.RS == "" {
		return time.Time{}, fmt.Errorf("exchange status has no rs timestamp")
	}

	updated, err := time.Parse(time.RFC3339, status.RS)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid rs timestamp %q: %w", status.RS, err)
	}
	return updated, nil
}

// AllPrices implements the PriceClient interface.
// Metadata keys such as %LAST_UPDATE% and non-numeric values are skipped.
func (c *Client) AllPrices(ctx context.Context) (map[string]int64, error) {
	body, err := c.get(ctx, c.pricesURL)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode prices: %w", err)
	}

	prices := make(map[string]int64, len(raw))
	for name, value := range raw {
		if strings.HasPrefix(name, "%") {
			continue
		}
		var price float64
		if err := json.Unmarshal(value, &price); err != nil {
			continue
		}
		prices[name] = int64(math.Floor(price))
	}
	return prices, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("request to %s failed: %s", url, resp.Status())
	}
	return resp.Body(), nil
}
