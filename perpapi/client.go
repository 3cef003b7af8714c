// Copyright (c) 2025 BVK Chaitanya

package perpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"golang.org/x/time/rate"
)

var (
	// ErrNetwork is wrapped by all errors from the FetchPage method, including
	// the response decoding failures.
	ErrNetwork = errors.New("network error")

	// ErrBadResponse is wrapped by errors for responses that are not valid
	// json or that do not match the expected shape. It also wraps ErrNetwork.
	ErrBadResponse = fmt.Errorf("%w: bad response", ErrNetwork)
)

// Client fetches trade history pages from the trades api.
type Client struct {
	opts Options

	restURL *url.URL

	client *http.Client

	limiter *rate.Limiter
}

// New returns a new client instance.
func New(opts *Options) (*Client, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	restURL, err := url.Parse(opts.RestURL)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	c := &Client{
		opts:    *opts,
		restURL: restURL,
		client: &http.Client{
			Timeout: opts.HttpClientTimeout,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
	return c, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// FetchPage fetches up to limit trades for the wallet starting at the offset.
// Exactly one http request is made per call.
func (c *Client) FetchPage(ctx context.Context, wallet string, limit, offset int) (*TradesPage, error) {
	if wallet == "" {
		return nil, fmt.Errorf("wallet address cannot be empty: %w", os.ErrInvalid)
	}

	req := &batchRequest{
		Query: batchQuery{
			JSON: tradesQuery{
				Wallet: wallet,
				Limit:  limit,
				Offset: offset,
			},
		},
	}
	input, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	values := make(url.Values)
	values.Set("batch", "1")
	values.Set("input", string(input))

	addrURL := &url.URL{
		Scheme:   c.restURL.Scheme,
		Host:     c.restURL.Host,
		Path:     c.restURL.Path,
		RawQuery: values.Encode(),
	}
	resp := new(batchResponse)
	if err := getJSON(ctx, c, addrURL, resp); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Debug("could not fetch trades page", "wallet", wallet, "limit", limit, "offset", offset, "err", err)
		}
		return nil, err
	}

	page, err := resp.page()
	if err != nil {
		slog.Debug("unexpected trades page response", "wallet", wallet, "offset", offset, "err", err)
		return nil, err
	}
	slog.Debug("fetched trades page", "wallet", wallet, "limit", limit, "offset", offset, "trades", len(page.Trades), "total", page.Total)
	return page, nil
}

func getJSON[PT *T, T any](ctx context.Context, c *Client, addrURL *url.URL, result PT) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addrURL.String(), nil)
	if err != nil {
		slog.Debug("could not create http get request with context", "url", addrURL, "err", err)
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Debug("could not do http client request", "err", err)
		}
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Debug("http GET is unsuccessful", "status", resp.StatusCode, "url", addrURL.String())
		return fmt.Errorf("%w: http GET returned %d: %s", ErrNetwork, resp.StatusCode, data)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		slog.Debug("could not decode response to json", "err", err)
		return fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return nil
}
