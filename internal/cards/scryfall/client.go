// Package scryfall implements the catalog client: a rate-limited HTTP
// client for a Scryfall-compatible card metadata service.
package scryfall

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

	"golang.org/x/time/rate"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a catalog API client with rate limiting and retry logic.
// It implements cards.Catalog.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the catalog service base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new catalog API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "deck-advisor/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupByName resolves a card by exact name. A card that does not exist
// yields (nil, nil); errors indicate transport failure only.
func (c *Client) LookupByName(ctx context.Context, name string) (*cards.Card, error) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup card %q: %w", name, err)
	}

	return card.ToCard(), nil
}

// Search returns up to limit cards matching the query, following result
// pages as needed. An empty result space is not an error.
func (c *Client) Search(ctx context.Context, q cards.Query, limit int) ([]*cards.Card, error) {
	if limit <= 0 {
		return nil, nil
	}

	u := fmt.Sprintf("%s/cards/search?q=%s", c.baseURL, url.QueryEscape(BuildQuery(q)))

	var result []*cards.Card
	for u != "" && len(result) < limit {
		var page SearchResult
		if err := c.doRequest(ctx, u, &page); err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				// The search endpoint 404s on zero matches.
				return result, nil
			}
			return nil, fmt.Errorf("search cards: %w", err)
		}

		for _, sc := range page.Data {
			result = append(result, sc.ToCard())
			if len(result) >= limit {
				break
			}
		}

		u = ""
		if page.HasMore && len(result) < limit {
			u = page.NextPage
		}
	}

	return result, nil
}

// BuildQuery renders a cards.Query in the catalog's search syntax.
func BuildQuery(q cards.Query) string {
	var parts []string

	if len(q.ColorIdentity) > 0 {
		parts = append(parts, "id<="+strings.ToLower(strings.Join(q.ColorIdentity, "")))
	}
	if q.Format != "" {
		parts = append(parts, "f:"+strings.ToLower(q.Format))
	}
	switch {
	case q.Exact != nil:
		parts = append(parts, fmt.Sprintf("mv=%d", *q.Exact))
	default:
		if q.Min != nil {
			parts = append(parts, fmt.Sprintf("mv>=%d", *q.Min))
		}
		if q.Max != nil {
			parts = append(parts, fmt.Sprintf("mv<=%d", *q.Max))
		}
	}
	if len(q.TextAny) > 0 {
		terms := make([]string, 0, len(q.TextAny))
		for _, t := range q.TextAny {
			if strings.ContainsAny(t, " \t") {
				terms = append(terms, fmt.Sprintf("o:%q", t))
			} else {
				terms = append(terms, "o:"+t)
			}
		}
		if len(terms) == 1 {
			parts = append(parts, terms[0])
		} else {
			parts = append(parts, "("+strings.Join(terms, " or ")+")")
		}
	}
	for _, r := range q.ExcludeRarities {
		parts = append(parts, "-r:"+strings.ToLower(r))
	}
	if q.ExcludeBasicLands {
		parts = append(parts, "-t:basic")
	}

	return strings.Join(parts, " ")
}

// doRequest performs an HTTP GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")

			if attempt < maxRetries {
				retryAfter := resp.Header.Get("Retry-After")
				if duration, err := time.ParseDuration(retryAfter + "s"); retryAfter != "" && err == nil {
					time.Sleep(duration)
				} else {
					time.Sleep(backoff)
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			return &NotFoundError{URL: url}

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return &apiErr
			}
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
