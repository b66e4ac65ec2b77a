package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// StaticFetcher uses Colly for plain HTML fetching.
type StaticFetcher struct {
	config Config
	retry  RetryPolicy
}

// RetryPolicy bounds how often a single fetch is re-attempted.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy matches the crawler's politeness budget.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, BaseDelay: DefaultRetryDelay}
}

// NewStatic creates a static HTML fetcher.
func NewStatic(cfg Config, retry RetryPolicy) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = BrowserUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTextTimeout
	}
	if retry.Attempts == 0 {
		retry = DefaultRetryPolicy()
	}
	return &StaticFetcher{config: cfg, retry: retry}
}

// Fetch retrieves the page HTML, retrying transient failures.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	var html string

	err := WithRetry(ctx, f.retry.Attempts, f.retry.BaseDelay, func() error {
		body, err := f.fetchOnce(targetURL)
		if err != nil {
			return err
		}
		html = body
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", targetURL, err)
	}

	return html, nil
}

func (f *StaticFetcher) fetchOnce(targetURL string) (string, error) {
	// A fresh collector per request keeps cookie/redirect state from
	// leaking between listings.
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
	)
	c.SetRequestTimeout(f.config.Timeout)

	var (
		body     string
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(targetURL); err != nil {
		return "", err
	}
	if fetchErr != nil {
		return "", fetchErr
	}

	return body, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}
