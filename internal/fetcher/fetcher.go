// Package fetcher handles all network access for the crawler: HTML page
// fetches, binary image downloads, and the shared retry policy.
package fetcher

import (
	"context"
	"time"
)

// BrowserUserAgent is presented on HTML requests. The listing site serves
// degraded markup to obvious non-browser agents, so this mimics a current
// desktop Chrome.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Defaults for the two fetch paths.
const (
	DefaultTextTimeout   = 20 * time.Second
	DefaultBinaryTimeout = 30 * time.Second
	DefaultAttempts      = 3
	DefaultRetryDelay    = time.Second
)

// Config holds common fetcher configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// TextFetcher abstracts HTML page fetching strategies.
type TextFetcher interface {
	// Fetch retrieves the raw HTML of a page.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "static" or "dynamic".
	Type() string
}
