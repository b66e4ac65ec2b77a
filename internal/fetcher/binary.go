package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BinaryFetcher downloads image-sized binary assets.
type BinaryFetcher struct {
	client *http.Client
	retry  RetryPolicy
}

// NewBinary creates a binary fetcher. Image requests use default headers;
// only HTML fetches need the browser user-agent.
func NewBinary(timeout time.Duration, retry RetryPolicy) *BinaryFetcher {
	if timeout == 0 {
		timeout = DefaultBinaryTimeout
	}
	if retry.Attempts == 0 {
		retry = DefaultRetryPolicy()
	}
	return &BinaryFetcher{
		client: &http.Client{Timeout: timeout},
		retry:  retry,
	}
}

// Fetch downloads the asset at url, retrying transient failures.
func (f *BinaryFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte

	err := WithRetry(ctx, f.retry.Attempts, f.retry.BaseDelay, func() error {
		body, err := f.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		data = body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	return data, nil
}

func (f *BinaryFetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
