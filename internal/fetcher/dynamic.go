package fetcher

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/homemart/bukkenfeed/internal/logger"
)

// DynamicFetcher renders pages in headless Chrome. Some listing galleries
// only populate their carousel data-src attributes from script, so the
// static fetcher sees an empty gallery on those pages.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamic creates a dynamic fetcher with a shared browser allocator.
func NewDynamic(cfg Config) (*DynamicFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = BrowserUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTextTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic fetcher ready", "user_agent", cfg.UserAgent, "timeout", cfg.Timeout)

	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Fetch retrieves page HTML using a headless browser.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.config.Timeout)
	defer cancelTimeout()

	// Propagate caller cancellation into the browser context.
	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-timeoutCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser fetch %s: %w", targetURL, err)
	}

	logger.Debug("dynamic fetch complete", "url", targetURL, "html_size", len(html))
	return html, nil
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
