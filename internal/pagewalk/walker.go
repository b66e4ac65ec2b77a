package pagewalk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/homemart/bukkenfeed/internal/fetcher"
	"github.com/homemart/bukkenfeed/internal/logger"
	"github.com/homemart/bukkenfeed/internal/profile"
)

// DefaultPagePause is the fixed wait between listing-index page fetches.
// Index pages are cheap for the source server but there is no reason to
// burst through them.
const DefaultPagePause = 800 * time.Millisecond

// Walker discovers detail-page URLs across a paginated listing index.
type Walker struct {
	fetcher   fetcher.TextFetcher
	pageParam string
	pathParts []string
	pause     time.Duration
}

// New creates a Walker driven by the given site profile.
func New(f fetcher.TextFetcher, p profile.Profile) *Walker {
	return &Walker{
		fetcher:   f,
		pageParam: p.PageParam,
		pathParts: p.DetailPathParts,
		pause:     DefaultPagePause,
	}
}

// SetPause overrides the inter-page pause. Tests use this to avoid
// real-time waits.
func (w *Walker) SetPause(d time.Duration) {
	w.pause = d
}

// Discover fetches the listing index starting at baseURL and returns up to
// targetCount unique detail-page URLs in discovery order. Later index pages
// are only fetched while the target has not been reached.
func (w *Walker) Discover(ctx context.Context, baseURL string, targetCount int) ([]string, error) {
	html, err := w.fetcher.Fetch(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("listing index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing index: %w", err)
	}

	set := NewURLSet()
	w.collectDetailLinks(doc, baseURL, set)
	maxPage := w.maxPageNumber(doc)

	logger.Info("listing index scanned", "url", baseURL, "pages", maxPage, "links", set.Len())

	for page := 2; page <= maxPage; page++ {
		if targetCount > 0 && set.Len() >= targetCount {
			break
		}

		if err := sleepCtx(ctx, w.pause); err != nil {
			return nil, err
		}

		pageURL, err := w.pageURL(baseURL, page)
		if err != nil {
			return nil, err
		}

		pageHTML, err := w.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("listing index page %d: %w", page, err)
		}

		pageDoc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
		if err != nil {
			return nil, fmt.Errorf("parse listing index page %d: %w", page, err)
		}

		added := w.collectDetailLinks(pageDoc, baseURL, set)
		logger.Debug("index page scanned", "page", page, "new_links", added, "total", set.Len())
	}

	urls := set.Values()
	if targetCount > 0 && len(urls) > targetCount {
		urls = urls[:targetCount]
	}
	return urls, nil
}

// collectDetailLinks adds every detail-page link in doc to set and returns
// the number of new links. Detail pages are recognized by path substrings;
// query strings are stripped so tracking parameters don't defeat dedup.
func (w *Walker) collectDetailLinks(doc *goquery.Document, baseURL string, set *URLSet) int {
	base, err := url.Parse(baseURL)
	if err != nil {
		return 0
	}

	added := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}

		link, err := url.Parse(href)
		if err != nil {
			return
		}
		if !link.IsAbs() {
			link = base.ResolveReference(link)
		}

		if !w.isDetailPath(link.Path) {
			return
		}

		link.RawQuery = ""
		link.Fragment = ""
		if set.Add(link.String()) {
			added++
		}
	})
	return added
}

func (w *Walker) isDetailPath(path string) bool {
	for _, part := range w.pathParts {
		if !strings.Contains(path, part) {
			return false
		}
	}
	return true
}

// maxPageNumber scans in-page links for the page query parameter and
// returns the largest value found, defaulting to 1.
func (w *Walker) maxPageNumber(doc *goquery.Document) int {
	maxPage := 1
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		link, err := url.Parse(href)
		if err != nil {
			return
		}
		raw := link.Query().Get(w.pageParam)
		if raw == "" {
			return
		}
		if n, err := strconv.Atoi(raw); err == nil && n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}

func (w *Walker) pageURL(baseURL string, page int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set(w.pageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
