package pagewalk

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/homemart/bukkenfeed/internal/profile"
)

// mapFetcher serves canned HTML by URL and counts fetches.
type mapFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return html, nil
}

func (f *mapFetcher) Close() error { return nil }
func (f *mapFetcher) Type() string { return "map" }

const indexBase = "https://suumo.jp/ikkodate/nara/sc_koryo/"

func indexPage(pager string, links ...string) string {
	html := "<html><body><ul>"
	for _, l := range links {
		html += `<li><a href="` + l + `">物件</a></li>`
	}
	html += "</ul>" + pager + "</body></html>"
	return html
}

const threePagePager = `<div class="pagination">
	<a href="?pn=2">2</a>
	<a href="?pn=3">3</a>
	<a href="?pn=2">次へ</a>
</div>`

func newTestWalker(f *mapFetcher) *Walker {
	w := New(f, profile.Default())
	w.SetPause(time.Millisecond)
	return w
}

func TestDiscover_WalksAllPages(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{
		indexBase: indexPage(threePagePager,
			"/ikkodate/nc_00000001/",
			"/ikkodate/nc_00000002/?fmlg=t001",
		),
		indexBase + "?pn=2": indexPage(threePagePager,
			"/ikkodate/nc_00000002/",
			"/ikkodate/nc_00000003/",
		),
		indexBase + "?pn=3": indexPage(threePagePager,
			"/ikkodate/nc_00000004/",
			"/article/mansion-guide/",
		),
	}}

	urls, err := newTestWalker(f).Discover(context.Background(), indexBase, 0)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{
		"https://suumo.jp/ikkodate/nc_00000001/",
		"https://suumo.jp/ikkodate/nc_00000002/",
		"https://suumo.jp/ikkodate/nc_00000003/",
		"https://suumo.jp/ikkodate/nc_00000004/",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
	if len(f.fetched) != 3 {
		t.Errorf("fetched %d pages, want 3: %v", len(f.fetched), f.fetched)
	}
}

func TestDiscover_StopsAtTargetCount(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{
		indexBase: indexPage(threePagePager,
			"/ikkodate/nc_00000001/",
			"/ikkodate/nc_00000002/",
			"/ikkodate/nc_00000003/",
		),
	}}

	urls, err := newTestWalker(f).Discover(context.Background(), indexBase, 2)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("got %d urls, want 2: %v", len(urls), urls)
	}
	// Page 1 already satisfied the target, so pages 2 and 3 are not fetched.
	if len(f.fetched) != 1 {
		t.Errorf("fetched %d pages, want 1: %v", len(f.fetched), f.fetched)
	}
}

func TestDiscover_SinglePageIndex(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{
		indexBase: indexPage("", "/ikkodate/nc_00000009/"),
	}}

	urls, err := newTestWalker(f).Discover(context.Background(), indexBase, 0)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://suumo.jp/ikkodate/nc_00000009/" {
		t.Errorf("urls = %v", urls)
	}
	if len(f.fetched) != 1 {
		t.Errorf("fetched %d pages, want 1", len(f.fetched))
	}
}

func TestDiscover_IndexFetchError(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{}}

	if _, err := newTestWalker(f).Discover(context.Background(), indexBase, 0); err == nil {
		t.Fatal("Discover() succeeded with an unreachable index")
	}
}

func TestDiscover_SkipsNonDetailLinks(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{
		indexBase: indexPage("",
			"#top",
			"javascript:void(0)",
			"/chintai/nc_00000001/",
			"/ikkodate/library/",
			"/ikkodate/nc_00000005/",
		),
	}}

	urls, err := newTestWalker(f).Discover(context.Background(), indexBase, 0)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://suumo.jp/ikkodate/nc_00000005/" {
		t.Errorf("urls = %v", urls)
	}
}

func TestURLSet(t *testing.T) {
	s := NewURLSet()

	if !s.Add("a") || !s.Add("b") {
		t.Error("Add returned false for new URLs")
	}
	if s.Add("a") {
		t.Error("Add returned true for a duplicate")
	}
	if s.Add("") {
		t.Error("Add accepted an empty URL")
	}
	if !s.Contains("a") || s.Contains("c") {
		t.Error("Contains gave wrong membership")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	got := s.Values()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Values() = %v, want [a b]", got)
	}
}
