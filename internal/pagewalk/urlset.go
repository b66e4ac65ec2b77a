// Package pagewalk walks a paginated listing index and collects detail-page
// URLs.
package pagewalk

// URLSet is an insertion-ordered string set used for link deduplication.
type URLSet struct {
	seen  map[string]bool
	order []string
}

// NewURLSet creates an empty set.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]bool)}
}

// Add inserts a URL, reporting whether it was new.
func (s *URLSet) Add(url string) bool {
	if url == "" || s.seen[url] {
		return false
	}
	s.seen[url] = true
	s.order = append(s.order, url)
	return true
}

// Contains reports whether a URL has been added.
func (s *URLSet) Contains(url string) bool {
	return s.seen[url]
}

// Len returns the number of URLs in the set.
func (s *URLSet) Len() int {
	return len(s.order)
}

// Values returns the URLs in insertion order.
func (s *URLSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
