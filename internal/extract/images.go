package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractImages merges the photo carousel with the hidden floor-plan
// inputs. Gallery URLs keep source order; meta entries are recorded for
// every discovered image regardless of whether its download later
// succeeds.
func (e *Extractor) extractImages(doc *goquery.Document) ([]string, []RawImage) {
	var (
		gallery []string
		meta    []RawImage
	)
	seen := make(map[string]bool)

	doc.Find(e.profile.CarouselSelector).Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("data-src")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if e.isNonPhoto(src) {
			return
		}

		category, _ := s.Attr("data-category")
		caption, _ := s.Attr("data-caption")
		meta = append(meta, RawImage{URL: src, Category: category, Caption: caption})

		if !seen[src] {
			seen[src] = true
			gallery = append(gallery, src)
		}
	})

	for _, plan := range e.floorPlanInputs(doc) {
		meta = append(meta, plan)
	}

	return gallery, meta
}

// floorPlanInputs reads the hidden inputs that hold floor-plan and
// site-plan image URLs. Each value is a comma-separated "url,label" pair.
func (e *Extractor) floorPlanInputs(doc *goquery.Document) []RawImage {
	selector := `input[id^="` + e.profile.FloorPlanInputRoot + `"][id$="` + e.profile.FloorPlanInputTail + `"]`

	var plans []RawImage
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("value")
		if value == "" {
			return
		}
		url, label, _ := strings.Cut(value, ",")
		if url == "" {
			return
		}
		if label == "" {
			label = "間取り図"
		}
		plans = append(plans, RawImage{URL: url, Category: label})
	})
	return plans
}

func (e *Extractor) isNonPhoto(src string) bool {
	lower := strings.ToLower(src)
	for _, part := range e.profile.NonPhotoSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// sitePlanURL returns the first image whose category marks it as the
// lot/site plan, or "".
func (e *Extractor) sitePlanURL(meta []RawImage) string {
	if e.profile.SitePlanCategory == "" {
		return ""
	}
	for _, m := range meta {
		if strings.Contains(m.Category, e.profile.SitePlanCategory) {
			return m.URL
		}
	}
	return ""
}
