// Package extract pulls structured listing fields out of a detail page's
// DOM. Everything here is best-effort: a heuristic that finds nothing
// yields an empty value, never an error, so one missing section cannot
// block the rest of the record.
//
// All values returned by this package are raw source text. Sanitization
// happens in the assembler, not here.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/homemart/bukkenfeed/internal/profile"
)

// RawTransport is one unparsed-or-parsed transportation line.
type RawTransport struct {
	Line        string
	Station     string
	WalkMinutes int
	Text        string
}

// RawSurrounding is one nearby amenity entry.
type RawSurrounding struct {
	Category    string
	Name        string
	DistanceM   int
	WalkMinutes int
}

// RawUnit is one building lot of a multi-unit listing.
type RawUnit struct {
	Name         string
	Price        string
	Layout       string
	LandArea     string
	BuildingArea string
	FloorPlanURL string
}

// RawImage is one discovered image with its source metadata.
type RawImage struct {
	URL      string
	Category string
	Caption  string
}

// PageData holds every field extracted from one detail page, unsanitized.
type PageData struct {
	Title        string
	Price        string
	Address      string
	PropertyType string
	Description  string
	Layout       string
	LandArea     string
	BuildingArea string
	Traffic      string

	Transportation []RawTransport
	Features       []string
	Overview       map[string]string
	EquipmentNotes []string
	Surroundings   []RawSurrounding
	EventInfo      string

	GalleryURLs []string
	ImageMeta   []RawImage
	SitePlanURL string
	Units       []RawUnit
}

// Extractor applies one site profile's heuristics to detail pages.
type Extractor struct {
	profile profile.Profile
}

// New creates an Extractor for the given profile.
func New(p profile.Profile) *Extractor {
	return &Extractor{profile: p}
}

// Parse extracts all fields from a detail page's HTML.
func (e *Extractor) Parse(html string) (PageData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PageData{}, err
	}

	data := PageData{
		Title:        strings.TrimSpace(doc.Find("h1").First().Text()),
		Layout:       ByLabel(doc, e.profile.LayoutLabels),
		LandArea:     ByLabel(doc, e.profile.LandAreaLabels),
		BuildingArea: ByLabel(doc, e.profile.BuildingAreaLabels),
		Traffic:      ByLabel(doc, e.profile.TrafficLabels),
	}

	data.Price = firstNonEmpty(
		strings.TrimSpace(doc.Find(".section_h1-price, .property_view_main__price, .price").First().Text()),
		ByLabel(doc, e.profile.PriceLabels),
	)
	data.Address = firstNonEmpty(
		ByLabel(doc, e.profile.AddressLabels),
		strings.TrimSpace(doc.Find(".property_view_detail_address").First().Text()),
	)
	data.PropertyType = firstNonEmpty(
		ByLabel(doc, e.profile.PropertyTypeLabels),
		strings.TrimSpace(doc.Find(".property_view_detail_type").First().Text()),
	)

	data.Description = e.extractDescription(doc)
	data.Overview = e.extractOverview(doc)
	data.Transportation = parseTransportLines(data.Traffic)
	data.Surroundings = e.extractSurroundings(doc)

	data.Features = e.extractFeatureList(html)
	data.EventInfo = e.extractEventInfo(html)

	gallery, meta := e.extractImages(doc)
	data.GalleryURLs = gallery
	data.ImageMeta = meta
	data.SitePlanURL = e.sitePlanURL(meta)
	data.Units = e.extractUnits(doc)
	data.EquipmentNotes = e.extractEquipmentNotes(doc, meta)

	return data, nil
}

// ByLabel finds the value cell paired with a header cell whose normalized
// text contains one of the labels. Table rows are checked first, then
// definition lists. The first match wins; labels are tried in order.
func ByLabel(doc *goquery.Document, labels []string) string {
	if len(labels) == 0 {
		return ""
	}

	var value string

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() == 0 {
			return true
		}
		if !matchesLabel(th.Text(), labels) {
			return true
		}
		// Prefer the row's data cell; fall back to the cell right after
		// the header when the row/column structure doesn't line up.
		if td.Length() > 0 {
			value = strings.TrimSpace(td.Text())
		} else if next := th.Next(); next.Length() > 0 {
			value = strings.TrimSpace(next.Text())
		}
		return value == ""
	})

	if value != "" {
		return value
	}

	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !matchesLabel(dt.Text(), labels) {
			return true
		}
		if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
			value = strings.TrimSpace(dd.Text())
		}
		return value == ""
	})

	return value
}

func matchesLabel(cellText string, labels []string) bool {
	normalized := strings.Join(strings.Fields(cellText), "")
	for _, label := range labels {
		if strings.Contains(normalized, label) {
			return true
		}
	}
	return false
}

func (e *Extractor) extractDescription(doc *goquery.Document) string {
	var description string

	doc.Find(".section").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		heading := section.Find(".section_h2-header_title").First().Text()
		if heading == "" || !strings.Contains(heading, e.profile.DescriptionHeading) {
			return true
		}
		description = strings.TrimSpace(section.Find(e.profile.DescriptionFallback).First().Text())
		return description == ""
	})

	if description == "" {
		description = strings.TrimSpace(doc.Find(e.profile.DescriptionFallback).First().Text())
	}

	return description
}

func (e *Extractor) extractOverview(doc *goquery.Document) map[string]string {
	overview := make(map[string]string)
	for _, field := range e.profile.OverviewFields {
		if v := ByLabel(doc, field.Labels); v != "" {
			overview[field.Key] = v
		}
	}
	if len(overview) == 0 {
		return nil
	}
	return overview
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
