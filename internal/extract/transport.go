package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// transportRe matches lines like 「ＪＲ大和路線「王寺」徒歩12分」: the line
// name precedes the quoted station, the walking time follows it.
var transportRe = regexp.MustCompile(`^(.*?)「([^」]+)」.*?徒歩\s*(\d+)\s*分`)

// surroundingRe matches amenity entries like
// 「【スーパー】ラ・ムー広陵店 約850m（徒歩11分）」.
var (
	surroundingHeadRe = regexp.MustCompile(`【([^】]+)】\s*(.+)`)
	distanceRe        = regexp.MustCompile(`約?\s*(\d+)\s*[mｍ]`)
	walkRe            = regexp.MustCompile(`徒歩\s*(\d+)\s*分`)
)

// parseTransportLines splits the raw traffic field into per-line access
// entries. Lines that don't match the station pattern are kept with only
// the free-text portion set, so no source line is silently dropped.
func parseTransportLines(traffic string) []RawTransport {
	if strings.TrimSpace(traffic) == "" {
		return nil
	}

	var entries []RawTransport
	for _, line := range splitTransportLines(traffic) {
		entry := RawTransport{Text: line}
		if m := transportRe.FindStringSubmatch(line); m != nil {
			entry.Line = strings.TrimSpace(m[1])
			entry.Station = strings.TrimSpace(m[2])
			if n, err := strconv.Atoi(m[3]); err == nil {
				entry.WalkMinutes = n
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// splitTransportLines breaks the field on newlines and on the 、/, that
// separate multiple access routes collapsed onto one line.
func splitTransportLines(traffic string) []string {
	raw := strings.FieldsFunc(traffic, func(r rune) bool {
		return r == '\n' || r == '、' || r == ','
	})
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// extractSurroundings collects nearby-amenity entries for the profile's
// fixed category vocabulary, in document order.
func (e *Extractor) extractSurroundings(doc *goquery.Document) []RawSurrounding {
	if len(e.profile.SurroundingCategories) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(e.profile.SurroundingCategories))
	for _, c := range e.profile.SurroundingCategories {
		allowed[c] = true
	}

	var out []RawSurrounding
	doc.Find("li, dd, td, p").Each(func(_ int, s *goquery.Selection) {
		// Leaf nodes only, otherwise a wrapping element would repeat
		// every entry of its children.
		if s.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		m := surroundingHeadRe.FindStringSubmatch(text)
		if m == nil || !allowed[m[1]] {
			return
		}

		entry := RawSurrounding{Category: m[1]}
		rest := m[2]
		if d := distanceRe.FindStringSubmatch(rest); d != nil {
			entry.DistanceM, _ = strconv.Atoi(d[1])
		}
		if w := walkRe.FindStringSubmatch(rest); w != nil {
			entry.WalkMinutes, _ = strconv.Atoi(w[1])
		}

		// The name is whatever precedes the distance annotation.
		name := rest
		if idx := distanceRe.FindStringIndex(rest); idx != nil {
			name = rest[:idx[0]]
		}
		entry.Name = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(name), "（("))
		if entry.Name == "" {
			return
		}

		out = append(out, entry)
	})
	return out
}
