package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var eventInfoRe = regexp.MustCompile(`(?:オープンハウス|現地見学会|モデルハウス公開|販売イベント)[^<>"{}]{0,80}`)

// extractFeatureList parses the feature pickup list embedded as a script
// variable on the detail page. Absence or malformed JSON is not an error;
// the feature list is simply empty.
func (e *Extractor) extractFeatureList(html string) []string {
	if e.profile.FeatureListVar == "" {
		return nil
	}

	re, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(e.profile.FeatureListVar) + `\s*:\s*\[(.*?)\]`)
	if err != nil {
		return nil
	}
	m := re.FindStringSubmatch(html)
	if m == nil {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte("["+m[1]+"]"), &list); err != nil {
		return nil
	}
	return list
}

// extractEventInfo pulls an open-house/viewing-event announcement out of
// the raw HTML, if one is present.
func (e *Extractor) extractEventInfo(html string) string {
	return strings.TrimSpace(eventInfoRe.FindString(html))
}

// extractEquipmentNotes collects short captions naming construction or
// performance equipment (insulation, seismic rating, warranty terms).
// Candidates come from image captions and from list/definition entries.
func (e *Extractor) extractEquipmentNotes(doc *goquery.Document, meta []RawImage) []string {
	if e.profile.EquipmentPattern == "" {
		return nil
	}
	re, err := regexp.Compile(e.profile.EquipmentPattern)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var notes []string
	add := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" || len([]rune(text)) > 60 {
			return
		}
		if !re.MatchString(text) || seen[text] {
			return
		}
		seen[text] = true
		notes = append(notes, text)
	}

	for _, m := range meta {
		add(m.Caption)
	}
	doc.Find("li, dd").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() == 0 {
			add(s.Text())
		}
	})

	return notes
}
