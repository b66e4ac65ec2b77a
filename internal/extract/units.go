package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractUnits builds the per-lot sub-records of a multi-unit listing.
// Units originate from the floor-plan inputs (one per lot, labeled); when
// the page also carries a unit summary table its rows enrich the matching
// units with price, layout and area columns.
func (e *Extractor) extractUnits(doc *goquery.Document) []RawUnit {
	var units []RawUnit
	for _, plan := range e.floorPlanInputs(doc) {
		if e.profile.SitePlanCategory != "" && strings.Contains(plan.Category, e.profile.SitePlanCategory) {
			continue
		}
		units = append(units, RawUnit{
			Name:         plan.Category,
			FloorPlanURL: plan.URL,
		})
	}

	e.enrichUnitsFromTables(doc, &units)
	return units
}

// unit table column kinds, resolved from header text
const (
	colName = iota
	colPrice
	colLayout
	colLandArea
	colBuildingArea
	colOther
)

func (e *Extractor) enrichUnitsFromTables(doc *goquery.Document, units *[]RawUnit) {
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := table.Find("tr").First().Find("th")
		if headers.Length() == 0 {
			return
		}
		if !matchesLabel(headers.First().Text(), e.profile.UnitNameLabels) {
			return
		}

		kinds := make([]int, headers.Length())
		headers.Each(func(i int, th *goquery.Selection) {
			kinds[i] = e.columnKind(i, th.Text())
		})

		table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
			if rowIdx == 0 {
				return
			}
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}

			var u RawUnit
			cells.Each(func(i int, cell *goquery.Selection) {
				if i >= len(kinds) {
					return
				}
				text := strings.TrimSpace(cell.Text())
				switch kinds[i] {
				case colName:
					u.Name = text
				case colPrice:
					u.Price = text
				case colLayout:
					u.Layout = text
				case colLandArea:
					u.LandArea = text
				case colBuildingArea:
					u.BuildingArea = text
				}
			})
			if u.Name == "" {
				return
			}

			merged := false
			for idx := range *units {
				if unitNameMatches((*units)[idx].Name, u.Name) {
					applyUnitFields(&(*units)[idx], u)
					merged = true
					break
				}
			}
			if !merged {
				*units = append(*units, u)
			}
		})
	})
}

func (e *Extractor) columnKind(idx int, header string) int {
	switch {
	case idx == 0 || matchesLabel(header, e.profile.UnitNameLabels):
		return colName
	case matchesLabel(header, e.profile.PriceLabels):
		return colPrice
	case matchesLabel(header, e.profile.LayoutLabels):
		return colLayout
	case matchesLabel(header, e.profile.LandAreaLabels):
		return colLandArea
	case matchesLabel(header, e.profile.BuildingAreaLabels):
		return colBuildingArea
	default:
		return colOther
	}
}

func unitNameMatches(a, b string) bool {
	a = strings.Join(strings.Fields(a), "")
	b = strings.Join(strings.Fields(b), "")
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func applyUnitFields(dst *RawUnit, src RawUnit) {
	if src.Price != "" {
		dst.Price = src.Price
	}
	if src.Layout != "" {
		dst.Layout = src.Layout
	}
	if src.LandArea != "" {
		dst.LandArea = src.LandArea
	}
	if src.BuildingArea != "" {
		dst.BuildingArea = src.BuildingArea
	}
}
