package extract

import (
	"testing"
)

func TestParse_GalleryImages(t *testing.T) {
	data := parseFixture(t)

	want := []string{
		"https://img.example.jp/photo/100.jpg",
		"https://img.example.jp/photo/101.jpg",
	}
	if len(data.GalleryURLs) != len(want) {
		t.Fatalf("got %d gallery URLs, want %d: %v", len(data.GalleryURLs), len(want), data.GalleryURLs)
	}
	for i, url := range want {
		if data.GalleryURLs[i] != url {
			t.Errorf("gallery[%d] = %q, want %q", i, data.GalleryURLs[i], url)
		}
	}

	// The placeholder data: URI and the site chrome logo are filtered,
	// and the repeated exterior photo is deduplicated.
	for _, url := range data.GalleryURLs {
		if url == "https://img.example.jp/common/logo_suumo.png" {
			t.Error("site logo leaked into gallery")
		}
	}
}

func TestParse_ImageMeta(t *testing.T) {
	data := parseFixture(t)

	// Two carousel photos, the duplicate entry, and three floor-plan
	// inputs. Meta keeps duplicates so every caption survives.
	if len(data.ImageMeta) != 6 {
		t.Fatalf("got %d meta entries, want 6: %+v", len(data.ImageMeta), data.ImageMeta)
	}

	first := data.ImageMeta[0]
	if first.Category != "外観" || first.Caption != "完成予想図" {
		t.Errorf("first meta = %+v", first)
	}

	last := data.ImageMeta[5]
	if last.URL != "https://img.example.jp/plan/2.jpg" || last.Category != "2号棟" {
		t.Errorf("last meta = %+v, want floor plan for 2号棟", last)
	}
}

func TestParse_SitePlan(t *testing.T) {
	data := parseFixture(t)

	if data.SitePlanURL != "https://img.example.jp/plan/siteplan.jpg" {
		t.Errorf("site plan = %q", data.SitePlanURL)
	}
}

func TestFloorPlanInputs_SkipsEmptyValue(t *testing.T) {
	doc := parseDoc(t, `
		<input id="imgKukakuMadori_0_orgn" value="https://example.jp/a.jpg,1号棟">
		<input id="imgKukakuMadori_1_orgn" value="">
		<input id="imgKukakuMadori_2_orgn" value="https://example.jp/b.jpg">
	`)

	e := newFixtureExtractor()
	plans := e.floorPlanInputs(doc)
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2: %+v", len(plans), plans)
	}
	if plans[0].Category != "1号棟" {
		t.Errorf("plans[0].Category = %q", plans[0].Category)
	}
	// A value without a label falls back to the generic floor-plan name.
	if plans[1].Category != "間取り図" {
		t.Errorf("plans[1].Category = %q, want 間取り図", plans[1].Category)
	}
}
