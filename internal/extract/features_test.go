package extract

import (
	"reflect"
	"testing"
)

func TestParse_FeatureList(t *testing.T) {
	data := parseFixture(t)

	want := []string{"南向き", "食器洗い乾燥機", "住まいるプラス1仲介"}
	if !reflect.DeepEqual(data.Features, want) {
		t.Errorf("features = %v, want %v", data.Features, want)
	}
}

func TestExtractFeatureList_MalformedJSON(t *testing.T) {
	e := newFixtureExtractor()

	html := `<script>var x = { tokuchoPickupList : ["南向き", broken] };</script>`
	if got := e.extractFeatureList(html); got != nil {
		t.Errorf("got %v for malformed list, want nil", got)
	}
}

func TestExtractFeatureList_Absent(t *testing.T) {
	e := newFixtureExtractor()

	if got := e.extractFeatureList("<html><body>no script here</body></html>"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestParse_EventInfo(t *testing.T) {
	data := parseFixture(t)

	want := "現地見学会開催中！今週末は予約制のオープンハウスを開催します。"
	if data.EventInfo != want {
		t.Errorf("event info = %q, want %q", data.EventInfo, want)
	}
}

func TestParse_EquipmentNotes(t *testing.T) {
	data := parseFixture(t)

	want := []string{
		"ＬＤＫ 断熱等級5",
		"住宅性能評価書取得",
		"長期優良住宅で建物10年保証付き",
	}
	if !reflect.DeepEqual(data.EquipmentNotes, want) {
		t.Errorf("equipment notes = %v, want %v", data.EquipmentNotes, want)
	}
}
