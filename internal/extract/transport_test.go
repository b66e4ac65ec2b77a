package extract

import (
	"testing"
)

func TestParseTransportLines(t *testing.T) {
	traffic := "近鉄大阪線「五位堂」徒歩12分\nＪＲ和歌山線「志都美」バス10分 停歩3分"

	entries := parseTransportLines(traffic)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Line != "近鉄大阪線" || first.Station != "五位堂" || first.WalkMinutes != 12 {
		t.Errorf("first entry = %+v, want 近鉄大阪線/五位堂/12", first)
	}
	if first.Text == "" {
		t.Error("first entry lost its source text")
	}

	// The bus line doesn't match the walking pattern but must still be
	// retained with its free text.
	second := entries[1]
	if second.Line != "" || second.Station != "" || second.WalkMinutes != 0 {
		t.Errorf("second entry parsed fields = %+v, want only free text", second)
	}
	if second.Text != "ＪＲ和歌山線「志都美」バス10分 停歩3分" {
		t.Errorf("second entry text = %q", second.Text)
	}
}

func TestParseTransportLines_Empty(t *testing.T) {
	if entries := parseTransportLines("   "); entries != nil {
		t.Errorf("got %v for blank traffic, want nil", entries)
	}
}

func TestParse_Transportation(t *testing.T) {
	data := parseFixture(t)

	if len(data.Transportation) != 2 {
		t.Fatalf("got %d transportation entries, want 2", len(data.Transportation))
	}
	if data.Transportation[0].Station != "五位堂" {
		t.Errorf("station = %q, want 五位堂", data.Transportation[0].Station)
	}
}

func TestParse_Surroundings(t *testing.T) {
	data := parseFixture(t)

	if len(data.Surroundings) != 3 {
		t.Fatalf("got %d surroundings, want 3: %+v", len(data.Surroundings), data.Surroundings)
	}

	super := data.Surroundings[0]
	if super.Category != "スーパー" || super.Name != "ラ・ムー広陵店" {
		t.Errorf("first surrounding = %+v", super)
	}
	if super.DistanceM != 850 || super.WalkMinutes != 11 {
		t.Errorf("first surrounding distances = %+v, want 850m / 11min", super)
	}

	// No walking time on the park entry.
	park := data.Surroundings[2]
	if park.Category != "公園" || park.DistanceM != 1200 || park.WalkMinutes != 0 {
		t.Errorf("park surrounding = %+v", park)
	}

	// Categories outside the fixed vocabulary are dropped.
	for _, s := range data.Surroundings {
		if s.Category == "謎施設" {
			t.Error("unknown category was not filtered")
		}
	}
}
