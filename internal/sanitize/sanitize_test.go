package sanitize

import (
	"reflect"
	"testing"

	"github.com/homemart/bukkenfeed/internal/profile"
)

func newTestSanitizer(t *testing.T) *Sanitizer {
	t.Helper()
	s, err := New(
		profile.Identity{
			Name:    "テスト不動産",
			Tel:     "0120-00-0000",
			Address: "奈良県テスト市1-2-3",
		},
		profile.Rewrite{
			SourceNames:   []string{"ソース商事", "他社流通"},
			SourceAddress: "大阪府ソース市9-9-9",
			PhonePattern:  `\b0?\d{2,4}-\d{2,4}-\d{3,4}\b`,
		},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestClean(t *testing.T) {
	s := newTestSanitizer(t)

	tests := []struct {
		name, in, want string
	}{
		{
			name: "source name replaced",
			in:   "ソース商事が販売する新築戸建",
			want: "テスト不動産が販売する新築戸建",
		},
		{
			name: "all source names replaced",
			in:   "売主:ソース商事 媒介:他社流通",
			want: "売主:テスト不動産 媒介:テスト不動産",
		},
		{
			name: "phone number replaced",
			in:   "お問い合わせは06-1234-5678まで",
			want: "お問い合わせは0120-00-0000まで",
		},
		{
			name: "address replaced",
			in:   "所在地:大阪府ソース市9-9-9",
			want: "所在地:奈良県テスト市1-2-3",
		},
		{
			name: "doubled agency name collapsed",
			in:   "テスト不動産ソース商事にお任せ",
			want: "テスト不動産にお任せ",
		},
		{
			name: "whitespace normalized",
			in:   "  広い　リビング\n陽当たり良好  ",
			want: "広い リビング 陽当たり良好",
		},
		{
			name: "ad annotation stripped",
			in:   "【PR】おすすめ物件【広告】です",
			want: "おすすめ物件です",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	s := newTestSanitizer(t)

	inputs := []string{
		"ソース商事が販売する新築戸建。お問い合わせは06-1234-5678まで。",
		"テスト不動産ソース商事の物件",
		"所在地:大阪府ソース市9-9-9 担当:他社流通",
	}
	for _, in := range inputs {
		once := s.Clean(in)
		twice := s.Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q:\n once = %q\ntwice = %q", in, once, twice)
		}
	}
}

func TestCleanAll(t *testing.T) {
	s := newTestSanitizer(t)

	in := []string{"ソース商事の物件", "  ", "南向き"}
	want := []string{"テスト不動産の物件", "南向き"}
	if got := s.CleanAll(in); !reflect.DeepEqual(got, want) {
		t.Errorf("CleanAll(%v) = %v, want %v", in, got, want)
	}
}

func TestNew_InvalidPhonePattern(t *testing.T) {
	_, err := New(profile.Identity{}, profile.Rewrite{PhonePattern: `(\d`})
	if err == nil {
		t.Fatal("New() accepted an invalid phone pattern")
	}
}
