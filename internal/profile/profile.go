// Package profile holds the per-site scraping configuration.
//
// Every heuristic the extractor relies on (label synonyms, URL path
// patterns, CSS selectors, keyword lists) lives here as data so it can be
// unit-tested against fixture HTML and versioned against the source site's
// markup. When the source site changes structure these heuristics fail
// soft: fields come back empty rather than erroring.
package profile

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// OverviewField maps one overview output key to its label synonyms.
type OverviewField struct {
	Key    string   `yaml:"key" validate:"required"`
	Labels []string `yaml:"labels" validate:"required,min=1"`
}

// Identity is the agency identity stamped onto every record and used as
// the replacement target by the sanitizer.
type Identity struct {
	Name     string `yaml:"name" validate:"required"`
	Tel      string `yaml:"tel" validate:"required"`
	Address  string `yaml:"address" validate:"required"`
	VideoURL string `yaml:"video_url"`
}

// Rewrite describes the source-site text that must never reach the output.
type Rewrite struct {
	SourceNames   []string `yaml:"source_names" validate:"required,min=1"`
	SourceAddress string   `yaml:"source_address"`
	PhonePattern  string   `yaml:"phone_pattern" validate:"required"`
}

// Profile is the full scraping configuration for one listing site.
type Profile struct {
	Source  string `yaml:"source" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`

	// Pagination and link discovery.
	PageParam       string   `yaml:"page_param" validate:"required"`
	DetailPathParts []string `yaml:"detail_path_parts" validate:"required,min=1"`

	// Label synonyms for single-value fields, checked in order.
	PriceLabels        []string `yaml:"price_labels"`
	AddressLabels      []string `yaml:"address_labels"`
	PropertyTypeLabels []string `yaml:"property_type_labels"`
	LayoutLabels       []string `yaml:"layout_labels"`
	LandAreaLabels     []string `yaml:"land_area_labels"`
	BuildingAreaLabels []string `yaml:"building_area_labels"`
	TrafficLabels      []string `yaml:"traffic_labels"`

	// Overview table vocabulary; only present labels are emitted.
	OverviewFields []OverviewField `yaml:"overview_fields"`

	// Gallery and floor-plan image discovery.
	CarouselSelector   string   `yaml:"carousel_selector" validate:"required"`
	FloorPlanInputRoot string   `yaml:"floor_plan_input_root" validate:"required"`
	FloorPlanInputTail string   `yaml:"floor_plan_input_tail" validate:"required"`
	NonPhotoSubstrings []string `yaml:"non_photo_substrings"`
	SitePlanCategory   string   `yaml:"site_plan_category"`

	// Embedded feature-list script variable.
	FeatureListVar string `yaml:"feature_list_var"`

	// Description section heading and fallback selector.
	DescriptionHeading  string `yaml:"description_heading"`
	DescriptionFallback string `yaml:"description_fallback"`

	// Surroundings amenity category vocabulary.
	SurroundingCategories []string `yaml:"surrounding_categories"`

	// Equipment caption keyword pattern (regexp).
	EquipmentPattern string `yaml:"equipment_pattern"`

	// Unit table heading synonyms for multi-lot listings.
	UnitNameLabels []string `yaml:"unit_name_labels"`

	Identity Identity `yaml:"identity" validate:"required"`
	Rewrite  Rewrite  `yaml:"rewrite" validate:"required"`
}

// Default returns the built-in SUUMO profile.
func Default() Profile {
	return Profile{
		Source:          "suumo",
		PageParam:       "pn",
		DetailPathParts: []string{"/ikkodate/", "/nc_"},

		PriceLabels:        []string{"価格", "販売価格"},
		AddressLabels:      []string{"所在地", "住所"},
		PropertyTypeLabels: []string{"物件種目", "種別"},
		LayoutLabels:       []string{"間取り"},
		LandAreaLabels:     []string{"土地面積"},
		BuildingAreaLabels: []string{"建物面積"},
		TrafficLabels:      []string{"交通"},

		OverviewFields: []OverviewField{
			{Key: "structure", Labels: []string{"構造", "構造・工法"}},
			{Key: "floors", Labels: []string{"階建"}},
			{Key: "built", Labels: []string{"築年月", "完成時期", "竣工時期"}},
			{Key: "parking", Labels: []string{"駐車場"}},
			{Key: "road", Labels: []string{"接道状況", "接道"}},
			{Key: "coverage_ratio", Labels: []string{"建ぺい率"}},
			{Key: "floor_area_ratio", Labels: []string{"容積率"}},
			{Key: "zoning", Labels: []string{"用途地域"}},
			{Key: "land_category", Labels: []string{"地目"}},
			{Key: "land_rights", Labels: []string{"土地権利", "権利形態"}},
			{Key: "city_planning", Labels: []string{"都市計画"}},
			{Key: "permit_number", Labels: []string{"建築確認番号"}},
			{Key: "private_road", Labels: []string{"私道負担"}},
		},

		CarouselSelector:   "a.carousel_item-object",
		FloorPlanInputRoot: "imgKukakuMadori_",
		FloorPlanInputTail: "orgn",
		NonPhotoSubstrings: []string{"logo", "icon", "sprite", "blank"},
		SitePlanCategory:   "区画図",

		FeatureListVar: "tokuchoPickupList",

		DescriptionHeading:  "物件の特徴",
		DescriptionFallback: "p.fs14",

		SurroundingCategories: []string{
			"駅", "スーパー", "コンビニ", "小学校", "中学校",
			"幼稚園・保育園", "病院", "公園", "銀行", "ドラッグストア",
		},

		EquipmentPattern: "断熱|耐震|制震|免震|保証|性能|省エネ|瑕疵|アフター",

		UnitNameLabels: []string{"号棟", "区画"},

		Identity: Identity{
			Name:     "センチュリー21ホームマート",
			Tel:      "0120-43-8639",
			Address:  "奈良県北葛城郡広陵町笠287-1",
			VideoURL: "https://homemart-one.vercel.app/",
		},
		Rewrite: Rewrite{
			SourceNames:   []string{"住まいるプラス1", "近畿住宅流通"},
			SourceAddress: "奈良県北葛城郡広陵町笠287-1",
			PhonePattern:  `\b0?\d{2,4}-\d{2,4}-\d{3,4}\b`,
		},
	}
}

// Load reads a profile from a YAML file. Fields left unset in the file fall
// back to the built-in defaults, so a site override only needs to state what
// differs.
func Load(path string) (Profile, error) {
	p := Default()

	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads a user-specified profile
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate checks that all required heuristics are present.
func (p Profile) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}
