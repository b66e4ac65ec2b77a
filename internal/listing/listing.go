// Package listing defines the property record the crawler emits.
package listing

import (
	"crypto/md5" //#nosec G501 -- not used for security, only for stable content-derived IDs
	"encoding/hex"
)

// IDLength is the length of the hex identifier derived from a source URL.
const IDLength = 12

// HashID derives the stable record identifier from a canonical source URL.
// The same URL always yields the same ID, which is what makes resumed runs
// skip already-fetched listings.
func HashID(sourceURL string) string {
	sum := md5.Sum([]byte(sourceURL)) //#nosec G401
	return hex.EncodeToString(sum[:])[:IDLength]
}

// TransportAccess is one line of the listing's transportation field.
// Text always carries the sanitized source line; Line, Station and
// WalkMinutes are filled only when the line matched the station pattern.
type TransportAccess struct {
	Line        string `json:"line"`
	Station     string `json:"station"`
	WalkMinutes int    `json:"walk_minutes"`
	Text        string `json:"text"`
}

// Surrounding is one nearby amenity entry.
type Surrounding struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	DistanceM   int    `json:"distance_m"`
	WalkMinutes int    `json:"walk_minutes"`
}

// Unit is one building lot of a multi-unit listing.
type Unit struct {
	Name           string `json:"name"`
	Price          string `json:"price"`
	Layout         string `json:"layout"`
	LandArea       string `json:"land_area"`
	BuildingArea   string `json:"building_area"`
	FloorPlanImage string `json:"floor_plan_image,omitempty"`
}

// ImageMeta records the source URL, category and caption of every image
// discovered on the detail page, whether or not the download succeeded.
type ImageMeta struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Caption  string `json:"caption"`
}

// Record is one crawled property listing. Only ID and SourceURL are
// guaranteed non-empty; every other field is best-effort.
type Record struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	Address      string `json:"address"`
	PropertyType string `json:"property_type"`
	Description  string `json:"description"`
	Layout       string `json:"layout"`
	LandArea     string `json:"land_area"`
	BuildingArea string `json:"building_area"`
	Traffic      string `json:"traffic"`

	Transportation []TransportAccess `json:"transportation,omitempty"`
	Features       []string          `json:"features"`
	Overview       map[string]string `json:"overview,omitempty"`
	EquipmentNotes []string          `json:"equipment_notes,omitempty"`
	Surroundings   []Surrounding     `json:"surroundings,omitempty"`
	EventInfo      string            `json:"event_info,omitempty"`

	Images        []string    `json:"images"`
	ImageURL      string      `json:"image_url"`
	SitePlanImage string      `json:"site_plan_image,omitempty"`
	Units         []Unit      `json:"units,omitempty"`
	ImageMeta     []ImageMeta `json:"image_meta"`

	SourceURL string `json:"source_url"`
	FetchedAt string `json:"fetched_at"`

	CompanyName    string `json:"company_name"`
	CompanyTel     string `json:"company_tel"`
	CompanyAddress string `json:"company_address"`
	VideoURL       string `json:"video_url"`
}
