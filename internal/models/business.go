// internal/models/business.go
package models

// Business is a read-only snapshot sourced from the places lookup. It is
// never persisted as its own table; transactions and tag logs denormalize
// the fields they need at write time.
type Business struct {
	PlaceID          string            `json:"placeId"`
	Name             string            `json:"name"`
	Address          string            `json:"address"`
	Location         LatLng            `json:"location"`
	Rating           *float64          `json:"rating,omitempty"`
	UserRatingsTotal *int              `json:"userRatingsTotal,omitempty"`
	ReviewURL        string            `json:"reviewUrl"`
	MapsURL          string            `json:"mapsUrl"`
	SocialMedia      *SocialMediaLinks `json:"socialMedia,omitempty"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlatformLinks holds whatever URLs the lookup found for one platform.
// Absent URLs mean "not found", not an error.
type PlatformLinks struct {
	ProfileURL string `json:"profileUrl,omitempty"`
	ReviewURL  string `json:"reviewUrl,omitempty"`
}

// SocialMediaLinks maps platform keys to discovered links. Keys follow the
// mobile client contract: facebook, instagram, tiktok, twitter, linkedin,
// tripadvisor, trustpilot, yell, ratedpeople, trustatrader, checkatrade.
type SocialMediaLinks map[string]PlatformLinks
