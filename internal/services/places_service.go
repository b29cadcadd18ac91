// internal/services/places_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/tapreview/tapreview-backend/internal/config"
	"github.com/tapreview/tapreview-backend/internal/models"
)

const (
	reviewURLPrefix = "https://search.google.com/local/writereview?placeid="
	mapsURLPrefix   = "https://www.google.com/maps/place/?q=place_id:"
)

var ErrPlacesUnavailable = errors.New("places search is not configured")

// PlacesService proxies Google Places for the mobile client. Results are
// mapped into read-only Business snapshots with the canonical review and
// maps URLs already derived, so the client never builds Google URLs itself.
type PlacesService struct {
	client *maps.Client
	cfg    *config.Config
}

func NewPlacesService(cfg *config.Config) (*PlacesService, error) {
	if cfg.Google.PlacesAPIKey == "" {
		// Degraded mode for local development without an API key
		return &PlacesService{cfg: cfg}, nil
	}

	client, err := maps.NewClient(maps.WithAPIKey(cfg.Google.PlacesAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &PlacesService{client: client, cfg: cfg}, nil
}

// SearchNearby finds businesses around a coordinate. Radius 0 falls back to
// the configured default.
func (s *PlacesService) SearchNearby(ctx context.Context, lat, lng float64, radius int, keyword string) ([]models.Business, error) {
	if s.client == nil {
		return nil, ErrPlacesUnavailable
	}

	if radius <= 0 {
		radius = s.cfg.Google.DefaultRadius
	}

	resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lng},
		Radius:   uint(radius),
		Keyword:  keyword,
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}

	return mapSearchResults(resp.Results), nil
}

// SearchText is the admin free-text search over the whole index.
func (s *PlacesService) SearchText(ctx context.Context, query string) ([]models.Business, error) {
	if s.client == nil {
		return nil, ErrPlacesUnavailable
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("text search failed: %w", err)
	}

	return mapSearchResults(resp.Results), nil
}

func mapSearchResults(results []maps.PlacesSearchResult) []models.Business {
	businesses := make([]models.Business, 0, len(results))
	for _, r := range results {
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}

		b := models.Business{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Address: address,
			Location: models.LatLng{
				Lat: r.Geometry.Location.Lat,
				Lng: r.Geometry.Location.Lng,
			},
			ReviewURL: reviewURLPrefix + r.PlaceID,
			MapsURL:   mapsURLPrefix + r.PlaceID,
		}

		if r.Rating > 0 {
			rating := float64(r.Rating)
			b.Rating = &rating
		}
		if r.UserRatingsTotal > 0 {
			total := r.UserRatingsTotal
			b.UserRatingsTotal = &total
		}

		businesses = append(businesses, b)
	}
	return businesses
}
