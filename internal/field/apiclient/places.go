// internal/field/apiclient/places.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tapreview/tapreview-backend/internal/models"
)

type PlacesClient struct {
	c *Client
}

func (c *Client) Places() *PlacesClient {
	return &PlacesClient{c: c}
}

// SearchNearby finds businesses around the agent's position. Radius in
// meters; zero lets the server apply its default.
func (p *PlacesClient) SearchNearby(ctx context.Context, lat, lng float64, radius int, keyword string) ([]models.Business, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	if radius > 0 {
		query.Set("radius", strconv.Itoa(radius))
	}
	if keyword != "" {
		query.Set("keyword", keyword)
	}

	var out struct {
		Businesses []models.Business `json:"businesses"`
	}
	if err := p.c.do(ctx, http.MethodGet, "/v1/places/search", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Businesses, nil
}

// SocialMedia is the best-effort platform link lookup. An error here is
// degraded to an empty map by the caller, never shown to the user.
func (p *PlacesClient) SocialMedia(ctx context.Context, businessName, address, placeID string, verify bool) (models.SocialMediaLinks, error) {
	query := url.Values{}
	query.Set("businessName", businessName)
	if address != "" {
		query.Set("address", address)
	}
	if placeID != "" {
		query.Set("placeId", placeID)
	}
	if verify {
		query.Set("verify", "true")
	}

	var out struct {
		SocialMedia models.SocialMediaLinks `json:"socialMedia"`
	}
	if err := p.c.do(ctx, http.MethodGet, "/v1/places/social-media", query, nil, &out); err != nil {
		return nil, err
	}
	return out.SocialMedia, nil
}
