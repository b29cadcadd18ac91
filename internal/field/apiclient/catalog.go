// internal/field/apiclient/catalog.go
package apiclient

import (
	"context"
	"net/http"

	"github.com/tapreview/tapreview-backend/internal/models"
)

type CatalogClient struct {
	c *Client
}

func (c *Client) Catalog() *CatalogClient {
	return &CatalogClient{c: c}
}

// MobileProducts returns the active catalog with variants in display
// order. Every product has at least one variant.
func (cc *CatalogClient) MobileProducts(ctx context.Context) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := cc.c.do(ctx, http.MethodGet, "/v1/mobile/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// SignTypes returns the active legacy sign-type catalog.
func (cc *CatalogClient) SignTypes(ctx context.Context) ([]models.SignType, error) {
	var out struct {
		SignTypes []models.SignType `json:"signTypes"`
	}
	if err := cc.c.do(ctx, http.MethodGet, "/v1/sign-types", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.SignTypes, nil
}

// LogTagWrite posts the legacy nfc-tags write-log row.
func (cc *CatalogClient) LogTagWrite(ctx context.Context, entry *TagWriteLog) (string, error) {
	var out struct {
		Tag struct {
			ID string `json:"id"`
		} `json:"tag"`
	}
	if err := cc.c.do(ctx, http.MethodPost, "/v1/nfc-tags", nil, entry, &out); err != nil {
		return "", err
	}
	return out.Tag.ID, nil
}

// VerifyTagWrite stamps a logged write after the read-back check passed.
func (cc *CatalogClient) VerifyTagWrite(ctx context.Context, tagID string) error {
	body := map[string]string{"tagId": tagID}
	return cc.c.do(ctx, http.MethodPost, "/v1/nfc-tags/verify", nil, body, nil)
}

type TagWriteLog struct {
	WrittenBy       string  `json:"writtenBy,omitempty"`
	BusinessName    string  `json:"businessName"`
	BusinessAddress string  `json:"businessAddress,omitempty"`
	PlaceID         string  `json:"placeId,omitempty"`
	ReviewURL       string  `json:"reviewUrl"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
}
