// internal/field/apiclient/transactions.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tapreview/tapreview-backend/internal/models"
)

// TransactionsClient is the ledger contract: create a pending record at
// write time, then move it exactly once to success, failed, or erased.
type TransactionsClient struct {
	c *Client
}

func (c *Client) Transactions() *TransactionsClient {
	return &TransactionsClient{c: c}
}

// TransactionDraft is the pending record posted after a successful tag
// write: the full business and product snapshot.
type TransactionDraft struct {
	SignTypeID      string  `json:"signTypeId,omitempty"`
	SignTypeName    string  `json:"signTypeName,omitempty"`
	ProductID       string  `json:"productId,omitempty"`
	VariantLabel    string  `json:"variantLabel,omitempty"`
	BusinessName    string  `json:"businessName"`
	BusinessAddress string  `json:"businessAddress,omitempty"`
	PlaceID         string  `json:"placeId,omitempty"`
	ReviewURL       string  `json:"reviewUrl"`
	LocationLat     float64 `json:"locationLat,omitempty"`
	LocationLng     float64 `json:"locationLng,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// TransactionPatch is a partial update. SalePrice travels as a string so
// the amount survives JSON without float rounding.
type TransactionPatch struct {
	Status    models.TransactionStatus `json:"status,omitempty"`
	SalePrice *string                  `json:"salePrice,omitempty"`
	Notes     *string                  `json:"notes,omitempty"`
}

type ListFilters struct {
	Status     models.TransactionStatus
	SignTypeID string
	Page       int
	Limit      int
}

func (t *TransactionsClient) Create(ctx context.Context, draft *TransactionDraft) (*models.SaleTransaction, error) {
	var out struct {
		Transaction *models.SaleTransaction `json:"transaction"`
	}
	if err := t.c.do(ctx, http.MethodPost, "/v1/transactions", nil, draft, &out); err != nil {
		return nil, err
	}
	return out.Transaction, nil
}

func (t *TransactionsClient) Update(ctx context.Context, id string, patch *TransactionPatch) (*models.SaleTransaction, error) {
	var out struct {
		Transaction *models.SaleTransaction `json:"transaction"`
	}
	if err := t.c.do(ctx, http.MethodPut, "/v1/transactions/"+id, nil, patch, &out); err != nil {
		return nil, err
	}
	return out.Transaction, nil
}

func (t *TransactionsClient) List(ctx context.Context, filters ListFilters) ([]models.SaleTransaction, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", string(filters.Status))
	}
	if filters.SignTypeID != "" {
		query.Set("signTypeId", filters.SignTypeID)
	}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}

	var out []models.SaleTransaction
	if err := t.c.do(ctx, http.MethodGet, "/v1/transactions", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSuccess resolves a pending record as a sale at price.
func (t *TransactionsClient) MarkSuccess(ctx context.Context, id string, price decimal.Decimal, notes string) (*models.SaleTransaction, error) {
	priceStr := price.StringFixed(2)
	patch := &TransactionPatch{
		Status:    models.TransactionStatusSuccess,
		SalePrice: &priceStr,
	}
	if notes != "" {
		patch.Notes = &notes
	}
	return t.Update(ctx, id, patch)
}

// MarkFailed resolves a pending record as a botched write.
func (t *TransactionsClient) MarkFailed(ctx context.Context, id string, notes string) (*models.SaleTransaction, error) {
	patch := &TransactionPatch{Status: models.TransactionStatusFailed}
	if notes != "" {
		patch.Notes = &notes
	}
	return t.Update(ctx, id, patch)
}

// MarkErased records that the physical tag was wiped after a failure.
func (t *TransactionsClient) MarkErased(ctx context.Context, id string) (*models.SaleTransaction, error) {
	return t.Update(ctx, id, &TransactionPatch{Status: models.TransactionStatusErased})
}
