// internal/field/apiclient/client_test.go
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapreview/tapreview-backend/internal/models"
)

type failingTokens struct{}

func (failingTokens) Token() (string, error) { return "", errors.New("not logged in") }

func TestCreateSendsBearerAndDecodesEnvelope(t *testing.T) {
	var gotAuth string
	var gotBody TransactionDraft

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"transaction": map[string]interface{}{
					"businessName": gotBody.BusinessName,
					"reviewUrl":    gotBody.ReviewURL,
					"status":       "pending",
				},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("tok-123"))

	tx, err := client.Transactions().Create(context.Background(), &TransactionDraft{
		BusinessName: "Corner Cafe",
		PlaceID:      "P1",
		ReviewURL:    "https://g.co/r1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "Corner Cafe", gotBody.BusinessName)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
}

func TestMarkSuccessPatchesPriceAsString(t *testing.T) {
	var gotPatch map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/transactions/tx-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPatch))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"transaction": map[string]interface{}{
					"status":    "success",
					"salePrice": "9.99",
				},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("tok"))

	tx, err := client.Transactions().MarkSuccess(context.Background(), "tx-1",
		decimal.RequireFromString("9.99"), "paid cash")
	require.NoError(t, err)

	assert.Equal(t, "success", gotPatch["status"])
	assert.Equal(t, "9.99", gotPatch["salePrice"])
	assert.Equal(t, "paid cash", gotPatch["notes"])
	require.NotNil(t, tx.SalePrice)
	assert.True(t, tx.SalePrice.Equal(decimal.RequireFromString("9.99")))
}

func TestUnauthorizedIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "UNAUTHORIZED", "message": "token expired"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("stale"))

	_, err := client.Transactions().List(context.Background(), ListFilters{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMissingTokenNeverHitsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := New(srv.URL, failingTokens{})

	_, err := client.Transactions().Create(context.Background(), &TransactionDraft{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called)
}

func TestAPIErrorSurfacesCodeAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "CONFLICT", "message": "invalid status transition"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("tok"))

	_, err := client.Transactions().MarkErased(context.Background(), "tx-9")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestSocialMediaDecodesLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Corner Cafe", r.URL.Query().Get("businessName"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"socialMedia": map[string]interface{}{
					"facebook": map[string]string{
						"profileUrl": "https://www.facebook.com/cornercafe",
						"reviewUrl":  "https://www.facebook.com/cornercafe/reviews",
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("tok"))

	links, err := client.Places().SocialMedia(context.Background(), "Corner Cafe", "", "P1", false)
	require.NoError(t, err)
	assert.Equal(t, "https://www.facebook.com/cornercafe/reviews", links["facebook"].ReviewURL)
}
