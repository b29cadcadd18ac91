package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to TransactionStatus
		allowed  bool
	}{
		{TransactionStatusPending, TransactionStatusSuccess, true},
		{TransactionStatusPending, TransactionStatusFailed, true},
		{TransactionStatusPending, TransactionStatusErased, true},
		{TransactionStatusPending, TransactionStatusPending, false},
		{TransactionStatusFailed, TransactionStatusErased, true},
		{TransactionStatusFailed, TransactionStatusSuccess, false},
		{TransactionStatusSuccess, TransactionStatusFailed, false},
		{TransactionStatusSuccess, TransactionStatusErased, false},
		{TransactionStatusErased, TransactionStatusSuccess, false},
		{TransactionStatusPending, TransactionStatus("bogus"), false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidateStatusFields(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	negative := decimal.RequireFromString("-1")
	now := time.Now()

	t.Run("success requires a non-negative price", func(t *testing.T) {
		tx := &SaleTransaction{Status: TransactionStatusSuccess}
		assert.ErrorIs(t, tx.ValidateStatusFields(), ErrPriceRequired)

		tx.SalePrice = &negative
		assert.ErrorIs(t, tx.ValidateStatusFields(), ErrPriceNegative)

		tx.SalePrice = &price
		assert.NoError(t, tx.ValidateStatusFields())
	})

	t.Run("price is rejected on non-success statuses", func(t *testing.T) {
		for _, status := range []TransactionStatus{
			TransactionStatusPending, TransactionStatusFailed,
		} {
			tx := &SaleTransaction{Status: status, SalePrice: &price}
			assert.ErrorIs(t, tx.ValidateStatusFields(), ErrPriceForbidden, string(status))
		}
	})

	t.Run("erasedAt is tied to the erased status", func(t *testing.T) {
		tx := &SaleTransaction{Status: TransactionStatusErased}
		assert.Error(t, tx.ValidateStatusFields())

		tx.ErasedAt = &now
		assert.NoError(t, tx.ValidateStatusFields())

		tx = &SaleTransaction{Status: TransactionStatusFailed, ErasedAt: &now}
		assert.Error(t, tx.ValidateStatusFields())
	})
}

func TestDefaultVariant(t *testing.T) {
	p := &Product{}
	assert.Nil(t, p.DefaultVariant())

	p.Variants = []ProductVariant{{Label: "Small"}, {Label: "Large"}}
	assert.Equal(t, "Small", p.DefaultVariant().Label)
}
