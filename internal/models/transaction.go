// internal/models/transaction.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleTransaction is the unit of record for one tag-programming attempt.
// The business fields are denormalized at write time so the record stays
// meaningful even if the place later disappears from the search index.
//
// Invariants: SalePrice is set iff status is success; ErasedAt is set iff
// status is erased.
type SaleTransaction struct {
	BaseModel
	UserID          uuid.UUID         `json:"userId" gorm:"type:uuid;not null;index"`
	SignTypeID      *uuid.UUID        `json:"signTypeId" gorm:"type:uuid;index"`
	SignTypeName    string            `json:"signTypeName,omitempty" gorm:"size:255"`
	ProductID       *uuid.UUID        `json:"productId,omitempty" gorm:"type:uuid;index"`
	VariantLabel    string            `json:"variantLabel,omitempty" gorm:"size:100"`
	BusinessName    string            `json:"businessName" gorm:"size:255;not null"`
	BusinessAddress string            `json:"businessAddress" gorm:"size:512"`
	PlaceID         string            `json:"placeId" gorm:"size:128;index"`
	ReviewURL       string            `json:"reviewUrl" gorm:"size:1024;not null"`
	Status          TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	SalePrice       *decimal.Decimal  `json:"salePrice,omitempty" gorm:"type:decimal(10,2)"`
	LocationLat     float64           `json:"locationLat"`
	LocationLng     float64           `json:"locationLng"`
	Notes           string            `json:"notes,omitempty" gorm:"type:text"`
	ProgrammedAt    time.Time         `json:"programmedAt" gorm:"not null;index"`
	ErasedAt        *time.Time        `json:"erasedAt,omitempty"`

	// Relationships
	User     User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SignType *SignType `json:"signType,omitempty" gorm:"foreignKey:SignTypeID"`
}

var (
	ErrInvalidTransition = errors.New("invalid transaction status transition")
	ErrPriceRequired     = errors.New("sale price is required for a successful sale")
	ErrPriceInvalid      = errors.New("sale price is not a valid amount")
	ErrPriceNegative     = errors.New("sale price must not be negative")
	ErrPriceForbidden    = errors.New("sale price is only valid on a successful sale")
)

// ValidateStatusFields checks the price/erasure invariants for the record's
// current status.
func (t *SaleTransaction) ValidateStatusFields() error {
	switch t.Status {
	case TransactionStatusSuccess:
		if t.SalePrice == nil {
			return ErrPriceRequired
		}
		if t.SalePrice.IsNegative() {
			return ErrPriceNegative
		}
	default:
		if t.SalePrice != nil {
			return ErrPriceForbidden
		}
	}
	if (t.ErasedAt != nil) != (t.Status == TransactionStatusErased) {
		return errors.New("erasedAt must be set exactly when status is erased")
	}
	return nil
}
