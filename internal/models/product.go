// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog item the agent sells in the field. Every product
// owns an ordered, non-empty list of variants; the mobile client defaults
// to the first one.
type Product struct {
	BaseModel
	Name        string           `json:"name" gorm:"size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	BasePrice   decimal.Decimal  `json:"basePrice" gorm:"type:decimal(10,2);not null"`
	RRP         *decimal.Decimal `json:"rrp,omitempty" gorm:"type:decimal(10,2)"`
	SKU         string           `json:"sku,omitempty" gorm:"size:64;index"`
	Images      pq.StringArray   `json:"images" gorm:"type:text[]"`
	GroupType   string           `json:"groupType" gorm:"size:50;index"`
	IsActive    bool             `json:"isActive" gorm:"default:true;index"`

	Variants []ProductVariant `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type ProductVariant struct {
	BaseModel
	ProductID   uuid.UUID        `json:"productId" gorm:"type:uuid;not null;index"`
	Label       string           `json:"label" gorm:"size:100;not null"`
	Description string           `json:"description,omitempty" gorm:"type:text"`
	PriceDelta  *decimal.Decimal `json:"priceDelta,omitempty" gorm:"type:decimal(10,2)"`
	Position    int              `json:"position" gorm:"not null;default:0"`
}

// DefaultVariant is variants[0] in display order.
func (p *Product) DefaultVariant() *ProductVariant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}
