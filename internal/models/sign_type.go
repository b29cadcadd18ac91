// internal/models/sign_type.go
package models

import "github.com/shopspring/decimal"

// SignType is the legacy catalog concept for a programmable sign product.
// Only active sign types are offered to agents.
type SignType struct {
	BaseModel
	Name         string          `json:"name" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	DefaultPrice decimal.Decimal `json:"defaultPrice" gorm:"type:decimal(10,2);not null"`
	IsActive     bool            `json:"isActive" gorm:"default:true;index"`
	ImageURL     string          `json:"imageUrl,omitempty" gorm:"size:512"`
}
