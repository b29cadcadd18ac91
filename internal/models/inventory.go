// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserInventory is the server-owned per-user aggregate of programmed, sold
// and failed units per sign type. The mobile client reads it; it never
// computes or adjusts counts locally.
type UserInventory struct {
	BaseModel
	UserID             uuid.UUID       `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_sign"`
	SignTypeID         uuid.UUID       `json:"signTypeId" gorm:"type:uuid;not null;uniqueIndex:idx_user_sign"`
	SignTypeName       string          `json:"signTypeName,omitempty" gorm:"size:255"`
	QuantityProgrammed int             `json:"quantityProgrammed" gorm:"default:0"`
	QuantitySold       int             `json:"quantitySold" gorm:"default:0"`
	QuantityFailed     int             `json:"quantityFailed" gorm:"default:0"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue" gorm:"type:decimal(12,2);default:0"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}
