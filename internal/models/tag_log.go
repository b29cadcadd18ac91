// internal/models/tag_log.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// TagLog is the legacy write-log row kept by POST /nfc-tags. Superseded by
// SaleTransaction for reconciliation, but the mobile client still posts it
// on every physical write, so the endpoint stays.
type TagLog struct {
	BaseModel
	UserID          *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	WrittenBy       string     `json:"writtenBy" gorm:"size:255"`
	BusinessName    string     `json:"businessName" gorm:"size:255;not null"`
	BusinessAddress string     `json:"businessAddress" gorm:"size:512"`
	PlaceID         string     `json:"placeId" gorm:"size:128;index"`
	ReviewURL       string     `json:"reviewUrl" gorm:"size:1024;not null"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
}
