// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleUser    UserRole = "user"
	UserRoleManager UserRole = "manager"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// TransactionStatus is the lifecycle of a single tag-programming attempt.
// A record is created as pending at write time and moves exactly once to a
// terminal status; a failed tag may later be erased.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
	TransactionStatusErased  TransactionStatus = "erased"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess,
		TransactionStatusFailed, TransactionStatusErased:
		return true
	}
	return false
}

func (s TransactionStatus) Terminal() bool {
	return s != TransactionStatusPending && s.Valid()
}

// CanTransitionTo enforces the one-way lifecycle:
// pending -> success | failed | erased, and failed -> erased.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case TransactionStatusPending:
		return next != TransactionStatusPending
	case TransactionStatusFailed:
		return next == TransactionStatusErased
	}
	return false
}
