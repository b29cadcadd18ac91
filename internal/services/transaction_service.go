// internal/services/transaction_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/database"
	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// TransactionService owns the sale-transaction ledger. Records enter as
// pending at tag-write time and move exactly once to a terminal status;
// the inventory aggregate is updated inside the same database transaction.
type TransactionService struct {
	db               *gorm.DB
	inventoryService *InventoryService
}

type CreateTransactionRequest struct {
	SignTypeID      *uuid.UUID `json:"signTypeId"`
	SignTypeName    string     `json:"signTypeName,omitempty"`
	ProductID       *uuid.UUID `json:"productId,omitempty"`
	VariantLabel    string     `json:"variantLabel,omitempty"`
	BusinessName    string     `json:"businessName" validate:"required"`
	BusinessAddress string     `json:"businessAddress"`
	PlaceID         string     `json:"placeId"`
	ReviewURL       string     `json:"reviewUrl" validate:"required,url"`
	LocationLat     float64    `json:"locationLat"`
	LocationLng     float64    `json:"locationLng"`
	Notes           string     `json:"notes,omitempty"`
}

// UpdateTransactionRequest carries a partial update. SalePrice travels as a
// string so the amount survives JSON without float rounding; it is only
// legal together with a transition to success. ErasedAt is stamped by the
// server, never accepted from the client.
type UpdateTransactionRequest struct {
	Status    models.TransactionStatus `json:"status,omitempty"`
	SalePrice *string                  `json:"salePrice,omitempty" validate:"omitempty,sale_price"`
	Notes     *string                  `json:"notes,omitempty"`
}

type TransactionFilters struct {
	utils.PaginationParams
	UserID     *uuid.UUID
	SignTypeID *uuid.UUID
	Status     *models.TransactionStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotTransactionOwner = errors.New("transaction belongs to another user")
)

func NewTransactionService(db *gorm.DB, inventoryService *InventoryService) *TransactionService {
	return &TransactionService{
		db:               db,
		inventoryService: inventoryService,
	}
}

// Create records a fresh tag-programming attempt. Status is forced to
// pending regardless of the request; programmedAt is stamped server-side.
func (s *TransactionService) Create(userID uuid.UUID, req *CreateTransactionRequest) (*models.SaleTransaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx := &models.SaleTransaction{
		UserID:          userID,
		SignTypeID:      req.SignTypeID,
		SignTypeName:    req.SignTypeName,
		ProductID:       req.ProductID,
		VariantLabel:    req.VariantLabel,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		PlaceID:         req.PlaceID,
		ReviewURL:       req.ReviewURL,
		Status:          models.TransactionStatusPending,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		Notes:           req.Notes,
		ProgrammedAt:    time.Now(),
	}

	if req.SignTypeID != nil && req.SignTypeName == "" {
		var signType models.SignType
		if err := s.db.First(&signType, "id = ?", req.SignTypeID).Error; err == nil {
			tx.SignTypeName = signType.Name
		}
	}

	err := database.WithTransaction(s.db, func(dbtx *gorm.DB) error {
		if err := dbtx.Create(tx).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return s.inventoryService.recordProgrammed(dbtx, tx)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": tx.ID,
		"user_id":        userID,
		"place_id":       tx.PlaceID,
	}).Info("Sale transaction created as pending")

	return tx, nil
}

// Update applies a partial update. Status changes are validated against the
// one-way lifecycle; the salePrice/erasedAt invariants are re-checked before
// anything is written.
func (s *TransactionService) Update(id, userID uuid.UUID, isAdmin bool, req *UpdateTransactionRequest) (*models.SaleTransaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var tx models.SaleTransaction
	if err := s.db.First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && tx.UserID != userID {
		return nil, ErrNotTransactionOwner
	}

	previousStatus := tx.Status

	if req.Status != "" && req.Status != tx.Status {
		if !tx.Status.CanTransitionTo(req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, tx.Status, req.Status)
		}
		tx.Status = req.Status
		if req.Status == models.TransactionStatusErased {
			now := time.Now()
			tx.ErasedAt = &now
		}
	}

	if req.SalePrice != nil {
		price, err := decimal.NewFromString(*req.SalePrice)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", models.ErrPriceInvalid, *req.SalePrice)
		}
		tx.SalePrice = &price
	}

	if req.Notes != nil {
		tx.Notes = *req.Notes
	}

	if err := tx.ValidateStatusFields(); err != nil {
		return nil, err
	}

	err := database.WithTransaction(s.db, func(dbtx *gorm.DB) error {
		if err := dbtx.Save(&tx).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if previousStatus != tx.Status {
			return s.inventoryService.recordTransition(dbtx, &tx, previousStatus)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": tx.ID,
		"from":           previousStatus,
		"to":             tx.Status,
	}).Info("Sale transaction updated")

	return &tx, nil
}

// Convenience wrappers mirroring the mobile client's ledger calls.

func (s *TransactionService) MarkSuccess(id, userID uuid.UUID, isAdmin bool, salePrice string, notes string) (*models.SaleTransaction, error) {
	req := &UpdateTransactionRequest{
		Status:    models.TransactionStatusSuccess,
		SalePrice: &salePrice,
	}
	if notes != "" {
		req.Notes = &notes
	}
	return s.Update(id, userID, isAdmin, req)
}

func (s *TransactionService) MarkFailed(id, userID uuid.UUID, isAdmin bool, notes string) (*models.SaleTransaction, error) {
	req := &UpdateTransactionRequest{Status: models.TransactionStatusFailed}
	if notes != "" {
		req.Notes = &notes
	}
	return s.Update(id, userID, isAdmin, req)
}

func (s *TransactionService) MarkErased(id, userID uuid.UUID, isAdmin bool) (*models.SaleTransaction, error) {
	return s.Update(id, userID, isAdmin, &UpdateTransactionRequest{
		Status: models.TransactionStatusErased,
	})
}

func (s *TransactionService) Get(id uuid.UUID) (*models.SaleTransaction, error) {
	var tx models.SaleTransaction
	if err := s.db.Preload("SignType").First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &tx, nil
}

// List returns filtered transactions. Abandoned pending records stay
// reachable here indefinitely; nothing expires them.
func (s *TransactionService) List(filters TransactionFilters) ([]models.SaleTransaction, int64, error) {
	query := s.db.Model(&models.SaleTransaction{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.SignTypeID != nil {
		query = query.Where("sign_type_id = ?", filters.SignTypeID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.StartDate != nil {
		query = query.Where("programmed_at >= ?", filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("programmed_at <= ?", filters.EndDate)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("business_name ILIKE ? OR business_address ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "programmed_at", "sale_price", "status", "business_name"}
	query = utils.ApplySort(query, filters.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filters.PaginationParams)

	var transactions []models.SaleTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}
