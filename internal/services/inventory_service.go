// internal/services/inventory_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/models"
)

// InventoryService keeps the server-owned per-user aggregate of programmed,
// sold and failed units. The mobile client only ever reads it; every count
// change happens here, inside the same database transaction that moves the
// sale record.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) GetForUser(userID uuid.UUID) ([]models.UserInventory, error) {
	var rows []models.UserInventory
	if err := s.db.Where("user_id = ?", userID).
		Order("sign_type_name asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	return rows, nil
}

// recordProgrammed bumps the programmed count when a pending transaction is
// created. Runs inside the caller's database transaction.
func (s *InventoryService) recordProgrammed(dbtx *gorm.DB, tx *models.SaleTransaction) error {
	if tx.SignTypeID == nil {
		return nil
	}

	row, err := s.lockRow(dbtx, tx.UserID, *tx.SignTypeID, tx.SignTypeName)
	if err != nil {
		return err
	}

	row.QuantityProgrammed++
	row.LastUpdated = time.Now()
	return dbtx.Save(row).Error
}

// recordTransition reconciles the aggregate when a transaction reaches a
// terminal status. An erase of a failed tag takes the unit back out of the
// failed count.
func (s *InventoryService) recordTransition(dbtx *gorm.DB, tx *models.SaleTransaction, from models.TransactionStatus) error {
	if tx.SignTypeID == nil {
		return nil
	}

	row, err := s.lockRow(dbtx, tx.UserID, *tx.SignTypeID, tx.SignTypeName)
	if err != nil {
		return err
	}

	switch {
	case tx.Status == models.TransactionStatusSuccess:
		row.QuantitySold++
		if tx.SalePrice != nil {
			row.TotalRevenue = row.TotalRevenue.Add(*tx.SalePrice)
		}
	case tx.Status == models.TransactionStatusFailed:
		row.QuantityFailed++
	case tx.Status == models.TransactionStatusErased && from == models.TransactionStatusFailed:
		if row.QuantityFailed > 0 {
			row.QuantityFailed--
		}
	}

	row.LastUpdated = time.Now()
	return dbtx.Save(row).Error
}

func (s *InventoryService) lockRow(dbtx *gorm.DB, userID, signTypeID uuid.UUID, signTypeName string) (*models.UserInventory, error) {
	var row models.UserInventory
	err := dbtx.Where("user_id = ? AND sign_type_id = ?", userID, signTypeID).
		FirstOrCreate(&row, models.UserInventory{
			UserID:       userID,
			SignTypeID:   signTypeID,
			SignTypeName: signTypeName,
			LastUpdated:  time.Now(),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory row: %w", err)
	}
	if row.SignTypeName == "" && signTypeName != "" {
		row.SignTypeName = signTypeName
	}
	return &row, nil
}
