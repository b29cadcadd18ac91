// internal/services/tag_log_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// TagLogService keeps the legacy write-log. Every physical tag write is
// posted here independently of the sale record, which gives support a raw
// trail of what was burned onto which tag and where.
type TagLogService struct {
	db *gorm.DB
}

type CreateTagLogRequest struct {
	WrittenBy       string  `json:"writtenBy"`
	BusinessName    string  `json:"businessName" validate:"required,min=1,max=255"`
	BusinessAddress string  `json:"businessAddress,omitempty"`
	PlaceID         string  `json:"placeId,omitempty"`
	ReviewURL       string  `json:"reviewUrl" validate:"required,url"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
}

type TagLogFilters struct {
	utils.PaginationParams
	UserID    *uuid.UUID `json:"userId,omitempty"`
	PlaceID   string     `json:"placeId,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

var ErrTagLogNotFound = errors.New("tag log not found")

func NewTagLogService(db *gorm.DB) *TagLogService {
	return &TagLogService{db: db}
}

func (s *TagLogService) Create(userID *uuid.UUID, req *CreateTagLogRequest) (*models.TagLog, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	log := &models.TagLog{
		UserID:          userID,
		WrittenBy:       req.WrittenBy,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		PlaceID:         req.PlaceID,
		ReviewURL:       req.ReviewURL,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}

	if err := s.db.Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to create tag log: %w", err)
	}

	return log, nil
}

// Verify stamps a log entry after the post-write read-back check. The
// client calls this when rereading the tag returned the URL it just wrote.
func (s *TagLogService) Verify(id uuid.UUID) (*models.TagLog, error) {
	var log models.TagLog
	if err := s.db.First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagLogNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	log.VerifiedAt = &now

	if err := s.db.Save(&log).Error; err != nil {
		return nil, fmt.Errorf("failed to verify tag log: %w", err)
	}

	return &log, nil
}

func (s *TagLogService) List(filters TagLogFilters) ([]models.TagLog, int64, error) {
	query := s.db.Model(&models.TagLog{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.PlaceID != "" {
		query = query.Where("place_id = ?", filters.PlaceID)
	}
	if filters.Search != "" {
		searchTerm := "%" + filters.Search + "%"
		query = query.Where("business_name ILIKE ? OR business_address ILIKE ?", searchTerm, searchTerm)
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("created_at <= ?", filters.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tag logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "business_name", "verified_at"}
	query = utils.ApplySort(query, filters.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filters.PaginationParams)

	var logs []models.TagLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tag logs: %w", err)
	}

	return logs, total, nil
}
