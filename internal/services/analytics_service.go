// internal/services/analytics_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// AnalyticsService computes sales reporting for the admin dashboard and
// manages the user roster. All aggregates are computed server side so the
// mobile client never has to.
type AnalyticsService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalAgents        int64           `json:"totalAgents"`
	ActiveAgents       int64           `json:"activeAgents"`
	TagsProgrammed     int64           `json:"tagsProgrammed"`
	TagsSold           int64           `json:"tagsSold"`
	TagsFailed         int64           `json:"tagsFailed"`
	TagsErased         int64           `json:"tagsErased"`
	PendingCount       int64           `json:"pendingCount"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	MonthlyRevenue     decimal.Decimal `json:"monthlyRevenue"`
	RevenueGrowth      float64         `json:"revenueGrowth"`
	ConversionRate     float64         `json:"conversionRate"`
	AverageSalePrice   decimal.Decimal `json:"averageSalePrice"`
	SalesThisMonth     int64           `json:"salesThisMonth"`
	NewAgentsThisMonth int64           `json:"newAgentsThisMonth"`
}

type SalesTrendPoint struct {
	Date    string          `json:"date"`
	Sold    int64           `json:"sold"`
	Failed  int64           `json:"failed"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SignPopularity struct {
	SignTypeID   uuid.UUID       `json:"signTypeId"`
	SignTypeName string          `json:"signTypeName"`
	SoldCount    int64           `json:"soldCount"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type AgentLeaderboardEntry struct {
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	SoldCount int64           `json:"soldCount"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type UserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole   `json:"role,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"createdAfter,omitempty"`
	CreatedBefore *time.Time         `json:"createdBefore,omitempty"`
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Dashboard Statistics
func (s *AnalyticsService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// Agent statistics
	s.db.Model(&models.User{}).Count(&stats.TotalAgents)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveAgents)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewAgentsThisMonth)

	// Tag statistics
	s.db.Model(&models.SaleTransaction{}).Count(&stats.TagsProgrammed)
	s.db.Model(&models.SaleTransaction{}).
		Where("status = ?", models.TransactionStatusSuccess).Count(&stats.TagsSold)
	s.db.Model(&models.SaleTransaction{}).
		Where("status = ?", models.TransactionStatusFailed).Count(&stats.TagsFailed)
	s.db.Model(&models.SaleTransaction{}).
		Where("status = ?", models.TransactionStatusErased).Count(&stats.TagsErased)
	s.db.Model(&models.SaleTransaction{}).
		Where("status = ?", models.TransactionStatusPending).Count(&stats.PendingCount)

	// Revenue statistics
	s.db.Model(&models.SaleTransaction{}).
		Where("status = ?", models.TransactionStatusSuccess).
		Select("COALESCE(SUM(sale_price), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.SaleTransaction{}).
		Where("status = ? AND updated_at >= ?", models.TransactionStatusSuccess, monthStart).
		Select("COALESCE(SUM(sale_price), 0)").Scan(&stats.MonthlyRevenue)

	s.db.Model(&models.SaleTransaction{}).
		Where("status = ? AND updated_at >= ?", models.TransactionStatusSuccess, monthStart).
		Count(&stats.SalesThisMonth)

	// Derived rates
	if stats.TagsProgrammed > 0 {
		stats.ConversionRate = float64(stats.TagsSold) / float64(stats.TagsProgrammed) * 100
	}
	if stats.TagsSold > 0 {
		stats.AverageSalePrice = stats.TotalRevenue.Div(decimal.NewFromInt(stats.TagsSold)).Round(2)
	}

	var lastMonthRevenue decimal.Decimal
	s.db.Model(&models.SaleTransaction{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?",
			models.TransactionStatusSuccess, lastMonthStart, monthStart).
		Select("COALESCE(SUM(sale_price), 0)").Scan(&lastMonthRevenue)

	if lastMonthRevenue.IsPositive() {
		growth, _ := stats.MonthlyRevenue.Sub(lastMonthRevenue).
			Div(lastMonthRevenue).Mul(decimal.NewFromInt(100)).Float64()
		stats.RevenueGrowth = growth
	}

	return stats, nil
}

// GetSalesTrend returns daily sold/failed counts and revenue over the last
// N days, padded so every day appears even with no activity.
func (s *AnalyticsService) GetSalesTrend(days int) ([]SalesTrendPoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	type row struct {
		Day     time.Time
		Status  models.TransactionStatus
		Count   int64
		Revenue decimal.Decimal
	}

	var rows []row
	err := s.db.Model(&models.SaleTransaction{}).
		Select("DATE_TRUNC('day', updated_at) AS day, status, COUNT(*) AS count, COALESCE(SUM(sale_price), 0) AS revenue").
		Where("updated_at >= ? AND status IN ?", start,
			[]models.TransactionStatus{models.TransactionStatusSuccess, models.TransactionStatusFailed}).
		Group("day, status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales trend: %w", err)
	}

	byDay := make(map[string]*SalesTrendPoint, days)
	points := make([]SalesTrendPoint, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = SalesTrendPoint{Date: date}
		byDay[date] = &points[i]
	}

	for _, r := range rows {
		p, ok := byDay[r.Day.Format("2006-01-02")]
		if !ok {
			continue
		}
		switch r.Status {
		case models.TransactionStatusSuccess:
			p.Sold = r.Count
			p.Revenue = r.Revenue
		case models.TransactionStatusFailed:
			p.Failed = r.Count
		}
	}

	return points, nil
}

// GetSignPopularity ranks sign types by completed sales.
func (s *AnalyticsService) GetSignPopularity(limit int) ([]SignPopularity, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var results []SignPopularity
	err := s.db.Model(&models.SaleTransaction{}).
		Select("sign_type_id, sign_type_name, COUNT(*) AS sold_count, COALESCE(SUM(sale_price), 0) AS revenue").
		Where("status = ?", models.TransactionStatusSuccess).
		Group("sign_type_id, sign_type_name").
		Order("sold_count DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sign popularity: %w", err)
	}
	return results, nil
}

// GetTopAgents ranks agents by revenue from completed sales.
func (s *AnalyticsService) GetTopAgents(limit int) ([]AgentLeaderboardEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var results []AgentLeaderboardEntry
	err := s.db.Model(&models.SaleTransaction{}).
		Select("sale_transactions.user_id, users.name, users.email, COUNT(*) AS sold_count, COALESCE(SUM(sale_price), 0) AS revenue").
		Joins("JOIN users ON users.id = sale_transactions.user_id").
		Where("sale_transactions.status = ?", models.TransactionStatusSuccess).
		Group("sale_transactions.user_id, users.name, users.email").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent leaderboard: %w", err)
	}
	return results, nil
}

// User Management
func (s *AnalyticsService) GetUsers(filter UserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	// Apply filters
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "name", "email", "role", "status", "last_login_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AnalyticsService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Admins cannot suspend other admins
	if user.Role == models.UserRoleAdmin && user.ID != adminID {
		return errors.New("cannot modify another admin's status")
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"from": oldStatus, "to": status, "reason": reason})

	return nil
}

func (s *AnalyticsService) UpdateUserRole(userID uuid.UUID, role models.UserRole, adminID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	oldRole := user.Role
	user.Role = role

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_ROLE", "user", &userID,
		map[string]interface{}{"from": oldRole, "to": role})

	return nil
}

func (s *AnalyticsService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
