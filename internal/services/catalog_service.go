// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// CatalogService serves the purchasable catalog: products with variants for
// the mobile selection screen, and the legacy sign-type list. Agents only
// ever see active entries.
type CatalogService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=2,max=255"`
	Description string                 `json:"description"`
	BasePrice   string                 `json:"basePrice" validate:"required,sale_price"`
	RRP         *string                `json:"rrp,omitempty" validate:"omitempty,sale_price"`
	SKU         string                 `json:"sku,omitempty"`
	Images      []string               `json:"images,omitempty"`
	GroupType   string                 `json:"groupType,omitempty"`
	Variants    []CreateVariantRequest `json:"variants" validate:"required,min=1,dive"`
}

type CreateVariantRequest struct {
	Label       string  `json:"label" validate:"required,min=1,max=100"`
	Description string  `json:"description,omitempty"`
	PriceDelta  *string `json:"priceDelta,omitempty" validate:"omitempty,sale_price"`
}

type SignTypeRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Description  string `json:"description"`
	DefaultPrice string `json:"defaultPrice" validate:"required,sale_price"`
	IsActive     *bool  `json:"isActive,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSignTypeNotFound = errors.New("sign type not found")
	ErrNoVariants       = errors.New("a product needs at least one variant")
)

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListMobileProducts returns the active catalog with variants in display
// order. Products that somehow lost all their variants are filtered out so
// the client's variants[0] default always holds.
func (s *CatalogService) ListMobileProducts() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("is_active = ?", true).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	withVariants := products[:0]
	for _, p := range products {
		if len(p.Variants) > 0 {
			withVariants = append(withVariants, p)
		}
	}
	return withVariants, nil
}

func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if len(req.Variants) == 0 {
		return nil, ErrNoVariants
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid base price: %w", err)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   basePrice,
		SKU:         req.SKU,
		Images:      pq.StringArray(req.Images),
		GroupType:   req.GroupType,
		IsActive:    true,
	}

	if req.RRP != nil {
		rrp, err := decimal.NewFromString(*req.RRP)
		if err != nil {
			return nil, fmt.Errorf("invalid rrp: %w", err)
		}
		product.RRP = &rrp
	}

	for i, v := range req.Variants {
		variant := models.ProductVariant{
			Label:       v.Label,
			Description: v.Description,
			Position:    i,
		}
		if v.PriceDelta != nil {
			delta, err := decimal.NewFromString(*v.PriceDelta)
			if err != nil {
				return nil, fmt.Errorf("invalid price delta: %w", err)
			}
			variant.PriceDelta = &delta
		}
		product.Variants = append(product.Variants, variant)
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// ListSignTypes returns the legacy sign-type catalog. Non-admin callers
// only receive active entries.
func (s *CatalogService) ListSignTypes(includeInactive bool) ([]models.SignType, error) {
	query := s.db.Model(&models.SignType{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var signTypes []models.SignType
	if err := query.Order("name asc").Find(&signTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sign types: %w", err)
	}
	return signTypes, nil
}

func (s *CatalogService) CreateSignType(req *SignTypeRequest) (*models.SignType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	price, err := decimal.NewFromString(req.DefaultPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid default price: %w", err)
	}

	signType := &models.SignType{
		Name:         req.Name,
		Description:  req.Description,
		DefaultPrice: price,
		IsActive:     true,
		ImageURL:     req.ImageURL,
	}
	if req.IsActive != nil {
		signType.IsActive = *req.IsActive
	}

	if err := s.db.Create(signType).Error; err != nil {
		return nil, fmt.Errorf("failed to create sign type: %w", err)
	}
	return signType, nil
}

func (s *CatalogService) UpdateSignType(id uuid.UUID, req *SignTypeRequest) (*models.SignType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var signType models.SignType
	if err := s.db.First(&signType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignTypeNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	price, err := decimal.NewFromString(req.DefaultPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid default price: %w", err)
	}

	signType.Name = req.Name
	signType.Description = req.Description
	signType.DefaultPrice = price
	signType.ImageURL = req.ImageURL
	if req.IsActive != nil {
		signType.IsActive = *req.IsActive
	}

	if err := s.db.Save(&signType).Error; err != nil {
		return nil, fmt.Errorf("failed to update sign type: %w", err)
	}
	return &signType, nil
}

func (s *CatalogService) DeleteSignType(id uuid.UUID) error {
	result := s.db.Delete(&models.SignType{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete sign type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSignTypeNotFound
	}
	return nil
}
