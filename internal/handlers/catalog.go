// internal/handlers/catalog.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapreview/tapreview-backend/internal/i18n"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /mobile/products
func (h *CatalogHandler) ListMobileProducts(c *gin.Context) {
	products, err := h.catalogService.ListMobileProducts()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// POST /products (admin)
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	product, err := h.catalogService.GetProduct(productID)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// GET /sign-types
func (h *CatalogHandler) ListSignTypes(c *gin.Context) {
	includeInactive := isAdmin(c) && c.DefaultQuery("includeInactive", "false") == "true"

	signTypes, err := h.catalogService.ListSignTypes(includeInactive)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"signTypes": signTypes,
		"count":     len(signTypes),
	})
}

// POST /sign-types (admin)
func (h *CatalogHandler) CreateSignType(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SignTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	signType, err := h.catalogService.CreateSignType(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySignTypeCreated),
		"signType": signType,
	})
}

// PUT /sign-types/:id (admin)
func (h *CatalogHandler) UpdateSignType(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	signTypeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	var req services.SignTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	signType, err := h.catalogService.UpdateSignType(signTypeID, &req)
	if err != nil {
		if errors.Is(err, services.ErrSignTypeNotFound) {
			utils.NotFoundResponse(c, "sign_type")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySignTypeUpdated),
		"signType": signType,
	})
}

// DELETE /sign-types/:id (admin)
func (h *CatalogHandler) DeleteSignType(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	signTypeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	if err := h.catalogService.DeleteSignType(signTypeID); err != nil {
		if errors.Is(err, services.ErrSignTypeNotFound) {
			utils.NotFoundResponse(c, "sign_type")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySignTypeDeleted),
	})
}
