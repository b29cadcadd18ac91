// internal/handlers/nfc_tags.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapreview/tapreview-backend/internal/i18n"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// NFCTagHandler serves the legacy write-log endpoints the mobile client
// still posts to on every physical write.
type NFCTagHandler struct {
	tagLogService *services.TagLogService
}

func NewNFCTagHandler(tagLogService *services.TagLogService) *NFCTagHandler {
	return &NFCTagHandler{
		tagLogService: tagLogService,
	}
}

// POST /nfc-tags
func (h *NFCTagHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateTagLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	var userID *uuid.UUID
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	log, err := h.tagLogService.Create(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"tag": log,
	})
}

// POST /nfc-tags/verify
func (h *NFCTagHandler) Verify(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		TagID uuid.UUID `json:"tagId" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	log, err := h.tagLogService.Verify(req.TagID)
	if err != nil {
		if errors.Is(err, services.ErrTagLogNotFound) {
			utils.NotFoundResponse(c, "tag")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tag": log,
	})
}

// GET /nfc-tags (admin)
func (h *NFCTagHandler) List(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	filters := services.TagLogFilters{
		PaginationParams: utils.GetPaginationParams(c),
		PlaceID:          c.Query("placeId"),
	}

	if userIDParam := c.Query("userId"); userIDParam != "" {
		id, err := uuid.Parse(userIDParam)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "userId"), nil)
			return
		}
		filters.UserID = &id
	}

	logs, total, err := h.tagLogService.List(filters)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, filters.PaginationParams))
}
