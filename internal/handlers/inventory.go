// internal/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapreview/tapreview-backend/internal/i18n"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// GET /inventory
//
// Agents get their own aggregate. Admins can read any agent's with ?userId=.
func (h *InventoryHandler) Get(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if userIDParam := c.Query("userId"); userIDParam != "" && isAdmin(c) {
		id, err := uuid.Parse(userIDParam)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "userId"), nil)
			return
		}
		userID = id
	}

	inventory, err := h.inventoryService.GetForUser(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"inventory": inventory,
	})
}
