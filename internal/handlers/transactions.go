// internal/handlers/transactions.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapreview/tapreview-backend/internal/i18n"
	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	transaction, err := h.transactionService.Create(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyTransactionCreated),
		"transaction": transaction,
	})
}

// PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	var req services.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, err := h.transactionService.Update(transactionID, userID, isAdmin(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.NotFoundResponse(c, "transaction")
		case errors.Is(err, services.ErrNotTransactionOwner):
			utils.ForbiddenResponse(c, err.Error())
		case errors.Is(err, models.ErrInvalidTransition):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyTransactionBadTransition))
		case errors.Is(err, models.ErrPriceRequired),
			errors.Is(err, models.ErrPriceInvalid),
			errors.Is(err, models.ErrPriceNegative),
			errors.Is(err, models.ErrPriceForbidden):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyTransactionPriceInvalid), err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyTransactionUpdated),
		"transaction": transaction,
	})
}

// GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	transaction, err := h.transactionService.Get(transactionID)
	if err != nil {
		utils.NotFoundResponse(c, "transaction")
		return
	}

	if !isAdmin(c) && transaction.UserID != userID {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"transaction": transaction,
	})
}

// GET /transactions
//
// Agents see their own records. Admins can widen the view with ?userId=.
func (h *TransactionHandler) List(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	filters := services.TransactionFilters{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if isAdmin(c) {
		if userIDParam := c.Query("userId"); userIDParam != "" {
			id, err := uuid.Parse(userIDParam)
			if err != nil {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "userId"), nil)
				return
			}
			filters.UserID = &id
		}
	} else {
		filters.UserID = &userID
	}

	if signTypeParam := c.Query("signTypeId"); signTypeParam != "" {
		id, err := uuid.Parse(signTypeParam)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "signTypeId"), nil)
			return
		}
		filters.SignTypeID = &id
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status := models.TransactionStatus(statusParam)
		if !status.Valid() {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
			return
		}
		filters.Status = &status
	}

	if startParam := c.Query("startDate"); startParam != "" {
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "startDate"), nil)
			return
		}
		filters.StartDate = &start
	}

	if endParam := c.Query("endDate"); endParam != "" {
		end, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "endDate"), nil)
			return
		}
		filters.EndDate = &end
	}

	transactions, total, err := h.transactionService.List(filters)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transactions, total, filters.PaginationParams))
}
