// internal/handlers/payments.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tapreview/tapreview-backend/internal/i18n"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	intent, err := h.paymentService.CreatePaymentIntent(userID, isAdmin(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.NotFoundResponse(c, "transaction")
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"paymentIntent": intent,
	})
}

// POST /payments/confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, err := h.paymentService.ConfirmPayment(userID, isAdmin(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotSettled) {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyPaymentFailed))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyPaymentSuccess),
		"transaction": transaction,
	})
}

// POST /payments/refund (admin)
func (h *PaymentHandler) Refund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PaymentRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.paymentService.ProcessRefund(&req); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}
