// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/config"
	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// PaymentService takes card payments for doorstep sales. An agent who has
// just programmed a tag can charge the customer through Stripe instead of
// taking cash; confirming the charge marks the recorded sale as sold at the
// charged amount.
type PaymentService struct {
	db           *gorm.DB
	config       *config.Config
	transactions *TransactionService
}

type CreatePaymentIntentRequest struct {
	TransactionID uuid.UUID `json:"transactionId" validate:"required"`
	Amount        string    `json:"amount" validate:"required,sale_price"`
	Currency      string    `json:"currency,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"paymentId"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"paymentIntentId" validate:"required"`
	TransactionID   uuid.UUID `json:"transactionId" validate:"required"`
}

type PaymentRefundRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	Reason          string `json:"reason" validate:"required"`
}

var ErrPaymentNotSettled = errors.New("payment has not settled")

func NewPaymentService(db *gorm.DB, config *config.Config, transactions *TransactionService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:           db,
		config:       config,
		transactions: transactions,
	}
}

// CreatePaymentIntent opens a card payment for a pending sale. The amount
// is what the agent agreed with the customer, not necessarily the catalog
// price.
func (s *PaymentService) CreatePaymentIntent(userID uuid.UUID, isAdmin bool, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	transaction, err := s.transactions.Get(req.TransactionID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && transaction.UserID != userID {
		return nil, ErrNotTransactionOwner
	}
	if transaction.Status != models.TransactionStatusPending {
		return nil, models.ErrInvalidTransition
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return nil, models.ErrPriceNegative
	}

	currency := req.Currency
	if currency == "" {
		currency = s.config.Payment.Currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("transaction_id", transaction.ID.String())
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("place_id", transaction.PlaceID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment checks the intent settled and records the sale at the
// charged amount.
func (s *PaymentService) ConfirmPayment(userID uuid.UUID, isAdmin bool, req *ConfirmPaymentRequest) (*models.SaleTransaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrPaymentNotSettled
	}

	charged := decimal.NewFromInt(pi.Amount).Div(decimal.NewFromInt(100))
	notes := fmt.Sprintf("card payment %s", pi.ID)

	return s.transactions.MarkSuccess(req.TransactionID, userID, isAdmin, charged.StringFixed(2), notes)
}

// ProcessRefund reverses a card payment. The sale record itself is handled
// separately through the erase flow.
func (s *PaymentService) ProcessRefund(req *PaymentRefundRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
		Reason:        stripe.String("requested_by_customer"),
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}

	return nil
}
