package payment

import (
	"encoding/json"
	"time"

	"github.com/giftregistry/server/internal/module/payment/provider"
)

// CreateCheckoutRequest is the request body for opening a checkout.
type CreateCheckoutRequest struct {
	Amount     json.Number `json:"amount" binding:"required"`
	GuestName  string      `json:"guest_name" binding:"required,max=255"`
	GuestEmail string      `json:"guest_email" binding:"omitempty,email,max=320"`
	ProductID  *uint       `json:"product_id"`
	Quantity   int         `json:"quantity" binding:"omitempty,min=1"`
}

// CreateCheckoutResponse carries the hosted checkout redirect.
type CreateCheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// SessionResponse is the success page view of a session.
type SessionResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	GuestName     string `json:"guest_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

func toSessionResponse(s *provider.CheckoutSession) *SessionResponse {
	meta := DecodeMetadata(s.Metadata)
	return &SessionResponse{
		ID:            s.ID,
		Status:        s.Status,
		PaymentStatus: s.PaymentStatus,
		Amount:        FormatAmount(s.AmountTotal),
		Currency:      s.Currency,
		GuestName:     meta.GuestName,
		CustomerEmail: s.CustomerEmail,
	}
}

// CreateContributionRequest records a contribution paid outside the hosted checkout.
type CreateContributionRequest struct {
	Amount        json.Number `json:"amount" binding:"required"`
	GuestName     string      `json:"guest_name" binding:"required,max=255"`
	GuestEmail    string      `json:"guest_email" binding:"omitempty,email,max=320"`
	ProductID     *uint       `json:"product_id"`
	Quantity      int         `json:"quantity" binding:"omitempty,min=1"`
	PaymentMethod string      `json:"payment_method" binding:"omitempty,oneof=pix bank_transfer cash"`
}

// UpdateStatusRequest overrides a transaction's status.
type UpdateStatusRequest struct {
	Status TransactionStatus `json:"status" binding:"required,oneof=pending completed failed refunded"`
}

// TransactionResponse is the API view of a ledger row.
type TransactionResponse struct {
	ID                    uint              `json:"id"`
	StripeSessionID       string            `json:"stripe_session_id,omitempty"`
	StripePaymentIntentID string            `json:"stripe_payment_intent_id,omitempty"`
	GuestName             string            `json:"guest_name"`
	GuestEmail            string            `json:"guest_email,omitempty"`
	Amount                string            `json:"amount"`
	ProductID             *uint             `json:"product_id,omitempty"`
	Quantity              int               `json:"quantity"`
	Status                TransactionStatus `json:"status"`
	PaymentMethod         string            `json:"payment_method"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// ToResponse converts a transaction to its API view.
func (t *Transaction) ToResponse() *TransactionResponse {
	return &TransactionResponse{
		ID:                    t.ID,
		StripeSessionID:       t.SessionID(),
		StripePaymentIntentID: t.PaymentIntentID(),
		GuestName:             t.GuestName,
		GuestEmail:            t.GuestEmail,
		Amount:                t.Amount(),
		ProductID:             t.ProductID,
		Quantity:              t.Quantity,
		Status:                t.Status,
		PaymentMethod:         t.PaymentMethod,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

// TransactionListResponse is a page of the ledger.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
}
