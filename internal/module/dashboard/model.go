package dashboard

import (
	"time"

	"github.com/giftregistry/server/internal/module/payment"
)

// Summary is the couple's view of the ledger.
type Summary struct {
	TotalAmount      string `json:"total_amount" example:"1500.00"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	CompletedCount   int64  `json:"completed_count"`
	PendingCount     int64  `json:"pending_count"`
	FailedCount      int64  `json:"failed_count"`
	RefundedCount    int64  `json:"refunded_count"`
	AverageAmount    string `json:"average_amount" example:"150.00"`

	Monthly  []MonthlyTotal                 `json:"monthly"`
	TopGifts []GiftTotal                    `json:"top_gifts"`
	Recent   []*payment.TransactionResponse `json:"recent"`

	GeneratedAt time.Time `json:"generated_at"`
}

// MonthlyTotal is the completed amount for one calendar month.
type MonthlyTotal struct {
	Month       string `json:"month" example:"2026-05"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Count       int64  `json:"count"`
}

// GiftTotal is the completed amount contributed towards one gift.
type GiftTotal struct {
	ProductID   uint   `json:"product_id"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Count       int64  `json:"count"`
	Quantity    int64  `json:"quantity"`
}
