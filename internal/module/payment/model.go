package payment

import "time"

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusRefunded  TransactionStatus = "refunded"
)

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation.
func (s TransactionStatus) String() string {
	return string(s)
}

// DefaultPaymentMethod is recorded when the provider reports none.
const DefaultPaymentMethod = "card"

// Transaction is a single contribution in the ledger.
// Rows are never deleted; only Status, StripeResponse and UpdatedAt change after insert.
type Transaction struct {
	ID                    uint              `json:"id" gorm:"primaryKey"`
	StripeSessionID       *string           `json:"stripe_session_id,omitempty" gorm:"size:255;uniqueIndex"`
	StripePaymentIntentID *string           `json:"stripe_payment_intent_id,omitempty" gorm:"size:255;uniqueIndex"`
	GuestName             string            `json:"guest_name" gorm:"size:255;not null"`
	GuestEmail            string            `json:"guest_email,omitempty" gorm:"size:320"`
	AmountCents           int64             `json:"amount_cents" gorm:"not null"`
	ProductID             *uint             `json:"product_id,omitempty" gorm:"index"`
	Quantity              int               `json:"quantity" gorm:"not null;default:1"`
	Status                TransactionStatus `json:"status" gorm:"size:20;not null;default:pending;index"`
	PaymentMethod         string            `json:"payment_method" gorm:"size:50"`
	StripeResponse        string            `json:"-" gorm:"type:text"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// TableName returns the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// Amount returns the amount as a decimal string, e.g. "150.00".
func (t *Transaction) Amount() string {
	return FormatAmount(t.AmountCents)
}

// SessionID returns the external session id or "".
func (t *Transaction) SessionID() string {
	if t.StripeSessionID == nil {
		return ""
	}
	return *t.StripeSessionID
}

// PaymentIntentID returns the external payment intent id or "".
func (t *Transaction) PaymentIntentID() string {
	if t.StripePaymentIntentID == nil {
		return ""
	}
	return *t.StripePaymentIntentID
}

// WebhookEvent records a verified provider event for idempotent delivery.
type WebhookEvent struct {
	ID          uint       `gorm:"primaryKey"`
	EventID     string     `gorm:"size:255;not null;uniqueIndex"`
	Type        string     `gorm:"size:100;not null"`
	Payload     string     `gorm:"type:text"`
	Processed   bool       `gorm:"not null;default:false"`
	ProcessedAt *time.Time
	Error       string `gorm:"type:text"`
	CreatedAt   time.Time
}

// TableName returns the table name.
func (WebhookEvent) TableName() string {
	return "stripe_webhook_events"
}

// Models returns the models to migrate.
func Models() []any {
	return []any{&Transaction{}, &WebhookEvent{}}
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
