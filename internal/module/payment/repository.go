package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository defines the interface for ledger data access.
type Repository interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uint) (*Transaction, error)
	GetTransactionBySessionID(ctx context.Context, sessionID string) (*Transaction, error)
	GetTransactionByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id uint, status TransactionStatus, rawResponse string) error
	ListTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, int64, error)

	// Webhook event operations
	GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error)
	CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error
	MarkWebhookEventProcessed(ctx context.Context, eventID string, processErr error) error
}

// TransactionFilter narrows ledger listings.
type TransactionFilter struct {
	Status   TransactionStatus
	Page     int
	PageSize int
}

func (f *TransactionFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 50
	}
	if f.PageSize > 500 {
		f.PageSize = 500
	}
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ledger repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// storageError marks err as a storage failure while keeping it inspectable.
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// --- Transaction Operations ---

func (r *repository) CreateTransaction(ctx context.Context, tx *Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return storageError("create transaction", err)
	}
	return nil
}

func (r *repository) GetTransaction(ctx context.Context, id uint) (*Transaction, error) {
	return r.first(ctx, "get transaction", "id = ?", id)
}

func (r *repository) GetTransactionBySessionID(ctx context.Context, sessionID string) (*Transaction, error) {
	return r.first(ctx, "get transaction by session id", "stripe_session_id = ?", sessionID)
}

func (r *repository) GetTransactionByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Transaction, error) {
	return r.first(ctx, "get transaction by payment intent id", "stripe_payment_intent_id = ?", paymentIntentID)
}

func (r *repository) first(ctx context.Context, op string, query string, args ...any) (*Transaction, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).Where(query, args...).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, storageError(op, err)
	}
	return &tx, nil
}

func (r *repository) UpdateTransactionStatus(ctx context.Context, id uint, status TransactionStatus, rawResponse string) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if rawResponse != "" {
		updates["stripe_response"] = rawResponse
	}

	result := r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return storageError("update transaction status", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *repository) ListTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, int64, error) {
	if filter == nil {
		filter = &TransactionFilter{}
	}
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&Transaction{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count transactions", err)
	}

	var txs []*Transaction
	err := query.Order("created_at DESC, id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&txs).Error
	if err != nil {
		return nil, 0, storageError("list transactions", err)
	}
	return txs, total, nil
}

// --- Webhook Event Operations ---

func (r *repository) GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error) {
	var event WebhookEvent
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("get webhook event", err)
	}
	return &event, nil
}

func (r *repository) CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return storageError("create webhook event", err)
	}
	return nil
}

func (r *repository) MarkWebhookEventProcessed(ctx context.Context, eventID string, processErr error) error {
	now := time.Now()
	updates := map[string]any{
		"processed":    true,
		"processed_at": now,
		"error":        "",
	}
	if processErr != nil {
		updates["error"] = processErr.Error()
	}

	err := r.db.WithContext(ctx).Model(&WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(updates).Error
	if err != nil {
		return storageError("mark webhook event processed", err)
	}
	return nil
}
