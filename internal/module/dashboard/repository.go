package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/giftregistry/server/internal/module/payment"
	"gorm.io/gorm"
)

// StatusTotal is the row count and amount per ledger status.
type StatusTotal struct {
	Status      payment.TransactionStatus
	Count       int64
	AmountCents int64
}

// CompletedEntry is the minimal projection used for monthly grouping.
type CompletedEntry struct {
	AmountCents int64
	CreatedAt   time.Time
}

// ProductTotal aggregates completed contributions per gift.
type ProductTotal struct {
	ProductID   uint
	Count       int64
	Quantity    int64
	AmountCents int64
}

// Repository reads aggregates from the transaction ledger.
type Repository interface {
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
	CompletedEntries(ctx context.Context) ([]CompletedEntry, error)
	TopProducts(ctx context.Context, limit int) ([]ProductTotal, error)
	Recent(ctx context.Context, limit int) ([]*payment.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a ledger aggregate repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ledger(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&payment.Transaction{})
}

func (r *repository) StatusTotals(ctx context.Context) ([]StatusTotal, error) {
	var rows []StatusTotal
	err := r.ledger(ctx).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS amount_cents").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status totals: %w", err)
	}
	return rows, nil
}

func (r *repository) CompletedEntries(ctx context.Context) ([]CompletedEntry, error) {
	var rows []CompletedEntry
	err := r.ledger(ctx).
		Select("amount_cents, created_at").
		Where("status = ?", payment.StatusCompleted).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("completed entries: %w", err)
	}
	return rows, nil
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]ProductTotal, error) {
	var rows []ProductTotal
	err := r.ledger(ctx).
		Select("product_id, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(amount_cents), 0) AS amount_cents").
		Where("status = ? AND product_id IS NOT NULL", payment.StatusCompleted).
		Group("product_id").
		Order("amount_cents DESC, product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return rows, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]*payment.Transaction, error) {
	var txs []*payment.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return txs, nil
}
