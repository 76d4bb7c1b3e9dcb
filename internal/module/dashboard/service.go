package dashboard

import (
	"context"
	"time"

	"github.com/giftregistry/server/internal/module/gift"
	"github.com/giftregistry/server/internal/module/payment"
	"github.com/giftregistry/server/internal/shared/money"
	"go.uber.org/zap"
)

// ProductLookup resolves gift names for the top gifts list.
type ProductLookup interface {
	GetProductsByIDs(ctx context.Context, ids []uint) ([]*gift.Product, error)
}

// Config holds dashboard configuration.
type Config struct {
	TopGifts    int
	RecentLimit int
	// Location decides which calendar month a contribution falls in.
	Location *time.Location
}

// DefaultConfig returns default dashboard configuration.
func DefaultConfig() *Config {
	return &Config{
		TopGifts:    5,
		RecentLimit: 10,
		Location:    time.UTC,
	}
}

// Service computes the couple dashboard from the ledger.
type Service struct {
	repo     Repository
	products ProductLookup
	cache    *SummaryCache
	cfg      *Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a dashboard service. cache may be nil.
func NewService(repo Repository, products ProductLookup, cache *SummaryCache, cfg *Config, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		repo:     repo,
		products: products,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// GetSummary returns the dashboard summary, served from cache when fresh.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *Service) compute(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		Monthly:     []MonthlyTotal{},
		TopGifts:    []GiftTotal{},
		Recent:      []*payment.TransactionResponse{},
		GeneratedAt: s.now().UTC(),
	}

	totals, err := s.repo.StatusTotals(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		switch t.Status {
		case payment.StatusCompleted:
			summary.CompletedCount = t.Count
			summary.TotalAmountCents = t.AmountCents
		case payment.StatusPending:
			summary.PendingCount = t.Count
		case payment.StatusFailed:
			summary.FailedCount = t.Count
		case payment.StatusRefunded:
			summary.RefundedCount = t.Count
		}
	}
	summary.TotalAmount = money.Format(summary.TotalAmountCents)
	summary.AverageAmount = money.Format(average(summary.TotalAmountCents, summary.CompletedCount))

	entries, err := s.repo.CompletedEntries(ctx)
	if err != nil {
		return nil, err
	}
	summary.Monthly = s.monthly(entries)

	top, err := s.repo.TopProducts(ctx, s.cfg.TopGifts)
	if err != nil {
		return nil, err
	}
	if summary.TopGifts, err = s.topGifts(ctx, top); err != nil {
		return nil, err
	}

	recent, err := s.repo.Recent(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, err
	}
	for _, tx := range recent {
		summary.Recent = append(summary.Recent, tx.ToResponse())
	}

	return summary, nil
}

// monthly groups completed entries by YYYY-MM. Entries arrive oldest first.
func (s *Service) monthly(entries []CompletedEntry) []MonthlyTotal {
	out := []MonthlyTotal{}
	for _, e := range entries {
		month := e.CreatedAt.In(s.cfg.Location).Format("2006-01")
		if n := len(out); n > 0 && out[n-1].Month == month {
			out[n-1].AmountCents += e.AmountCents
			out[n-1].Count++
			continue
		}
		out = append(out, MonthlyTotal{Month: month, AmountCents: e.AmountCents, Count: 1})
	}
	for i := range out {
		out[i].Amount = money.Format(out[i].AmountCents)
	}
	return out
}

func (s *Service) topGifts(ctx context.Context, top []ProductTotal) ([]GiftTotal, error) {
	out := []GiftTotal{}
	if len(top) == 0 {
		return out, nil
	}

	ids := make([]uint, len(top))
	for i, t := range top {
		ids[i] = t.ProductID
	}
	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	for _, t := range top {
		out = append(out, GiftTotal{
			ProductID:   t.ProductID,
			Name:        names[t.ProductID],
			Amount:      money.Format(t.AmountCents),
			AmountCents: t.AmountCents,
			Count:       t.Count,
			Quantity:    t.Quantity,
		})
	}
	return out, nil
}

func average(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return (total + count/2) / count
}
