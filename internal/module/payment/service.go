package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giftregistry/server/internal/module/payment/provider"
	"github.com/giftregistry/server/internal/shared/metrics"
	"go.uber.org/zap"
)

// Config holds checkout settings.
type Config struct {
	Currency           string
	ProductName        string
	ProductDescription string
	// DefaultOrigin is used when the caller supplies no origin.
	DefaultOrigin string
}

// CheckoutInput is a guest's contribution request.
type CheckoutInput struct {
	Amount     string
	GuestName  string
	GuestEmail string
	ProductID  *uint
	Quantity   int
	UserID     string
	Origin     string
}

// CheckoutResult is returned after the provider opens a session.
type CheckoutResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// ManualContributionInput records a contribution paid outside the hosted checkout.
type ManualContributionInput struct {
	Amount        string
	GuestName     string
	GuestEmail    string
	ProductID     *uint
	Quantity      int
	PaymentMethod string
}

// Service opens checkout sessions and exposes the ledger.
type Service struct {
	repo     Repository
	provider provider.Provider
	config   *Config
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new payment service.
func NewService(
	repo Repository,
	p provider.Provider,
	config *Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	if config.Currency == "" {
		config.Currency = "brl"
	}
	return &Service{
		repo:     repo,
		provider: p,
		config:   config,
		metrics:  m,
		logger:   logger,
	}
}

// CreateCheckoutSession validates the request and opens a hosted checkout.
// It never writes to the ledger; the row is created by the webhook.
func (s *Service) CreateCheckoutSession(ctx context.Context, in *CheckoutInput) (*CheckoutResult, error) {
	cents, err := ParseAmount(in.Amount)
	if err != nil {
		s.metrics.RecordCheckout("invalid")
		return nil, err
	}

	guestName := strings.TrimSpace(in.GuestName)
	if guestName == "" {
		s.metrics.RecordCheckout("invalid")
		return nil, fmt.Errorf("%w: guest name is required", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		s.metrics.RecordCheckout("invalid")
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	origin := strings.TrimRight(strings.TrimSpace(in.Origin), "/")
	if origin == "" {
		origin = strings.TrimRight(s.config.DefaultOrigin, "/")
	}

	meta := CheckoutMetadata{
		GuestName:  guestName,
		GuestEmail: strings.TrimSpace(in.GuestEmail),
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UserID:     in.UserID,
	}

	clientRef := in.UserID
	if clientRef == "" {
		clientRef = guestName
	}

	session, err := s.provider.CreateCheckoutSession(ctx, &provider.CheckoutRequest{
		AmountCents:        cents,
		Currency:           s.config.Currency,
		ProductName:        s.config.ProductName,
		ProductDescription: s.config.ProductDescription,
		CustomerEmail:      meta.GuestEmail,
		ClientReferenceID:  clientRef,
		SuccessURL:         origin + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          origin + "/checkout/cancel",
		Metadata:           meta.Encode(),
	})
	if err != nil {
		s.metrics.RecordCheckout("failed")
		s.logger.Error("failed to create checkout session",
			zap.String("provider", s.provider.Name()),
			zap.String("guest_name", guestName),
			zap.Int64("amount_cents", cents),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutCreationFailed, err)
	}

	s.metrics.RecordCheckout("created")
	s.logger.Info("checkout session created",
		zap.String("provider", s.provider.Name()),
		zap.String("session_id", session.ID),
		zap.String("guest_name", guestName),
		zap.Int64("amount_cents", cents),
	)

	return &CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

// GetCheckoutSession retrieves a session for the success page.
func (s *Service) GetCheckoutSession(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, provider.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return session, nil
}

// RecordManualContribution stores a pending contribution without provider ids.
func (s *Service) RecordManualContribution(ctx context.Context, in *ManualContributionInput) (*Transaction, error) {
	cents, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	guestName := strings.TrimSpace(in.GuestName)
	if guestName == "" {
		return nil, fmt.Errorf("%w: guest name is required", ErrInvalidInput)
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = "pix"
	}

	tx := &Transaction{
		GuestName:     guestName,
		GuestEmail:    strings.TrimSpace(in.GuestEmail),
		AmountCents:   cents,
		ProductID:     in.ProductID,
		Quantity:      normalizeQuantity(in.Quantity),
		Status:        StatusPending,
		PaymentMethod: method,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.metrics.RecordLedgerTransition(string(StatusPending))
	s.logger.Info("manual contribution recorded",
		zap.Uint("transaction_id", tx.ID),
		zap.String("payment_method", method),
		zap.Int64("amount_cents", cents),
	)
	return tx, nil
}

// GetTransaction returns a ledger row by id.
func (s *Service) GetTransaction(ctx context.Context, id uint) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ListTransactions lists the ledger.
func (s *Service) ListTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, int64, error) {
	if filter != nil && filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.ListTransactions(ctx, filter)
}

// UpdateStatusByPaymentIntent overrides the status of the row for a payment intent.
func (s *Service) UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status TransactionStatus) (*Transaction, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	tx, err := s.repo.GetTransactionByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransactionStatus(ctx, tx.ID, status, ""); err != nil {
		return nil, err
	}
	tx.Status = status

	s.metrics.RecordLedgerTransition(string(status))
	s.logger.Info("transaction status overridden",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("status", string(status)),
	)
	return tx, nil
}
