package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/giftregistry/server/internal/shared/metrics"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Event types the reconciler acts on.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
	EventChargeRefunded           = "charge.refunded"
)

// testEventPrefix marks synthetic connectivity-check events.
const testEventPrefix = "evt_test_"

// Outcome describes what Dispatch did with an event.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
)

// Reconciler verifies provider events and applies them to the ledger.
// Each handler looks up before writing so duplicated or reordered
// deliveries of the same event type leave the ledger unchanged.
type Reconciler struct {
	repo          Repository
	webhookSecret string
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewReconciler creates a new webhook reconciler.
func NewReconciler(repo Repository, webhookSecret string, m *metrics.Metrics, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		repo:          repo,
		webhookSecret: webhookSecret,
		metrics:       m,
		logger:        logger,
	}
}

// ConstructEvent verifies signature over the exact payload bytes and parses the event.
func (r *Reconciler) ConstructEvent(payload []byte, signature string) (*stripe.Event, error) {
	if r.webhookSecret == "" {
		return nil, ErrWebhookSecretMissing
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, r.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrNotSigned),
			errors.Is(err, webhook.ErrInvalidHeader),
			errors.Is(err, webhook.ErrNoValidSignature),
			errors.Is(err, webhook.ErrTooOld):
			return nil, fmt.Errorf("%w: %v", ErrSignatureVerificationFailed, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	}
	if event.ID == "" || event.Type == "" || event.Data == nil {
		return nil, fmt.Errorf("%w: missing id, type or data", ErrMalformedEvent)
	}
	return &event, nil
}

// IsTestEvent reports whether the event is a synthetic connectivity check.
func IsTestEvent(event *stripe.Event) bool {
	return strings.HasPrefix(event.ID, testEventPrefix)
}

// Dispatch routes a verified event to its handler. Unknown types are ignored.
func (r *Reconciler) Dispatch(ctx context.Context, event *stripe.Event) (Outcome, error) {
	log := r.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
	)

	var err error
	switch string(event.Type) {
	case EventCheckoutSessionCompleted:
		err = r.handleCheckoutSessionCompleted(ctx, event, log)
	case EventPaymentIntentSucceeded:
		err = r.handlePaymentIntentSucceeded(ctx, event, log)
	case EventPaymentIntentFailed:
		err = r.handlePaymentIntentFailed(ctx, event, log)
	case EventChargeRefunded:
		err = r.handleChargeRefunded(ctx, event, log)
	default:
		log.Debug("unhandled webhook event type")
		return OutcomeIgnored, nil
	}
	if err != nil {
		return "", err
	}
	return OutcomeProcessed, nil
}

func (r *Reconciler) handleCheckoutSessionCompleted(ctx context.Context, event *stripe.Event, log *zap.Logger) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("%w: unmarshal checkout session: %v", ErrMalformedEvent, err)
	}
	if session.ID == "" {
		return fmt.Errorf("%w: checkout session without id", ErrMalformedEvent)
	}

	log = log.With(zap.String("session_id", session.ID))

	_, err := r.repo.GetTransactionBySessionID(ctx, session.ID)
	switch {
	case err == nil:
		log.Info("transaction already recorded for session")
		return nil
	case !errors.Is(err, ErrTransactionNotFound):
		return err
	}

	meta := DecodeMetadata(session.Metadata)

	var paymentIntentID string
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	paymentMethod := DefaultPaymentMethod
	if len(session.PaymentMethodTypes) > 0 && session.PaymentMethodTypes[0] != "" {
		paymentMethod = session.PaymentMethodTypes[0]
	}

	tx := &Transaction{
		StripeSessionID:       stringPtr(session.ID),
		StripePaymentIntentID: stringPtr(paymentIntentID),
		GuestName:             meta.GuestName,
		GuestEmail:            meta.GuestEmail,
		AmountCents:           session.AmountTotal,
		ProductID:             meta.ProductID,
		Quantity:              meta.Quantity,
		Status:                StatusCompleted,
		PaymentMethod:         paymentMethod,
		StripeResponse:        string(event.Data.Raw),
	}

	if err := r.repo.CreateTransaction(ctx, tx); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			// A concurrent delivery won the insert.
			log.Info("transaction inserted concurrently, skipping")
			return nil
		}
		return err
	}

	r.metrics.RecordLedgerTransition(string(StatusCompleted))
	log.Info("transaction created from checkout session",
		zap.Uint("transaction_id", tx.ID),
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("guest_name", tx.GuestName),
		zap.String("amount", tx.Amount()),
	)
	return nil
}

func (r *Reconciler) handlePaymentIntentSucceeded(ctx context.Context, event *stripe.Event, log *zap.Logger) error {
	pi, err := unmarshalPaymentIntent(event)
	if err != nil {
		return err
	}
	log = log.With(zap.String("payment_intent_id", pi.ID))

	tx, err := r.repo.GetTransactionByPaymentIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			log.Info("no transaction for payment intent, nothing to update")
			return nil
		}
		return err
	}

	if tx.Status == StatusCompleted {
		log.Debug("transaction already completed")
		return nil
	}

	return r.transition(ctx, tx, StatusCompleted, event, log)
}

func (r *Reconciler) handlePaymentIntentFailed(ctx context.Context, event *stripe.Event, log *zap.Logger) error {
	pi, err := unmarshalPaymentIntent(event)
	if err != nil {
		return err
	}
	log = log.With(zap.String("payment_intent_id", pi.ID))

	if pi.LastPaymentError != nil {
		log = log.With(
			zap.String("failure_code", string(pi.LastPaymentError.Code)),
			zap.String("failure_message", pi.LastPaymentError.Msg),
		)
	}

	tx, err := r.repo.GetTransactionByPaymentIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			log.Info("no transaction for failed payment intent")
			return nil
		}
		return err
	}

	return r.transition(ctx, tx, StatusFailed, event, log)
}

func (r *Reconciler) handleChargeRefunded(ctx context.Context, event *stripe.Event, log *zap.Logger) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return fmt.Errorf("%w: unmarshal charge: %v", ErrMalformedEvent, err)
	}
	log = log.With(zap.String("charge_id", charge.ID))

	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		log.Info("refunded charge has no payment intent")
		return nil
	}
	log = log.With(zap.String("payment_intent_id", charge.PaymentIntent.ID))

	tx, err := r.repo.GetTransactionByPaymentIntentID(ctx, charge.PaymentIntent.ID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			log.Info("no transaction for refunded charge")
			return nil
		}
		return err
	}

	return r.transition(ctx, tx, StatusRefunded, event, log)
}

func (r *Reconciler) transition(ctx context.Context, tx *Transaction, to TransactionStatus, event *stripe.Event, log *zap.Logger) error {
	from := tx.Status
	if err := r.repo.UpdateTransactionStatus(ctx, tx.ID, to, string(event.Data.Raw)); err != nil {
		return err
	}
	tx.Status = to

	r.metrics.RecordLedgerTransition(string(to))
	log.Info("transaction status updated",
		zap.Uint("transaction_id", tx.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

func unmarshalPaymentIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: unmarshal payment intent: %v", ErrMalformedEvent, err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("%w: payment intent without id", ErrMalformedEvent)
	}
	return &pi, nil
}
