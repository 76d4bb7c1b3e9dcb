package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/giftregistry/server/internal/module/payment/provider"
	"github.com/giftregistry/server/internal/shared/database/dbtest"
	"github.com/giftregistry/server/internal/shared/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func newTestRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t, Models()...)
	return NewRepository(db), db
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

// --- Mock Provider ---

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, req *provider.CheckoutRequest) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *MockProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

// --- Event Builders ---

func eventPayload(t *testing.T, id, eventType string, object map[string]any) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": "2023-10-16",
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	return payload
}

func signPayload(payload []byte, secret string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func sessionCompletedObject(sessionID, paymentIntentID string, amountTotal int64, metadata map[string]string) map[string]any {
	obj := map[string]any{
		"id":                   sessionID,
		"object":               "checkout.session",
		"amount_total":         amountTotal,
		"currency":             "brl",
		"status":               "complete",
		"payment_status":       "paid",
		"payment_method_types": []string{"card"},
		"metadata":             metadata,
	}
	if paymentIntentID != "" {
		obj["payment_intent"] = paymentIntentID
	}
	return obj
}

func paymentIntentObject(id string) map[string]any {
	return map[string]any{
		"id":       id,
		"object":   "payment_intent",
		"amount":   15000,
		"currency": "brl",
	}
}

func chargeObject(id, paymentIntentID string) map[string]any {
	return map[string]any{
		"id":             id,
		"object":         "charge",
		"amount":         15000,
		"refunded":       true,
		"payment_intent": paymentIntentID,
	}
}

func newTestReconciler(t *testing.T) (*Reconciler, Repository, *gorm.DB) {
	t.Helper()
	repo, db := newTestRepo(t)
	return NewReconciler(repo, testWebhookSecret, newTestMetrics(), zap.NewNop()), repo, db
}

func seedTransaction(t *testing.T, repo Repository, sessionID, paymentIntentID string, status TransactionStatus) *Transaction {
	t.Helper()
	tx := &Transaction{
		StripeSessionID:       stringPtr(sessionID),
		StripePaymentIntentID: stringPtr(paymentIntentID),
		GuestName:             "Maria",
		AmountCents:           15000,
		Quantity:              1,
		Status:                status,
		PaymentMethod:         DefaultPaymentMethod,
	}
	require.NoError(t, repo.CreateTransaction(context.Background(), tx))
	return tx
}

// staleLookupRepo misses every session lookup, reproducing a delivery that
// checked the ledger just before a concurrent delivery inserted the row.
type staleLookupRepo struct {
	Repository
}

func (staleLookupRepo) GetTransactionBySessionID(context.Context, string) (*Transaction, error) {
	return nil, ErrTransactionNotFound
}
