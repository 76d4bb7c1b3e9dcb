package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/database/dbtest"
	"github.com/giftregistry/server/internal/shared/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type webhookFixture struct {
	router  *gin.Engine
	repo    Repository
	db      *gorm.DB
	metrics *metrics.Metrics
}

func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	t.Helper()
	repo, db := newTestRepo(t)
	m := newTestMetrics()
	reconciler := NewReconciler(repo, secret, m, zap.NewNop())
	h := NewWebhookHandler(reconciler, repo, m, zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router.Group("/webhooks"))
	return &webhookFixture{router: router, repo: repo, db: db, metrics: m}
}

func (f *webhookFixture) deliver(payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *webhookFixture) ledgerSize(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.repo.ListTransactions(context.Background(), nil)
	require.NoError(t, err)
	return total
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWebhookHandler_MariaScenario(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	payload := eventPayload(t, "evt_maria", EventCheckoutSessionCompleted,
		sessionCompletedObject("cs_maria", "pi_maria", 15000, map[string]string{"guest_name": "Maria", "quantity": "1"}))

	w := f.deliver(payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["received"])

	tx, err := f.repo.GetTransactionBySessionID(context.Background(), "cs_maria")
	require.NoError(t, err)
	assert.Equal(t, "Maria", tx.GuestName)
	assert.Equal(t, "150.00", tx.Amount())
	assert.Equal(t, StatusCompleted, tx.Status)

	// Identical redelivery is acknowledged without a second row.
	w = f.deliver(payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), f.ledgerSize(t))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.WebhookEventsTotal.WithLabelValues(EventCheckoutSessionCompleted, "duplicate")))
}

func TestWebhookHandler_ConcurrentInsertAcknowledged(t *testing.T) {
	repo, db := newTestRepo(t)
	seedTransaction(t, repo, "cs_race", "pi_race", StatusCompleted)

	m := newTestMetrics()
	stale := staleLookupRepo{repo}
	reconciler := NewReconciler(stale, testWebhookSecret, m, zap.NewNop())
	router := gin.New()
	NewWebhookHandler(reconciler, stale, m, zap.NewNop()).RegisterRoutes(router.Group("/webhooks"))
	f := &webhookFixture{router: router, repo: repo, db: db, metrics: m}

	payload := eventPayload(t, "evt_race", EventCheckoutSessionCompleted,
		sessionCompletedObject("cs_race", "pi_race", 15000, map[string]string{"guest_name": "Maria"}))
	w := f.deliver(payload, signPayload(payload, testWebhookSecret))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decodeBody(t, w)["received"])
	assert.Equal(t, int64(1), f.ledgerSize(t))
}

func TestWebhookHandler_RefundScenario(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	seedTransaction(t, f.repo, "cs_42", "pi_42", StatusCompleted)

	payload := eventPayload(t, "evt_refund", EventChargeRefunded, chargeObject("ch_42", "pi_42"))
	w := f.deliver(payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)

	tx, err := f.repo.GetTransactionByPaymentIntentID(context.Background(), "pi_42")
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, tx.Status)

	event, err := f.repo.GetWebhookEvent(context.Background(), "evt_refund")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.True(t, event.Processed)
	assert.Empty(t, event.Error)
}

func TestWebhookHandler_SignatureGate(t *testing.T) {
	payload := eventPayload(t, "evt_1", EventCheckoutSessionCompleted,
		sessionCompletedObject("cs_1", "pi_1", 100, map[string]string{"guest_name": "Eve"}))

	t.Run("tampered signature", func(t *testing.T) {
		f := newWebhookFixture(t, testWebhookSecret)
		w := f.deliver(payload, signPayload(payload, "whsec_attacker"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid signature", decodeBody(t, w)["error"])
		assert.Zero(t, f.ledgerSize(t))
	})

	t.Run("missing signature header", func(t *testing.T) {
		f := newWebhookFixture(t, testWebhookSecret)
		w := f.deliver(payload, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, f.ledgerSize(t))
	})

	t.Run("no signing secret configured", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		w := f.deliver(payload, signPayload(payload, testWebhookSecret))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "webhook secret not configured", decodeBody(t, w)["error"])
		assert.Zero(t, f.ledgerSize(t))
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected")))
	})
}

func TestWebhookHandler_TestEvent(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	payload := eventPayload(t, "evt_test_connectivity", EventCheckoutSessionCompleted,
		sessionCompletedObject("cs_test", "pi_test", 100, nil))

	w := f.deliver(payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["verified"])
	assert.Zero(t, f.ledgerSize(t))

	event, err := f.repo.GetWebhookEvent(context.Background(), "evt_test_connectivity")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestWebhookHandler_UnknownType(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	payload := eventPayload(t, "evt_1", "invoice.created", map[string]any{"id": "in_1"})

	w := f.deliver(payload, signPayload(payload, testWebhookSecret))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.WebhookEventsTotal.WithLabelValues("invoice.created", "ignored")))
}

func TestWebhookHandler_MalformedObject(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	payload := eventPayload(t, "evt_1", EventPaymentIntentSucceeded, map[string]any{"object": "payment_intent"})

	w := f.deliver(payload, signPayload(payload, testWebhookSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_StorageUnavailable(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	dbtest.Close(t, f.db)

	payload := eventPayload(t, "evt_1", EventCheckoutSessionCompleted,
		sessionCompletedObject("cs_1", "pi_1", 100, nil))
	w := f.deliver(payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookHandler_FailedEventIsRetried(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	ctx := context.Background()

	// A previous attempt was recorded but failed.
	require.NoError(t, f.repo.CreateWebhookEvent(ctx, &WebhookEvent{EventID: "evt_retry", Type: EventCheckoutSessionCompleted}))
	require.NoError(t, f.repo.MarkWebhookEventProcessed(ctx, "evt_retry", assert.AnError))

	payload := eventPayload(t, "evt_retry", EventCheckoutSessionCompleted,
		sessionCompletedObject("cs_retry", "pi_retry", 700, map[string]string{"guest_name": "Lu"}))
	w := f.deliver(payload, signPayload(payload, testWebhookSecret))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), f.ledgerSize(t))
}
