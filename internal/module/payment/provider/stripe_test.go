package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})

	return NewStripeProvider(&StripeConfig{
		APIKey:                  "sk_test_123",
		Backends:                &stripe.Backends{API: backend, Connect: backend, Uploads: backend},
		BreakerFailureThreshold: 2,
		BreakerTimeout:          time.Minute,
	})
}

func TestStripeProvider_CreateCheckoutSession(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "card", r.PostForm.Get("payment_method_types[0]"))
		assert.Equal(t, "15000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "brl", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "Wedding Gift Contribution", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "Maria", r.PostForm.Get("metadata[guest_name]"))
		assert.Equal(t, "1", r.PostForm.Get("metadata[quantity]"))
		assert.Equal(t, "https://wedding.example.com/checkout/cancel", r.PostForm.Get("cancel_url"))
		assert.Empty(t, r.PostForm.Get("customer_email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cs_test_1",
			"object": "checkout.session",
			"url": "https://checkout.stripe.com/c/pay/cs_test_1",
			"status": "open",
			"payment_status": "unpaid",
			"amount_total": 15000,
			"currency": "brl",
			"metadata": {"guest_name": "Maria", "quantity": "1"}
		}`))
	})

	session, err := p.CreateCheckoutSession(context.Background(), &CheckoutRequest{
		AmountCents:        15000,
		Currency:           "brl",
		ProductName:        "Wedding Gift Contribution",
		ProductDescription: "Contribute to the wedding gift registry",
		ClientReferenceID:  "Maria",
		SuccessURL:         "https://wedding.example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          "https://wedding.example.com/checkout/cancel",
		Metadata:           map[string]string{"guest_name": "Maria", "quantity": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)
	assert.Equal(t, int64(15000), session.AmountTotal)
	assert.Equal(t, "open", session.Status)
}

func TestStripeProvider_GetCheckoutSession(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_paid":
			_, _ = w.Write([]byte(`{
				"id": "cs_paid",
				"object": "checkout.session",
				"status": "complete",
				"payment_status": "paid",
				"payment_intent": "pi_42",
				"amount_total": 5000,
				"currency": "brl",
				"customer_details": {"email": "ana@example.com"}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "code": "resource_missing", "message": "No such checkout.session"}}`))
		}
	})

	session, err := p.GetCheckoutSession(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.Equal(t, "pi_42", session.PaymentIntentID)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, "ana@example.com", session.CustomerEmail)

	_, err = p.GetCheckoutSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStripeProvider_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"type": "api_error", "message": "upstream unavailable"}}`))
	})

	req := &CheckoutRequest{AmountCents: 100, Currency: "brl", ProductName: "Gift"}
	for i := 0; i < 2; i++ {
		_, err := p.CreateCheckoutSession(context.Background(), req)
		require.Error(t, err)
	}

	_, err := p.CreateCheckoutSession(context.Background(), req)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}

func TestStripeProvider_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "Invalid currency"}}`))
	})

	req := &CheckoutRequest{AmountCents: 100, Currency: "xxx", ProductName: "Gift"}
	for i := 0; i < 4; i++ {
		_, err := p.CreateCheckoutSession(context.Background(), req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, int32(4), hits.Load())
}
