// Package provider wraps the hosted-checkout payment provider.
package provider

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when the provider has no such session.
var ErrSessionNotFound = errors.New("session not found")

// CheckoutRequest describes a one-line-item hosted checkout.
type CheckoutRequest struct {
	AmountCents        int64
	Currency           string
	ProductName        string
	ProductDescription string
	CustomerEmail      string
	ClientReferenceID  string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// CheckoutSession is the provider's view of a hosted checkout.
type CheckoutSession struct {
	ID              string            `json:"id"`
	URL             string            `json:"url,omitempty"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	CustomerEmail   string            `json:"customer_email,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Provider opens and inspects hosted checkout sessions.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// CreateCheckoutSession opens a hosted checkout and returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)

	// GetCheckoutSession retrieves a session by id.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
