package payment

import "errors"

// Checkout errors.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrCheckoutCreationFailed = errors.New("checkout creation failed")
	ErrSessionNotFound        = errors.New("checkout session not found")
	ErrProviderUnavailable    = errors.New("payment provider unavailable")
)

// Webhook errors.
var (
	ErrWebhookSecretMissing        = errors.New("webhook secret not configured")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
	ErrMalformedEvent              = errors.New("malformed event")
)

// Ledger errors.
var (
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("transaction already exists")
	ErrInvalidStatus        = errors.New("invalid transaction status")
)
