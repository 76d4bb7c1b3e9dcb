package payment

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/metrics"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes bounds the raw body read for signature checks.
const maxWebhookBodyBytes = 65536

// WebhookHandler handles Stripe webhook events.
type WebhookHandler struct {
	reconciler *Reconciler
	repo       Repository
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(
	reconciler *Reconciler,
	repo Repository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		repo:       repo,
		metrics:    m,
		logger:     logger,
	}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook handles incoming Stripe webhook events.
//
//	@Summary		Receive Stripe webhook
//	@Description	Verifies the Stripe-Signature header and reconciles the transaction ledger
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string	true	"Stripe signature"
//	@Success		200					{object}	map[string]bool
//	@Failure		400					{object}	map[string]string	"Verification failed or malformed event"
//	@Failure		500					{object}	map[string]string	"Ledger unavailable"
//	@Router			/webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Read raw body for signature verification
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		h.metrics.RecordWebhookEvent("unknown", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	event, err := h.reconciler.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.metrics.RecordWebhookEvent("unknown", "rejected")
		switch {
		case errors.Is(err, ErrWebhookSecretMissing):
			h.logger.Error("webhook secret not configured")
			c.JSON(http.StatusBadRequest, gin.H{"error": "webhook secret not configured"})
		case errors.Is(err, ErrSignatureVerificationFailed):
			h.logger.Warn("invalid webhook signature", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		default:
			h.logger.Warn("invalid webhook event", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		}
		return
	}

	eventType := string(event.Type)
	log := h.logger.With(zap.String("event_id", event.ID), zap.String("event_type", eventType))

	if IsTestEvent(event) {
		log.Info("test webhook event acknowledged")
		h.metrics.RecordWebhookEvent(eventType, "test")
		c.JSON(http.StatusOK, gin.H{"received": true, "verified": true})
		return
	}

	ctx := c.Request.Context()

	// Idempotency check
	duplicate, err := h.recordEvent(ctx, event, payload)
	if err != nil {
		log.Error("failed to record webhook event", zap.Error(err))
		h.metrics.RecordWebhookEvent(eventType, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if duplicate {
		log.Info("webhook event already processed")
		h.metrics.RecordWebhookEvent(eventType, "duplicate")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	outcome, processErr := h.reconciler.Dispatch(ctx, event)

	if err := h.repo.MarkWebhookEventProcessed(ctx, event.ID, processErr); err != nil {
		log.Error("failed to mark event processed", zap.Error(err))
	}

	if processErr != nil {
		if errors.Is(processErr, ErrMalformedEvent) {
			log.Warn("malformed webhook event", zap.Error(processErr))
			h.metrics.RecordWebhookEvent(eventType, "rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
			return
		}
		log.Error("failed to process webhook event", zap.Error(processErr))
		h.metrics.RecordWebhookEvent(eventType, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.metrics.RecordWebhookEvent(eventType, string(outcome))
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// recordEvent stores the event and reports whether it was already processed successfully.
func (h *WebhookHandler) recordEvent(ctx context.Context, event *stripe.Event, payload []byte) (bool, error) {
	existing, err := h.repo.GetWebhookEvent(ctx, event.ID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return existing.Processed && existing.Error == "", nil
	}

	return false, h.repo.CreateWebhookEvent(ctx, &WebhookEvent{
		EventID: event.ID,
		Type:    string(event.Type),
		Payload: string(payload),
	})
}
