// Package handler contains HTTP handlers for the FwdLink application.
//
// This file implements the Lemon Squeezy webhook handler for processing
// billing events.
//
// Route:
//   - POST /webhooks/lemonsqueezy -> HandleLemonSqueezyWebhook
//
// This route is PUBLIC (no auth middleware) because Lemon Squeezy calls it
// directly. Authentication is via the X-Signature HMAC verification.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/1uv0cean/fwd-link/internal/billing"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/metrics"
	"github.com/1uv0cean/fwd-link/internal/service"
)

// WebhookHandler handles incoming webhook events from Lemon Squeezy.
type WebhookHandler struct {
	billing       billing.Service
	subscriptions service.SubscriptionService
	logger        *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(billingService billing.Service, subscriptions service.SubscriptionService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing:       billingService,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// RegisterRoutes registers webhook routes on the provided mux.
// These routes are PUBLIC — no auth middleware.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/lemonsqueezy", h.HandleLemonSqueezyWebhook)
}

// HandleLemonSqueezyWebhook processes incoming Lemon Squeezy webhook events.
//
// Non-2xx responses make Lemon Squeezy retry the delivery, so the handler
// is careful about which status it returns: 403 for signatures we will
// never accept, 404 when the account does not exist yet (a retry may land
// after registration), 500 for our own failures.
func (h *WebhookHandler) HandleLemonSqueezyWebhook(w http.ResponseWriter, r *http.Request) {
	// Read body (limit to 64KB). The signature covers the raw bytes, so
	// verification has to happen before any decoding.
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Signature")
	if err := h.billing.VerifySignature(body, signature); err != nil {
		if errors.Is(err, billing.ErrNotConfigured) {
			h.logger.Error("webhook received but no webhook secret is configured")
			metrics.WebhookEvents.WithLabelValues("unknown", "misconfigured").Inc()
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		h.logger.Warn("webhook signature verification failed", "error", err)
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		w.WriteHeader(http.StatusForbidden)
		return
	}

	event, err := h.billing.ParseWebhookEvent(body)
	if err != nil {
		h.logger.Warn("failed to parse webhook payload", "error", err)
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid").Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	eventName := event.Meta.EventName
	h.logger.Info("lemonsqueezy webhook received", "event", eventName)

	email := event.UserEmail()
	if email == "" {
		// Custom data is set on the checkout link; an event without it
		// cannot be attributed to an account and retrying will not help.
		h.logger.Warn("webhook event missing user_email custom data", "event", eventName)
		metrics.WebhookEvents.WithLabelValues(eventName, "invalid").Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.subscriptions.Sync(r.Context(), service.SubscriptionSyncParams{
		Email:          email,
		Status:         event.SubscriptionStatus(),
		SubscriptionID: event.SubscriptionID(),
		CustomerID:     event.CustomerID(),
		EndsAt:         event.EndsAt(),
	})
	if err != nil {
		if domain.ErrorCode(err) == domain.EUSERNOTFOUND {
			h.logger.Warn("webhook event for unknown account", "event", eventName, "email", email)
			metrics.WebhookEvents.WithLabelValues(eventName, "orphaned").Inc()
			w.WriteHeader(http.StatusNotFound)
			return
		}

		h.logger.Error("failed to apply webhook event", "error", err, "event", eventName)
		metrics.WebhookEvents.WithLabelValues(eventName, "error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	metrics.WebhookEvents.WithLabelValues(eventName, "processed").Inc()
	w.WriteHeader(http.StatusOK)
}
