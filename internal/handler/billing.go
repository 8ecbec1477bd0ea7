// Package handler contains HTTP handlers for the FwdLink application.
//
// This file implements the billing checkout endpoint. FwdLink uses Lemon
// Squeezy hosted checkout, so upgrading is a redirect to a prefilled
// checkout URL; subscription state flows back via webhooks.
//
// Route:
//   - GET /api/billing/checkout -> Checkout (auth required)
package handler

import (
	"log/slog"
	"net/http"

	"github.com/1uv0cean/fwd-link/internal/auth"
	"github.com/1uv0cean/fwd-link/internal/billing"
	"github.com/1uv0cean/fwd-link/internal/domain"
)

// BillingHandler handles billing endpoints.
type BillingHandler struct {
	billing billing.Service
	logger  *slog.Logger
}

// NewBillingHandler creates a new BillingHandler.
// billingService may be nil when billing is not configured.
func NewBillingHandler(billingService billing.Service, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billing: billingService,
		logger:  logger,
	}
}

// RegisterRoutes registers billing routes on the provided mux.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/billing/checkout", requireUser(http.HandlerFunc(h.Checkout)))
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// Checkout returns the hosted checkout URL for the authenticated forwarder.
// The email is prefilled and carried as custom data so the webhook can
// attribute the resulting subscription to this account.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "BillingHandler.Checkout"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	if h.billing == nil {
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.ENOTIMPL, op, "Billing is not configured"))
		return
	}

	if user.IsPro() {
		ErrorResponse(w, r, h.logger, domain.Conflict(op, "Subscription is already active"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, checkoutResponse{
		URL: h.billing.CheckoutURL(user.Email),
	})
}
