// Package billing provides Lemon Squeezy billing integration for subscription management.
//
// FwdLink uses Lemon Squeezy hosted checkout, so there is no API client here:
// the integration surface is a checkout URL builder and webhook verification
// plus event-to-subscription-status mapping.
package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/1uv0cean/fwd-link/internal/domain"
)

// ErrNotConfigured is returned by VerifySignature when no webhook secret
// has been set. Callers treat this as a server misconfiguration rather
// than a bad client signature.
var ErrNotConfigured = errors.New("webhook secret is not configured")

// Webhook event names sent by Lemon Squeezy.
const (
	EventSubscriptionCreated        = "subscription_created"
	EventSubscriptionUpdated        = "subscription_updated"
	EventSubscriptionCancelled      = "subscription_cancelled"
	EventSubscriptionResumed        = "subscription_resumed"
	EventSubscriptionExpired        = "subscription_expired"
	EventSubscriptionPaused         = "subscription_paused"
	EventSubscriptionUnpaused       = "subscription_unpaused"
	EventSubscriptionPaymentSuccess = "subscription_payment_success"
	EventSubscriptionPaymentFailed  = "subscription_payment_failed"
)

// Service defines the interface for billing operations.
type Service interface {
	// VerifySignature checks the X-Signature header against an HMAC-SHA256
	// of the raw webhook body. Returns an error on mismatch.
	VerifySignature(payload []byte, signature string) error

	// ParseWebhookEvent decodes a verified webhook payload.
	ParseWebhookEvent(payload []byte) (*WebhookEvent, error)

	// CheckoutURL builds a hosted checkout link for the given user. The
	// user's email is attached as custom data so the webhook can be
	// correlated back to the account.
	CheckoutURL(email string) string
}

// WebhookEvent is the subset of the Lemon Squeezy webhook payload that
// subscription sync needs.
type WebhookEvent struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			UserEmail string `json:"user_email"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status     string     `json:"status"`
			CustomerID int64      `json:"customer_id"`
			EndsAt     *time.Time `json:"ends_at"`
		} `json:"attributes"`
	} `json:"data"`
}

// UserEmail returns the account email the event applies to.
func (e *WebhookEvent) UserEmail() string {
	return e.Meta.CustomData.UserEmail
}

// SubscriptionID returns the Lemon Squeezy subscription identifier.
func (e *WebhookEvent) SubscriptionID() string {
	return e.Data.ID
}

// CustomerID returns the Lemon Squeezy customer identifier as a string.
func (e *WebhookEvent) CustomerID() string {
	if e.Data.Attributes.CustomerID == 0 {
		return ""
	}
	return strconv.FormatInt(e.Data.Attributes.CustomerID, 10)
}

// EndsAt returns when the subscription ends, if the event carries one.
func (e *WebhookEvent) EndsAt() *time.Time {
	return e.Data.Attributes.EndsAt
}

// SubscriptionStatus maps a webhook event to the account's new subscription
// status. Unknown events downgrade to free rather than leaving a paid status
// dangling on an account the billing provider no longer vouches for.
func (e *WebhookEvent) SubscriptionStatus() domain.SubscriptionStatus {
	switch e.Meta.EventName {
	case EventSubscriptionCreated, EventSubscriptionResumed,
		EventSubscriptionUnpaused, EventSubscriptionPaymentSuccess:
		return domain.SubscriptionStatusActive
	case EventSubscriptionCancelled, EventSubscriptionExpired, EventSubscriptionPaused:
		return domain.SubscriptionStatusFree
	case EventSubscriptionPaymentFailed:
		return domain.SubscriptionStatusPastDue
	case EventSubscriptionUpdated:
		// Updates carry the authoritative status in the attributes.
		return statusFromAttribute(e.Data.Attributes.Status)
	default:
		return domain.SubscriptionStatusFree
	}
}

// statusFromAttribute maps the attributes.status field of a subscription
// object to an account status. An update event means the subscription still
// exists, so unrecognized sub-states keep the account active rather than
// silently downgrading a paying customer.
func statusFromAttribute(status string) domain.SubscriptionStatus {
	switch status {
	case "cancelled", "expired", "unpaid", "paused":
		return domain.SubscriptionStatusFree
	case "past_due":
		return domain.SubscriptionStatusPastDue
	default:
		// active, on_trial, and anything new the provider adds
		return domain.SubscriptionStatusActive
	}
}

// =============================================================================
// Service Implementation
// =============================================================================

// lemonSqueezyService is the concrete implementation of Service.
type lemonSqueezyService struct {
	webhookSecret string
	checkoutURL   string // Hosted checkout base, e.g. "https://fwdlink.lemonsqueezy.com/buy/abc123"
}

// NewLemonSqueezyService creates a new Lemon Squeezy billing service.
//
// The webhookSecret is the shared secret configured on the Lemon Squeezy
// webhook endpoint. The checkoutURL is the hosted checkout link for the
// Pro plan's product variant.
func NewLemonSqueezyService(webhookSecret, checkoutURL string) Service {
	return &lemonSqueezyService{
		webhookSecret: webhookSecret,
		checkoutURL:   checkoutURL,
	}
}

func (s *lemonSqueezyService) VerifySignature(payload []byte, signature string) error {
	if s.webhookSecret == "" {
		return ErrNotConfigured
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("webhook signature mismatch")
	}
	return nil
}

func (s *lemonSqueezyService) ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}
	return &event, nil
}

func (s *lemonSqueezyService) CheckoutURL(email string) string {
	q := url.Values{}
	q.Set("checkout[email]", email)
	q.Set("checkout[custom][user_email]", email)
	return s.checkoutURL + "?" + q.Encode()
}

var _ Service = (*lemonSqueezyService)(nil)
