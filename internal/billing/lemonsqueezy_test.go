package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1uv0cean/fwd-link/internal/domain"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test-webhook-secret"
	svc := NewLemonSqueezyService(secret, "https://fwdlink.lemonsqueezy.com/buy/abc123")
	payload := []byte(`{"meta":{"event_name":"subscription_created"}}`)

	t.Run("valid signature", func(t *testing.T) {
		err := svc.VerifySignature(payload, signPayload(secret, payload))
		assert.NoError(t, err)
	})

	t.Run("wrong signature", func(t *testing.T) {
		err := svc.VerifySignature(payload, signPayload("other-secret", payload))
		assert.Error(t, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		sig := signPayload(secret, payload)
		err := svc.VerifySignature([]byte(`{"meta":{"event_name":"subscription_expired"}}`), sig)
		assert.Error(t, err)
	})

	t.Run("missing secret", func(t *testing.T) {
		empty := NewLemonSqueezyService("", "")
		err := empty.VerifySignature(payload, signPayload("", payload))
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestParseWebhookEvent(t *testing.T) {
	svc := NewLemonSqueezyService("secret", "")

	payload := []byte(`{
		"meta": {
			"event_name": "subscription_created",
			"custom_data": {"user_email": "forwarder@example.com"}
		},
		"data": {
			"id": "sub_123",
			"attributes": {
				"status": "active",
				"customer_id": 98765,
				"ends_at": "2026-09-28T00:00:00Z"
			}
		}
	}`)

	event, err := svc.ParseWebhookEvent(payload)
	require.NoError(t, err)

	assert.Equal(t, "subscription_created", event.Meta.EventName)
	assert.Equal(t, "forwarder@example.com", event.UserEmail())
	assert.Equal(t, "sub_123", event.SubscriptionID())
	assert.Equal(t, "98765", event.CustomerID())
	require.NotNil(t, event.EndsAt())
	assert.Equal(t, 2026, event.EndsAt().Year())
}

func TestParseWebhookEventInvalidJSON(t *testing.T) {
	svc := NewLemonSqueezyService("secret", "")
	_, err := svc.ParseWebhookEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestSubscriptionStatusMapping(t *testing.T) {
	tests := []struct {
		eventName string
		attrState string
		want      domain.SubscriptionStatus
	}{
		{EventSubscriptionCreated, "", domain.SubscriptionStatusActive},
		{EventSubscriptionResumed, "", domain.SubscriptionStatusActive},
		{EventSubscriptionUnpaused, "", domain.SubscriptionStatusActive},
		{EventSubscriptionPaymentSuccess, "", domain.SubscriptionStatusActive},
		{EventSubscriptionCancelled, "", domain.SubscriptionStatusFree},
		{EventSubscriptionExpired, "", domain.SubscriptionStatusFree},
		{EventSubscriptionPaused, "", domain.SubscriptionStatusFree},
		{EventSubscriptionPaymentFailed, "", domain.SubscriptionStatusPastDue},
		{EventSubscriptionUpdated, "active", domain.SubscriptionStatusActive},
		{EventSubscriptionUpdated, "on_trial", domain.SubscriptionStatusActive},
		{EventSubscriptionUpdated, "past_due", domain.SubscriptionStatusPastDue},
		{EventSubscriptionUpdated, "cancelled", domain.SubscriptionStatusFree},
		{EventSubscriptionUpdated, "unpaid", domain.SubscriptionStatusFree},
		{EventSubscriptionUpdated, "some_future_state", domain.SubscriptionStatusActive},
		{"order_created", "", domain.SubscriptionStatusFree},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.eventName, tt.attrState), func(t *testing.T) {
			var event WebhookEvent
			event.Meta.EventName = tt.eventName
			event.Data.Attributes.Status = tt.attrState
			assert.Equal(t, tt.want, event.SubscriptionStatus())
		})
	}
}

func TestCheckoutURL(t *testing.T) {
	svc := NewLemonSqueezyService("secret", "https://fwdlink.lemonsqueezy.com/buy/abc123")

	got := svc.CheckoutURL("owner@example.com")

	assert.Contains(t, got, "https://fwdlink.lemonsqueezy.com/buy/abc123?")
	assert.Contains(t, got, "owner%40example.com")
	assert.Contains(t, got, "user_email")
}
