package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/1uv0cean/fwd-link/internal/billing"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/service"
)

const testWebhookSecret = "whsec_test"

// mockSubscriptionService records Sync calls for assertions.
type mockSubscriptionService struct {
	syncCalls  []service.SubscriptionSyncParams
	syncResult error
}

func (m *mockSubscriptionService) Sync(ctx context.Context, params service.SubscriptionSyncParams) error {
	m.syncCalls = append(m.syncCalls, params)
	return m.syncResult
}

func newWebhookTestHandler(secret string, subs *mockSubscriptionService) *WebhookHandler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewWebhookHandler(billing.NewLemonSqueezyService(secret, ""), subs, logger)
}

func signWebhookBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookRequest(body []byte, signature string) *http.Request {
	req := httptest.NewRequest("POST", "/webhooks/lemonsqueezy", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	return req
}

const validWebhookBody = `{
	"meta": {
		"event_name": "subscription_created",
		"custom_data": {"user_email": "owner@example.com"}
	},
	"data": {
		"id": "312456",
		"attributes": {
			"status": "active",
			"customer_id": 998877
		}
	}
}`

func TestWebhook_ValidEvent_SyncsSubscription(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte(validWebhookBody)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, signWebhookBody(testWebhookSecret, body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(subs.syncCalls) != 1 {
		t.Fatalf("Sync called %d times, want 1", len(subs.syncCalls))
	}

	call := subs.syncCalls[0]
	if call.Email != "owner@example.com" {
		t.Errorf("Email = %q, want owner@example.com", call.Email)
	}
	if call.Status != domain.SubscriptionStatusActive {
		t.Errorf("Status = %q, want active", call.Status)
	}
	if call.SubscriptionID != "312456" {
		t.Errorf("SubscriptionID = %q, want 312456", call.SubscriptionID)
	}
	if call.CustomerID != "998877" {
		t.Errorf("CustomerID = %q, want 998877", call.CustomerID)
	}
}

func TestWebhook_BadSignature_Returns403WithoutSync(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte(validWebhookBody)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, "deadbeef"))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if len(subs.syncCalls) != 0 {
		t.Error("Sync must not be called for an unverified payload")
	}
}

func TestWebhook_MissingSignature_Returns403(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte(validWebhookBody)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, ""))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if len(subs.syncCalls) != 0 {
		t.Error("Sync must not be called for an unsigned payload")
	}
}

func TestWebhook_NoSecretConfigured_Returns500(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler("", subs)

	body := []byte(validWebhookBody)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, "anything"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if len(subs.syncCalls) != 0 {
		t.Error("Sync must not be called when the secret is missing")
	}
}

func TestWebhook_MissingUserEmail_Returns400(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte(`{
		"meta": {"event_name": "subscription_created", "custom_data": {}},
		"data": {"id": "1", "attributes": {"status": "active"}}
	}`)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, signWebhookBody(testWebhookSecret, body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(subs.syncCalls) != 0 {
		t.Error("Sync must not be called without an attributable email")
	}
}

func TestWebhook_InvalidJSON_Returns400(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte("not json at all")
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, signWebhookBody(testWebhookSecret, body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWebhook_UnknownAccount_Returns404(t *testing.T) {
	subs := &mockSubscriptionService{
		syncResult: domain.Errorf(domain.EUSERNOTFOUND, "SubscriptionService.Sync", "No account"),
	}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte(validWebhookBody)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, signWebhookBody(testWebhookSecret, body)))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestWebhook_CancellationEvent_SyncsFreeStatus(t *testing.T) {
	subs := &mockSubscriptionService{}
	h := newWebhookTestHandler(testWebhookSecret, subs)

	body := []byte(`{
		"meta": {
			"event_name": "subscription_expired",
			"custom_data": {"user_email": "owner@example.com"}
		},
		"data": {"id": "312456", "attributes": {"status": "expired"}}
	}`)
	rec := httptest.NewRecorder()
	h.HandleLemonSqueezyWebhook(rec, webhookRequest(body, signWebhookBody(testWebhookSecret, body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(subs.syncCalls) != 1 {
		t.Fatalf("Sync called %d times, want 1", len(subs.syncCalls))
	}
	if subs.syncCalls[0].Status != domain.SubscriptionStatusFree {
		t.Errorf("Status = %q, want free", subs.syncCalls[0].Status)
	}
}
