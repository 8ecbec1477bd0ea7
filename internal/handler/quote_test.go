package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/1uv0cean/fwd-link/internal/auth"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/service"
)

// mockQuoteService implements service.QuoteService for handler tests.
type mockQuoteService struct {
	CreateFunc       func(ctx context.Context, ownerEmail string, params domain.CreateQuotationParams) (*domain.Quotation, error)
	GetByShortIDFunc func(ctx context.Context, shortID string, countView bool) (*service.PublicQuote, error)
	UpdateFunc       func(ctx context.Context, userID uuid.UUID, shortID string, params domain.UpdateQuotationParams) (*domain.Quotation, error)
	DeleteFunc       func(ctx context.Context, userID uuid.UUID, shortID string) error
	ListFunc         func(ctx context.Context, userID uuid.UUID, filter domain.QuotationFilter) (*service.QuoteListResult, error)
}

func (m *mockQuoteService) Create(ctx context.Context, ownerEmail string, params domain.CreateQuotationParams) (*domain.Quotation, error) {
	return m.CreateFunc(ctx, ownerEmail, params)
}

func (m *mockQuoteService) GetByShortID(ctx context.Context, shortID string, countView bool) (*service.PublicQuote, error) {
	return m.GetByShortIDFunc(ctx, shortID, countView)
}

func (m *mockQuoteService) Update(ctx context.Context, userID uuid.UUID, shortID string, params domain.UpdateQuotationParams) (*domain.Quotation, error) {
	return m.UpdateFunc(ctx, userID, shortID, params)
}

func (m *mockQuoteService) Delete(ctx context.Context, userID uuid.UUID, shortID string) error {
	return m.DeleteFunc(ctx, userID, shortID)
}

func (m *mockQuoteService) List(ctx context.Context, userID uuid.UUID, filter domain.QuotationFilter) (*service.QuoteListResult, error) {
	return m.ListFunc(ctx, userID, filter)
}

func quoteTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testQuotation(ownerID uuid.UUID) *domain.Quotation {
	return &domain.Quotation{
		ID:      uuid.New(),
		ShortID: "AB12CD9",
		UserID:  ownerID,
		POL:     domain.Port{Name: "BUSAN", Code: "KRPUS", Country: "KR"},
		POD:     domain.Port{Name: "LOS ANGELES", Code: "USLAX", Country: "US"},
		LineItems: []domain.LineItem{
			{Section: domain.SectionFreight, Name: "Ocean Freight", Amount: 1500, Currency: domain.CurrencyUSD},
		},
		Price: 1500,
		Views: 3,
	}
}

// withTestUser attaches a user to the request context the way WithUser would.
func withTestUser(req *http.Request, user *domain.User) *http.Request {
	return req.WithContext(auth.SetUser(req.Context(), user))
}

func TestQuoteCreate_Success(t *testing.T) {
	ownerID := uuid.New()
	owner := &domain.User{ID: ownerID, Email: "fwd@example.com"}

	mock := &mockQuoteService{
		CreateFunc: func(ctx context.Context, ownerEmail string, params domain.CreateQuotationParams) (*domain.Quotation, error) {
			if ownerEmail != "fwd@example.com" {
				t.Errorf("ownerEmail = %q, want fwd@example.com", ownerEmail)
			}
			if params.POL.Name != "Busan" {
				t.Errorf("POL.Name = %q, want Busan", params.POL.Name)
			}
			return testQuotation(ownerID), nil
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	body := `{
		"pol": {"name": "Busan", "code": "KRPUS", "country": "KR"},
		"pod": {"name": "Los Angeles", "code": "USLAX", "country": "US"},
		"transport_mode": "FCL",
		"line_items": [{"section": "FREIGHT", "name": "Ocean Freight", "amount": 1500, "currency": "USD"}],
		"valid_until": "2026-12-31"
	}`
	req := withTestUser(httptest.NewRequest("POST", "/api/quotes", strings.NewReader(body)), owner)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.ShortID != "AB12CD9" {
		t.Errorf("short_id = %q, want AB12CD9", resp.ShortID)
	}
	if resp.URL != "/q/AB12CD9" {
		t.Errorf("url = %q, want /q/AB12CD9", resp.URL)
	}
}

func TestQuoteCreate_QuotaExceeded_Returns402(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Email: "fwd@example.com"}

	mock := &mockQuoteService{
		CreateFunc: func(ctx context.Context, ownerEmail string, params domain.CreateQuotationParams) (*domain.Quotation, error) {
			return nil, domain.LimitReached("QuoteService.Create")
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	body := `{"pol": {"name": "Busan", "country": "KR"}, "pod": {"name": "Oakland", "country": "US"}, "valid_until": "2026-12-31"}`
	req := withTestUser(httptest.NewRequest("POST", "/api/quotes", strings.NewReader(body)), owner)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusPaymentRequired)
	}
}

func TestQuoteCreate_InvalidDate_Returns400(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Email: "fwd@example.com"}
	h := NewQuoteHandler(&mockQuoteService{}, quoteTestLogger())

	body := `{"pol": {"name": "Busan", "country": "KR"}, "pod": {"name": "Oakland", "country": "US"}, "valid_until": "soon"}`
	req := withTestUser(httptest.NewRequest("POST", "/api/quotes", strings.NewReader(body)), owner)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestQuoteShow_NonOwner_Returns404(t *testing.T) {
	ownerID := uuid.New()
	stranger := &domain.User{ID: uuid.New(), Email: "other@example.com"}

	mock := &mockQuoteService{
		GetByShortIDFunc: func(ctx context.Context, shortID string, countView bool) (*service.PublicQuote, error) {
			if countView {
				t.Error("Show must not count views")
			}
			return &service.PublicQuote{Quotation: testQuotation(ownerID)}, nil
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	req := withTestUser(httptest.NewRequest("GET", "/api/quotes/AB12CD9", nil), stranger)
	req.SetPathValue("shortId", "AB12CD9")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	h.Show(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestQuotePublic_CountsView(t *testing.T) {
	ownerID := uuid.New()

	var countedView bool
	mock := &mockQuoteService{
		GetByShortIDFunc: func(ctx context.Context, shortID string, countView bool) (*service.PublicQuote, error) {
			countedView = countView
			return &service.PublicQuote{
				Quotation: testQuotation(ownerID),
				Branding:  &domain.Branding{CompanyName: "Pacific Forwarding"},
			}, nil
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	req := httptest.NewRequest("GET", "/q/AB12CD9", nil)
	req.SetPathValue("shortId", "AB12CD9")
	rec := httptest.NewRecorder()

	h.Public(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !countedView {
		t.Error("anonymous page load must count a view")
	}

	var resp publicQuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Branding == nil || resp.Branding.CompanyName != "Pacific Forwarding" {
		t.Errorf("branding not included in public payload: %+v", resp.Branding)
	}
}

func TestQuotePublic_OwnerPreview_SkipsViewCount(t *testing.T) {
	ownerID := uuid.New()
	owner := &domain.User{ID: ownerID, Email: "fwd@example.com"}

	mock := &mockQuoteService{
		GetByShortIDFunc: func(ctx context.Context, shortID string, countView bool) (*service.PublicQuote, error) {
			if countView {
				t.Error("owner preview must not count a view")
			}
			return &service.PublicQuote{Quotation: testQuotation(ownerID)}, nil
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	req := withTestUser(httptest.NewRequest("GET", "/q/AB12CD9?preview=1", nil), owner)
	req.SetPathValue("shortId", "AB12CD9")
	rec := httptest.NewRecorder()

	h.Public(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestQuoteDelete_Success(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Email: "fwd@example.com"}

	var deletedShortID string
	mock := &mockQuoteService{
		DeleteFunc: func(ctx context.Context, userID uuid.UUID, shortID string) error {
			deletedShortID = shortID
			return nil
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	req := withTestUser(httptest.NewRequest("DELETE", "/api/quotes/AB12CD9", nil), owner)
	req.SetPathValue("shortId", "AB12CD9")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if deletedShortID != "AB12CD9" {
		t.Errorf("deleted shortID = %q, want AB12CD9", deletedShortID)
	}
}

func TestQuoteList_IncludesUsage(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Email: "fwd@example.com"}

	mock := &mockQuoteService{
		ListFunc: func(ctx context.Context, userID uuid.UUID, filter domain.QuotationFilter) (*service.QuoteListResult, error) {
			if filter.Search != "busan" {
				t.Errorf("filter.Search = %q, want busan", filter.Search)
			}
			return &service.QuoteListResult{
				Quotations:         []domain.Quotation{*testQuotation(owner.ID)},
				Usage:              domain.QuotaUsage{Used: 4, Limit: 10, Remaining: 6},
				SubscriptionStatus: domain.SubscriptionStatusFree,
			}, nil
		},
	}
	h := NewQuoteHandler(mock, quoteTestLogger())

	req := withTestUser(httptest.NewRequest("GET", "/api/quotes?q=busan", nil), owner)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp quoteListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Quotations) != 1 {
		t.Errorf("quotations = %d, want 1", len(resp.Quotations))
	}
	if resp.Usage.Remaining != 6 {
		t.Errorf("usage.remaining = %d, want 6", resp.Usage.Remaining)
	}
	if resp.SubscriptionStatus != "free" {
		t.Errorf("subscription_status = %q, want free", resp.SubscriptionStatus)
	}
}
