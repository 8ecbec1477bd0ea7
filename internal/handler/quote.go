// Package handler contains HTTP handlers for the FwdLink application.
//
// This file implements quotation CRUD and the public quote page endpoint.
//
// Routes:
//   - POST   /api/quotes           -> Create        (auth required)
//   - GET    /api/quotes           -> List          (auth required)
//   - GET    /api/quotes/{shortId} -> Show          (auth required, owner)
//   - PUT    /api/quotes/{shortId} -> Update        (auth required, owner)
//   - DELETE /api/quotes/{shortId} -> Delete        (auth required, owner)
//   - GET    /q/{shortId}          -> Public        (no auth)
package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/1uv0cean/fwd-link/internal/auth"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/service"
)

// QuoteHandler handles quotation endpoints.
type QuoteHandler struct {
	quoteService service.QuoteService
	logger       *slog.Logger
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// RegisterRoutes registers quotation routes on the provided mux.
// requireUser wraps the owner-facing routes; the public quote page is
// registered without it but still receives WithUser so an owner viewing
// their own quote can be recognized.
func (h *QuoteHandler) RegisterRoutes(mux *http.ServeMux, withUser, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/quotes", requireUser(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/quotes", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/quotes/{shortId}", requireUser(http.HandlerFunc(h.Show)))
	mux.Handle("PUT /api/quotes/{shortId}", requireUser(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/quotes/{shortId}", requireUser(http.HandlerFunc(h.Delete)))
	mux.Handle("GET /q/{shortId}", withUser(http.HandlerFunc(h.Public)))
}

// =============================================================================
// Request / Response Types
// =============================================================================

type portPayload struct {
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Country string `json:"country"`
}

type lineItemPayload struct {
	Section  string  `json:"section"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type createQuoteRequest struct {
	POL           portPayload       `json:"pol"`
	POD           portPayload       `json:"pod"`
	ContainerType string            `json:"container_type"`
	Incoterms     string            `json:"incoterms"`
	TransportMode string            `json:"transport_mode"`
	LineItems     []lineItemPayload `json:"line_items"`
	Remarks       string            `json:"remarks"`
	ValidUntil    string            `json:"valid_until"`
	GrossWeight   float64           `json:"gross_weight"`
	CBM           float64           `json:"cbm"`
}

type updateQuoteRequest struct {
	POL           *portPayload      `json:"pol"`
	POD           *portPayload      `json:"pod"`
	ContainerType *string           `json:"container_type"`
	Incoterms     *string           `json:"incoterms"`
	TransportMode *string           `json:"transport_mode"`
	LineItems     []lineItemPayload `json:"line_items"`
	Remarks       *string           `json:"remarks"`
	ValidUntil    *string           `json:"valid_until"`
	GrossWeight   *float64          `json:"gross_weight"`
	CBM           *float64          `json:"cbm"`
}

type quoteResponse struct {
	ShortID          string            `json:"short_id"`
	URL              string            `json:"url"`
	POL              portPayload       `json:"pol"`
	POD              portPayload       `json:"pod"`
	ContainerType    string            `json:"container_type"`
	Incoterms        string            `json:"incoterms"`
	TransportMode    string            `json:"transport_mode"`
	LineItems        []lineItemPayload `json:"line_items"`
	Price            float64           `json:"price"`
	Remarks          string            `json:"remarks,omitempty"`
	ValidUntil       string            `json:"valid_until"`
	Expired          bool              `json:"expired"`
	Views            int               `json:"views"`
	GrossWeight      float64           `json:"gross_weight,omitempty"`
	CBM              float64           `json:"cbm,omitempty"`
	ChargeableWeight float64           `json:"chargeable_weight,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type quoteListResponse struct {
	Quotations         []quoteResponse `json:"quotations"`
	Usage              usagePayload    `json:"usage"`
	SubscriptionStatus string          `json:"subscription_status"`
}

type usagePayload struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	IsPro     bool `json:"is_pro"`
}

type publicQuoteResponse struct {
	Quote    quoteResponse    `json:"quote"`
	Branding *brandingPayload `json:"branding,omitempty"`
}

type brandingPayload struct {
	CompanyName  string `json:"company_name,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

// Create creates a new quotation for the authenticated forwarder.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req createQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("QuoteHandler.Create", err.Error()))
		return
	}

	validUntil, err := parseQuoteDate(req.ValidUntil)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("QuoteHandler.Create", "valid_until must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
		return
	}

	params := domain.CreateQuotationParams{
		POL:           domain.Port(req.POL),
		POD:           domain.Port(req.POD),
		ContainerType: domain.ContainerType(req.ContainerType),
		Incoterms:     domain.Incoterms(req.Incoterms),
		TransportMode: domain.TransportMode(req.TransportMode),
		LineItems:     toLineItems(req.LineItems),
		Remarks:       req.Remarks,
		ValidUntil:    validUntil,
		GrossWeight:   req.GrossWeight,
		CBM:           req.CBM,
	}

	quote, err := h.quoteService.Create(r.Context(), user.Email, params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toQuoteResponse(quote))
}

// List returns the authenticated forwarder's quotations with quota usage.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	filter := domain.QuotationFilter{
		Search:        strings.TrimSpace(r.URL.Query().Get("q")),
		ContainerType: domain.ContainerType(r.URL.Query().Get("container_type")),
		TransportMode: domain.TransportMode(r.URL.Query().Get("mode")),
	}

	result, err := h.quoteService.List(r.Context(), user.ID, filter)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	quotes := make([]quoteResponse, len(result.Quotations))
	for i := range result.Quotations {
		quotes[i] = toQuoteResponse(&result.Quotations[i])
	}

	respondJSON(w, h.logger, http.StatusOK, quoteListResponse{
		Quotations: quotes,
		Usage: usagePayload{
			Used:      result.Usage.Used,
			Limit:     result.Usage.Limit,
			Remaining: result.Usage.Remaining,
			IsPro:     result.Usage.IsPro,
		},
		SubscriptionStatus: string(result.SubscriptionStatus),
	})
}

// Show returns one of the owner's quotations without counting a view.
func (h *QuoteHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	result, err := h.quoteService.GetByShortID(r.Context(), r.PathValue("shortId"), false)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if result.Quotation.UserID != user.ID {
		// Owners only; everyone else uses the public page.
		NotFoundResponse(w, r, h.logger)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toQuoteResponse(result.Quotation))
}

// Update applies a partial update to the owner's quotation.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req updateQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("QuoteHandler.Update", err.Error()))
		return
	}

	params := domain.UpdateQuotationParams{
		Remarks:     req.Remarks,
		GrossWeight: req.GrossWeight,
		CBM:         req.CBM,
	}

	if req.POL != nil {
		p := domain.Port(*req.POL)
		params.POL = &p
	}
	if req.POD != nil {
		p := domain.Port(*req.POD)
		params.POD = &p
	}
	if req.ContainerType != nil {
		ct := domain.ContainerType(*req.ContainerType)
		params.ContainerType = &ct
	}
	if req.Incoterms != nil {
		inc := domain.Incoterms(*req.Incoterms)
		params.Incoterms = &inc
	}
	if req.TransportMode != nil {
		tm := domain.TransportMode(*req.TransportMode)
		params.TransportMode = &tm
	}
	if req.LineItems != nil {
		params.LineItems = toLineItems(req.LineItems)
		if params.LineItems == nil {
			params.LineItems = []domain.LineItem{}
		}
	}
	if req.ValidUntil != nil {
		vu, err := parseQuoteDate(*req.ValidUntil)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid("QuoteHandler.Update", "valid_until must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
			return
		}
		params.ValidUntil = &vu
	}

	quote, err := h.quoteService.Update(r.Context(), user.ID, r.PathValue("shortId"), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toQuoteResponse(quote))
}

// Delete removes the owner's quotation.
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	if err := h.quoteService.Delete(r.Context(), user.ID, r.PathValue("shortId")); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Public serves the shareable quote page payload.
//
// Every load increments the view counter, except when the quote's owner
// previews their own page with ?preview=1.
func (h *QuoteHandler) Public(w http.ResponseWriter, r *http.Request) {
	shortID := r.PathValue("shortId")

	countView := true
	if r.URL.Query().Get("preview") == "1" {
		if user := auth.GetUserFromRequest(r); user != nil {
			// Only confirmed after the quote loads; optimistically skip
			// counting and re-check ownership below.
			countView = false
		}
	}

	result, err := h.quoteService.GetByShortID(r.Context(), shortID, countView)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if !countView {
		user := auth.GetUserFromRequest(r)
		if user == nil || result.Quotation.UserID != user.ID {
			// Non-owners cannot suppress the counter; count this view after all.
			if counted, err := h.quoteService.GetByShortID(r.Context(), shortID, true); err == nil {
				result = counted
			}
		}
	}

	resp := publicQuoteResponse{Quote: toQuoteResponse(result.Quotation)}
	if b := result.Branding; b != nil {
		resp.Branding = &brandingPayload{
			CompanyName:  b.CompanyName,
			LogoURL:      b.LogoURL,
			PrimaryColor: b.PrimaryColor,
			ContactEmail: b.ContactEmail,
			ContactPhone: b.ContactPhone,
		}
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

// =============================================================================
// Helpers
// =============================================================================

func toLineItems(items []lineItemPayload) []domain.LineItem {
	if items == nil {
		return nil
	}
	out := make([]domain.LineItem, len(items))
	for i, li := range items {
		out[i] = domain.LineItem{
			Section:  domain.LineItemSection(li.Section),
			Name:     li.Name,
			Amount:   li.Amount,
			Currency: domain.Currency(li.Currency),
		}
	}
	return out
}

func toQuoteResponse(q *domain.Quotation) quoteResponse {
	items := make([]lineItemPayload, len(q.LineItems))
	for i, li := range q.LineItems {
		items[i] = lineItemPayload{
			Section:  string(li.Section),
			Name:     li.Name,
			Amount:   li.Amount,
			Currency: string(li.Currency),
		}
	}

	return quoteResponse{
		ShortID:          q.ShortID,
		URL:              "/q/" + q.ShortID,
		POL:              portPayload(q.POL),
		POD:              portPayload(q.POD),
		ContainerType:    string(q.ContainerType),
		Incoterms:        string(q.Incoterms),
		TransportMode:    string(q.TransportMode),
		LineItems:        items,
		Price:            q.Price,
		Remarks:          q.Remarks,
		ValidUntil:       q.ValidUntil.Format(time.RFC3339),
		Expired:          q.IsExpired(time.Now()),
		Views:            q.Views,
		GrossWeight:      q.GrossWeight,
		CBM:              q.CBM,
		ChargeableWeight: q.ChargeableWeight,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

// parseQuoteDate accepts either a bare date or a full RFC 3339 timestamp.
// Bare dates are interpreted as end-of-day UTC so a quote stays valid
// through its stated date.
func parseQuoteDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}
