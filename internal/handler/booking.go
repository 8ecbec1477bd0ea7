// Package handler contains HTTP handlers for the FwdLink application.
//
// This file implements booking request endpoints.
//
// Routes:
//   - POST  /api/bookings      -> Submit       (public, rate limited)
//   - GET   /api/bookings      -> List         (auth required)
//   - PATCH /api/bookings/{id} -> UpdateStatus (auth required, owner)
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/1uv0cean/fwd-link/internal/auth"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/service"
)

// BookingHandler handles booking request endpoints.
type BookingHandler struct {
	bookingService service.BookingService
	logger         *slog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// RegisterRoutes registers booking routes on the provided mux.
// Submit is public: shippers book from the quote page without an account.
// limitBooking applies the per-IP submission rate limit.
func (h *BookingHandler) RegisterRoutes(mux *http.ServeMux, limitBooking, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/bookings", limitBooking(http.HandlerFunc(h.Submit)))
	mux.Handle("GET /api/bookings", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("PATCH /api/bookings/{id}", requireUser(http.HandlerFunc(h.UpdateStatus)))
}

// =============================================================================
// Request / Response Types
// =============================================================================

type submitBookingRequest struct {
	QuoteShortID   string `json:"quote_short_id"`
	ShipperCompany string `json:"shipper_company"`
	ShipperName    string `json:"shipper_name"`
	ShipperEmail   string `json:"shipper_email"`
	ShipperPhone   string `json:"shipper_phone"`
	ReadyDate      string `json:"ready_date"`
	Commodity      string `json:"commodity"`
	Volume         string `json:"volume"`
	Message        string `json:"message"`
}

type updateBookingRequest struct {
	Status string `json:"status"`
}

type bookingResponse struct {
	ID             string    `json:"id"`
	QuoteShortID   string    `json:"quote_short_id"`
	Route          string    `json:"route"`
	ShipperCompany string    `json:"shipper_company"`
	ShipperName    string    `json:"shipper_name"`
	ShipperEmail   string    `json:"shipper_email"`
	ShipperPhone   string    `json:"shipper_phone"`
	ReadyDate      string    `json:"ready_date"`
	Commodity      string    `json:"commodity"`
	Volume         string    `json:"volume"`
	Message        string    `json:"message,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type submitBookingResponse struct {
	Booking bookingResponse `json:"booking"`
	// NotificationPending is true when the booking was recorded but the
	// forwarder's notification email could not be queued.
	NotificationPending bool `json:"notification_pending,omitempty"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
}

// =============================================================================
// Handlers
// =============================================================================

// Submit records a shipper's booking request against a published quote.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "BookingHandler.Submit"

	var req submitBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, err.Error()))
		return
	}

	readyDate, err := parseQuoteDate(req.ReadyDate)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "ready_date must be a date (YYYY-MM-DD)"))
		return
	}

	booking, err := h.bookingService.Submit(r.Context(), domain.SubmitBookingParams{
		QuoteShortID:   req.QuoteShortID,
		ShipperCompany: req.ShipperCompany,
		ShipperName:    req.ShipperName,
		ShipperEmail:   req.ShipperEmail,
		ShipperPhone:   req.ShipperPhone,
		ReadyDate:      readyDate,
		Commodity:      req.Commodity,
		Volume:         req.Volume,
		Message:        req.Message,
	})
	if err != nil {
		// A delivery failure after the booking was persisted is reported
		// to the shipper as success with a pending-notification flag: the
		// request is safely recorded either way.
		if booking != nil && domain.ErrorCode(err) == domain.EDELIVERY {
			h.logger.Warn("booking recorded but notification not queued",
				"booking_id", booking.ID, "error", err)
			respondJSON(w, h.logger, http.StatusCreated, submitBookingResponse{
				Booking:             toBookingResponse(booking),
				NotificationPending: true,
			})
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, submitBookingResponse{
		Booking: toBookingResponse(booking),
	})
}

// List returns the authenticated forwarder's booking requests newest-first.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	bookings, err := h.bookingService.List(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]bookingResponse, len(bookings))
	for i := range bookings {
		out[i] = toBookingResponse(&bookings[i])
	}

	respondJSON(w, h.logger, http.StatusOK, bookingListResponse{Bookings: out})
}

// UpdateStatus confirms or cancels one of the owner's pending bookings.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "BookingHandler.UpdateStatus"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	bookingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, r, h.logger)
		return
	}

	var req updateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, err.Error()))
		return
	}

	booking, err := h.bookingService.UpdateStatus(r.Context(), user.ID, bookingID, domain.BookingStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toBookingResponse(booking))
}

// =============================================================================
// Helpers
// =============================================================================

func toBookingResponse(b *domain.BookingRequest) bookingResponse {
	return bookingResponse{
		ID:             b.ID.String(),
		QuoteShortID:   b.QuoteShortID,
		Route:          b.Route,
		ShipperCompany: b.ShipperCompany,
		ShipperName:    b.ShipperName,
		ShipperEmail:   b.ShipperEmail,
		ShipperPhone:   b.ShipperPhone,
		ReadyDate:      b.ReadyDate.Format("2006-01-02"),
		Commodity:      b.Commodity,
		Volume:         b.Volume,
		Message:        b.Message,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
