// Package service contains the business logic layer.
//
// This file implements the booking lifecycle: unauthenticated submission
// against a public quote, the owner's list, and the pending -> confirmed /
// cancelled status transitions.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/metrics"
	"github.com/1uv0cean/fwd-link/internal/repository"
	"github.com/1uv0cean/fwd-link/internal/worker"
	"github.com/google/uuid"
)

// BookingListLimit caps the owner's booking list.
const BookingListLimit = 50

// BookingService defines the interface for booking request operations.
type BookingService interface {
	// Submit records a shipper's booking request against a published quote
	// and enqueues the notification email to the quote owner.
	//
	// The booking is persisted before the notification is attempted: a
	// delivery problem must never lose a legitimate request. If enqueueing
	// fails the booking is returned together with a domain.EDELIVERY error
	// so the caller can tell the shipper the request was recorded but the
	// forwarder may not have been notified yet.
	Submit(ctx context.Context, params domain.SubmitBookingParams) (*domain.BookingRequest, error)

	// List returns the owner's booking requests newest-first.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.BookingRequest, error)

	// UpdateStatus moves an owned booking from pending to confirmed or
	// cancelled. Both target states are terminal.
	UpdateStatus(ctx context.Context, ownerID, bookingID uuid.UUID, status domain.BookingStatus) (*domain.BookingRequest, error)
}

// bookingService is the concrete implementation of BookingService.
type bookingService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(queries *repository.Queries, logger *slog.Logger) BookingService {
	return &bookingService{
		queries: queries,
		logger:  logger,
	}
}

// Submit records a booking request.
func (s *bookingService) Submit(ctx context.Context, params domain.SubmitBookingParams) (*domain.BookingRequest, error) {
	const op = "BookingService.Submit"

	if err := validateBookingParams(op, &params); err != nil {
		return nil, err
	}

	repoQuote, err := s.queries.GetQuotationByShortID(ctx, params.QuoteShortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "quotation", params.QuoteShortID)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve quotation")
	}

	quote := repoQuotationToDomain(repoQuote)

	created, err := s.queries.CreateBookingRequest(ctx, repository.CreateBookingRequestParams{
		QuotationID:    uuid.NullUUID{UUID: quote.ID, Valid: true},
		OwnerID:        quote.UserID,
		ShipperCompany: params.ShipperCompany,
		ShipperName:    params.ShipperName,
		ShipperEmail:   params.ShipperEmail,
		ShipperPhone:   params.ShipperPhone,
		ReadyDate:      params.ReadyDate,
		Commodity:      params.Commodity,
		Volume:         params.Volume,
		Message:        params.Message,
		Route:          quote.Route(),
		QuoteShortID:   quote.ShortID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to save booking request")
	}

	booking := repoBookingToDomain(created)
	metrics.BookingsSubmitted.Inc()
	s.logger.Info("booking request submitted",
		"booking_id", booking.ID,
		"short_id", booking.QuoteShortID,
		"owner_id", booking.OwnerID,
	)

	// Notification is a best-effort side effect; the booking stands either way.
	_, err = worker.EnqueueSendBookingEmail(ctx, s.queries, booking.ID)
	if err != nil {
		s.logger.Error("failed to enqueue booking notification", "booking_id", booking.ID, "error", err)
		return booking, domain.Wrap(err, domain.EDELIVERY, op,
			"Booking request was saved but the forwarder could not be notified")
	}

	return booking, nil
}

// List returns the owner's booking requests.
func (s *bookingService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.BookingRequest, error) {
	const op = "BookingService.List"

	repoBookings, err := s.queries.ListBookingRequestsByOwnerID(ctx, repository.ListBookingRequestsByOwnerIDParams{
		OwnerID: ownerID,
		Limit:   BookingListLimit,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list booking requests")
	}

	bookings := make([]domain.BookingRequest, len(repoBookings))
	for i, rb := range repoBookings {
		bookings[i] = *repoBookingToDomain(rb)
	}

	return bookings, nil
}

// UpdateStatus moves a pending booking to a terminal state.
func (s *bookingService) UpdateStatus(ctx context.Context, ownerID, bookingID uuid.UUID, status domain.BookingStatus) (*domain.BookingRequest, error) {
	const op = "BookingService.UpdateStatus"

	if !domain.ValidBookingStatus(status) {
		return nil, domain.Invalid(op, "Unknown booking status")
	}

	repoBooking, err := s.queries.GetBookingRequestByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "booking request", bookingID.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve booking request")
	}

	if repoBooking.OwnerID != ownerID {
		return nil, domain.Unauthorized(op, "You do not own this booking request")
	}

	current := domain.BookingStatus(repoBooking.Status)
	if !current.CanTransitionTo(status) {
		return nil, domain.Invalid(op, "Booking request is already "+repoBooking.Status)
	}

	err = s.queries.UpdateBookingRequestStatus(ctx, repository.UpdateBookingRequestStatusParams{
		ID:     bookingID,
		Status: string(status),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to update booking request")
	}

	booking := repoBookingToDomain(repoBooking)
	booking.Status = status

	s.logger.Info("booking status updated", "booking_id", bookingID, "status", status)
	return booking, nil
}

// validateBookingParams checks required shipper fields and normalizes
// whitespace in place.
func validateBookingParams(op string, p *domain.SubmitBookingParams) error {
	p.QuoteShortID = strings.TrimSpace(p.QuoteShortID)
	p.ShipperCompany = strings.TrimSpace(p.ShipperCompany)
	p.ShipperName = strings.TrimSpace(p.ShipperName)
	p.ShipperEmail = strings.ToLower(strings.TrimSpace(p.ShipperEmail))
	p.ShipperPhone = strings.TrimSpace(p.ShipperPhone)
	p.Commodity = strings.TrimSpace(p.Commodity)
	p.Volume = strings.TrimSpace(p.Volume)
	p.Message = strings.TrimSpace(p.Message)

	if p.QuoteShortID == "" {
		return domain.Invalid(op, "Quote reference is required")
	}
	if p.ShipperCompany == "" {
		return domain.Invalid(op, "Company is required")
	}
	if p.ShipperName == "" {
		return domain.Invalid(op, "Contact name is required")
	}
	if err := validateEmail(p.ShipperEmail); err != nil {
		return domain.Wrap(err, domain.EINVALID, op, "Invalid contact email")
	}
	if p.ShipperPhone == "" {
		return domain.Invalid(op, "Phone is required")
	}
	if p.ReadyDate.IsZero() {
		return domain.Invalid(op, "Cargo ready date is required")
	}
	if p.Commodity == "" {
		return domain.Invalid(op, "Commodity is required")
	}
	if p.Volume == "" {
		return domain.Invalid(op, "Volume is required")
	}

	return nil
}

// repoBookingToDomain converts a repository.BookingRequest to the domain type.
func repoBookingToDomain(rb repository.BookingRequest) *domain.BookingRequest {
	var quotationID uuid.UUID
	if rb.QuotationID.Valid {
		quotationID = rb.QuotationID.UUID
	}

	return &domain.BookingRequest{
		ID:             rb.ID,
		QuotationID:    quotationID,
		OwnerID:        rb.OwnerID,
		ShipperCompany: rb.ShipperCompany,
		ShipperName:    rb.ShipperName,
		ShipperEmail:   rb.ShipperEmail,
		ShipperPhone:   rb.ShipperPhone,
		ReadyDate:      rb.ReadyDate,
		Commodity:      rb.Commodity,
		Volume:         rb.Volume,
		Message:        rb.Message,
		Status:         domain.BookingStatus(rb.Status),
		Route:          rb.Route,
		QuoteShortID:   rb.QuoteShortID,
		CreatedAt:      rb.CreatedAt.Time,
		UpdatedAt:      rb.UpdatedAt.Time,
	}
}

// Ensure bookingService implements BookingService
var _ BookingService = (*bookingService)(nil)
