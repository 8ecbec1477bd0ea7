package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/email"
	"github.com/1uv0cean/fwd-link/internal/metrics"
	"github.com/1uv0cean/fwd-link/internal/repository"
	"github.com/1uv0cean/fwd-link/internal/worker"
)

// SendBookingEmailHandler processes jobs that notify a forwarder about a new
// booking request. The booking and its owner are reloaded from the database
// at run time so the notification always reflects the current account state.
type SendBookingEmailHandler struct {
	queries *repository.Queries
	email   email.EmailService
	logger  *slog.Logger
}

// NewSendBookingEmailHandler creates a new handler for booking notification jobs.
func NewSendBookingEmailHandler(
	queries *repository.Queries,
	emailService email.EmailService,
	logger *slog.Logger,
) *SendBookingEmailHandler {
	return &SendBookingEmailHandler{
		queries: queries,
		email:   emailService,
		logger:  logger,
	}
}

// Type returns the job type identifier.
func (h *SendBookingEmailHandler) Type() string {
	return worker.JobTypeSendBookingEmail
}

// Handle executes the booking notification job.
func (h *SendBookingEmailHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.SendBookingEmailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	h.logger.Info("Sending booking notification", "booking_id", p.BookingID)

	booking, err := h.queries.GetBookingRequestByID(ctx, p.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worker.NewPermanentError(fmt.Errorf("booking request not found: %w", err))
		}
		// Database error - retryable
		return fmt.Errorf("fetch booking request: %w", err)
	}

	owner, err := h.queries.GetUserByID(ctx, booking.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The account was deleted after the booking was submitted.
			return worker.NewPermanentError(fmt.Errorf("booking owner not found: %w", err))
		}
		return fmt.Errorf("fetch booking owner: %w", err)
	}

	// The quote may have been deleted since the booking was submitted; route
	// and short id are denormalized onto the booking, but price details are
	// only available while the quote still exists.
	var price float64
	var currency string
	if booking.QuotationID.Valid {
		quote, err := h.queries.GetQuotationByShortID(ctx, booking.QuoteShortID)
		if err == nil {
			price = quote.Price
			currency = quoteCurrency(quote.LineItems)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("fetch quotation: %w", err)
		}
	}

	err = h.email.SendBookingRequestEmail(ctx, email.BookingRequestEmail{
		To:             owner.Email,
		ForwarderName:  owner.Name,
		ShipperCompany: booking.ShipperCompany,
		ShipperName:    booking.ShipperName,
		ShipperEmail:   booking.ShipperEmail,
		ShipperPhone:   booking.ShipperPhone,
		Commodity:      booking.Commodity,
		Volume:         booking.Volume,
		ReadyDate:      booking.ReadyDate,
		Message:        booking.Message,
		Route:          booking.Route,
		QuoteShortID:   booking.QuoteShortID,
		Price:          price,
		Currency:       currency,
	})
	if err != nil {
		metrics.BookingEmails.WithLabelValues("failed").Inc()
		// SMTP failures are transient more often than not; let the worker retry.
		return fmt.Errorf("send booking request email: %w", err)
	}

	metrics.BookingEmails.WithLabelValues("sent").Inc()
	h.logger.Info("Booking notification sent",
		"booking_id", booking.ID,
		"to", owner.Email,
	)

	return nil
}

// quoteCurrency extracts the currency of the first line item for display
// next to the quote total.
func quoteCurrency(lineItems json.RawMessage) string {
	var items []domain.LineItem
	if err := json.Unmarshal(lineItems, &items); err != nil || len(items) == 0 {
		return string(domain.CurrencyUSD)
	}
	return string(items[0].Currency)
}
