package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking request.
// pending is the only non-terminal state.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is a known status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status s may move to next.
// confirmed and cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s != BookingStatusPending {
		return false
	}
	return next == BookingStatusConfirmed || next == BookingStatusCancelled
}

// BookingRequest is a shipper's request to book against a published quote.
//
// Route and QuoteShortID are denormalized from the quotation at submit time
// so the owner's booking list stays readable even if the quote is later
// deleted.
type BookingRequest struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	OwnerID        uuid.UUID // The forwarder who owns the quotation
	ShipperCompany string
	ShipperName    string
	ShipperEmail   string
	ShipperPhone   string
	ReadyDate      time.Time
	Commodity      string
	Volume         string
	Message        string
	Status         BookingStatus
	Route          string
	QuoteShortID   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SubmitBookingParams contains the shipper-provided fields for a booking
// submission. All shipper fields except Message are required.
type SubmitBookingParams struct {
	QuoteShortID   string
	ShipperCompany string
	ShipperName    string
	ShipperEmail   string
	ShipperPhone   string
	ReadyDate      time.Time
	Commodity      string
	Volume         string
	Message        string
}
