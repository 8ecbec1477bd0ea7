// Package email provides email sending functionality for the FwdLink application.
//
// This package defines an EmailService interface with implementations for:
// - SMTP (for development with Mailhog and production with services like Postmark SMTP)
// - Future: Postmark API implementation for advanced features
package email

import (
	"context"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// EmailService defines the interface for sending transactional emails.
//
// Implementations:
// - SMTPEmailService: Uses SMTP protocol (Mailhog for dev, Postmark SMTP for prod)
// - Future: PostmarkAPIService for API-based sending with delivery tracking
//
// All methods are context-aware for timeout and cancellation support.
type EmailService interface {
	// SendBookingRequestEmail notifies a forwarder that a shipper has
	// requested a booking against one of their quotes. The shipper's
	// address is set as Reply-To so the forwarder can answer directly.
	SendBookingRequestEmail(ctx context.Context, params BookingRequestEmail) error
}

// =============================================================================
// Email Data Types
// =============================================================================

// Email represents a single email message.
type Email struct {
	To       string // Recipient email address
	ReplyTo  string // Optional Reply-To address
	Subject  string // Email subject line
	HTMLBody string // HTML content of the email
	TextBody string // Plain text fallback content
}

// BookingRequestEmail carries everything needed to render the booking
// notification sent to the quote owner.
type BookingRequestEmail struct {
	To             string // Forwarder (quote owner) email address
	ForwarderName  string // Forwarder's name for personalization
	ShipperCompany string
	ShipperName    string
	ShipperEmail   string
	ShipperPhone   string
	Commodity      string
	Volume         string
	ReadyDate      time.Time
	Message        string // Optional free-text note from the shipper
	Route          string // e.g. "BUSAN → HAMBURG"
	QuoteShortID   string
	Price          float64
	Currency       string
}

// =============================================================================
// Configuration Types
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // SMTP authentication username (empty for Mailhog)
	Password string // SMTP authentication password (empty for Mailhog)
	From     string // Default sender email address
	FromName string // Default sender display name
}

// =============================================================================
// Common Constants
// =============================================================================

const (
	// DefaultFromEmail is the default sender email for transactional emails.
	DefaultFromEmail = "noreply@fwd-link.com"

	// DefaultFromName is the default sender display name.
	DefaultFromName = "FwdLink"
)
