// Package domain contains core business types and interfaces.
//
// This file defines the User domain type and related types for authentication
// and subscription state. These types are separate from the repository models
// to allow for business logic enrichment and to decouple the domain layer from
// the database layer.
package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the possible states of a user's subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusFree    SubscriptionStatus = "free"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusPastDue SubscriptionStatus = "past_due"
)

// User represents a registered forwarder account.
//
// This is the domain representation of a user, designed for use in business logic.
// It differs from repository.User in that:
// - It uses proper Go types instead of sql.Null* types where appropriate
// - It provides helper methods for common checks
// - It can be extended with computed properties without affecting the database layer
type User struct {
	ID                 uuid.UUID
	Email              string
	PasswordHash       string // Never expose this in API responses
	Name               string
	UsageCount         int // Lifetime count of quotes created; never decremented
	SubscriptionStatus SubscriptionStatus
	SubscriptionID     string
	CustomerID         string // Billing provider customer identifier
	SubscriptionEndsAt *time.Time
	Branding           Branding
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsPro returns true if the user currently has a paid subscription.
// past_due is treated as not paid: the grace window is enforced by the
// billing provider, not by us.
func (u *User) IsPro() bool {
	return u.SubscriptionStatus == SubscriptionStatusActive
}

// DisplayName returns the user's name or email if name is empty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Branding holds the optional white-label settings a Pro user can apply to
// their public quote pages.
type Branding struct {
	CompanyName  string `json:"company_name,omitempty"`
	LogoKey      string `json:"logo_key,omitempty"` // storage key, kept so a replaced logo can be deleted
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"` // "#RRGGBB" or empty
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// IsZero reports whether no branding has been configured.
func (b Branding) IsZero() bool {
	return b == Branding{}
}

// Session represents an authenticated session.
//
// Sessions are stored in the database with a hashed token.
// The raw token is only given to the client once (at login).
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 hash of the session token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// RegisterParams contains the validated parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string // Raw password, will be hashed by service
	Name     string
}

// LoginResult contains the result of a successful login.
type LoginResult struct {
	User  *User
	Token string // Raw session token (not hashed) - only returned once
}

// PasswordChangeParams contains parameters for changing a user's password.
type PasswordChangeParams struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// BrandingUpdateParams contains parameters for updating a user's branding.
// Logo upload is handled separately; LogoURL here is set by the logo service
// after the image has been stored.
type BrandingUpdateParams struct {
	UserID       uuid.UUID
	CompanyName  string
	PrimaryColor string
	ContactEmail string
	ContactPhone string
}

// =============================================================================
// Conversion helpers from repository types
// =============================================================================

// NullStringValue safely extracts a string from sql.NullString.
func NullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// NullTimeValue safely extracts a time pointer from sql.NullTime.
func NullTimeValue(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// ToNullString converts a string to sql.NullString.
func ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// ToNullTime converts a time pointer to sql.NullTime.
func ToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
