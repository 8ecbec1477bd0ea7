// Package service contains business logic for the FwdLink application.
//
// This file implements branding management for Pro accounts: company
// details shown on public quote pages and the logo upload pipeline.
package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/repository"
	"github.com/1uv0cean/fwd-link/internal/storage"
)

const (
	// MaxLogoBytes is the largest accepted logo upload (decoded size).
	MaxLogoBytes = 500 * 1024

	// MaxCompanyNameLength limits the branding company name.
	MaxCompanyNameLength = 100

	// MaxContactEmailLength limits the branding contact email.
	MaxContactEmailLength = 100

	// MaxContactPhoneLength limits the branding contact phone.
	MaxContactPhoneLength = 30
)

// hexColorPattern matches a CSS hex color like "#1A2B3C".
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// BrandingService manages the white-label settings shown on public quote pages.
type BrandingService interface {
	// Get returns the user's branding settings. Readable on any plan so the
	// settings page can show what will reappear after re-subscribing.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Branding, error)

	// Update replaces the text fields of the user's branding. Requires an
	// active subscription. The stored logo is untouched.
	Update(ctx context.Context, params domain.BrandingUpdateParams) (*domain.Branding, error)

	// UploadLogo decodes a base64 image payload, normalizes it, stores it,
	// and records the resulting key and URL. Requires an active subscription.
	UploadLogo(ctx context.Context, userID uuid.UUID, encoded string) (*domain.Branding, error)

	// RemoveLogo deletes the stored logo and clears it from the branding.
	// Requires an active subscription.
	RemoveLogo(ctx context.Context, userID uuid.UUID) (*domain.Branding, error)
}

// brandingService is the concrete implementation of BrandingService.
type brandingService struct {
	queries *repository.Queries
	storage storage.Storage
	logos   LogoProcessor
	logger  *slog.Logger
}

// NewBrandingService creates a new branding service.
func NewBrandingService(
	queries *repository.Queries,
	store storage.Storage,
	logos LogoProcessor,
	logger *slog.Logger,
) BrandingService {
	return &brandingService{
		queries: queries,
		storage: store,
		logos:   logos,
		logger:  logger,
	}
}

// Get returns the user's branding settings.
func (s *brandingService) Get(ctx context.Context, userID uuid.UUID) (*domain.Branding, error) {
	const op = "BrandingService.Get"

	user, err := s.loadUser(ctx, userID, op)
	if err != nil {
		return nil, err
	}

	branding := user.Branding
	return &branding, nil
}

// Update replaces the text fields of the user's branding.
func (s *brandingService) Update(ctx context.Context, params domain.BrandingUpdateParams) (*domain.Branding, error) {
	const op = "BrandingService.Update"

	user, err := s.loadUser(ctx, params.UserID, op)
	if err != nil {
		return nil, err
	}
	if !user.IsPro() {
		return nil, domain.Forbidden(op, "Branding is available on the Pro plan")
	}

	if err := validateBrandingParams(&params); err != nil {
		return nil, err
	}

	// The logo belongs to the upload flow; carry it over untouched.
	branding := domain.Branding{
		CompanyName:  params.CompanyName,
		LogoKey:      user.Branding.LogoKey,
		LogoURL:      user.Branding.LogoURL,
		PrimaryColor: params.PrimaryColor,
		ContactEmail: params.ContactEmail,
		ContactPhone: params.ContactPhone,
	}

	if err := s.saveBranding(ctx, user.ID, branding); err != nil {
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "Failed to update branding")
	}

	return &branding, nil
}

// UploadLogo stores a new logo and records it on the user's branding.
func (s *brandingService) UploadLogo(ctx context.Context, userID uuid.UUID, encoded string) (*domain.Branding, error) {
	const op = "BrandingService.UploadLogo"

	user, err := s.loadUser(ctx, userID, op)
	if err != nil {
		return nil, err
	}
	if !user.IsPro() {
		return nil, domain.Forbidden(op, "Branding is available on the Pro plan")
	}

	raw, err := decodeLogoPayload(encoded)
	if err != nil {
		return nil, domain.Invalid(op, "Logo must be a base64-encoded image")
	}
	if len(raw) == 0 {
		return nil, domain.Invalid(op, "Logo is required")
	}
	if len(raw) > MaxLogoBytes {
		return nil, domain.Invalid(op, "Logo must be 500KB or smaller")
	}

	contentType := storage.DetectContentType("", "", bytes.NewReader(raw))
	if !storage.IsAllowedLogoType(contentType) {
		return nil, domain.Invalid(op, "Logo must be a PNG, JPEG, WebP, or GIF image")
	}

	normalized, err := s.logos.NormalizeLogo(bytes.NewReader(raw), MaxLogoDimension)
	if err != nil {
		return nil, domain.Invalid(op, "Logo image could not be processed")
	}

	key := storage.LogoKey(user.ID)
	err = s.storage.Put(ctx, key, bytes.NewReader(normalized), storage.PutOptions{
		ContentType: "image/png",
		Public:      true,
	})
	if err != nil {
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "Failed to store logo")
	}

	logoURL, err := s.storage.URL(ctx, key, 0)
	if err != nil {
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "Failed to resolve logo URL")
	}

	branding := user.Branding
	oldKey := branding.LogoKey
	branding.LogoKey = key
	branding.LogoURL = logoURL

	if err := s.saveBranding(ctx, user.ID, branding); err != nil {
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "Failed to update branding")
	}

	// Best effort: the new logo is already live, a leaked old object only
	// costs storage.
	if oldKey != "" {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("failed to delete replaced logo",
				"user_id", user.ID,
				"key", oldKey,
				"error", err,
			)
		}
	}

	return &branding, nil
}

// RemoveLogo deletes the stored logo and clears it from the branding.
func (s *brandingService) RemoveLogo(ctx context.Context, userID uuid.UUID) (*domain.Branding, error) {
	const op = "BrandingService.RemoveLogo"

	user, err := s.loadUser(ctx, userID, op)
	if err != nil {
		return nil, err
	}
	if !user.IsPro() {
		return nil, domain.Forbidden(op, "Branding is available on the Pro plan")
	}

	branding := user.Branding
	oldKey := branding.LogoKey
	branding.LogoKey = ""
	branding.LogoURL = ""

	if err := s.saveBranding(ctx, user.ID, branding); err != nil {
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "Failed to update branding")
	}

	if oldKey != "" {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("failed to delete removed logo",
				"user_id", user.ID,
				"key", oldKey,
				"error", err,
			)
		}
	}

	return &branding, nil
}

// =============================================================================
// Helpers
// =============================================================================

// loadUser fetches a user and maps missing rows to not-found.
func (s *brandingService) loadUser(ctx context.Context, userID uuid.UUID, op string) (*domain.User, error) {
	repoUser, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user", userID.String())
		}
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "Failed to load user")
	}
	return repoUserToDomain(repoUser), nil
}

// saveBranding persists branding as JSONB on the user row. A zero branding
// is stored as NULL so unconfigured accounts stay distinguishable.
func (s *brandingService) saveBranding(ctx context.Context, userID uuid.UUID, branding domain.Branding) error {
	var raw pqtype.NullRawMessage
	if !branding.IsZero() {
		data, err := json.Marshal(branding)
		if err != nil {
			return err
		}
		raw = pqtype.NullRawMessage{RawMessage: data, Valid: true}
	}

	return s.queries.UpdateUserBranding(ctx, repository.UpdateUserBrandingParams{
		ID:       userID,
		Branding: raw,
	})
}

// validateBrandingParams trims and validates the text fields in place.
func validateBrandingParams(params *domain.BrandingUpdateParams) error {
	const op = "BrandingService.Update"

	params.CompanyName = strings.TrimSpace(params.CompanyName)
	params.PrimaryColor = strings.TrimSpace(params.PrimaryColor)
	params.ContactEmail = strings.ToLower(strings.TrimSpace(params.ContactEmail))
	params.ContactPhone = strings.TrimSpace(params.ContactPhone)

	if len(params.CompanyName) > MaxCompanyNameLength {
		return domain.Invalid(op, "Company name must be 100 characters or less")
	}
	if params.PrimaryColor != "" && !hexColorPattern.MatchString(params.PrimaryColor) {
		return domain.Invalid(op, "Primary color must be a hex color like #1A2B3C")
	}
	if len(params.ContactEmail) > MaxContactEmailLength {
		return domain.Invalid(op, "Contact email must be 100 characters or less")
	}
	if params.ContactEmail != "" {
		if err := validateEmail(params.ContactEmail); err != nil {
			return domain.Invalid(op, "Contact email is invalid")
		}
	}
	if len(params.ContactPhone) > MaxContactPhoneLength {
		return domain.Invalid(op, "Contact phone must be 30 characters or less")
	}

	return nil
}

// decodeLogoPayload decodes a base64 logo, tolerating data URL prefixes
// like "data:image/png;base64,".
func decodeLogoPayload(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.IndexByte(encoded, ','); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	return base64.StdEncoding.DecodeString(encoded)
}

var _ BrandingService = (*brandingService)(nil)
