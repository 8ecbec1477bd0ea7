// Package handler contains HTTP handlers for the FwdLink application.
//
// This file implements branding settings endpoints. Reading is allowed on
// any plan; mutations require an active subscription, enforced in the
// service layer (and again by the route middleware for defense in depth).
//
// Routes:
//   - GET    /api/branding      -> Get
//   - PUT    /api/branding      -> Update
//   - POST   /api/branding/logo -> UploadLogo
//   - DELETE /api/branding/logo -> RemoveLogo
package handler

import (
	"log/slog"
	"net/http"

	"github.com/1uv0cean/fwd-link/internal/auth"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/service"
)

// BrandingHandler handles branding settings endpoints.
type BrandingHandler struct {
	brandingService service.BrandingService
	logger          *slog.Logger
}

// NewBrandingHandler creates a new BrandingHandler.
func NewBrandingHandler(brandingService service.BrandingService, logger *slog.Logger) *BrandingHandler {
	return &BrandingHandler{
		brandingService: brandingService,
		logger:          logger,
	}
}

// RegisterRoutes registers branding routes on the provided mux.
func (h *BrandingHandler) RegisterRoutes(mux *http.ServeMux, requireUser, requirePro func(http.Handler) http.Handler) {
	mux.Handle("GET /api/branding", requireUser(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/branding", requirePro(http.HandlerFunc(h.Update)))
	mux.Handle("POST /api/branding/logo", requirePro(http.HandlerFunc(h.UploadLogo)))
	mux.Handle("DELETE /api/branding/logo", requirePro(http.HandlerFunc(h.RemoveLogo)))
}

// =============================================================================
// Request Types
// =============================================================================

type updateBrandingRequest struct {
	CompanyName  string `json:"company_name"`
	PrimaryColor string `json:"primary_color"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

type uploadLogoRequest struct {
	// Image is the base64-encoded logo, with or without a data URL prefix.
	Image string `json:"image"`
}

// =============================================================================
// Handlers
// =============================================================================

// Get returns the forwarder's branding settings.
func (h *BrandingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	branding, err := h.brandingService.Get(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, branding)
}

// Update replaces the text fields of the forwarder's branding.
func (h *BrandingHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req updateBrandingRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("BrandingHandler.Update", err.Error()))
		return
	}

	branding, err := h.brandingService.Update(r.Context(), domain.BrandingUpdateParams{
		UserID:       user.ID,
		CompanyName:  req.CompanyName,
		PrimaryColor: req.PrimaryColor,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, branding)
}

// UploadLogo stores a new logo image and records its URL.
func (h *BrandingHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req uploadLogoRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("BrandingHandler.UploadLogo", err.Error()))
		return
	}

	branding, err := h.brandingService.UploadLogo(r.Context(), user.ID, req.Image)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, branding)
}

// RemoveLogo deletes the stored logo.
func (h *BrandingHandler) RemoveLogo(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	branding, err := h.brandingService.RemoveLogo(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, branding)
}
