// Package handler contains HTTP handlers for the FwdLink application.
//
// This file implements account and session endpoints.
//
// Routes:
//   - POST /api/auth/register -> Register (public, rate limited)
//   - POST /api/auth/login    -> Login    (public, rate limited)
//   - POST /api/auth/logout   -> Logout
//   - GET  /api/auth/me       -> Me
//
// Session cookies are managed here with the shared constants from
// internal/session; the middleware package does the same on its side, and
// handler cannot import middleware.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/1uv0cean/fwd-link/internal/auth"
	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/service"
	"github.com/1uv0cean/fwd-link/internal/session"
)

// AuthHandler handles account registration and session endpoints.
type AuthHandler struct {
	userService service.UserService
	logger      *slog.Logger
	isSecure    bool
}

// NewAuthHandler creates a new AuthHandler.
// isSecure controls the Secure flag on session cookies; true in production.
func NewAuthHandler(userService service.UserService, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// RegisterRoutes registers auth routes on the provided mux.
// limitLogin and limitRegister apply the per-IP auth rate limits; withUser
// resolves the session for logout and me.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, limitLogin, limitRegister, withUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/auth/register", limitRegister(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/auth/login", limitLogin(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/me", withUser(http.HandlerFunc(h.Me)))
}

// =============================================================================
// Request / Response Types
// =============================================================================

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	UsageCount         int        `json:"usage_count"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// =============================================================================
// Handlers
// =============================================================================

// Register creates a new forwarder account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("AuthHandler.Register", err.Error()))
		return
	}

	user, err := h.userService.Register(r.Context(), domain.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("account registered", "user_id", user.ID)
	respondJSON(w, h.logger, http.StatusCreated, toUserResponse(user))
}

// Login authenticates a forwarder and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("AuthHandler.Login", err.Error()))
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	respondJSON(w, h.logger, http.StatusOK, toUserResponse(result.User))
}

// Logout ends the current session. Idempotent: succeeds with or without a
// valid session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.userService.Logout(r.Context(), cookie.Value); err != nil {
			// The cookie is cleared regardless; the session row expires on
			// its own if this delete failed.
			h.logger.Warn("failed to invalidate session on logout", "error", err)
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated forwarder's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toUserResponse(user))
}

// =============================================================================
// Helpers
// =============================================================================

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                 u.ID.String(),
		Email:              u.Email,
		Name:               u.Name,
		UsageCount:         u.UsageCount,
		SubscriptionStatus: string(u.SubscriptionStatus),
		SubscriptionEndsAt: u.SubscriptionEndsAt,
		CreatedAt:          u.CreatedAt,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     session.CookiePath,
		MaxAge:   session.CookieMaxAge,
		HttpOnly: true,
		Secure:   h.isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     session.CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
