package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/repository"
)

// SubscriptionSyncParams carries a subscription state change from the
// billing provider to the account it belongs to.
type SubscriptionSyncParams struct {
	Email          string
	Status         domain.SubscriptionStatus
	SubscriptionID string
	CustomerID     string
	EndsAt         *time.Time
}

// SubscriptionService applies billing-provider state to forwarder accounts.
type SubscriptionService interface {
	// Sync updates the subscription fields of the account identified by
	// email. Returns domain.EUSERNOTFOUND when no account matches; the
	// webhook caller surfaces that as a 404 so the provider retries after
	// the account is created.
	Sync(ctx context.Context, params SubscriptionSyncParams) error
}

type subscriptionService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(queries *repository.Queries, logger *slog.Logger) SubscriptionService {
	return &subscriptionService{
		queries: queries,
		logger:  logger,
	}
}

func (s *subscriptionService) Sync(ctx context.Context, params SubscriptionSyncParams) error {
	const op = "SubscriptionService.Sync"

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return domain.Invalid(op, "Email is required")
	}

	switch params.Status {
	case domain.SubscriptionStatusFree, domain.SubscriptionStatusActive, domain.SubscriptionStatusPastDue:
	default:
		return domain.Invalid(op, "Unknown subscription status")
	}

	// Absent IDs and end dates are stored as NULL so COALESCE in the update
	// keeps the previously known values: cancellation and payment events
	// often omit them.
	rows, err := s.queries.UpdateSubscriptionByEmail(ctx, repository.UpdateSubscriptionByEmailParams{
		Email:              email,
		SubscriptionStatus: string(params.Status),
		SubscriptionID:     nullString(params.SubscriptionID),
		CustomerID:         nullString(params.CustomerID),
		SubscriptionEndsAt: nullTimePtr(params.EndsAt),
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to update subscription")
	}
	if rows == 0 {
		return domain.Errorf(domain.EUSERNOTFOUND, op, "No account for %s", email)
	}

	s.logger.Info("subscription synced",
		"email", email,
		"status", params.Status,
	)

	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ SubscriptionService = (*subscriptionService)(nil)
