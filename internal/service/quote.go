// Package service contains the business logic layer.
//
// This file implements the quotation lifecycle: gated creation, public
// reads with view counting, owner-scoped updates and deletes, and the
// owner's filtered list.
package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/1uv0cean/fwd-link/internal/domain"
	"github.com/1uv0cean/fwd-link/internal/metrics"
	"github.com/1uv0cean/fwd-link/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// QuoteListLimit caps the owner's quote list page.
	QuoteListLimit = 20

	// shortCodeLength is the length of the public share code. 62^7 ≈ 3.5e12
	// possible codes, so random collisions are negligible at any realistic
	// quote volume; the unique index catches the rest.
	shortCodeLength = 7

	shortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// shortCodeAttempts bounds the retry loop on short-code collisions.
	shortCodeAttempts = 3
)

// PublicQuote is a quotation as seen by an unauthenticated recipient.
// Branding is nil unless the owner has an active subscription and has
// configured branding.
type PublicQuote struct {
	Quotation *domain.Quotation
	Branding  *domain.Branding
}

// QuoteListResult bundles the owner's quotes with their quota position so
// the client can render the usage banner without a second request.
type QuoteListResult struct {
	Quotations         []domain.Quotation
	Usage              domain.QuotaUsage
	SubscriptionStatus domain.SubscriptionStatus
}

// QuoteService defines the interface for quotation operations.
type QuoteService interface {
	// Create validates, normalizes and persists a new quotation for the
	// identified owner, incrementing their usage counter in the same
	// transaction. Returns domain.EUSERNOTFOUND if the owner record is
	// missing and domain.ELIMIT if the quota gate denies.
	Create(ctx context.Context, ownerEmail string, params domain.CreateQuotationParams) (*domain.Quotation, error)

	// GetByShortID resolves a quotation by its public share code.
	// When countView is true the view counter is incremented and the
	// returned quotation carries the new count; owners previewing their
	// own quote pass false so the count is not inflated.
	GetByShortID(ctx context.Context, shortID string, countView bool) (*PublicQuote, error)

	// Update applies a partial update to the owner's quotation.
	// Returns domain.EUNAUTHORIZED if userID is not the owner, even when
	// it identifies a valid different user. The quota gate is not re-checked.
	Update(ctx context.Context, userID uuid.UUID, shortID string, params domain.UpdateQuotationParams) (*domain.Quotation, error)

	// Delete removes the owner's quotation. The owner's usage counter is
	// intentionally not decremented.
	Delete(ctx context.Context, userID uuid.UUID, shortID string) error

	// List returns the owner's quotations newest-first with optional
	// search and facet filters, plus their current quota usage.
	List(ctx context.Context, userID uuid.UUID, filter domain.QuotationFilter) (*QuoteListResult, error)
}

// quoteService is the concrete implementation of QuoteService.
type quoteService struct {
	db        *sql.DB
	queries   *repository.Queries
	logger    *slog.Logger
	freeLimit int

	// newShortCode is swappable in tests.
	newShortCode func() (string, error)
}

// NewQuoteService creates a new QuoteService.
// freeLimit is the number of quotes a free account may create in total.
func NewQuoteService(db *sql.DB, queries *repository.Queries, freeLimit int, logger *slog.Logger) QuoteService {
	return &quoteService{
		db:           db,
		queries:      queries,
		logger:       logger,
		freeLimit:    freeLimit,
		newShortCode: generateShortCode,
	}
}

// Create implements the gated creation flow.
//
// The quotation insert and the owner's usage-counter increment run in one
// transaction: a failure in either leaves both untouched, so the counter
// can never lag behind the created quotes.
func (s *quoteService) Create(ctx context.Context, ownerEmail string, params domain.CreateQuotationParams) (*domain.Quotation, error) {
	const op = "QuoteService.Create"

	if ownerEmail == "" {
		return nil, domain.Unauthorized(op, "Authentication required")
	}

	repoUser, err := s.queries.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(ownerEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.EUSERNOTFOUND, op, "Account not found")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}
	user := repoUserToDomain(repoUser)

	if !domain.CanCreateQuote(user, s.freeLimit) {
		metrics.QuotaDenied.Inc()
		s.logger.Info("quote creation denied by quota gate",
			"user_id", user.ID,
			"usage", user.UsageCount,
			"limit", s.freeLimit,
		)
		return nil, domain.LimitReached(op)
	}

	quote, err := buildQuotation(op, params)
	if err != nil {
		return nil, err
	}
	quote.UserID = user.ID

	lineItems, err := json.Marshal(quote.LineItems)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to encode line items")
	}

	for attempt := 1; attempt <= shortCodeAttempts; attempt++ {
		code, err := s.newShortCode()
		if err != nil {
			return nil, domain.Internal(err, op, "Failed to generate share code")
		}

		created, err := s.insertWithIncrement(ctx, code, quote, lineItems)
		if err != nil {
			if isUniqueViolation(err) && attempt < shortCodeAttempts {
				s.logger.Warn("short code collision, retrying", "attempt", attempt)
				continue
			}
			return nil, domain.Internal(err, op, "Failed to create quotation")
		}

		result := repoQuotationToDomain(created)
		metrics.QuotesCreated.WithLabelValues(string(result.TransportMode)).Inc()
		s.logger.Info("quotation created",
			"quote_id", result.ID,
			"short_id", result.ShortID,
			"user_id", user.ID,
			"mode", result.TransportMode,
		)
		return result, nil
	}

	return nil, domain.Internal(nil, op, "Failed to create quotation")
}

// insertWithIncrement persists the quotation and bumps the owner's usage
// counter inside a single transaction.
func (s *quoteService) insertWithIncrement(ctx context.Context, shortID string, q *domain.Quotation, lineItems json.RawMessage) (repository.Quotation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Quotation{}, err
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	created, err := qtx.CreateQuotation(ctx, repository.CreateQuotationParams{
		ShortID:          shortID,
		UserID:           q.UserID,
		PolName:          q.POL.Name,
		PolCode:          domain.ToNullString(q.POL.Code),
		PolCountry:       q.POL.Country,
		PodName:          q.POD.Name,
		PodCode:          domain.ToNullString(q.POD.Code),
		PodCountry:       q.POD.Country,
		ContainerType:    string(q.ContainerType),
		Incoterms:        string(q.Incoterms),
		TransportMode:    string(q.TransportMode),
		LineItems:        lineItems,
		Price:            q.Price,
		Remarks:          q.Remarks,
		ValidUntil:       q.ValidUntil,
		GrossWeight:      q.GrossWeight,
		Cbm:              q.CBM,
		ChargeableWeight: q.ChargeableWeight,
	})
	if err != nil {
		return repository.Quotation{}, err
	}

	if err := qtx.IncrementUsageCount(ctx, q.UserID); err != nil {
		return repository.Quotation{}, err
	}

	if err := tx.Commit(); err != nil {
		return repository.Quotation{}, err
	}

	return created, nil
}

// GetByShortID resolves a public quotation.
func (s *quoteService) GetByShortID(ctx context.Context, shortID string, countView bool) (*PublicQuote, error) {
	const op = "QuoteService.GetByShortID"

	repoQuote, err := s.queries.GetQuotationByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "quotation", shortID)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve quotation")
	}

	quote := repoQuotationToDomain(repoQuote)

	if countView {
		views, err := s.queries.IncrementQuotationViews(ctx, shortID)
		if err != nil {
			// The page is still servable with a stale count.
			s.logger.Warn("failed to increment view counter", "short_id", shortID, "error", err)
		} else {
			quote.Views = int(views)
			metrics.QuoteViews.Inc()
		}
	}

	result := &PublicQuote{Quotation: quote}

	owner, err := s.queries.GetUserByID(ctx, repoQuote.UserID)
	if err != nil {
		s.logger.Warn("failed to load quote owner for branding", "short_id", shortID, "error", err)
		return result, nil
	}
	ownerUser := repoUserToDomain(owner)
	// Branding is a paid feature: it disappears from public pages the
	// moment the subscription lapses.
	if ownerUser.IsPro() && !ownerUser.Branding.IsZero() {
		branding := ownerUser.Branding
		result.Branding = &branding
	}

	return result, nil
}

// Update applies a partial update to an owned quotation.
func (s *quoteService) Update(ctx context.Context, userID uuid.UUID, shortID string, params domain.UpdateQuotationParams) (*domain.Quotation, error) {
	const op = "QuoteService.Update"

	repoQuote, err := s.queries.GetQuotationByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "quotation", shortID)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve quotation")
	}

	if repoQuote.UserID != userID {
		return nil, domain.Unauthorized(op, "You do not own this quotation")
	}

	quote := repoQuotationToDomain(repoQuote)
	if err := applyQuotationUpdate(op, quote, params); err != nil {
		return nil, err
	}

	lineItems, err := json.Marshal(quote.LineItems)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to encode line items")
	}

	err = s.queries.UpdateQuotation(ctx, repository.UpdateQuotationParams{
		ID:               quote.ID,
		PolName:          quote.POL.Name,
		PolCode:          domain.ToNullString(quote.POL.Code),
		PolCountry:       quote.POL.Country,
		PodName:          quote.POD.Name,
		PodCode:          domain.ToNullString(quote.POD.Code),
		PodCountry:       quote.POD.Country,
		ContainerType:    string(quote.ContainerType),
		Incoterms:        string(quote.Incoterms),
		TransportMode:    string(quote.TransportMode),
		LineItems:        lineItems,
		Price:            quote.Price,
		Remarks:          quote.Remarks,
		ValidUntil:       quote.ValidUntil,
		GrossWeight:      quote.GrossWeight,
		Cbm:              quote.CBM,
		ChargeableWeight: quote.ChargeableWeight,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to update quotation")
	}

	s.logger.Info("quotation updated", "quote_id", quote.ID, "short_id", shortID)
	return quote, nil
}

// Delete removes an owned quotation.
func (s *quoteService) Delete(ctx context.Context, userID uuid.UUID, shortID string) error {
	const op = "QuoteService.Delete"

	repoQuote, err := s.queries.GetQuotationByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "quotation", shortID)
		}
		return domain.Internal(err, op, "Failed to retrieve quotation")
	}

	if repoQuote.UserID != userID {
		return domain.Unauthorized(op, "You do not own this quotation")
	}

	// The usage counter stays where it is: deleting quotes does not
	// refund free-tier capacity.
	if err := s.queries.DeleteQuotation(ctx, repoQuote.ID); err != nil {
		return domain.Internal(err, op, "Failed to delete quotation")
	}

	s.logger.Info("quotation deleted", "quote_id", repoQuote.ID, "short_id", shortID)
	return nil
}

// List returns the owner's quotations with quota usage.
func (s *quoteService) List(ctx context.Context, userID uuid.UUID, filter domain.QuotationFilter) (*QuoteListResult, error) {
	const op = "QuoteService.List"

	if filter.ContainerType != "" && !domain.ValidContainerType(filter.ContainerType) {
		return nil, domain.Invalid(op, "Unknown container type filter")
	}
	if filter.TransportMode != "" && !domain.ValidTransportMode(filter.TransportMode) {
		return nil, domain.Invalid(op, "Unknown transport mode filter")
	}

	repoUser, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user", userID.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}
	user := repoUserToDomain(repoUser)

	repoQuotes, err := s.queries.ListQuotationsByUserID(ctx, repository.ListQuotationsByUserIDParams{
		UserID:        userID,
		Search:        strings.TrimSpace(filter.Search),
		ContainerType: string(filter.ContainerType),
		TransportMode: string(filter.TransportMode),
		Limit:         QuoteListLimit,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list quotations")
	}

	quotes := make([]domain.Quotation, len(repoQuotes))
	for i, rq := range repoQuotes {
		quotes[i] = *repoQuotationToDomain(rq)
	}

	return &QuoteListResult{
		Quotations:         quotes,
		Usage:              domain.UsageFor(user, s.freeLimit),
		SubscriptionStatus: user.SubscriptionStatus,
	}, nil
}

// =============================================================================
// Validation & normalization
// =============================================================================

// buildQuotation validates create params and produces a normalized quotation
// with defaults applied and derived fields computed.
func buildQuotation(op string, params domain.CreateQuotationParams) (*domain.Quotation, error) {
	quote := &domain.Quotation{
		POL:           params.POL.Normalize(),
		POD:           params.POD.Normalize(),
		ContainerType: params.ContainerType,
		Incoterms:     params.Incoterms,
		TransportMode: params.TransportMode,
		LineItems:     params.LineItems,
		Remarks:       strings.TrimSpace(params.Remarks),
		ValidUntil:    params.ValidUntil,
		GrossWeight:   params.GrossWeight,
		CBM:           params.CBM,
	}

	if quote.ContainerType == "" {
		quote.ContainerType = domain.DefaultContainerType
	}
	if quote.Incoterms == "" {
		quote.Incoterms = domain.DefaultIncoterms
	}
	if quote.TransportMode == "" {
		quote.TransportMode = domain.DefaultTransportMode
	}

	if err := validateQuotation(op, quote); err != nil {
		return nil, err
	}

	quote.Price = quote.TotalPrice()
	quote.ChargeableWeight = domain.ChargeableWeightKg(quote.GrossWeight, quote.CBM)

	return quote, nil
}

// applyQuotationUpdate merges partial-update params onto an existing
// quotation and re-validates the result. Derived fields are recomputed
// whenever their inputs change.
func applyQuotationUpdate(op string, quote *domain.Quotation, params domain.UpdateQuotationParams) error {
	if params.POL != nil {
		quote.POL = params.POL.Normalize()
	}
	if params.POD != nil {
		quote.POD = params.POD.Normalize()
	}
	if params.ContainerType != nil {
		quote.ContainerType = *params.ContainerType
	}
	if params.Incoterms != nil {
		quote.Incoterms = *params.Incoterms
	}
	if params.TransportMode != nil {
		quote.TransportMode = *params.TransportMode
	}
	if params.LineItems != nil {
		quote.LineItems = params.LineItems
	}
	if params.Remarks != nil {
		quote.Remarks = strings.TrimSpace(*params.Remarks)
	}
	if params.ValidUntil != nil {
		quote.ValidUntil = *params.ValidUntil
	}
	if params.GrossWeight != nil {
		quote.GrossWeight = *params.GrossWeight
	}
	if params.CBM != nil {
		quote.CBM = *params.CBM
	}

	if err := validateQuotation(op, quote); err != nil {
		return err
	}

	quote.Price = quote.TotalPrice()
	quote.ChargeableWeight = domain.ChargeableWeightKg(quote.GrossWeight, quote.CBM)

	return nil
}

// validateQuotation checks a fully-assembled quotation. Ports must already
// be normalized and defaults applied.
func validateQuotation(op string, q *domain.Quotation) error {
	if q.POL.Name == "" {
		return domain.Invalid(op, "Port of loading is required")
	}
	if q.POD.Name == "" {
		return domain.Invalid(op, "Port of discharge is required")
	}
	if !domain.ValidContainerType(q.ContainerType) {
		return domain.Invalid(op, "Unknown container type")
	}
	if !domain.ValidIncoterms(q.Incoterms) {
		return domain.Invalid(op, "Unknown incoterms")
	}
	if !domain.ValidTransportMode(q.TransportMode) {
		return domain.Invalid(op, "Unknown transport mode")
	}
	if utf8.RuneCountInString(q.Remarks) > domain.MaxRemarksLen {
		return domain.Invalid(op, "Remarks must be 500 characters or less")
	}
	if q.ValidUntil.IsZero() {
		return domain.Invalid(op, "Valid until date is required")
	}
	if q.GrossWeight < 0 {
		return domain.Invalid(op, "Gross weight cannot be negative")
	}
	if q.CBM < 0 {
		return domain.Invalid(op, "CBM cannot be negative")
	}

	for _, li := range q.LineItems {
		if !domain.ValidLineItemSection(li.Section) {
			return domain.Invalid(op, "Unknown line item section")
		}
		if strings.TrimSpace(li.Name) == "" {
			return domain.Invalid(op, "Line item name is required")
		}
		if li.Amount < 0 {
			return domain.Invalid(op, "Line item amount cannot be negative")
		}
		if !domain.ValidCurrency(li.Currency) {
			return domain.Invalid(op, "Unknown line item currency")
		}
	}

	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// generateShortCode produces a 7-character random alphanumeric share code
// using crypto/rand. Rejection sampling keeps the character distribution
// uniform: 248 is the largest multiple of 62 below 256.
func generateShortCode() (string, error) {
	const maxUnbiased = 248
	code := make([]byte, 0, shortCodeLength)
	buf := make([]byte, shortCodeLength)
	for len(code) < shortCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			code = append(code, shortCodeAlphabet[int(b)%len(shortCodeAlphabet)])
			if len(code) == shortCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// isUniqueViolation detects a unique-constraint failure from the driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// repoQuotationToDomain converts a repository.Quotation to domain.Quotation.
func repoQuotationToDomain(rq repository.Quotation) *domain.Quotation {
	var lineItems []domain.LineItem
	if len(rq.LineItems) > 0 {
		// Line items were validated on the way in; a decode failure here
		// means the column was tampered with, so an empty list is the
		// least bad answer.
		_ = json.Unmarshal(rq.LineItems, &lineItems)
	}

	return &domain.Quotation{
		ID:      rq.ID,
		ShortID: rq.ShortID,
		UserID:  rq.UserID,
		POL: domain.Port{
			Name:    rq.PolName,
			Code:    domain.NullStringValue(rq.PolCode),
			Country: rq.PolCountry,
		},
		POD: domain.Port{
			Name:    rq.PodName,
			Code:    domain.NullStringValue(rq.PodCode),
			Country: rq.PodCountry,
		},
		ContainerType:    domain.ContainerType(rq.ContainerType),
		Incoterms:        domain.Incoterms(rq.Incoterms),
		TransportMode:    domain.TransportMode(rq.TransportMode),
		LineItems:        lineItems,
		Price:            rq.Price,
		Remarks:          rq.Remarks,
		ValidUntil:       rq.ValidUntil,
		Views:            int(rq.Views),
		GrossWeight:      rq.GrossWeight,
		CBM:              rq.Cbm,
		ChargeableWeight: rq.ChargeableWeight,
		CreatedAt:        rq.CreatedAt.Time,
		UpdatedAt:        rq.UpdatedAt.Time,
	}
}

// Ensure quoteService implements QuoteService
var _ QuoteService = (*quoteService)(nil)
