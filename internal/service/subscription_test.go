package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1uv0cean/fwd-link/internal/domain"
)

func newSubscriptionTestService() SubscriptionService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewSubscriptionService(nil, logger)
}

func TestSubscriptionSync_RejectsEmptyEmail(t *testing.T) {
	svc := newSubscriptionTestService()

	err := svc.Sync(context.Background(), SubscriptionSyncParams{
		Email:  "   ",
		Status: domain.SubscriptionStatusActive,
	})

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestSubscriptionSync_RejectsUnknownStatus(t *testing.T) {
	svc := newSubscriptionTestService()

	err := svc.Sync(context.Background(), SubscriptionSyncParams{
		Email:  "owner@example.com",
		Status: domain.SubscriptionStatus("trialing"),
	})

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString("").Valid)

	ns := nullString("sub_312456")
	require.True(t, ns.Valid)
	assert.Equal(t, "sub_312456", ns.String)
}

func TestNullTimePtr(t *testing.T) {
	assert.False(t, nullTimePtr(nil).Valid)

	endsAt := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	nt := nullTimePtr(&endsAt)
	require.True(t, nt.Valid)
	assert.Equal(t, endsAt, nt.Time)
}
