package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCreateQuote(t *testing.T) {
	const limit = 10

	tests := []struct {
		name   string
		user   User
		want   bool
	}{
		{
			name: "free user under limit",
			user: User{UsageCount: 3, SubscriptionStatus: SubscriptionStatusFree},
			want: true,
		},
		{
			name: "free user one below limit",
			user: User{UsageCount: 9, SubscriptionStatus: SubscriptionStatusFree},
			want: true,
		},
		{
			name: "free user at limit",
			user: User{UsageCount: 10, SubscriptionStatus: SubscriptionStatusFree},
			want: false,
		},
		{
			name: "free user over limit",
			user: User{UsageCount: 25, SubscriptionStatus: SubscriptionStatusFree},
			want: false,
		},
		{
			name: "active user at limit",
			user: User{UsageCount: 10, SubscriptionStatus: SubscriptionStatusActive},
			want: true,
		},
		{
			name: "active user far over limit",
			user: User{UsageCount: 500, SubscriptionStatus: SubscriptionStatusActive},
			want: true,
		},
		{
			name: "past_due user at limit is gated like free",
			user: User{UsageCount: 10, SubscriptionStatus: SubscriptionStatusPastDue},
			want: false,
		},
		{
			name: "past_due user under limit may still create",
			user: User{UsageCount: 4, SubscriptionStatus: SubscriptionStatusPastDue},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanCreateQuote(&tt.user, limit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsageFor(t *testing.T) {
	const limit = 10

	t.Run("free user reports remaining", func(t *testing.T) {
		u := User{UsageCount: 7, SubscriptionStatus: SubscriptionStatusFree}
		usage := UsageFor(&u, limit)
		assert.Equal(t, 7, usage.Used)
		assert.Equal(t, 10, usage.Limit)
		assert.Equal(t, 3, usage.Remaining)
		assert.False(t, usage.IsPro)
	})

	t.Run("remaining never goes negative", func(t *testing.T) {
		u := User{UsageCount: 14, SubscriptionStatus: SubscriptionStatusFree}
		usage := UsageFor(&u, limit)
		assert.Equal(t, 0, usage.Remaining)
	})

	t.Run("active user gets unlimited sentinel", func(t *testing.T) {
		u := User{UsageCount: 42, SubscriptionStatus: SubscriptionStatusActive}
		usage := UsageFor(&u, limit)
		assert.Equal(t, UnlimitedRemaining, usage.Remaining)
		assert.True(t, usage.IsPro)
	})
}
