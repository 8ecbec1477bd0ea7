// Package domain contains core business types and interfaces.
//
// This file defines the paywall gate for quote creation. Creation is the only
// metered operation; reads, updates and deletes are never gated.
package domain

// UnlimitedRemaining is the sentinel returned for paid users, who have no
// quota ceiling.
const UnlimitedRemaining = -1

// QuotaUsage reports a user's position against the free quota.
type QuotaUsage struct {
	Used      int
	Limit     int
	Remaining int // UnlimitedRemaining for paid users
	IsPro     bool
}

// CanCreateQuote applies the gate rule: a user may create a quote when their
// subscription is active, or when their lifetime usage is still under the
// free limit. past_due users are gated exactly like free users.
func CanCreateQuote(u *User, freeLimit int) bool {
	if u.IsPro() {
		return true
	}
	return u.UsageCount < freeLimit
}

// UsageFor computes the quota usage snapshot for a user.
func UsageFor(u *User, freeLimit int) QuotaUsage {
	usage := QuotaUsage{
		Used:  u.UsageCount,
		Limit: freeLimit,
		IsPro: u.IsPro(),
	}
	if u.IsPro() {
		usage.Remaining = UnlimitedRemaining
		return usage
	}
	usage.Remaining = freeLimit - u.UsageCount
	if usage.Remaining < 0 {
		usage.Remaining = 0
	}
	return usage
}
