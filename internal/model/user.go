package model

import "time"

// SubscriptionTier identifies the user's plan class.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierMonthly SubscriptionTier = "monthly"
	TierAnnual  SubscriptionTier = "annual"
)

// Valid reports whether t is a known tier.
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierMonthly, TierAnnual:
		return true
	}
	return false
}

// Unlimited reports whether the tier is exempt from usage limits.
// Paid tiers are never metered.
func (t SubscriptionTier) Unlimited() bool {
	return t == TierMonthly || t == TierAnnual
}

// User represents a user in the system. Authentication and payment
// webhooks are handled externally; the engine only needs the identity
// and the plan tier.
type User struct {
	UserID           string           `db:"user_id" json:"user_id"`
	Email            string           `db:"email" json:"email"`
	DisplayName      string           `db:"display_name" json:"display_name"`
	SubscriptionTier SubscriptionTier `db:"subscription_tier" json:"subscription_tier"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}
