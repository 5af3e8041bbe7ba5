package enums

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

// SubscriptionTier is the tier shown on a user's profile.
type SubscriptionTier string

const (
	SubscriptionTierFree         SubscriptionTier = "free"
	SubscriptionTierBasic        SubscriptionTier = "basic"
	SubscriptionTierProfessional SubscriptionTier = "professional"
	SubscriptionTierEnterprise   SubscriptionTier = "enterprise"
)

var subscriptionTiers = []SubscriptionTier{
	SubscriptionTierFree,
	SubscriptionTierBasic,
	SubscriptionTierProfessional,
	SubscriptionTierEnterprise,
}

func (t SubscriptionTier) String() string { return string(t) }

func (t SubscriptionTier) IsValid() bool {
	return slices.Contains(subscriptionTiers, t)
}

func ParseSubscriptionTier(value string) (SubscriptionTier, error) {
	return parse("subscription tier", value, subscriptionTiers)
}

func (t SubscriptionTier) Value() (driver.Value, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid subscription tier %q", string(t))
	}
	return string(t), nil
}

// Scan reads the subscription_tier column. NULL scans as free.
func (t *SubscriptionTier) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = SubscriptionTierFree
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan subscription tier from %T", src)
	}
	parsed, err := ParseSubscriptionTier(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
