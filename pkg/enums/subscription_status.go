package enums

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

// SubscriptionStatus is the lifecycle state of a user's subscription row.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusCanceled,
	SubscriptionStatusPastDue,
}

func (s SubscriptionStatus) String() string { return string(s) }

func (s SubscriptionStatus) IsValid() bool {
	return slices.Contains(subscriptionStatuses, s)
}

func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	return parse("subscription status", value, subscriptionStatuses)
}

// Value stores the status in the subscription_status enum column.
func (s SubscriptionStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid subscription status %q", string(s))
	}
	return string(s), nil
}

func (s *SubscriptionStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan subscription status from %T", src)
	}
	parsed, err := ParseSubscriptionStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
