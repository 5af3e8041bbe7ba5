package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/pkg/enums"
)

// Profile holds the account details a user edits on the settings page.
// ID is the authenticated user's id.
type Profile struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName         *string                `gorm:"column:full_name" json:"full_name"`
	CompanyName      *string                `gorm:"column:company_name" json:"company_name"`
	SubscriptionTier enums.SubscriptionTier `gorm:"column:subscription_tier;type:subscription_tier;default:'free'" json:"subscription_tier"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
