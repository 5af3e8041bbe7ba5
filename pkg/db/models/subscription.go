package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/pkg/enums"
)

// Subscription is the single billing record a user holds. user_id is unique.
type Subscription struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID                `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	PlanID             string                   `gorm:"column:plan_id;not null" json:"plan_id"`
	Status             enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'" json:"status"`
	CurrentPeriodStart time.Time                `gorm:"column:current_period_start;not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time                `gorm:"column:current_period_end;not null" json:"current_period_end"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
