package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageLog is an append-only ledger entry for one feature invocation batch.
type UsageLog struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_usage_logs_user_feature_created"`
	FeatureName string    `gorm:"column:feature_name;not null;index:idx_usage_logs_user_feature_created"`
	UsageCount  int64     `gorm:"column:usage_count;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_usage_logs_user_feature_created"`
}

func (u *UsageLog) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
