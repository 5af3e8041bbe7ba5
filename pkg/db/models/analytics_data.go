package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalyticsData is a single metric sample attributed to a project.
type AnalyticsData struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	ProjectID   uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index"`
	MetricName  string         `gorm:"column:metric_name;not null"`
	MetricValue datatypes.JSON `gorm:"column:metric_value;type:jsonb;not null"`
	Timestamp   time.Time      `gorm:"column:timestamp;not null"`
}

func (AnalyticsData) TableName() string {
	return "analytics_data"
}

func (a *AnalyticsData) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
