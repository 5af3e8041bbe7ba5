package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Workflow stores a user-configured automation. WorkflowConfig holds the raw
// {type, config} document; decoding into a typed variant happens in internal/workflows.
type Workflow struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name           string         `gorm:"column:name;not null"`
	Description    *string        `gorm:"column:description"`
	ProjectID      uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index"`
	WorkflowConfig datatypes.JSON `gorm:"column:workflow_config;type:jsonb;not null"`
	IsActive       bool           `gorm:"column:is_active;not null;default:false"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
