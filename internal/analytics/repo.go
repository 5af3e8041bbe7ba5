package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/internal/repo"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/pagination"
)

// Repository appends and reads project metric samples.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.AnalyticsData) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int, after *pagination.Cursor) ([]EntryRecord, error)
}

// EntryRecord is an analytics row joined with its project.
type EntryRecord struct {
	ID                 uuid.UUID
	ProjectID          uuid.UUID
	MetricName         string
	MetricValue        datatypes.JSON
	Timestamp          time.Time
	ProjectName        string
	ProjectDescription *string
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) Create(ctx context.Context, row *models.AnalyticsData) error {
	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now()
	}
	row.Timestamp = row.Timestamp.UTC()
	return r.DB(ctx).Create(row).Error
}

// ListForUser pages the caller's samples by (timestamp, id) descending. after
// is the last row of the previous page, nil for the first page.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int, after *pagination.Cursor) ([]EntryRecord, error) {
	var records []EntryRecord
	q := r.DB(ctx).
		Table("analytics_data a").
		Select(`a.id, a.project_id, a.metric_name, a.metric_value, a.timestamp,
p.name AS project_name, p.description AS project_description`).
		Joins("JOIN projects p ON p.id = a.project_id").
		Where("p.user_id = ?", userID)
	if after != nil {
		at := after.At.UTC()
		q = q.Where("(a.timestamp < ? OR (a.timestamp = ? AND a.id < ?))", at, at, after.ID)
	}
	err := q.
		Order("a.timestamp DESC").
		Order("a.id DESC").
		Limit(limit).
		Scan(&records).Error
	return records, err
}
