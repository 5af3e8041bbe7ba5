package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/internal/repo"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
)

// Repository reads and appends usage ledger rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	SumSince(ctx context.Context, userID uuid.UUID, feature string, since time.Time) (int64, error)
	Create(ctx context.Context, entry *models.UsageLog) error
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

func (r *repository) SumSince(ctx context.Context, userID uuid.UUID, feature string, since time.Time) (int64, error) {
	var total int64
	err := r.DB(ctx).
		Model(&models.UsageLog{}).
		Select("COALESCE(SUM(usage_count), 0)").
		Where("user_id = ? AND feature_name = ? AND created_at >= ?", userID, feature, since.UTC()).
		Scan(&total).Error
	return total, err
}

func (r *repository) Create(ctx context.Context, entry *models.UsageLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	return r.DB(ctx).Create(entry).Error
}
