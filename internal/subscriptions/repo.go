package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/internal/repo"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
)

// ErrNotFound is returned when the user has no subscription row.
var ErrNotFound = errors.New("subscription not found")

// Repository persists the single subscription row each user may hold.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub *models.Subscription) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.SubscriptionStatus, at time.Time) (int64, error)
	UpdatePlan(ctx context.Context, userID uuid.UUID, planID string, at time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.DB(ctx).Create(sub).Error
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.DB(ctx).Where("user_id = ?", userID).Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateStatus changes only the status column. The returned count is zero when no row matched.
func (r *repository) UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.SubscriptionStatus, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		UpdateColumns(map[string]any{
			"status":     status,
			"updated_at": at.UTC(),
		})
	return res.RowsAffected, res.Error
}

// UpdatePlan switches the plan and reactivates the row. The billing period is left as is.
func (r *repository) UpdatePlan(ctx context.Context, userID uuid.UUID, planID string, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		UpdateColumns(map[string]any{
			"plan_id":    planID,
			"status":     enums.SubscriptionStatusActive,
			"updated_at": at.UTC(),
		})
	return res.RowsAffected, res.Error
}
