package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aisynapse/synapse-backend/internal/repo"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
)

// ErrNotFound is returned when the user has no profile row.
var ErrNotFound = errors.New("profile not found")

// Repository persists the profile row keyed by user id.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateIfMissing(ctx context.Context, profile *models.Profile) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any, at time.Time) (int64, error)
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB(ctx).Where("id = ?", id).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateIfMissing inserts profile unless a row with its id already exists.
func (r *repository) CreateIfMissing(ctx context.Context, profile *models.Profile) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
}

// UpdateFields writes only the given columns plus updated_at.
func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any, at time.Time) (int64, error) {
	cols := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		cols[k] = v
	}
	cols["updated_at"] = at.UTC()
	res := r.DB(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumns(cols)
	return res.RowsAffected, res.Error
}
