package workflows

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/internal/repo"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
)

var ErrNotFound = errors.New("workflow not found")

// Repository reads workflows together with the project that owns them.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error)
	FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]SummaryRecord, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error
}

// SummaryRecord is a workflow row joined with its project name.
type SummaryRecord struct {
	ID             uuid.UUID
	Name           string
	Description    *string
	ProjectID      uuid.UUID
	ProjectName    string
	WorkflowConfig datatypes.JSON
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	var wf models.Workflow
	err := r.DB(ctx).Where("id = ?", id).Take(&wf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *repository) FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.DB(ctx).Where("id = ?", id).Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]SummaryRecord, error) {
	var records []SummaryRecord
	err := r.DB(ctx).
		Table("workflows w").
		Select(`w.id, w.name, w.description, w.project_id, p.name AS project_name,
w.workflow_config, w.is_active, w.created_at, w.updated_at`).
		Joins("JOIN projects p ON p.id = w.project_id").
		Where("p.user_id = ?", userID).
		Order("w.created_at DESC").
		Order("w.id DESC").
		Scan(&records).Error
	return records, err
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error {
	res := r.DB(ctx).
		Model(&models.Workflow{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"is_active":  active,
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
