package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/internal/usage"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Summary is the dashboard view of a workflow.
type Summary struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	ProjectID      uuid.UUID       `json:"project_id"`
	Project        ProjectRef      `json:"project"`
	WorkflowConfig json.RawMessage `json:"workflow_config"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ProjectRef struct {
	Name string `json:"name"`
}

type executionObserver interface {
	ObserveExecution(workflowType string, elapsed time.Duration, err error)
}

type Service interface {
	Execute(ctx context.Context, userID, workflowID uuid.UUID) (Result, error)
	List(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	SetActive(ctx context.Context, userID, workflowID uuid.UUID, active bool) (*Summary, error)
}

// ServiceParams groups dependencies for the workflow service.
type ServiceParams struct {
	Repo       Repository
	Dispatcher *Dispatcher
	Usage      usage.Recorder
	Metrics    executionObserver
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	repo       Repository
	dispatcher *Dispatcher
	usage      usage.Recorder
	metrics    executionObserver
	logg       *logger.Logger
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("workflow repo required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("workflow dispatcher required")
	}
	if params.Usage == nil {
		return nil, fmt.Errorf("usage recorder required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		dispatcher: params.Dispatcher,
		usage:      params.Usage,
		metrics:    params.Metrics,
		logg:       params.Logger,
		now:        now,
	}, nil
}

// Execute runs an active workflow owned by userID and meters one api call.
func (s *service) Execute(ctx context.Context, userID, workflowID uuid.UUID) (Result, error) {
	wf, err := s.owned(ctx, userID, workflowID)
	if err != nil {
		return nil, err
	}
	if !wf.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Workflow is not active")
	}

	if s.logg != nil {
		ctx = s.logg.WithWorkflowID(ctx, wf.ID.String())
		s.logg.Info(s.logg.WithField(ctx, "workflow_name", wf.Name), "workflow.execute.start")
	}

	cfg, err := ParseConfig(wf.WorkflowConfig)
	if err != nil {
		label := "invalid"
		if pkgerrors.HasCode(err, pkgerrors.CodeUnsupported) {
			label = "unsupported"
		}
		s.observe(label, 0, err)
		return nil, err
	}

	started := s.now()
	result, err := s.dispatcher.Route(ctx, wf, cfg)
	s.observe(cfg.Type().String(), s.now().Sub(started), err)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, "workflow.execute.success")
	}

	if err := s.usage.Record(ctx, userID, enums.FeatureAPICalls, 1); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "workflow.usage.record_failed")
	}
	return result, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	records, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workflows")
	}
	out := make([]Summary, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toSummary())
	}
	return out, nil
}

// SetActive toggles is_active on a workflow owned by userID.
func (s *service) SetActive(ctx context.Context, userID, workflowID uuid.UUID, active bool) (*Summary, error) {
	wf, err := s.owned(ctx, userID, workflowID)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if err := s.repo.SetActive(ctx, wf.ID, active, at); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Workflow not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update workflow")
	}
	project, err := s.repo.FindProject(ctx, wf.ProjectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	wf.IsActive = active
	wf.UpdatedAt = at
	summary := summaryOf(wf, project.Name)
	return &summary, nil
}

func (s *service) owned(ctx context.Context, userID, workflowID uuid.UUID) (*models.Workflow, error) {
	if workflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflowId is required")
	}
	wf, err := s.repo.FindByID(ctx, workflowID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Workflow not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error fetching workflow")
	}

	project, err := s.repo.FindProject(ctx, wf.ProjectID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Workflow not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error fetching workflow")
	}
	if project.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "workflow belongs to another user")
	}
	return wf, nil
}

func (s *service) observe(workflowType string, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveExecution(workflowType, elapsed, err)
}

func (r SummaryRecord) toSummary() Summary {
	return Summary{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		ProjectID:      r.ProjectID,
		Project:        ProjectRef{Name: r.ProjectName},
		WorkflowConfig: json.RawMessage(r.WorkflowConfig),
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func summaryOf(wf *models.Workflow, projectName string) Summary {
	return SummaryRecord{
		ID:             wf.ID,
		Name:           wf.Name,
		Description:    wf.Description,
		ProjectID:      wf.ProjectID,
		ProjectName:    projectName,
		WorkflowConfig: wf.WorkflowConfig,
		IsActive:       wf.IsActive,
		CreatedAt:      wf.CreatedAt,
		UpdatedAt:      wf.UpdatedAt,
	}.toSummary()
}
