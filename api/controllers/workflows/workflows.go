package workflows

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	workflowsvc "github.com/aisynapse/synapse-backend/internal/workflows"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Service describes the workflow methods used by the dashboard controllers.
type Service interface {
	Execute(ctx context.Context, userID, workflowID uuid.UUID) (workflowsvc.Result, error)
	List(ctx context.Context, userID uuid.UUID) ([]workflowsvc.Summary, error)
	SetActive(ctx context.Context, userID, workflowID uuid.UUID, active bool) (*workflowsvc.Summary, error)
}

type listResponse struct {
	Workflows []workflowsvc.Summary `json:"workflows"`
}

type toggleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type executeResponse struct {
	WorkflowID uuid.UUID          `json:"workflow_id"`
	Result     workflowsvc.Result `json:"result"`
}

func List(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		items, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listResponse{Workflows: items})
	}
}

// Toggle serves PATCH /api/v1/workflows/{workflowId}.
func Toggle(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		workflowID, err := validators.ParseUUIDParam(r, "workflowId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload toggleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.SetActive(ctx, userID, workflowID, *payload.IsActive)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// Execute serves POST /api/v1/workflows/{workflowId}/execute.
func Execute(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		workflowID, err := validators.ParseUUIDParam(r, "workflowId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Execute(ctx, userID, workflowID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, executeResponse{WorkflowID: workflowID, Result: result})
	}
}

func caller(w http.ResponseWriter, r *http.Request, svc Service, logg *logger.Logger) (uuid.UUID, bool) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
		return uuid.Nil, false
	}
	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}
