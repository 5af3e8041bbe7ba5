package functions

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	"github.com/aisynapse/synapse-backend/internal/workflows"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// WorkflowExecutor runs a workflow on behalf of its owner.
type WorkflowExecutor interface {
	Execute(ctx context.Context, userID, workflowID uuid.UUID) (workflows.Result, error)
}

type executeWorkflowRequest struct {
	WorkflowID string `json:"workflowId"`
}

type executeWorkflowResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Result  workflows.Result `json:"result"`
}

// ExecuteWorkflow serves POST /functions/v1/execute-workflow. Failures are
// flattened to 400 {"success": false, "error": message}.
func ExecuteWorkflow(svc WorkflowExecutor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteFunctionFailure(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteFunctionFailure(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Error getting user"))
			return
		}

		var payload executeWorkflowRequest
		if err := validators.DecodeFunctionBody(r, &payload); err != nil {
			responses.WriteFunctionFailure(ctx, logg, w, err)
			return
		}
		workflowID, err := uuid.Parse(validators.SanitizeString(payload.WorkflowID, 0))
		if err != nil {
			responses.WriteFunctionFailure(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Workflow not found"))
			return
		}

		result, err := svc.Execute(ctx, userID, workflowID)
		if err != nil {
			responses.WriteFunctionFailure(ctx, logg, w, err)
			return
		}

		responses.WriteFunctionJSON(w, executeWorkflowResponse{
			Success: true,
			Message: "Workflow executed successfully",
			Result:  result,
		})
	}
}
