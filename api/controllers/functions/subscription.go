package functions

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	"github.com/aisynapse/synapse-backend/internal/usage"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

const (
	actionCreate      = "create"
	actionCancel      = "cancel"
	actionUpdate      = "update"
	actionCheckLimits = "check_limits"

	maxIdentifierLen = 64
)

// SubscriptionService is the subscription surface used by the function endpoint.
type SubscriptionService interface {
	Create(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error)
}

// LimitChecker evaluates a feature against the caller's plan.
type LimitChecker interface {
	CheckLimit(ctx context.Context, userID uuid.UUID, feature string) (*usage.LimitCheck, error)
}

type subscriptionRequest struct {
	Action      string `json:"action"`
	PlanID      string `json:"planId"`
	FeatureName string `json:"featureName"`
}

type subscriptionResponse struct {
	Success      bool                 `json:"success"`
	Subscription *models.Subscription `json:"subscription"`
}

type limitResponse struct {
	Success      bool  `json:"success"`
	CanUse       bool  `json:"canUse"`
	CurrentUsage int64 `json:"currentUsage"`
	Limit        int64 `json:"limit"`
}

// Subscription serves POST /functions/v1/subscription. Every failure is
// flattened to 400 {"error": message}.
func Subscription(subs SubscriptionService, limits LimitChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if subs == nil || limits == nil {
			responses.WriteFunctionError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteFunctionError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Error getting user"))
			return
		}

		var payload subscriptionRequest
		if err := validators.DecodeFunctionBody(r, &payload); err != nil {
			responses.WriteFunctionError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithField(ctx, "action", payload.Action)
		}

		var (
			sub *models.Subscription
			err error
		)
		switch payload.Action {
		case actionCreate, actionUpdate:
			planID, idErr := validators.Identifier("planId", payload.PlanID, maxIdentifierLen)
			if idErr != nil {
				responses.WriteFunctionError(ctx, logg, w, idErr)
				return
			}
			if payload.Action == actionCreate {
				sub, err = subs.Create(ctx, userID, planID)
			} else {
				sub, err = subs.Update(ctx, userID, planID)
			}
		case actionCancel:
			sub, err = subs.Cancel(ctx, userID)
		case actionCheckLimits:
			feature, idErr := validators.Identifier("featureName", payload.FeatureName, maxIdentifierLen)
			if idErr != nil {
				responses.WriteFunctionError(ctx, logg, w, idErr)
				return
			}
			check, checkErr := limits.CheckLimit(ctx, userID, feature)
			if checkErr != nil {
				responses.WriteFunctionError(ctx, logg, w, checkErr)
				return
			}
			responses.WriteFunctionJSON(w, limitResponse{
				Success:      true,
				CanUse:       check.CanUse,
				CurrentUsage: check.CurrentUsage,
				Limit:        check.Limit,
			})
			return
		default:
			responses.WriteFunctionError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Invalid action"))
			return
		}
		if err != nil {
			responses.WriteFunctionError(ctx, logg, w, err)
			return
		}

		responses.WriteFunctionJSON(w, subscriptionResponse{Success: true, Subscription: sub})
	}
}
