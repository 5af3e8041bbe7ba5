package subscriptions

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Service describes the subscription methods used by the dashboard controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

const maxPlanIDLen = 64

type planRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

func Get(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		sub, err := svc.Get(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

func Create(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		var payload planRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		planID, err := validators.Identifier("plan_id", payload.PlanID, maxPlanIDLen)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sub, err := svc.Create(ctx, userID, planID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sub)
	}
}

func Cancel(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		sub, err := svc.Cancel(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

func Update(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		var payload planRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		planID, err := validators.Identifier("plan_id", payload.PlanID, maxPlanIDLen)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sub, err := svc.Update(ctx, userID, planID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

func caller(w http.ResponseWriter, r *http.Request, svc Service, logg *logger.Logger) (uuid.UUID, bool) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
		return uuid.Nil, false
	}
	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}
