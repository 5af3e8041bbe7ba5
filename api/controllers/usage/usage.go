package usage

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	usagesvc "github.com/aisynapse/synapse-backend/internal/usage"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Service describes the usage methods used by the dashboard controllers.
type Service interface {
	CheckLimit(ctx context.Context, userID uuid.UUID, feature string) (*usagesvc.LimitCheck, error)
	Record(ctx context.Context, userID uuid.UUID, feature string, count int64) error
}

type limitResponse struct {
	FeatureName  string `json:"feature_name"`
	CanUse       bool   `json:"can_use"`
	CurrentUsage int64  `json:"current_usage"`
	Limit        int64  `json:"limit"`
}

type recordRequest struct {
	FeatureName string `json:"feature_name" validate:"required,max=64"`
	UsageCount  int64  `json:"usage_count" validate:"required,min=1"`
}

type recordResponse struct {
	FeatureName string `json:"feature_name"`
	UsageCount  int64  `json:"usage_count"`
}

// CheckLimit serves GET /api/v1/usage/{featureName}.
func CheckLimit(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		feature := strings.TrimSpace(chi.URLParam(r, "featureName"))
		if feature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "feature name is required"))
			return
		}

		check, err := svc.CheckLimit(ctx, userID, feature)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, limitResponse{
			FeatureName:  feature,
			CanUse:       check.CanUse,
			CurrentUsage: check.CurrentUsage,
			Limit:        check.Limit,
		})
	}
}

// Record serves POST /api/v1/usage.
func Record(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		var payload recordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		feature, err := validators.Identifier("feature_name", payload.FeatureName, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Record(ctx, userID, feature, payload.UsageCount); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, recordResponse{FeatureName: feature, UsageCount: payload.UsageCount})
	}
}

func caller(w http.ResponseWriter, r *http.Request, svc Service, logg *logger.Logger) (uuid.UUID, bool) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "usage service unavailable"))
		return uuid.Nil, false
	}
	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}
