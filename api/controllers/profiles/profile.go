package profiles

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	profilesvc "github.com/aisynapse/synapse-backend/internal/profiles"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Service describes the profile methods used by the settings controllers.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*profilesvc.ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input profilesvc.UpdateProfileDTO) (*profilesvc.ProfileDTO, error)
}

type updateRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=200"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=200"`
}

func Get(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		profile, err := svc.Get(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// Update applies the fields present in the body. Absent fields are kept.
func Update(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := caller(w, r, svc, logg)
		if !ok {
			return
		}
		var payload updateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input := profilesvc.UpdateProfileDTO{
			FullName:    sanitized(payload.FullName),
			CompanyName: sanitized(payload.CompanyName),
		}
		profile, err := svc.Update(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func sanitized(v *string) *string {
	if v == nil {
		return nil
	}
	s := validators.SanitizeString(*v, 0)
	return &s
}

func caller(w http.ResponseWriter, r *http.Request, svc Service, logg *logger.Logger) (uuid.UUID, bool) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
		return uuid.Nil, false
	}
	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}
