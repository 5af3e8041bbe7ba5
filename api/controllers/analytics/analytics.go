package analytics

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/api/validators"
	analyticssvc "github.com/aisynapse/synapse-backend/internal/analytics"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
	"github.com/aisynapse/synapse-backend/pkg/pagination"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*analyticssvc.Page, error)
}

// List serves GET /api/v1/analytics?limit=&cursor=.
func List(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}
		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, userID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
