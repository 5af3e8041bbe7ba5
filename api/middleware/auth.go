package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aisynapse/synapse-backend/api/responses"
	pkgAuth "github.com/aisynapse/synapse-backend/pkg/auth"
	"github.com/aisynapse/synapse-backend/pkg/config"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Auth validates the bearer token and seeds the request context with the
// caller. onError selects the failure body; nil means the REST envelope.
func Auth(cfg config.AuthConfig, logg *logger.Logger, onError responses.ErrorWriter) func(http.Handler) http.Handler {
	if onError == nil {
		onError = responses.WriteError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				onError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "No authorization header"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				onError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Error getting user"))
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				onError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Error getting user"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if claims.Email != "" {
				ctx = context.WithValue(ctx, ctxEmail, claims.Email)
			}
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	raw := strings.TrimSpace(header)
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
