package middleware

import (
	"fmt"
	"net/http"

	"github.com/aisynapse/synapse-backend/api/responses"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Recoverer turns a handler panic into an INTERNAL_ERROR response rendered by
// onError (the REST envelope when nil).
func Recoverer(logg *logger.Logger, onError responses.ErrorWriter) func(http.Handler) http.Handler {
	if onError == nil {
		onError = responses.WriteError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "panic", fmt.Sprint(rec))
				}
				onError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
