package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/arshoplabs/arshop-backend/api/responses"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
)

// Recoverer converts panics into a 500 response instead of tearing down
// the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := logg.WithField(r.Context(), "stack", string(debug.Stack()))
					logg.Error(ctx, "panic recovered", fmt.Errorf("panic: %v", rec))

					err := pkgerrors.New(pkgerrors.CodeInternal, "internal server error")
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
