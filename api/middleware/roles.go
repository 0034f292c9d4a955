package middleware

import (
	"net/http"

	"github.com/arshoplabs/arshop-backend/api/responses"
	"github.com/arshoplabs/arshop-backend/pkg/enums"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
)

// RequireAdmin rejects authenticated requests whose actor is not an admin.
// It must run after Auth, which seeds the role in the context.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := RoleFromContext(r.Context())
			if raw == "" {
				err := pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			role, err := enums.ParseRole(raw)
			if err != nil || role != enums.RoleAdmin {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
