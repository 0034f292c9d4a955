package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arshoplabs/arshop-backend/api/responses"
	"github.com/arshoplabs/arshop-backend/pkg/auth"
	"github.com/arshoplabs/arshop-backend/pkg/auth/session"
	"github.com/arshoplabs/arshop-backend/pkg/config"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
)

const bearerPrefix = "Bearer "

// Auth validates the bearer token, checks the session is still live and
// seeds the request context with the caller's identity.
func Auth(cfg config.JWTConfig, sessions session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				unauthorized := pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
				responses.WriteError(r.Context(), logg, w, unauthorized)
				return
			}

			active, err := sessions.HasSession(r.Context(), claims.ID)
			if err != nil {
				dep := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session check failed")
				responses.WriteError(r.Context(), logg, w, dep)
				return
			}
			if !active {
				unauthorized := pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
				responses.WriteError(r.Context(), logg, w, unauthorized)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = context.WithValue(ctx, ctxUsername, claims.Username)
			ctx = WithRole(ctx, string(claims.Role))
			ctx = WithAccessID(ctx, claims.ID)
			ctx = logg.WithFields(ctx, map[string]any{
				"user_id":    claims.UserID.String(),
				"actor_role": string(claims.Role),
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token")
	}
	return token, nil
}
