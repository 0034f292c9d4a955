package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arshoplabs/arshop-backend/api/responses"
	"github.com/arshoplabs/arshop-backend/pkg/config"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
)

// Bodies larger than this are restored untouched but not inspected for an
// identifier; the per-IP limit still applies.
const maxInspectedBodyBytes = 1 << 16

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles an auth endpoint per client IP and per
// submitted identifier within a fixed window.
type AuthRateLimitPolicy struct {
	Name            string
	Window          time.Duration
	IPLimit         int
	IdentifierLimit int
	IdentifierField string
}

// LoginRateLimitPolicy builds the policy applied to the login endpoint.
func LoginRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		Name:            "login",
		Window:          cfg.LoginWindow,
		IPLimit:         cfg.LoginIPLimit,
		IdentifierLimit: cfg.LoginIdentifierLimit,
		IdentifierField: "identifier",
	}
}

// RegisterRateLimitPolicy builds the policy applied to the register endpoint.
func RegisterRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		Name:            "register",
		Window:          cfg.RegisterWindow,
		IPLimit:         cfg.RegisterIPLimit,
		IdentifierLimit: cfg.RegisterIdentifierLimit,
		IdentifierField: "email",
	}
}

// AuthRateLimit enforces the policy before the handler runs. Requests over
// either limit receive a 429. Limiter outages fail open with a warning so
// auth stays available when redis is down.
func AuthRateLimit(limiter rateLimiter, policy AuthRateLimitPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if ip := clientIP(r); ip != "" && policy.IPLimit > 0 {
				scope := policy.Name + ":ip:" + ip
				allowed, count, err := limiter.FixedWindowAllow(ctx, scope, int64(policy.IPLimit), policy.Window)
				if err != nil {
					logg.Warn(logg.WithField(ctx, "rate_limit_scope", scope), "rate limiter unavailable, failing open")
				} else if !allowed {
					respondRateLimited(ctx, logg, w, policy.Name, count)
					return
				}
			}

			identifier := formIdentifier(r, policy.IdentifierField)
			if identifier != "" && policy.IdentifierLimit > 0 {
				scope := policy.Name + ":id:" + hashIdentifier(identifier)
				allowed, count, err := limiter.FixedWindowAllow(ctx, scope, int64(policy.IdentifierLimit), policy.Window)
				if err != nil {
					logg.Warn(logg.WithField(ctx, "rate_limit_scope", scope), "rate limiter unavailable, failing open")
				} else if !allowed {
					respondRateLimited(ctx, logg, w, policy.Name, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// formIdentifier peeks the form body for the identifier field and restores
// the body so the handler can parse it again.
func formIdentifier(r *http.Request, field string) string {
	if field == "" || r.Body == nil {
		return ""
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		return ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) > maxInspectedBodyBytes {
		return ""
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(values.Get(field)))
}

func hashIdentifier(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-Ip")); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, name string, count int64) {
	ctx = logg.WithFields(ctx, map[string]any{
		"rate_limit_policy": name,
		"rate_limit_count":  count,
	})
	logg.Warn(ctx, "auth request rate limited")

	err := pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later")
	responses.WriteError(ctx, logg, w, err)
}
