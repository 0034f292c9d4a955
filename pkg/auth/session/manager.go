package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arshoplabs/arshop-backend/pkg/config"
	redisclient "github.com/arshoplabs/arshop-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const sessionMarker = "active"

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(accessID string) string
}

// Manager tracks active login sessions in Redis keyed by the JWT jti.
// A session created with remember set uses the extended TTL so the
// login outlives the default window.
type Manager struct {
	store       sessionStore
	keyer       sessionKeyer
	ttl         time.Duration
	rememberTTL time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	rememberTTL := cfg.RememberTTL()
	if rememberTTL < ttl {
		return nil, fmt.Errorf("remember ttl (%s) must not be shorter than session ttl (%s)", rememberTTL, ttl)
	}

	return &Manager{
		store:       client,
		keyer:       client,
		ttl:         ttl,
		rememberTTL: rememberTTL,
	}, nil
}

// Create registers an active session for the provided access ID.
func (m *Manager) Create(ctx context.Context, accessID string, remember bool) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}
	return m.store.Set(ctx, m.keyer.SessionKey(accessID), sessionMarker, ttl)
}

// HasSession reports whether the provided access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(accessID))
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
