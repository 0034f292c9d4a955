package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return nil
}

func (m *mockStore) SessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func TestManagerCreateAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store:       store,
		keyer:       store,
		ttl:         time.Hour,
		rememberTTL: 24 * time.Hour,
	}

	ctx := context.Background()
	accessID := NewAccessID()
	if err := manager.Create(ctx, accessID, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.ttls[store.SessionKey(accessID)]; got != time.Hour {
		t.Fatalf("expected default ttl, got %s", got)
	}

	active, err := manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !active {
		t.Fatal("expected active session")
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	active, err = manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke: %v", err)
	}
	if active {
		t.Fatal("expected session to be revoked")
	}
}

func TestManagerCreateRememberUsesExtendedTTL(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store:       store,
		keyer:       store,
		ttl:         time.Hour,
		rememberTTL: 30 * 24 * time.Hour,
	}

	accessID := NewAccessID()
	if err := manager.Create(context.Background(), accessID, true); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.ttls[store.SessionKey(accessID)]; got != 30*24*time.Hour {
		t.Fatalf("expected remember ttl, got %s", got)
	}
}

func TestManagerCreateRequiresAccessID(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour, rememberTTL: time.Hour}
	if err := manager.Create(context.Background(), "  ", false); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
