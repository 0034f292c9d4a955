package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/arshoplabs/arshop-backend/pkg/auth"
	"github.com/arshoplabs/arshop-backend/pkg/config"
	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	"github.com/arshoplabs/arshop-backend/pkg/enums"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	user       *models.User
	lastLogins map[uuid.UUID]time.Time
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.user != nil && f.user.Username == username {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.lastLogins == nil {
		f.lastLogins = map[uuid.UUID]time.Time{}
	}
	f.lastLogins[id] = at
	return nil
}

type fakeSessionManager struct {
	created map[string]bool
	revoked []string
}

func (f *fakeSessionManager) Create(ctx context.Context, accessID string, remember bool) error {
	if f.created == nil {
		f.created = map[string]bool{}
	}
	f.created[accessID] = remember
	return nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "arshop",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func buildTestService(t *testing.T, user *models.User) (Service, *fakeSessionManager) {
	t.Helper()
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: user},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions
}

func testUser(t *testing.T, password string, isAdmin bool) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Username:     "shopper1",
		Email:        "shopper1@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsAdmin:      isAdmin,
	}
}

func TestLoginWithEmailIdentifier(t *testing.T) {
	user := testUser(t, "correct horse", false)
	svc, sessions := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "Shopper1@Example.com",
		Password:   "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.RoleCustomer {
		t.Fatalf("expected customer role, got %s", claims.Role)
	}
	if remember, ok := sessions.created[claims.ID]; !ok || remember {
		t.Fatalf("expected plain session for jti %s", claims.ID)
	}
}

func TestLoginWithUsernameIdentifier(t *testing.T) {
	user := testUser(t, "correct horse", false)
	svc, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "shopper1",
		Password:   "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.Username != "shopper1" {
		t.Fatalf("unexpected user %q", resp.User.Username)
	}
}

func TestLoginRememberExtendsSession(t *testing.T) {
	user := testUser(t, "correct horse", false)
	svc, sessions := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "shopper1",
		Password:   "correct horse",
		Remember:   true,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if remember := sessions.created[claims.ID]; !remember {
		t.Fatalf("expected remembered session")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "correct horse", false)
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "shopper1",
		Password:   "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "ghost",
		Password:   "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginAdminRoleClaim(t *testing.T) {
	user := testUser(t, "correct horse", true)
	svc, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "shopper1",
		Password:   "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	user := testUser(t, "correct horse", false)
	svc, sessions := buildTestService(t, user)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestSafeRedirect(t *testing.T) {
	cases := []struct {
		next string
		want string
	}{
		{"/cart", "/cart"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"cart", "/"},
	}
	for _, tc := range cases {
		if got := SafeRedirect(tc.next); got != tc.want {
			t.Fatalf("SafeRedirect(%q) = %q, want %q", tc.next, got, tc.want)
		}
	}
}

func TestProfileReturnsAccount(t *testing.T) {
	user := testUser(t, "correct horse", false)
	svc, _ := buildTestService(t, user)

	profile, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.ID != user.ID {
		t.Fatalf("expected id %s got %s", user.ID, profile.ID)
	}
	if profile.Username != "shopper1" || profile.Email != "shopper1@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestProfileUnknownUser(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Profile(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error got %v", err)
	}
	if typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %s", typed.Code())
	}
}
