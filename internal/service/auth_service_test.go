package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/config"
	"github.com/spec-kit/credit-service/internal/domain"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User

	touched []string
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
	for _, u := range users {
		repo.byEmail[u.Email] = u
		repo.byID[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }

func (f *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	if u, ok := f.byID[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context, _ string) ([]domain.User, error) { return nil, nil }

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeUserRepo) CredentialStatus(_ context.Context, id string) (*auth.CredentialStatus, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &auth.CredentialStatus{ID: u.ID, IsActive: u.IsActive}, nil
}

type fakeSessionRepo struct {
	sessions map[string]bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]bool)}
}

func (f *fakeSessionRepo) key(userID, sessionID string) string { return userID + ":" + sessionID }

func (f *fakeSessionRepo) Store(_ context.Context, userID, sessionID string, _ time.Duration) error {
	f.sessions[f.key(userID, sessionID)] = true
	return nil
}

func (f *fakeSessionRepo) Valid(_ context.Context, userID, sessionID string) (bool, error) {
	return f.sessions[f.key(userID, sessionID)], nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, userID, sessionID string) error {
	delete(f.sessions, f.key(userID, sessionID))
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "test-access-secret",
			RefreshSecret:        "test-refresh-secret",
			AccessTokenTTLMin:    30,
			RefreshTokenTTLHours: 168,
			BcryptCost:           4,
		},
	}
}

func activeUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("123456", 4)
	require.NoError(t, err)
	return &domain.User{
		ID:           "user-1",
		Name:         "Admin",
		Email:        "admin@dashmonster.com",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		TenantID:     "tenant-1",
		IsActive:     true,
	}
}

func requireDomainError(t *testing.T, err error, code string) {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	require.Equal(t, code, domainErr.Code)
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo(activeUser(t))
	sessions := newFakeSessionRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, SessionRepo: sessions})

	user, pair, err := svc.Login(context.Background(), "admin@dashmonster.com", "123456")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.NotNil(t, user.LastLogin)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, []string{"user-1"}, users.touched)
	require.Len(t, sessions.sessions, 1)

	claims, err := svc.TokenManager().ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestLoginRejections(t *testing.T) {
	inactive := activeUser(t)
	inactive.ID = "user-2"
	inactive.Email = "inativo@dashmonster.com"
	inactive.IsActive = false

	users := newFakeUserRepo(activeUser(t), inactive)
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, SessionRepo: newFakeSessionRepo()})

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "ghost@dashmonster.com", password: "123456"},
		{name: "wrong password", email: "admin@dashmonster.com", password: "wrong"},
		{name: "inactive user", email: "inativo@dashmonster.com", password: "123456"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			requireDomainError(t, err, "CREDENTIALS_INVALID")

			// All rejections share one message so responses do not reveal
			// which part of the credentials failed.
			require.Equal(t, "Credenciais inválidas", apperrors.ToDomainError(err).Message)
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	users := newFakeUserRepo(activeUser(t))
	sessions := newFakeSessionRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, SessionRepo: sessions})

	_, pair, err := svc.Login(context.Background(), "admin@dashmonster.com", "123456")
	require.NoError(t, err)

	_, rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	require.Len(t, sessions.sessions, 1)

	// The rotated-out token is single use.
	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	requireDomainError(t, err, "SESSION_REVOKED")
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: newFakeUserRepo(), SessionRepo: newFakeSessionRepo()})

	_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
	requireDomainError(t, err, "TOKEN_INVALID")
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	user := activeUser(t)
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, SessionRepo: sessions})

	_, pair, err := svc.Login(context.Background(), "admin@dashmonster.com", "123456")
	require.NoError(t, err)

	user.IsActive = false
	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	requireDomainError(t, err, "IDENTITY_INACTIVE")
}

func TestLogout(t *testing.T) {
	users := newFakeUserRepo(activeUser(t))
	sessions := newFakeSessionRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, SessionRepo: sessions})

	_, pair, err := svc.Login(context.Background(), "admin@dashmonster.com", "123456")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	require.Empty(t, sessions.sessions)

	// Malformed tokens are treated as already logged out.
	require.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
}
