package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/config"
	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/repository"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// TokenPair bundles the access/refresh tokens issued on login and refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService coordinates login, refresh and logout flows.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokenMgr *auth.TokenManager
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		sessions: deps.SessionRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth),
	}
}

// TokenManager exposes the codec for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

var errBadCredentials = apperrors.NewUnauthorized("CREDENTIALS_INVALID", "Credenciais inválidas")

// Login authenticates by email and password. Inactive users are rejected
// with the same message as wrong credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, errBadCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, errBadCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, nil, err
	}
	now := time.Now()
	user.LastLogin = &now

	return user, pair, nil
}

// Refresh rotates a refresh session: the presented token is revoked and a
// fresh pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	claims, err := s.tokenMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, apperrors.NewUnauthorized("TOKEN_INVALID", "Token expirado ou malformado")
	}

	valid, err := s.sessions.Valid(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !valid {
		return nil, nil, apperrors.NewUnauthorized("SESSION_REVOKED", "Sessão expirada, faça login novamente")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("IDENTITY_INACTIVE", "Usuário não encontrado ou inativo")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewUnauthorized("IDENTITY_INACTIVE", "Usuário não encontrado ou inativo")
	}

	if err := s.sessions.Revoke(ctx, claims.UserID, claims.SessionID); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the refresh session. A malformed token is treated as
// already logged out.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.UserID, claims.SessionID)
}

// Me loads the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, accessExp, err := s.tokenMgr.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	refreshToken, refreshExp, err := s.tokenMgr.GenerateRefreshToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Store(ctx, user.ID, sessionID, s.tokenMgr.RefreshTTL()); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}
