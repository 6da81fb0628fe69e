package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

const claimsKey = "auth_claims"

// CredentialStatus is the minimal identity projection the verifier needs.
type CredentialStatus struct {
	ID       string
	IsActive bool
}

// IdentityStore resolves the acting identity during authentication. It must
// return pgx.ErrNoRows when the identity does not exist.
type IdentityStore interface {
	CredentialStatus(ctx context.Context, id string) (*CredentialStatus, error)
}

// Middleware validates bearer tokens and attaches claims to the request.
type Middleware struct {
	tokens     *TokenManager
	identities IdentityStore
}

// NewMiddleware constructs the credential verifier.
func NewMiddleware(tokens *TokenManager, identities IdentityStore) *Middleware {
	return &Middleware{tokens: tokens, identities: identities}
}

// Handle enforces authentication for protected routes. A structurally valid
// token is still rejected when the identity no longer exists or was
// deactivated.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return apperrors.NewUnauthorized("TOKEN_MISSING", "Token de acesso é obrigatório")
	}

	claims, err := m.tokens.ParseAccessToken(strings.TrimSpace(authHeader[len("Bearer "):]))
	if err != nil {
		return apperrors.NewUnauthorized("TOKEN_INVALID", "Token expirado ou malformado")
	}

	status, err := m.identities.CredentialStatus(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("IDENTITY_INACTIVE", "Usuário não encontrado ou inativo")
		}
		return apperrors.NewInternalError(err)
	}
	if !status.IsActive {
		return apperrors.NewUnauthorized("IDENTITY_INACTIVE", "Usuário não encontrado ou inativo")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified claims attached by Handle.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
